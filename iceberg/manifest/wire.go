package manifest

// wireDataFileV2 mirrors the Avro record built by avro.ManifestEntrySchema
// for format version 2. Column-id-keyed maps (column_sizes, value_counts,
// ...) are carried as string keys on the wire — a simplification documented
// in DESIGN.md (iceberg/avro) against real Iceberg's id-keyed k/v array encoding —
// and translated to/from spec.DataFile's int-keyed maps in codec.go.
type wireDataFileV2 struct {
	Content           int32                  `avro:"content"`
	FilePath          string                 `avro:"file_path"`
	FileFormat        string                 `avro:"file_format"`
	Partition         map[string]interface{} `avro:"partition"`
	RecordCount       int64                  `avro:"record_count"`
	FileSizeInBytes   int64                  `avro:"file_size_in_bytes"`
	ColumnSizes       map[string]int64       `avro:"column_sizes"`
	ValueCounts       map[string]int64       `avro:"value_counts"`
	NullValueCounts   map[string]int64       `avro:"null_value_counts"`
	NaNValueCounts    map[string]int64       `avro:"nan_value_counts"`
	LowerBounds       map[string][]byte      `avro:"lower_bounds"`
	UpperBounds       map[string][]byte      `avro:"upper_bounds"`
	KeyMetadata       []byte                 `avro:"key_metadata"`
	SplitOffsets      []int64                `avro:"split_offsets"`
	EqualityIDs       []int32                `avro:"equality_ids"`
	SortOrderID       *int32                 `avro:"sort_order_id"`
}

// wireDataFileV1 is the format-1 equivalent: no content kind (V1 has no
// delete files) and no equality ids.
type wireDataFileV1 struct {
	FilePath        string                 `avro:"file_path"`
	FileFormat      string                 `avro:"file_format"`
	Partition       map[string]interface{} `avro:"partition"`
	RecordCount     int64                  `avro:"record_count"`
	FileSizeInBytes int64                  `avro:"file_size_in_bytes"`
	ColumnSizes     map[string]int64       `avro:"column_sizes"`
	ValueCounts     map[string]int64       `avro:"value_counts"`
	NullValueCounts map[string]int64       `avro:"null_value_counts"`
	NaNValueCounts  map[string]int64       `avro:"nan_value_counts"`
	LowerBounds     map[string][]byte      `avro:"lower_bounds"`
	UpperBounds     map[string][]byte      `avro:"upper_bounds"`
	KeyMetadata     []byte                 `avro:"key_metadata"`
	SplitOffsets    []int64                `avro:"split_offsets"`
	SortOrderID     *int32                 `avro:"sort_order_id"`
}

type wireEntryV2 struct {
	Status             int32          `avro:"status"`
	SnapshotID         *int64         `avro:"snapshot_id"`
	SequenceNumber     *int64         `avro:"sequence_number"`
	FileSequenceNumber *int64         `avro:"file_sequence_number"`
	DataFile           wireDataFileV2 `avro:"data_file"`
}

type wireEntryV1 struct {
	Status     int32          `avro:"status"`
	SnapshotID int64          `avro:"snapshot_id"`
	DataFile   wireDataFileV1 `avro:"data_file"`
}
