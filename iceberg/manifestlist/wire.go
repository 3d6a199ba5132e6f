package manifestlist

type wireFieldSummary struct {
	ContainsNull bool   `avro:"contains_null"`
	ContainsNaN  *bool  `avro:"contains_nan"`
	LowerBound   []byte `avro:"lower_bound"`
	UpperBound   []byte `avro:"upper_bound"`
}

type wireManifestFileV1 struct {
	ManifestPath       string             `avro:"manifest_path"`
	ManifestLength     int64              `avro:"manifest_length"`
	PartitionSpecID    int32              `avro:"partition_spec_id"`
	AddedSnapshotID    int64              `avro:"added_snapshot_id"`
	AddedFilesCount    *int32             `avro:"added_files_count"`
	ExistingFilesCount *int32             `avro:"existing_files_count"`
	DeletedFilesCount  *int32             `avro:"deleted_files_count"`
	AddedRowsCount     *int64             `avro:"added_rows_count"`
	ExistingRowsCount  *int64             `avro:"existing_rows_count"`
	DeletedRowsCount   *int64             `avro:"deleted_rows_count"`
	Partitions         []wireFieldSummary `avro:"partitions"`
}

type wireManifestFileV2 struct {
	Content            int32              `avro:"content"`
	SequenceNumber     int64              `avro:"sequence_number"`
	MinSequenceNumber  int64              `avro:"min_sequence_number"`
	ManifestPath       string             `avro:"manifest_path"`
	ManifestLength     int64              `avro:"manifest_length"`
	PartitionSpecID    int32              `avro:"partition_spec_id"`
	AddedSnapshotID    int64              `avro:"added_snapshot_id"`
	AddedFilesCount    *int32             `avro:"added_files_count"`
	ExistingFilesCount *int32             `avro:"existing_files_count"`
	DeletedFilesCount  *int32             `avro:"deleted_files_count"`
	AddedRowsCount     *int64             `avro:"added_rows_count"`
	ExistingRowsCount  *int64             `avro:"existing_rows_count"`
	DeletedRowsCount   *int64             `avro:"deleted_rows_count"`
	Partitions         []wireFieldSummary `avro:"partitions"`
}
