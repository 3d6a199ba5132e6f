package spec

// ManifestContent distinguishes a manifest that lists data files from one
// that lists delete files.
type ManifestContent int32

const (
	ManifestContentData ManifestContent = iota
	ManifestContentDeletes
)

// FieldSummary is the per-partition-column min/max/null/nan summary carried
// by a ManifestListEntry (spec.md §3).
type FieldSummary struct {
	ContainsNull bool
	ContainsNaN  *bool
	LowerBound   *Value
	UpperBound   *Value
}

// ManifestListEntry describes one manifest file within a manifest list
// (spec.md §3).
type ManifestListEntry struct {
	ManifestPath    string
	ManifestLength  int64
	PartitionSpecID int32
	Content         ManifestContent

	SequenceNumber    int64
	MinSequenceNumber int64
	AddedSnapshotID   int64

	AddedFilesCount    *int32
	ExistingFilesCount *int32
	DeletedFilesCount  *int32
	AddedRowsCount     *int64
	ExistingRowsCount  *int64
	DeletedRowsCount   *int64

	Partitions []FieldSummary
}
