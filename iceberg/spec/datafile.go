package spec

// Content distinguishes a data file from the two delete-file kinds. Row-level
// deletes are out of scope (spec.md Non-goals) but the enum is carried in
// full since it appears on the wire for both DataFile.Content and
// ManifestListEntry.Content.
type Content int32

const (
	ContentData Content = iota
	ContentPositionDeletes
	ContentEqualityDeletes
)

// DataFile describes one data (or delete) file referenced by a manifest
// entry (spec.md §3).
type DataFile struct {
	Content         Content
	FilePath        string
	FileFormat      string
	Partition       Struct
	RecordCount     int64
	FileSizeInBytes int64
	ColumnSizes     map[int]int64
	ValueCounts     map[int]int64
	NullValueCounts map[int]int64
	NaNValueCounts  map[int]int64
	LowerBounds     map[int][]byte
	UpperBounds     map[int][]byte
	KeyMetadata     []byte
	SplitOffsets    []int64
	EqualityIDs     []int
	SortOrderID     *int32
}
