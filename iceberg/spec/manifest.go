package spec

// Status is a manifest entry's lifecycle state relative to the snapshot
// that introduced the enclosing manifest.
type Status int32

const (
	StatusExisting Status = iota
	StatusAdded
	StatusDeleted
)

// ManifestEntry is one data-file (or delete-file) entry inside a manifest
// file (spec.md §3).
type ManifestEntry struct {
	Status Status

	// SnapshotID and SequenceNumber may be nil in the V2 wire format, in
	// which case the Reader inherits them from the enclosing
	// ManifestListEntry at read time (spec.md §4.B, §9).
	SnapshotID     *int64
	SequenceNumber *int64

	FileSequenceNumber *int64
	DataFile           DataFile
}

// Inherit fills in SnapshotID/SequenceNumber from the enclosing
// ManifestListEntry if this entry didn't carry its own (V2 inheritance,
// spec.md §9) — a read-time substitution, never a mutation of stored bytes.
func (e *ManifestEntry) Inherit(list *ManifestListEntry) {
	if e.SnapshotID == nil {
		id := list.AddedSnapshotID
		e.SnapshotID = &id
	}
	if e.SequenceNumber == nil {
		sn := list.SequenceNumber
		e.SequenceNumber = &sn
	}
	if e.FileSequenceNumber == nil {
		sn := list.SequenceNumber
		e.FileSequenceNumber = &sn
	}
}
