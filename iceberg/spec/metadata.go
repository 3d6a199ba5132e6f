package spec

import "github.com/TFMV/icecore/pkg/errors"

// FormatVersion is the on-wire Iceberg table format version.
type FormatVersion int32

const (
	FormatVersionV1 FormatVersion = 1
	FormatVersionV2 FormatVersion = 2
)

// TableMetadata is the durable root of an Iceberg table (spec.md §3).
type TableMetadata struct {
	FormatVersion      FormatVersion
	Location           string
	LastSequenceNumber int64
	CurrentSnapshotID  *int64

	Snapshots map[int64]*Snapshot
	Refs      map[string]*SnapshotReference

	Schemas         []*Schema
	CurrentSchemaID int

	PartitionSpecs []*PartitionSpec
	DefaultSpecID  int

	Properties map[string]string
}

// DefaultBranch is the name of the branch operations use when the caller
// doesn't specify one (spec.md §4.H).
const DefaultBranch = "main"

func branchName(branch string) string {
	if branch == "" {
		return DefaultBranch
	}
	return branch
}

// CurrentSchema returns the table's active schema.
func (m *TableMetadata) CurrentSchema() (*Schema, error) {
	for _, s := range m.Schemas {
		if s.SchemaID == m.CurrentSchemaID {
			return s, nil
		}
	}
	return nil, errors.Newf(errors.NotFound, "table metadata has no schema with id %d", m.CurrentSchemaID)
}

// DefaultPartitionSpec returns the table's active partition spec.
func (m *TableMetadata) DefaultPartitionSpec() (*PartitionSpec, error) {
	for _, p := range m.PartitionSpecs {
		if p.SpecID == m.DefaultSpecID {
			return p, nil
		}
	}
	return nil, errors.Newf(errors.NotFound, "table metadata has no partition spec with id %d", m.DefaultSpecID)
}

// CurrentSnapshot returns the snapshot a branch currently points at, or nil
// if the branch has no snapshot yet (a fresh table). An unknown branch name
// is also reported as "no snapshot", matching the Rust original's
// Option-returning current_snapshot.
func (m *TableMetadata) CurrentSnapshot(branch string) (*Snapshot, error) {
	ref, ok := m.Refs[branchName(branch)]
	if !ok {
		return nil, nil
	}
	snap, ok := m.Snapshots[ref.SnapshotID]
	if !ok {
		return nil, errors.Newf(errors.NotFound, "ref %q points at missing snapshot %d", branchName(branch), ref.SnapshotID)
	}
	return snap, nil
}

// SnapshotIDs returns every snapshot id currently tracked, used by Rewrite
// to build its RemoveSnapshots update (spec.md §4.G).
func (m *TableMetadata) SnapshotIDs() []int64 {
	ids := make([]int64, 0, len(m.Snapshots))
	for id := range m.Snapshots {
		ids = append(ids, id)
	}
	return ids
}
