// Package catalog is the optimistic-concurrency commit boundary (spec.md
// §4.H, §9): a Catalog loads a table's current metadata and atomically
// applies a transaction's Requirements (preconditions) and Updates
// (mutations), failing with a Conflict error when a precondition no
// longer holds so the caller can reload and retry.
package catalog

import (
	"context"

	"github.com/TFMV/icecore/iceberg/objectstore"
	"github.com/TFMV/icecore/iceberg/spec"
)

// Requirement is a precondition a Commit call asserts against the
// catalog's current view of a table before applying any Update. A failed
// Requirement means the table changed since the caller last loaded it.
type Requirement interface {
	// Check reports whether the requirement holds against the given
	// metadata, returning a descriptive message when it doesn't.
	Check(current *spec.TableMetadata) (bool, string)
}

// AssertRefSnapshotID requires that Ref currently points at SnapshotID —
// nil means the ref must not exist yet (spec.md §4.H, the precondition
// every Append/Rewrite/SetSnapshotRef commit carries for the branch it
// targets).
type AssertRefSnapshotID struct {
	Ref        string
	SnapshotID *int64
}

func (a AssertRefSnapshotID) Check(current *spec.TableMetadata) (bool, string) {
	ref, ok := current.Refs[a.Ref]
	switch {
	case !ok && a.SnapshotID == nil:
		return true, ""
	case !ok:
		return false, "ref " + a.Ref + " does not exist"
	case a.SnapshotID == nil:
		return false, "ref " + a.Ref + " already exists"
	case ref.SnapshotID != *a.SnapshotID:
		return false, "ref " + a.Ref + " has moved"
	default:
		return true, ""
	}
}

// Update is one mutation a Commit call applies to table metadata after
// every Requirement passes (spec.md §4.G, §4.H).
type Update interface {
	Apply(m *spec.TableMetadata) error
}

// AddSnapshot appends a new snapshot to the table's history without
// moving any ref.
type AddSnapshot struct {
	Snapshot *spec.Snapshot
}

func (u AddSnapshot) Apply(m *spec.TableMetadata) error {
	if m.Snapshots == nil {
		m.Snapshots = make(map[int64]*spec.Snapshot)
	}
	m.Snapshots[u.Snapshot.SnapshotID] = u.Snapshot
	if u.Snapshot.SequenceNumber > m.LastSequenceNumber {
		m.LastSequenceNumber = u.Snapshot.SequenceNumber
	}
	return nil
}

// RemoveSnapshots deletes snapshots by id, the cleanup half of Rewrite's
// lineage-collapsing commit (spec.md §4.G).
type RemoveSnapshots struct {
	SnapshotIDs []int64
}

func (u RemoveSnapshots) Apply(m *spec.TableMetadata) error {
	for _, id := range u.SnapshotIDs {
		delete(m.Snapshots, id)
	}
	return nil
}

// SetSnapshotRef points a branch or tag at a snapshot, creating the ref
// if it doesn't exist yet.
type SetSnapshotRef struct {
	Ref        string
	SnapshotID int64
	Retention  spec.SnapshotRetention
}

func (u SetSnapshotRef) Apply(m *spec.TableMetadata) error {
	if m.Refs == nil {
		m.Refs = make(map[string]*spec.SnapshotReference)
	}
	m.Refs[u.Ref] = &spec.SnapshotReference{SnapshotID: u.SnapshotID, Retention: u.Retention}
	if u.Ref == spec.DefaultBranch {
		id := u.SnapshotID
		m.CurrentSnapshotID = &id
	}
	return nil
}

// SetProperties merges key/value pairs into the table's property bag.
type SetProperties struct {
	Updates map[string]string
}

func (u SetProperties) Apply(m *spec.TableMetadata) error {
	if m.Properties == nil {
		m.Properties = make(map[string]string)
	}
	for k, v := range u.Updates {
		m.Properties[k] = v
	}
	return nil
}

// AddSchema appends a new schema version and makes it current.
type AddSchema struct {
	Schema *spec.Schema
}

func (u AddSchema) Apply(m *spec.TableMetadata) error {
	m.Schemas = append(m.Schemas, u.Schema)
	m.CurrentSchemaID = u.Schema.SchemaID
	return nil
}

// SetDefaultSpec changes which partition spec new writes use.
type SetDefaultSpec struct {
	SpecID int
}

func (u SetDefaultSpec) Apply(m *spec.TableMetadata) error {
	m.DefaultSpecID = u.SpecID
	return nil
}

// Catalog is the commit boundary every transaction goes through.
type Catalog interface {
	// LoadTable returns a table's current metadata, or a NotFound error if
	// no table is registered under identifier.
	LoadTable(ctx context.Context, identifier string) (*spec.TableMetadata, error)

	// Commit atomically checks every requirement against the table's
	// current metadata, applies every update if they all pass, and
	// returns the resulting metadata. A failed requirement returns a
	// Conflict error without applying any update.
	Commit(ctx context.Context, identifier string, requirements []Requirement, updates []Update) (*spec.TableMetadata, error)

	// ObjectStore returns the object store backing this catalog's
	// manifests and metadata files.
	ObjectStore() objectstore.Store
}
