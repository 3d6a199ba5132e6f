package spec

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/TFMV/icecore/pkg/errors"
)

// Operation is the high-level kind of change a snapshot's summary records.
type Operation string

const (
	OperationAppend    Operation = "append"
	OperationReplace   Operation = "replace"
	OperationOverwrite Operation = "overwrite"
	OperationDelete    Operation = "delete"
)

// Summary is a snapshot's operation tag plus freeform metadata.
type Summary struct {
	Operation Operation
	Other     map[string]string
}

// SnapshotRetention describes how long a ref should be kept; enforcement
// (expiry) is out of scope, but the shape is carried so SetSnapshotRef and
// Append's ref update can populate a default (spec.md §4.G step 10).
type SnapshotRetention struct {
	Type               string // "branch" or "tag"
	MinSnapshotsToKeep *int32
	MaxSnapshotAgeMs   *int64
	MaxRefAgeMs        *int64
}

// DefaultRetention is the zero-ish retention policy a new branch ref gets.
func DefaultRetention() SnapshotRetention {
	return SnapshotRetention{Type: "branch"}
}

// SnapshotReference is a named mutable pointer to a snapshot id.
type SnapshotReference struct {
	SnapshotID int64
	Retention  SnapshotRetention
}

// Snapshot is an immutable named point in a table's history (spec.md §3).
type Snapshot struct {
	SnapshotID       int64
	ParentSnapshotID *int64
	SequenceNumber   int64
	TimestampMs      int64
	ManifestList     string
	SchemaID         *int
	Summary          Summary
}

// GenerateSnapshotID returns a random, effectively-unique 63-bit integer
// (spec.md §9: "assumed collision-free within a table; catalogs that
// enforce uniqueness must signal collisions as requirement violations").
func GenerateSnapshotID() (int64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, errors.Wrap(errors.External, "failed to generate snapshot id", err)
	}
	id := int64(binary.BigEndian.Uint64(buf[:]) & (1<<63 - 1))
	return id, nil
}
