package memcatalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/icecore/iceberg/catalog"
	"github.com/TFMV/icecore/iceberg/catalog/memcatalog"
	"github.com/TFMV/icecore/iceberg/objectstore/memory"
	"github.com/TFMV/icecore/iceberg/spec"
	icerrors "github.com/TFMV/icecore/pkg/errors"
)

func freshMetadata() *spec.TableMetadata {
	return &spec.TableMetadata{
		FormatVersion: spec.FormatVersionV2,
		Location:      "s3://bucket/warehouse/t",
		Schemas: []*spec.Schema{
			{SchemaID: 0, Fields: []spec.SchemaField{{ID: 1, Name: "id", Type: spec.TypeInt64, Required: true}}},
		},
		CurrentSchemaID: 0,
		PartitionSpecs:  []*spec.PartitionSpec{{SpecID: 0}},
		DefaultSpecID:   0,
		Snapshots:       map[int64]*spec.Snapshot{},
		Refs:            map[string]*spec.SnapshotReference{},
		Properties:      map[string]string{},
	}
}

func TestCommitAppliesUpdatesWhenRequirementsHold(t *testing.T) {
	ctx := context.Background()
	cat := memcatalog.New(memory.New())
	require.NoError(t, cat.CreateTable("db.t", freshMetadata()))

	snap := &spec.Snapshot{SnapshotID: 1, SequenceNumber: 1, ManifestList: "s3://bucket/meta/snap-1.avro"}
	updated, err := cat.Commit(ctx, "db.t",
		[]catalog.Requirement{catalog.AssertRefSnapshotID{Ref: "main", SnapshotID: nil}},
		[]catalog.Update{
			catalog.AddSnapshot{Snapshot: snap},
			catalog.SetSnapshotRef{Ref: "main", SnapshotID: 1, Retention: spec.DefaultRetention()},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(1), *updated.CurrentSnapshotID)
	assert.Equal(t, int64(1), updated.Refs["main"].SnapshotID)
}

func TestCommitFailsOnStaleRefRequirement(t *testing.T) {
	ctx := context.Background()
	cat := memcatalog.New(memory.New())
	require.NoError(t, cat.CreateTable("db.t", freshMetadata()))

	snap1 := &spec.Snapshot{SnapshotID: 1, SequenceNumber: 1}
	_, err := cat.Commit(ctx, "db.t",
		[]catalog.Requirement{catalog.AssertRefSnapshotID{Ref: "main", SnapshotID: nil}},
		[]catalog.Update{catalog.AddSnapshot{Snapshot: snap1}, catalog.SetSnapshotRef{Ref: "main", SnapshotID: 1}},
	)
	require.NoError(t, err)

	// A second committer still believes main has no snapshot yet — stale.
	snap2 := &spec.Snapshot{SnapshotID: 2, SequenceNumber: 2}
	_, err = cat.Commit(ctx, "db.t",
		[]catalog.Requirement{catalog.AssertRefSnapshotID{Ref: "main", SnapshotID: nil}},
		[]catalog.Update{catalog.AddSnapshot{Snapshot: snap2}, catalog.SetSnapshotRef{Ref: "main", SnapshotID: 2}},
	)
	require.Error(t, err)
	assert.True(t, icerrors.Is(err, icerrors.Conflict))
}

func TestCommitUnknownTableIsNotFound(t *testing.T) {
	cat := memcatalog.New(memory.New())
	_, err := cat.Commit(context.Background(), "missing", nil, nil)
	require.Error(t, err)
	assert.True(t, icerrors.Is(err, icerrors.NotFound))
}

func TestCreateTableRejectsDuplicate(t *testing.T) {
	cat := memcatalog.New(memory.New())
	require.NoError(t, cat.CreateTable("db.t", freshMetadata()))
	err := cat.CreateTable("db.t", freshMetadata())
	assert.Error(t, err)
}
