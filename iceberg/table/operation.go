package table

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/TFMV/icecore/iceberg/catalog"
	"github.com/TFMV/icecore/iceberg/manifest"
	"github.com/TFMV/icecore/iceberg/manifestlist"
	"github.com/TFMV/icecore/iceberg/rectangle"
	"github.com/TFMV/icecore/iceberg/selector"
	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/TFMV/icecore/iceberg/split"
	"github.com/TFMV/icecore/pkg/errors"
)

// Operation is one staged change within a Transaction (spec.md §4.G). It
// resolves against the table's current metadata for branch and, as a side
// effect, writes whatever new manifest/manifest-list bytes it needs to the
// object store. It returns the Requirements the eventual catalog.Commit
// must hold and the Updates it should apply if they do — it never commits
// anything itself.
type Operation interface {
	Execute(ctx context.Context, t *Table, branch string) ([]catalog.Requirement, []catalog.Update, error)
}

func resolveBranch(branch string) string {
	if branch == "" {
		return spec.DefaultBranch
	}
	return branch
}

func refRequirement(old *spec.Snapshot, branch string) catalog.Requirement {
	if old == nil {
		return catalog.AssertRefSnapshotID{Ref: branch, SnapshotID: nil}
	}
	id := old.SnapshotID
	return catalog.AssertRefSnapshotID{Ref: branch, SnapshotID: &id}
}

func parentSnapshotID(old *spec.Snapshot) *int64 {
	if old == nil {
		return nil
	}
	id := old.SnapshotID
	return &id
}

// Append adds Files as new, live data files to branch's current snapshot
// (spec.md §4.G). It is the operation that exercises the manifest
// selector and split planner: rather than always writing a brand-new
// manifest, it extends whichever existing manifest would grow least, and
// splits the result back apart once it grows past selector.Limit.
type Append struct {
	Files []spec.DataFile
}

func (a Append) Execute(ctx context.Context, t *Table, branch string) ([]catalog.Requirement, []catalog.Update, error) {
	branch = resolveBranch(branch)
	if len(a.Files) == 0 {
		return nil, nil, errors.New(errors.NotFound, "append requires at least one data file")
	}

	schema, err := t.metadata.CurrentSchema()
	if err != nil {
		return nil, nil, err
	}
	partitionSpec, err := t.metadata.DefaultPartitionSpec()
	if err != nil {
		return nil, nil, err
	}
	oldSnapshot, err := t.metadata.CurrentSnapshot(branch)
	if err != nil {
		return nil, nil, err
	}
	types, err := partitionTypes(partitionSpec, schema)
	if err != nil {
		return nil, nil, err
	}
	fieldNames := partitionSpec.FieldNames()

	incoming, err := boundingPartitionValues(a.Files, fieldNames)
	if err != nil {
		return nil, nil, err
	}

	snapshotID, err := spec.GenerateSnapshotID()
	if err != nil {
		return nil, nil, err
	}
	sequenceNumber := t.metadata.LastSequenceNumber + 1

	var oldManifests []spec.ManifestListEntry
	if oldSnapshot != nil {
		oldManifests, err = t.readManifestList(ctx, oldSnapshot.ManifestList)
		if err != nil {
			return nil, nil, err
		}
	}

	mlw, err := manifestlist.New(t.metadata.FormatVersion)
	if err != nil {
		return nil, nil, err
	}

	elected, fileCount, err := selector.SelectAndForward(oldManifests, partitionSpec.Fields, incoming, types, func(m spec.ManifestListEntry) error {
		return mlw.Append(m)
	})
	if err != nil {
		return nil, nil, err
	}

	var targetAdded int32
	if elected != nil && elected.AddedFilesCount != nil {
		targetAdded = *elected.AddedFilesCount
	}
	newFileCount := targetAdded + int32(len(a.Files))
	limit := selector.Limit(fileCount + int32(len(a.Files)))
	nSplits := selector.NSplits(newFileCount, limit)

	t.logger.Debug().
		Int32("new_file_count", newFileCount).
		Int32("limit", limit).
		Int("n_splits", nSplits).
		Msg("append: computed manifest split plan")

	added := make([]spec.ManifestEntry, len(a.Files))
	for i, f := range a.Files {
		added[i] = spec.ManifestEntry{Status: spec.StatusAdded, DataFile: f}
	}

	id := uuid.New()

	if nSplits == 0 {
		var mw *manifest.Writer
		if elected != nil {
			data, err := t.cat.ObjectStore().Get(ctx, elected.ManifestPath)
			if err != nil {
				return nil, nil, err
			}
			mw, err = manifest.FromExisting(bytes.NewReader(data), partitionSpec, schema, t.metadata.FormatVersion, snapshotID, sequenceNumber)
			if err != nil {
				return nil, nil, err
			}
		} else {
			mw, err = manifest.New(partitionSpec, schema, t.metadata.FormatVersion, snapshotID, sequenceNumber)
			if err != nil {
				return nil, nil, err
			}
		}
		for _, e := range added {
			if err := mw.Append(e); err != nil {
				return nil, nil, err
			}
		}
		if err := writeManifest(ctx, t, mlw, mw, id, 0); err != nil {
			return nil, nil, err
		}
	} else {
		var existing []spec.ManifestEntry
		if elected != nil {
			data, err := t.cat.ObjectStore().Get(ctx, elected.ManifestPath)
			if err != nil {
				return nil, nil, err
			}
			reader, err := manifest.NewReader(bytes.NewReader(data), partitionSpec, schema, t.metadata.FormatVersion)
			if err != nil {
				return nil, nil, err
			}
			reader.WithManifestListEntry(elected)
			existing, err = reader.ReadAll()
			if err != nil {
				return nil, nil, err
			}
			for i := range existing {
				existing[i].Status = spec.StatusExisting
			}
		}

		all := append(existing, added...)
		groups, err := split.Plan(all, fieldNames, nSplits)
		if err != nil {
			return nil, nil, err
		}
		for i, group := range groups {
			mw, err := manifest.New(partitionSpec, schema, t.metadata.FormatVersion, snapshotID, sequenceNumber)
			if err != nil {
				return nil, nil, err
			}
			for _, e := range group {
				if err := mw.Append(e); err != nil {
					return nil, nil, err
				}
			}
			if err := writeManifest(ctx, t, mlw, mw, id, i); err != nil {
				return nil, nil, err
			}
		}
	}

	manifestListBytes, err := mlw.Finish()
	if err != nil {
		return nil, nil, err
	}
	listPath := manifestListPath(t.metadata.Location, snapshotID, id)
	if err := t.cat.ObjectStore().Put(ctx, listPath, manifestListBytes); err != nil {
		return nil, nil, err
	}

	schemaID := schema.SchemaID
	snap := &spec.Snapshot{
		SnapshotID:       snapshotID,
		ParentSnapshotID: parentSnapshotID(oldSnapshot),
		SequenceNumber:   sequenceNumber,
		TimestampMs:      time.Now().UnixMilli(),
		ManifestList:     listPath,
		SchemaID:         &schemaID,
		Summary:          spec.Summary{Operation: spec.OperationAppend},
	}

	requirements := []catalog.Requirement{refRequirement(oldSnapshot, branch)}
	updates := []catalog.Update{
		catalog.AddSnapshot{Snapshot: snap},
		catalog.SetSnapshotRef{Ref: branch, SnapshotID: snapshotID, Retention: spec.DefaultRetention()},
	}
	return requirements, updates, nil
}

// writeManifest finishes mw, uploads its bytes to their final path, and
// folds the resulting ManifestListEntry into mlw.
func writeManifest(ctx context.Context, t *Table, mlw *manifestlist.Writer, mw *manifest.Writer, id uuid.UUID, index int) error {
	data, entry, err := mw.Finish()
	if err != nil {
		return err
	}
	path := manifestPath(t.metadata.Location, id, index)
	if err := t.cat.ObjectStore().Put(ctx, path, data); err != nil {
		return err
	}
	entry.ManifestPath = path
	entry.ManifestLength = int64(len(data))
	return mlw.Append(*entry)
}

// boundingPartitionValues folds every file's partition tuple into one
// rectangle (spec.md §4.G step 2), returning nil for an unpartitioned
// table (fieldNames empty).
func boundingPartitionValues(files []spec.DataFile, fieldNames []string) (*rectangle.Rectangle, error) {
	if len(fieldNames) == 0 {
		return nil, nil
	}
	var bounds *rectangle.Rectangle
	for _, f := range files {
		vec, err := f.Partition.ToVector(fieldNames)
		if err != nil {
			return nil, err
		}
		if bounds == nil {
			bounds = rectangle.FromPoint(vec)
			continue
		}
		if err := bounds.ExpandWithNode(vec); err != nil {
			return nil, err
		}
	}
	return bounds, nil
}

// Rewrite replaces every live data file on branch with Files in a single
// new snapshot and collapses prior lineage: the new snapshot has no
// parent and every previous snapshot is removed from the table's history
// (spec.md §4.G — the original implementation's compaction commit).
// Rewrite refuses to run over a history that contains any delete file,
// since row-level deletes are out of scope (spec.md Non-goals) and this
// engine has no way to account for them across the rewrite.
type Rewrite struct {
	Files []spec.DataFile
}

func (r Rewrite) Execute(ctx context.Context, t *Table, branch string) ([]catalog.Requirement, []catalog.Update, error) {
	branch = resolveBranch(branch)

	hasDelete, err := t.DatafilesContainsDelete(ctx, branch)
	if err != nil {
		return nil, nil, err
	}
	if hasDelete {
		return nil, nil, errors.New(errors.NotSupported, "rewrite over a history containing delete files is not supported")
	}

	schema, err := t.metadata.CurrentSchema()
	if err != nil {
		return nil, nil, err
	}
	partitionSpec, err := t.metadata.DefaultPartitionSpec()
	if err != nil {
		return nil, nil, err
	}
	oldSnapshot, err := t.metadata.CurrentSnapshot(branch)
	if err != nil {
		return nil, nil, err
	}

	snapshotID, err := spec.GenerateSnapshotID()
	if err != nil {
		return nil, nil, err
	}
	sequenceNumber := t.metadata.LastSequenceNumber + 1
	id := uuid.New()

	mw, err := manifest.New(partitionSpec, schema, t.metadata.FormatVersion, snapshotID, sequenceNumber)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range r.Files {
		if err := mw.Append(spec.ManifestEntry{Status: spec.StatusAdded, DataFile: f}); err != nil {
			return nil, nil, err
		}
	}

	mlw, err := manifestlist.New(t.metadata.FormatVersion)
	if err != nil {
		return nil, nil, err
	}
	if err := writeManifest(ctx, t, mlw, mw, id, 0); err != nil {
		return nil, nil, err
	}
	manifestListBytes, err := mlw.Finish()
	if err != nil {
		return nil, nil, err
	}
	listPath := manifestListPath(t.metadata.Location, snapshotID, id)
	if err := t.cat.ObjectStore().Put(ctx, listPath, manifestListBytes); err != nil {
		return nil, nil, err
	}

	schemaID := schema.SchemaID
	snap := &spec.Snapshot{
		SnapshotID:     snapshotID,
		SequenceNumber: sequenceNumber,
		TimestampMs:    time.Now().UnixMilli(),
		ManifestList:   listPath,
		SchemaID:       &schemaID,
		Summary:        spec.Summary{Operation: spec.OperationAppend},
	}

	requirements := []catalog.Requirement{refRequirement(oldSnapshot, branch)}
	updates := []catalog.Update{
		catalog.AddSnapshot{Snapshot: snap},
		catalog.SetSnapshotRef{Ref: branch, SnapshotID: snapshotID, Retention: spec.DefaultRetention()},
		catalog.RemoveSnapshots{SnapshotIDs: t.metadata.SnapshotIDs()},
	}
	return requirements, updates, nil
}

// UpdateProperties merges Updates into the table's property bag. It
// carries no ref requirement — properties are not part of any branch's
// lineage, so two concurrent property updates don't conflict with each
// other the way two concurrent Appends to the same branch would.
type UpdateProperties struct {
	Updates map[string]string
}

func (u UpdateProperties) Execute(ctx context.Context, t *Table, branch string) ([]catalog.Requirement, []catalog.Update, error) {
	if len(u.Updates) == 0 {
		return nil, nil, errors.New(errors.NotFound, "update properties requires at least one key/value pair")
	}
	return nil, []catalog.Update{catalog.SetProperties{Updates: u.Updates}}, nil
}

// SetSnapshotRef points Ref at SnapshotID, asserting the ref currently
// points at Expected (nil meaning it must not exist yet) before moving it
// — used to create a tag, fast-forward a branch, or cut a branch over to
// a snapshot produced elsewhere.
type SetSnapshotRef struct {
	Ref        string
	SnapshotID int64
	Expected   *int64
	Retention  spec.SnapshotRetention
}

func (s SetSnapshotRef) Execute(ctx context.Context, t *Table, branch string) ([]catalog.Requirement, []catalog.Update, error) {
	if _, ok := t.metadata.Snapshots[s.SnapshotID]; !ok {
		return nil, nil, errors.Newf(errors.NotFound, "table has no snapshot with id %d", s.SnapshotID)
	}
	retention := s.Retention
	if retention.Type == "" {
		retention = spec.DefaultRetention()
	}
	requirements := []catalog.Requirement{catalog.AssertRefSnapshotID{Ref: s.Ref, SnapshotID: s.Expected}}
	updates := []catalog.Update{catalog.SetSnapshotRef{Ref: s.Ref, SnapshotID: s.SnapshotID, Retention: retention}}
	return requirements, updates, nil
}

// AddSchema appends a new schema version, assigning it the next schema id
// and making it current. Field ids in Fields must already be resolved by
// the caller (spec.md §4.G leaves schema evolution's column-id assignment
// to the caller, not the operation).
type AddSchema struct {
	Fields []spec.SchemaField
}

func (a AddSchema) Execute(ctx context.Context, t *Table, branch string) ([]catalog.Requirement, []catalog.Update, error) {
	if len(a.Fields) == 0 {
		return nil, nil, errors.New(errors.NotFound, "add schema requires at least one field")
	}
	nextID := 0
	for _, s := range t.metadata.Schemas {
		if s.SchemaID >= nextID {
			nextID = s.SchemaID + 1
		}
	}
	newSchema := &spec.Schema{SchemaID: nextID, Fields: a.Fields}
	return nil, []catalog.Update{catalog.AddSchema{Schema: newSchema}}, nil
}

// SetDefaultSpec changes which partition spec new Append/Rewrite
// operations use going forward. SpecID must already exist in the table's
// metadata.
type SetDefaultSpec struct {
	SpecID int
}

func (s SetDefaultSpec) Execute(ctx context.Context, t *Table, branch string) ([]catalog.Requirement, []catalog.Update, error) {
	found := false
	for _, p := range t.metadata.PartitionSpecs {
		if p.SpecID == s.SpecID {
			found = true
			break
		}
	}
	if !found {
		return nil, nil, errors.Newf(errors.NotFound, "table has no partition spec with id %d", s.SpecID)
	}
	return nil, []catalog.Update{catalog.SetDefaultSpec{SpecID: s.SpecID}}, nil
}
