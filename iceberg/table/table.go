// Package table is the client-side transaction engine (spec.md §4.G–§4.I):
// it turns a sequence of Operations into the Requirements/Updates a
// catalog.Catalog commits atomically, writing whatever manifest and
// manifest-list bytes an operation needs along the way. icebox's own
// server/metadata/iceberg package never got past placeholder append/
// compaction methods (see the SPEC_FULL.md introduction) — this package is the thing
// that package was building toward, generalized to every operation
// spec.md names and built on the catalog/manifest/manifestlist/selector/
// split packages rather than a DuckDB-backed in-process writer.
package table

import (
	"bytes"
	"context"

	"github.com/rs/zerolog"

	"github.com/TFMV/icecore/iceberg/catalog"
	"github.com/TFMV/icecore/iceberg/manifest"
	"github.com/TFMV/icecore/iceberg/manifestlist"
	"github.com/TFMV/icecore/iceberg/objectstore"
	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/TFMV/icecore/pkg/errors"
)

// Table is a handle on one catalog-managed table: its identifier, the
// catalog it is committed through, and the most recently loaded metadata
// (spec.md §4.I "Tabular").
type Table struct {
	identifier string
	cat        catalog.Catalog
	metadata   *spec.TableMetadata
	logger     zerolog.Logger
}

// Open loads a table's current metadata from cat and returns a handle on
// it.
func Open(ctx context.Context, identifier string, cat catalog.Catalog) (*Table, error) {
	metadata, err := cat.LoadTable(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return &Table{identifier: identifier, cat: cat, metadata: metadata, logger: zerolog.Nop()}, nil
}

// WithLogger attaches a logger for Debug/Warn diagnostics during
// transaction execution, returning the same Table for chaining. The zero
// value (zerolog.Nop()) is silent.
func (t *Table) WithLogger(logger zerolog.Logger) *Table {
	t.logger = logger
	return t
}

func (t *Table) Identifier() string                { return t.identifier }
func (t *Table) Metadata() *spec.TableMetadata      { return t.metadata }
func (t *Table) Catalog() catalog.Catalog           { return t.cat }
func (t *Table) ObjectStore() objectstore.Store     { return t.cat.ObjectStore() }

// Reload re-fetches metadata from the catalog, discarding the table's
// previous in-memory view (spec.md §4.I, called after a transaction
// commits or when the caller suspects a concurrent writer moved the ref).
func (t *Table) Reload(ctx context.Context) error {
	metadata, err := t.cat.LoadTable(ctx, t.identifier)
	if err != nil {
		return err
	}
	t.metadata = metadata
	return nil
}

// NewTransaction starts a Transaction against this table's branch (empty
// means spec.DefaultBranch).
func (t *Table) NewTransaction(branch string) *Transaction {
	return &Transaction{table: t, branch: branch}
}

// Manifests reads and returns the manifest-list entries for the snapshot
// branch currently points at, or nil if the branch has no snapshot yet.
func (t *Table) Manifests(ctx context.Context, branch string) ([]spec.ManifestListEntry, error) {
	snap, err := t.metadata.CurrentSnapshot(branch)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	return t.readManifestList(ctx, snap.ManifestList)
}

// Datafiles reads every manifest referenced by branch's current snapshot
// and returns the union of their entries. Entries with StatusDeleted are
// included — callers that only want live files should filter on Status.
func (t *Table) Datafiles(ctx context.Context, branch string) ([]spec.ManifestEntry, error) {
	manifests, err := t.Manifests(ctx, branch)
	if err != nil {
		return nil, err
	}

	schema, err := t.metadata.CurrentSchema()
	if err != nil {
		return nil, err
	}

	var out []spec.ManifestEntry
	for i := range manifests {
		m := manifests[i]
		partitionSpec, err := t.partitionSpecByID(int(m.PartitionSpecID))
		if err != nil {
			return nil, err
		}
		data, err := t.cat.ObjectStore().Get(ctx, m.ManifestPath)
		if err != nil {
			return nil, err
		}
		reader, err := manifest.NewReader(bytes.NewReader(data), partitionSpec, schema, t.metadata.FormatVersion)
		if err != nil {
			return nil, err
		}
		reader.WithManifestListEntry(&m)
		entries, err := reader.ReadAll()
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

// DatafilesContainsDelete reports whether any entry returned by Datafiles
// carries a delete-content data file, the check Rewrite uses to refuse
// collapsing lineage that still references delete files (out of scope
// per spec.md Non-goals — row-level deletes are not implemented, so a
// table that somehow has one is not safe for this engine to rewrite).
func (t *Table) DatafilesContainsDelete(ctx context.Context, branch string) (bool, error) {
	entries, err := t.Datafiles(ctx, branch)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.DataFile.Content != spec.ContentData {
			return true, nil
		}
	}
	return false, nil
}

func (t *Table) partitionSpecByID(id int) (*spec.PartitionSpec, error) {
	for _, p := range t.metadata.PartitionSpecs {
		if p.SpecID == id {
			return p, nil
		}
	}
	return nil, errors.Newf(errors.NotFound, "table metadata has no partition spec with id %d", id)
}

func (t *Table) readManifestList(ctx context.Context, path string) ([]spec.ManifestListEntry, error) {
	data, err := t.cat.ObjectStore().Get(ctx, path)
	if err != nil {
		return nil, err
	}
	partitionSpec, err := t.metadata.DefaultPartitionSpec()
	if err != nil {
		return nil, err
	}
	schema, err := t.metadata.CurrentSchema()
	if err != nil {
		return nil, err
	}
	types, err := partitionTypes(partitionSpec, schema)
	if err != nil {
		return nil, err
	}
	reader, err := manifestlist.NewReader(bytes.NewReader(data), t.metadata.FormatVersion, types)
	if err != nil {
		return nil, err
	}
	return reader.ReadAll()
}

func partitionTypes(partitionSpec *spec.PartitionSpec, schema *spec.Schema) ([]spec.TypeID, error) {
	types := make([]spec.TypeID, len(partitionSpec.Fields))
	for i, f := range partitionSpec.Fields {
		tid, err := f.SourceType(schema)
		if err != nil {
			return nil, err
		}
		types[i] = tid
	}
	return types, nil
}
