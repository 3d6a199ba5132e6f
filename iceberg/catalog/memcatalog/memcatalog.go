// Package memcatalog is an in-memory catalog.Catalog reference
// implementation: full optimistic-concurrency semantics with no network
// or disk I/O, for tests and single-process use.
package memcatalog

import (
	"context"
	"sync"

	"github.com/TFMV/icecore/iceberg/catalog"
	"github.com/TFMV/icecore/iceberg/objectstore"
	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/TFMV/icecore/pkg/errors"
)

// Catalog is a goroutine-safe in-memory catalog.Catalog.
type Catalog struct {
	store objectstore.Store

	mu     sync.Mutex
	tables map[string]*spec.TableMetadata
}

// New returns an empty Catalog backed by store for manifest/metadata
// bytes.
func New(store objectstore.Store) *Catalog {
	return &Catalog{store: store, tables: make(map[string]*spec.TableMetadata)}
}

// CreateTable registers a brand-new table under identifier. It is an
// error to call this for an identifier that already exists.
func (c *Catalog) CreateTable(identifier string, metadata *spec.TableMetadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.tables[identifier]; exists {
		return errors.Newf(errors.Conflict, "table %q already exists", identifier)
	}
	c.tables[identifier] = metadata
	return nil
}

func (c *Catalog) LoadTable(_ context.Context, identifier string) (*spec.TableMetadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.tables[identifier]
	if !ok {
		return nil, errors.Newf(errors.NotFound, "table %q not found", identifier)
	}
	return cloneMetadata(m), nil
}

// Commit checks every requirement against the table's current in-memory
// metadata, and only on a full pass applies every update and swaps it in
// — the single atomic step spec.md §4.H builds its retry loop around.
func (c *Catalog) Commit(_ context.Context, identifier string, requirements []catalog.Requirement, updates []catalog.Update) (*spec.TableMetadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.tables[identifier]
	if !ok {
		return nil, errors.Newf(errors.NotFound, "table %q not found", identifier)
	}

	for _, req := range requirements {
		if ok, msg := req.Check(current); !ok {
			return nil, errors.Newf(errors.Conflict, "commit requirement failed for table %q: %s", identifier, msg)
		}
	}

	next := cloneMetadata(current)
	for _, u := range updates {
		if err := u.Apply(next); err != nil {
			return nil, errors.Wrapf(errors.Internal, err, "applying update to table %q", identifier)
		}
	}

	c.tables[identifier] = next
	return cloneMetadata(next), nil
}

func (c *Catalog) ObjectStore() objectstore.Store {
	return c.store
}

func cloneMetadata(m *spec.TableMetadata) *spec.TableMetadata {
	clone := *m

	clone.Snapshots = make(map[int64]*spec.Snapshot, len(m.Snapshots))
	for id, s := range m.Snapshots {
		clone.Snapshots[id] = s
	}

	clone.Refs = make(map[string]*spec.SnapshotReference, len(m.Refs))
	for name, ref := range m.Refs {
		clone.Refs[name] = ref
	}

	clone.Schemas = make([]*spec.Schema, len(m.Schemas))
	copy(clone.Schemas, m.Schemas)

	clone.PartitionSpecs = make([]*spec.PartitionSpec, len(m.PartitionSpecs))
	copy(clone.PartitionSpecs, m.PartitionSpecs)

	clone.Properties = make(map[string]string, len(m.Properties))
	for k, v := range m.Properties {
		clone.Properties[k] = v
	}

	return &clone
}
