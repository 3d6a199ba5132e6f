// Package objectstore is the storage abstraction manifests, manifest
// lists and table metadata files are read from and written to (spec.md
// §9). icebox's own server/storage/filesystem shows the shape — a small
// Get/Put/Delete surface over whatever backs it — generalized here to
// cover both a local/test fake and a real object store.
package objectstore

import "context"

// Store is the minimal interface the commit pipeline needs from
// persistent storage: write new metadata/manifest bytes, read them back,
// and delete files orphaned by GC (spec.md §8).
type Store interface {
	// Put writes data at path, overwriting anything already there.
	Put(ctx context.Context, path string, data []byte) error
	// Get reads the full contents of path.
	Get(ctx context.Context, path string) ([]byte, error)
	// Delete removes path. Deleting a path that doesn't exist is not an
	// error — GC treats it as already reclaimed.
	Delete(ctx context.Context, path string) error
}
