package table

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/TFMV/icecore/iceberg/objectstore"
	"github.com/TFMV/icecore/pkg/errors"
)

// ExpireSnapshots collects every manifest and manifest-list path reachable
// from the snapshots named in keepIDs and returns the set of paths
// belonging to every other known manifest/manifest-list — orphaned bytes
// a caller can hand to DeleteFiles (spec.md §8, expiry itself — choosing
// which snapshots to keep by age or count — is left to the caller).
func (t *Table) ExpireSnapshots(ctx context.Context, keepIDs []int64) ([]string, error) {
	keep := make(map[int64]bool, len(keepIDs))
	for _, id := range keepIDs {
		keep[id] = true
	}

	reachable := make(map[string]bool)
	for id := range keep {
		if snap, ok := t.metadata.Snapshots[id]; ok {
			manifests, err := t.readManifestList(ctx, snap.ManifestList)
			if err != nil {
				return nil, err
			}
			for _, m := range manifests {
				reachable[m.ManifestPath] = true
			}
		}
	}

	var orphaned []string
	for id, snap := range t.metadata.Snapshots {
		if keep[id] {
			continue
		}
		orphaned = append(orphaned, snap.ManifestList)
		manifests, err := t.readManifestList(ctx, snap.ManifestList)
		if err != nil {
			return nil, err
		}
		for _, m := range manifests {
			if !reachable[m.ManifestPath] {
				reachable[m.ManifestPath] = true
				orphaned = append(orphaned, m.ManifestPath)
			}
		}
	}
	return orphaned, nil
}

// DeleteFiles removes every path from store concurrently, using at most
// concurrency workers (at least 1), grounded on the same fixed-size
// worker-pool shape icebox's own metadata/iceberg package uses for
// background file processing. It fans every path's delete out and waits
// for all of them before returning, collecting every failure rather than
// stopping at the first.
func DeleteFiles(ctx context.Context, store objectstore.Store, paths []string, concurrency int, logger zerolog.Logger) error {
	if concurrency < 1 {
		concurrency = 1
	}

	jobs := make(chan string)
	errCh := make(chan error, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if err := store.Delete(ctx, path); err != nil {
					logger.Warn().Str("path", path).Err(err).Msg("gc: failed to delete orphaned file")
					errCh <- err
					continue
				}
				logger.Debug().Str("path", path).Msg("gc: deleted orphaned file")
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, p := range paths {
			select {
			case jobs <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(errCh)

	var failures int
	for err := range errCh {
		failures++
		_ = err
	}
	if failures > 0 {
		return errors.Newf(errors.External, "gc: failed to delete %d of %d orphaned files", failures, len(paths))
	}
	return ctx.Err()
}
