// Package selector implements the manifest-selection heuristic (spec.md
// §4.E): given an existing manifest list and the bounding rectangle of an
// incoming batch of data files, pick the one manifest that should absorb
// the batch — the one whose bounding rectangle grows least by taking it
// on — rather than always appending a brand-new manifest to the list.
package selector

import (
	"math"

	"github.com/TFMV/icecore/iceberg/rectangle"
	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/TFMV/icecore/pkg/errors"
)

// MinDataFiles is the floor on a manifest's entry count before its growth
// is allowed to trigger a split (spec.md §4.F).
const MinDataFiles = 4

// Limit is the file-count threshold beyond which a manifest is split
// rather than grown further: MIN_DATAFILES + floor(sqrt(fileCount))
// (spec.md §4.F).
func Limit(fileCount int32) int32 {
	return MinDataFiles + int32(math.Sqrt(float64(fileCount)))
}

// NSplits computes how many times a manifest that grew to newFileCount
// entries against the given limit must be halved so each half falls back
// under it: floor(log2(newFileCount/limit)) + 1 (spec.md §4.F). Returns 0
// if no split is needed.
func NSplits(newFileCount, limit int32) int {
	if limit <= 0 || newFileCount <= limit {
		return 0
	}
	return int(math.Floor(math.Log2(float64(newFileCount)/float64(limit)))) + 1
}

// Select picks the index, within manifests, of the manifest that should
// absorb a new batch of data files whose combined bounding rectangle is
// incoming. Unpartitioned tables (no partition fields) have no rectangle
// to compare, so the cheapest manifest to extend is instead the one with
// the fewest rows already added (spec.md §4.E). Returns -1 with a
// NotFound error if manifests is empty — the caller should start a fresh
// manifest rather than call Select.
func Select(manifests []spec.ManifestListEntry, partitionFields []spec.PartitionField, incoming *rectangle.Rectangle, partitionTypes []spec.TypeID) (int, error) {
	if len(manifests) == 0 {
		return -1, errors.New(errors.NotFound, "manifest list is empty")
	}
	if len(partitionFields) == 0 {
		return selectUnpartitioned(manifests), nil
	}

	best := -1
	var bestCandidate *rectangle.Rectangle
	for i, m := range manifests {
		bounds, err := rectangle.FromSummary(m.Partitions, partitionTypes)
		if err != nil {
			return -1, err
		}
		candidate := bounds.Clone()
		if incoming != nil {
			if err := candidate.Expand(incoming); err != nil {
				return -1, err
			}
		}
		if best == -1 {
			best, bestCandidate = i, candidate
			continue
		}
		cmp, err := candidate.CmpWithPriority(bestCandidate)
		if err != nil {
			return -1, err
		}
		if cmp < 0 {
			best, bestCandidate = i, candidate
		}
	}
	return best, nil
}

// SelectAndForward runs Select over manifests and, in the same pass,
// accumulates a running file_count total across every observed entry's
// AddedFilesCount and streams every entry other than the elected one
// through forward — the "carry forward unselected entries into the new
// manifest list" half of spec.md §4.E. It returns the elected entry (nil
// if manifests is empty, which is not an error here: Append treats a
// fresh table's absent manifest list as "nothing to select, forward
// nothing, start a brand-new manifest") and the accumulated file_count.
func SelectAndForward(manifests []spec.ManifestListEntry, partitionFields []spec.PartitionField, incoming *rectangle.Rectangle, partitionTypes []spec.TypeID, forward func(spec.ManifestListEntry) error) (*spec.ManifestListEntry, int32, error) {
	if len(manifests) == 0 {
		return nil, 0, nil
	}

	idx, err := Select(manifests, partitionFields, incoming, partitionTypes)
	if err != nil {
		return nil, 0, err
	}

	var fileCount int32
	for i, m := range manifests {
		if m.AddedFilesCount != nil {
			fileCount += *m.AddedFilesCount
		}
		if i == idx {
			continue
		}
		if err := forward(m); err != nil {
			return nil, 0, err
		}
	}
	elected := manifests[idx]
	return &elected, fileCount, nil
}

func selectUnpartitioned(manifests []spec.ManifestListEntry) int {
	best := 0
	bestRows := int64(math.MaxInt64)
	for i, m := range manifests {
		var rows int64
		if m.AddedRowsCount != nil {
			rows = *m.AddedRowsCount
		}
		if rows < bestRows {
			best, bestRows = i, rows
		}
	}
	return best
}
