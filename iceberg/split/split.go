// Package split implements the manifest split planner (spec.md §4.F):
// once a manifest has grown past selector.Limit, it is recursively
// partitioned into 2^nSplits groups by repeatedly finding the widest
// partition dimension and dividing the entries at its median.
package split

import (
	"sort"

	"github.com/TFMV/icecore/iceberg/rectangle"
	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/TFMV/icecore/pkg/errors"
)

// Plan divides entries into 2^nSplits groups. nSplits <= 0 or a group of
// one or zero entries returns that group unsplit — there is nothing left
// to divide.
func Plan(entries []spec.ManifestEntry, fieldNames []string, nSplits int) ([][]spec.ManifestEntry, error) {
	if nSplits <= 0 || len(entries) <= 1 {
		return [][]spec.ManifestEntry{entries}, nil
	}
	if len(fieldNames) == 0 {
		return [][]spec.ManifestEntry{entries}, nil
	}

	bounds, err := boundingRectangle(entries, fieldNames)
	if err != nil {
		return nil, err
	}
	dim, err := bounds.WidestDimension()
	if err != nil {
		return nil, err
	}

	ordered, err := sortByDimension(entries, fieldNames[dim])
	if err != nil {
		return nil, err
	}

	mid := len(ordered) / 2
	left, right := ordered[:mid], ordered[mid:]

	leftGroups, err := Plan(left, fieldNames, nSplits-1)
	if err != nil {
		return nil, err
	}
	rightGroups, err := Plan(right, fieldNames, nSplits-1)
	if err != nil {
		return nil, err
	}
	return append(leftGroups, rightGroups...), nil
}

func boundingRectangle(entries []spec.ManifestEntry, fieldNames []string) (*rectangle.Rectangle, error) {
	vec, err := entries[0].DataFile.Partition.ToVector(fieldNames)
	if err != nil {
		return nil, err
	}
	r := rectangle.FromPoint(vec)
	for _, e := range entries[1:] {
		v, err := e.DataFile.Partition.ToVector(fieldNames)
		if err != nil {
			return nil, err
		}
		if err := r.ExpandWithNode(v); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// sortByDimension returns entries ordered by their value in the named
// partition column, stably (ties keep their relative order, so splits are
// deterministic given the same input).
func sortByDimension(entries []spec.ManifestEntry, fieldName string) ([]spec.ManifestEntry, error) {
	values := make([]spec.Value, len(entries))
	for i, e := range entries {
		v, ok := e.DataFile.Partition[fieldName]
		if !ok {
			return nil, errors.Newf(errors.NotFound, "data file missing partition value %q", fieldName)
		}
		values[i] = v
	}

	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	var sortErr error
	sort.SliceStable(idx, func(i, j int) bool {
		c, err := spec.Compare(values[idx[i]], values[idx[j]])
		if err != nil {
			sortErr = err
			return false
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, sortErr
	}

	out := make([]spec.ManifestEntry, len(entries))
	for i, id := range idx {
		out[i] = entries[id]
	}
	return out, nil
}
