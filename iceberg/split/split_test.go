package split_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/TFMV/icecore/iceberg/split"
)

func entryWithYear(year int32) spec.ManifestEntry {
	return spec.ManifestEntry{
		Status: spec.StatusAdded,
		DataFile: spec.DataFile{
			FilePath:  "f.parquet",
			Partition: spec.Struct{"year": spec.Int32Value(year)},
		},
	}
}

func TestPlanZeroSplitsReturnsSingleGroup(t *testing.T) {
	entries := []spec.ManifestEntry{entryWithYear(2020), entryWithYear(2021)}
	groups, err := split.Plan(entries, []string{"year"}, 0)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], 2)
}

func TestPlanOneSplitDividesByMedian(t *testing.T) {
	entries := []spec.ManifestEntry{
		entryWithYear(2018), entryWithYear(2019), entryWithYear(2020), entryWithYear(2021),
	}
	groups, err := split.Plan(entries, []string{"year"}, 1)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 2)
	assert.Len(t, groups[1], 2)
	assert.Equal(t, int32(2018), groups[0][0].DataFile.Partition["year"].I32)
	assert.Equal(t, int32(2020), groups[1][0].DataFile.Partition["year"].I32)
}

func TestPlanTwoSplitsProducesFourGroups(t *testing.T) {
	entries := make([]spec.ManifestEntry, 8)
	for i := range entries {
		entries[i] = entryWithYear(int32(2000 + i))
	}
	groups, err := split.Plan(entries, []string{"year"}, 2)
	require.NoError(t, err)
	assert.Len(t, groups, 4)
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	assert.Equal(t, 8, total)
}

func TestPlanMissingPartitionColumnErrors(t *testing.T) {
	entries := []spec.ManifestEntry{entryWithYear(2020), entryWithYear(2021)}
	_, err := split.Plan(entries, []string{"region"}, 1)
	assert.Error(t, err)
}
