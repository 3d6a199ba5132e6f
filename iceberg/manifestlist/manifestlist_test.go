package manifestlist_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/icecore/iceberg/manifestlist"
	"github.com/TFMV/icecore/iceberg/spec"
)

func int32p(v int32) *int32 { return &v }
func int64p(v int64) *int64 { return &v }

func TestWriterReaderRoundTripV2(t *testing.T) {
	w, err := manifestlist.New(spec.FormatVersionV2)
	require.NoError(t, err)

	lower := spec.StringValue("EU")
	upper := spec.StringValue("US")
	require.NoError(t, w.Append(spec.ManifestListEntry{
		ManifestPath:      "s3://bucket/meta/m1.avro",
		ManifestLength:    123,
		PartitionSpecID:   0,
		Content:           spec.ManifestContentData,
		SequenceNumber:    5,
		MinSequenceNumber: 5,
		AddedSnapshotID:   42,
		AddedFilesCount:   int32p(3),
		AddedRowsCount:    int64p(300),
		Partitions: []spec.FieldSummary{
			{ContainsNull: false, LowerBound: &lower, UpperBound: &upper},
		},
	}))
	assert.Equal(t, 1, w.Count())

	data, err := w.Finish()
	require.NoError(t, err)

	reader, err := manifestlist.NewReader(bytes.NewReader(data), spec.FormatVersionV2, []spec.TypeID{spec.TypeString})
	require.NoError(t, err)
	entries, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "s3://bucket/meta/m1.avro", entries[0].ManifestPath)
	assert.Equal(t, int64(5), entries[0].SequenceNumber)
	require.Len(t, entries[0].Partitions, 1)
	assert.Equal(t, "EU", entries[0].Partitions[0].LowerBound.Str)
	assert.Equal(t, "US", entries[0].Partitions[0].UpperBound.Str)
}

func TestWriterReaderRoundTripV1HasNoSequenceNumber(t *testing.T) {
	w, err := manifestlist.New(spec.FormatVersionV1)
	require.NoError(t, err)
	require.NoError(t, w.Append(spec.ManifestListEntry{
		ManifestPath:    "s3://bucket/meta/m1.avro",
		ManifestLength:  10,
		PartitionSpecID: 0,
		AddedSnapshotID: 1,
	}))
	data, err := w.Finish()
	require.NoError(t, err)

	reader, err := manifestlist.NewReader(bytes.NewReader(data), spec.FormatVersionV1, nil)
	require.NoError(t, err)
	entry, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(0), entry.SequenceNumber)

	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)
}
