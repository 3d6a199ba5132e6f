package manifest_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/icecore/iceberg/manifest"
	"github.com/TFMV/icecore/iceberg/spec"
)

func testSchema() *spec.Schema {
	return &spec.Schema{
		SchemaID: 0,
		Fields: []spec.SchemaField{
			{ID: 1, Name: "region", Type: spec.TypeString, Required: false},
			{ID: 2, Name: "year", Type: spec.TypeInt32, Required: true},
		},
	}
}

func testPartitionSpec() *spec.PartitionSpec {
	return &spec.PartitionSpec{
		SpecID: 0,
		Fields: []spec.PartitionField{
			{SourceID: 1, FieldID: 1000, Name: "region", Transform: "identity"},
			{SourceID: 2, FieldID: 1001, Name: "year", Transform: "identity"},
		},
	}
}

func testDataFile(region string, year int32, records int64) spec.DataFile {
	return spec.DataFile{
		Content:  spec.ContentData,
		FilePath: "s3://bucket/data/" + region + ".parquet",
		FileFormat: "PARQUET",
		Partition: spec.Struct{
			"region": spec.StringValue(region),
			"year":   spec.Int32Value(year),
		},
		RecordCount:     records,
		FileSizeInBytes: records * 128,
	}
}

func TestWriterAppendAndReaderRoundTripV2(t *testing.T) {
	w, err := manifest.New(testPartitionSpec(), testSchema(), spec.FormatVersionV2, 100, 7)
	require.NoError(t, err)

	require.NoError(t, w.Append(spec.ManifestEntry{
		Status:   spec.StatusAdded,
		DataFile: testDataFile("EU", 2024, 10),
	}))
	require.NoError(t, w.Append(spec.ManifestEntry{
		Status:   spec.StatusAdded,
		DataFile: testDataFile("US", 2024, 20),
	}))

	data, listEntry, err := w.Finish()
	require.NoError(t, err)
	assert.Equal(t, int32(2), *listEntry.AddedFilesCount)
	assert.Equal(t, int64(30), *listEntry.AddedRowsCount)
	require.Len(t, listEntry.Partitions, 2)

	reader, err := manifest.NewReader(bytes.NewReader(data), testPartitionSpec(), testSchema(), spec.FormatVersionV2)
	require.NoError(t, err)
	reader.WithManifestListEntry(listEntry)

	entries, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(100), *entries[0].SnapshotID)
	assert.Equal(t, int64(7), *entries[0].SequenceNumber)
	assert.Equal(t, "EU", entries[0].DataFile.Partition["region"].Str)
	assert.Equal(t, int32(2024), entries[0].DataFile.Partition["year"].I32)
}

func TestWriterAppendV1HasNoSequenceNumbers(t *testing.T) {
	w, err := manifest.New(testPartitionSpec(), testSchema(), spec.FormatVersionV1, 1, 0)
	require.NoError(t, err)
	require.NoError(t, w.Append(spec.ManifestEntry{
		Status:   spec.StatusAdded,
		DataFile: testDataFile("EU", 2023, 5),
	}))
	data, _, err := w.Finish()
	require.NoError(t, err)

	reader, err := manifest.NewReader(bytes.NewReader(data), testPartitionSpec(), testSchema(), spec.FormatVersionV1)
	require.NoError(t, err)
	entry, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1), *entry.SnapshotID)
	assert.Nil(t, entry.SequenceNumber)

	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)
}

func TestFromExistingReAppendsAsExisting(t *testing.T) {
	w, err := manifest.New(testPartitionSpec(), testSchema(), spec.FormatVersionV2, 1, 1)
	require.NoError(t, err)
	require.NoError(t, w.Append(spec.ManifestEntry{Status: spec.StatusAdded, DataFile: testDataFile("EU", 2024, 10)}))
	data, _, err := w.Finish()
	require.NoError(t, err)

	extended, err := manifest.FromExisting(bytes.NewReader(data), testPartitionSpec(), testSchema(), spec.FormatVersionV2, 2, 2)
	require.NoError(t, err)
	require.NoError(t, extended.Append(spec.ManifestEntry{Status: spec.StatusAdded, DataFile: testDataFile("US", 2024, 20)}))

	_, listEntry, err := extended.Finish()
	require.NoError(t, err)
	assert.Equal(t, int32(1), *listEntry.AddedFilesCount)
	assert.Equal(t, int32(1), *listEntry.ExistingFilesCount)
}

func TestWriterBoundsTrackPartitionRectangle(t *testing.T) {
	w, err := manifest.New(testPartitionSpec(), testSchema(), spec.FormatVersionV2, 1, 1)
	require.NoError(t, err)
	require.NoError(t, w.Append(spec.ManifestEntry{Status: spec.StatusAdded, DataFile: testDataFile("EU", 2020, 1)}))
	require.NoError(t, w.Append(spec.ManifestEntry{Status: spec.StatusAdded, DataFile: testDataFile("US", 2024, 1)}))

	bounds := w.Bounds()
	require.NotNil(t, bounds)
	assert.Equal(t, int32(2020), bounds.Min[1].I32)
	assert.Equal(t, int32(2024), bounds.Max[1].I32)
}
