package table_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/icecore/iceberg/catalog/memcatalog"
	"github.com/TFMV/icecore/iceberg/manifest"
	"github.com/TFMV/icecore/iceberg/manifestlist"
	"github.com/TFMV/icecore/iceberg/objectstore/memory"
	"github.com/TFMV/icecore/iceberg/spec"
	"github.com/TFMV/icecore/iceberg/table"
	icerrors "github.com/TFMV/icecore/pkg/errors"
)

func baseSchema() *spec.Schema {
	return &spec.Schema{SchemaID: 0, Fields: []spec.SchemaField{
		{ID: 1, Name: "id", Type: spec.TypeInt64, Required: true},
		{ID: 2, Name: "year", Type: spec.TypeInt32, Required: true},
	}}
}

func basePartitionSpec() *spec.PartitionSpec {
	return &spec.PartitionSpec{SpecID: 0, Fields: []spec.PartitionField{
		{SourceID: 2, FieldID: 1000, Name: "year", Transform: "identity"},
	}}
}

func freshMetadata() *spec.TableMetadata {
	return &spec.TableMetadata{
		FormatVersion:   spec.FormatVersionV2,
		Location:        "mem://warehouse/t",
		Schemas:         []*spec.Schema{baseSchema()},
		CurrentSchemaID: 0,
		PartitionSpecs:  []*spec.PartitionSpec{basePartitionSpec()},
		DefaultSpecID:   0,
		Snapshots:       map[int64]*spec.Snapshot{},
		Refs:            map[string]*spec.SnapshotReference{},
		Properties:      map[string]string{},
	}
}

func dataFile(path string, year int32, records int64) spec.DataFile {
	return spec.DataFile{
		Content:         spec.ContentData,
		FilePath:        path,
		FileFormat:      "parquet",
		Partition:       spec.Struct{"year": spec.Int32Value(year)},
		RecordCount:     records,
		FileSizeInBytes: 1024,
	}
}

func newTestTable(t *testing.T, identifier string, metadata *spec.TableMetadata) *table.Table {
	t.Helper()
	cat := memcatalog.New(memory.New())
	require.NoError(t, cat.CreateTable(identifier, metadata))
	tbl, err := table.Open(context.Background(), identifier, cat)
	require.NoError(t, err)
	return tbl
}

func TestAppendFreshTableCreatesFirstSnapshot(t *testing.T) {
	ctx := context.Background()
	tbl := newTestTable(t, "db.t", freshMetadata())

	files := []spec.DataFile{
		dataFile("s3://t/data/a.parquet", 2024, 100),
		dataFile("s3://t/data/b.parquet", 2024, 50),
	}
	tx := tbl.NewTransaction("")
	tx.Stage(table.Append{Files: files})
	updated, err := tx.Commit(ctx)
	require.NoError(t, err)

	require.NotNil(t, updated.Metadata().CurrentSnapshotID)
	datafiles, err := updated.Datafiles(ctx, "")
	require.NoError(t, err)
	assert.Len(t, datafiles, 2)
}

func TestAppendExtendsExistingManifest(t *testing.T) {
	ctx := context.Background()
	tbl := newTestTable(t, "db.t", freshMetadata())

	tx := tbl.NewTransaction("")
	tx.Stage(table.Append{Files: []spec.DataFile{dataFile("s3://t/data/a.parquet", 2024, 10)}})
	tbl, err := tx.Commit(ctx)
	require.NoError(t, err)

	manifestsBefore, err := tbl.Manifests(ctx, "")
	require.NoError(t, err)
	require.Len(t, manifestsBefore, 1)

	tx2 := tbl.NewTransaction("")
	tx2.Stage(table.Append{Files: []spec.DataFile{dataFile("s3://t/data/b.parquet", 2024, 20)}})
	tbl, err = tx2.Commit(ctx)
	require.NoError(t, err)

	manifestsAfter, err := tbl.Manifests(ctx, "")
	require.NoError(t, err)
	require.Len(t, manifestsAfter, 1, "second append should extend the single existing manifest rather than add a new one")
	assert.Equal(t, int32(2), *manifestsAfter[0].AddedFilesCount)
}

func TestAppendDisjointPartitionExtendsBounds(t *testing.T) {
	ctx := context.Background()
	tbl := newTestTable(t, "db.t", freshMetadata())

	tx := tbl.NewTransaction("")
	tx.Stage(table.Append{Files: []spec.DataFile{dataFile("s3://t/data/a.parquet", 2020, 10)}})
	tbl, err := tx.Commit(ctx)
	require.NoError(t, err)

	tx2 := tbl.NewTransaction("")
	tx2.Stage(table.Append{Files: []spec.DataFile{dataFile("s3://t/data/b.parquet", 2030, 10)}})
	tbl, err = tx2.Commit(ctx)
	require.NoError(t, err)

	manifests, err := tbl.Manifests(ctx, "")
	require.NoError(t, err)
	require.Len(t, manifests, 1)
	lower := manifests[0].Partitions[0].LowerBound
	upper := manifests[0].Partitions[0].UpperBound
	assert.Equal(t, int32(2020), lower.I32)
	assert.Equal(t, int32(2030), upper.I32)
}

// seedManifestWithFiles writes a manifest file containing count StatusAdded
// entries and its corresponding manifest-list entry to store, wiring the
// result into metadata as the table's single existing snapshot on main.
func seedManifestWithFiles(t *testing.T, metadata *spec.TableMetadata, store interface {
	Put(ctx context.Context, path string, data []byte) error
}, count int) {
	t.Helper()
	ctx := context.Background()
	schema := baseSchema()
	partitionSpec := basePartitionSpec()

	mw, err := manifest.New(partitionSpec, schema, metadata.FormatVersion, 1, 1)
	require.NoError(t, err)
	for i := 0; i < count; i++ {
		f := dataFile("s3://t/data/seed.parquet", 2000+int32(i%20), 1)
		require.NoError(t, mw.Append(spec.ManifestEntry{Status: spec.StatusAdded, DataFile: f}))
	}
	data, entry, err := mw.Finish()
	require.NoError(t, err)
	entry.ManifestPath = "mem://warehouse/t/metadata/seed-m0.avro"
	entry.ManifestLength = int64(len(data))
	require.NoError(t, store.Put(ctx, entry.ManifestPath, data))

	mlw, err := manifestlist.New(metadata.FormatVersion)
	require.NoError(t, err)
	require.NoError(t, mlw.Append(*entry))
	listBytes, err := mlw.Finish()
	require.NoError(t, err)
	listPath := "mem://warehouse/t/metadata/snap-1-seed.avro"
	require.NoError(t, store.Put(ctx, listPath, listBytes))

	metadata.Snapshots[1] = &spec.Snapshot{SnapshotID: 1, SequenceNumber: 1, ManifestList: listPath}
	metadata.Refs["main"] = &spec.SnapshotReference{SnapshotID: 1, Retention: spec.DefaultRetention()}
	metadata.LastSequenceNumber = 1
}

func TestAppendTriggersManifestSplit(t *testing.T) {
	ctx := context.Background()
	metadata := freshMetadata()
	store := memory.New()
	seedManifestWithFiles(t, metadata, store, 60)

	cat := memcatalog.New(store)
	require.NoError(t, cat.CreateTable("db.t", metadata))
	tbl, err := table.Open(ctx, "db.t", cat)
	require.NoError(t, err)

	files := make([]spec.DataFile, 100)
	for i := range files {
		files[i] = dataFile("s3://t/data/new.parquet", 2000+int32(i%20), 1)
	}
	tx := tbl.NewTransaction("")
	tx.Stage(table.Append{Files: files})
	tbl, err = tx.Commit(ctx)
	require.NoError(t, err)

	manifests, err := tbl.Manifests(ctx, "")
	require.NoError(t, err)
	// limit = 4 + floor(sqrt(60+100)) = 4 + 12 = 16
	// new_file_count = 60 + 100 = 160
	// n_splits = floor(log2(160/16)) + 1 = floor(log2(10)) + 1 = 3 + 1 = 4
	// 2^4 = 16 manifests
	assert.Len(t, manifests, 16)
}

func TestConflictingAppendsOneWinsOneFails(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	cat := memcatalog.New(store)
	metadata := freshMetadata()
	require.NoError(t, cat.CreateTable("db.t", metadata))

	tblA, err := table.Open(ctx, "db.t", cat)
	require.NoError(t, err)
	tblB, err := table.Open(ctx, "db.t", cat)
	require.NoError(t, err)

	txA := tblA.NewTransaction("")
	txA.Stage(table.Append{Files: []spec.DataFile{dataFile("s3://t/data/a.parquet", 2024, 10)}})
	_, err = txA.Commit(ctx)
	require.NoError(t, err)

	// tblB still believes main has no snapshot yet — its requirement is stale.
	txB := tblB.NewTransaction("")
	txB.Stage(table.Append{Files: []spec.DataFile{dataFile("s3://t/data/b.parquet", 2024, 10)}})
	_, err = txB.Commit(ctx)
	require.Error(t, err)
	assert.True(t, icerrors.Is(err, icerrors.Conflict))

	require.NoError(t, tblB.Reload(ctx))
	txB2 := tblB.NewTransaction("")
	txB2.Stage(table.Append{Files: []spec.DataFile{dataFile("s3://t/data/b.parquet", 2024, 10)}})
	_, err = txB2.Commit(ctx)
	require.NoError(t, err, "retrying after a reload against the fresh metadata should succeed")
}

func TestRewriteCollapsesLineage(t *testing.T) {
	ctx := context.Background()
	tbl := newTestTable(t, "db.t", freshMetadata())

	tx := tbl.NewTransaction("")
	tx.Stage(table.Append{Files: []spec.DataFile{dataFile("s3://t/data/a.parquet", 2024, 10)}})
	tbl, err := tx.Commit(ctx)
	require.NoError(t, err)

	tx2 := tbl.NewTransaction("")
	tx2.Stage(table.Append{Files: []spec.DataFile{dataFile("s3://t/data/b.parquet", 2024, 10)}})
	tbl, err = tx2.Commit(ctx)
	require.NoError(t, err)
	require.Len(t, tbl.Metadata().Snapshots, 2)

	tx3 := tbl.NewTransaction("")
	tx3.Stage(table.Rewrite{Files: []spec.DataFile{dataFile("s3://t/data/compacted.parquet", 2024, 20)}})
	tbl, err = tx3.Commit(ctx)
	require.NoError(t, err)

	assert.Len(t, tbl.Metadata().Snapshots, 1, "rewrite should collapse all prior snapshots into the one it creates")
	datafiles, err := tbl.Datafiles(ctx, "")
	require.NoError(t, err)
	require.Len(t, datafiles, 1)
	assert.Equal(t, "s3://t/data/compacted.parquet", datafiles[0].DataFile.FilePath)
}
