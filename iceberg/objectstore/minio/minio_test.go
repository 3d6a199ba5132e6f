package minio_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	icminio "github.com/TFMV/icecore/iceberg/objectstore/minio"
)

// newFakeServer starts an in-memory S3-compatible server (the
// johannesboyne/gofakes3 test double) and returns its bare host:port.
func newFakeServer(t *testing.T) string {
	t.Helper()
	backend := s3mem.New()
	faker := gofakes3.New(backend)
	ts := httptest.NewServer(faker.Server())
	t.Cleanup(ts.Close)
	return strings.TrimPrefix(ts.URL, "http://")
}

func TestStorePutGetDeleteAgainstFakeS3(t *testing.T) {
	endpoint := newFakeServer(t)
	ctx := context.Background()

	bootstrap, err := miniogo.New(endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4("dummy", "dummy", ""),
		Secure: false,
	})
	require.NoError(t, err)
	require.NoError(t, bootstrap.MakeBucket(ctx, "icecore-test", miniogo.MakeBucketOptions{}))

	store, err := icminio.New(icminio.Config{
		Endpoint:  endpoint,
		Bucket:    "icecore-test",
		AccessKey: "dummy",
		SecretKey: "dummy",
	})
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "metadata/v1.metadata.json", []byte(`{"format-version":2}`)))

	data, err := store.Get(ctx, "metadata/v1.metadata.json")
	require.NoError(t, err)
	assert.Equal(t, `{"format-version":2}`, string(data))

	require.NoError(t, store.Delete(ctx, "metadata/v1.metadata.json"))

	_, err = store.Get(ctx, "metadata/v1.metadata.json")
	assert.Error(t, err)
}
