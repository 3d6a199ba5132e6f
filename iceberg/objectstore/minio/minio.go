// Package minio is a real objectstore.Store backed by MinIO/S3, via
// github.com/minio/minio-go/v7. It replaces the teacher's
// server/storage/minio.FileSystem placeholder (Open/Create/Remove/Exists,
// every method returning "not yet implemented") with a working
// implementation of the same endpoint/bucket/credentials shape, narrowed
// to the Put/Get/Delete surface objectstore.Store needs.
package minio

import (
	"bytes"
	"context"
	"io"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/TFMV/icecore/pkg/errors"
)

// Store is a MinIO/S3-backed object store scoped to a single bucket.
type Store struct {
	client *miniogo.Client
	bucket string
}

// Config names the connection parameters, mirroring the teacher's
// FileSystem field set (endpoint, bucket, region, access/secret key).
type Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// New dials a MinIO/S3 endpoint and returns a Store scoped to cfg.Bucket.
// It does not create the bucket; the caller is expected to provision it
// out of band.
func New(cfg Config) (*Store, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(errors.External, "creating minio client", err)
	}
	return &Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *Store) Put(ctx context.Context, path string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)), miniogo.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return errors.Wrapf(errors.External, err, "putting object %q", path)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, path string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, path, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(errors.External, err, "getting object %q", path)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if errResp := miniogo.ToErrorResponse(err); errResp.Code == "NoSuchKey" {
			return nil, errors.Newf(errors.NotFound, "object %q not found", path)
		}
		return nil, errors.Wrapf(errors.External, err, "reading object %q", path)
	}
	return data, nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, path, miniogo.RemoveObjectOptions{}); err != nil {
		return errors.Wrapf(errors.External, err, "deleting object %q", path)
	}
	return nil
}
