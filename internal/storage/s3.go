package storage

import (
	"context"
	"io"
	"os"

	"ColdVault/internal/logging"
	"ColdVault/internal/s3"
)

// ObjectStore is the subset of the S3 client the backend uses. *s3.Client
// implements it.
type ObjectStore interface {
	Bucket() string
	PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteObject(ctx context.Context, key string) error
	ListKeys(ctx context.Context) ([]string, error)
	UploadMultipart(ctx context.Context, key string, body io.Reader, partSizeBytes int64) error
}

// S3Backend stores archives as plain objects. Listing is synchronous and
// authoritative for this destination.
type S3Backend struct {
	store ObjectStore
}

func NewS3(store ObjectStore) *S3Backend {
	return &S3Backend{store: store}
}

func (b *S3Backend) Container() string {
	return b.store.Bucket()
}

func (b *S3Backend) Upload(ctx context.Context, key, path string) (*UploadInfo, error) {
	checksum, size, err := fileDigest(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	logging.Info().Str("key", key).Int64("size", size).Str("bucket", b.store.Bucket()).Msg("uploading")
	if size >= s3.MultipartThresholdBytes {
		err = b.store.UploadMultipart(ctx, key, f, s3.MinPartSizeBytes)
	} else {
		err = b.store.PutObject(ctx, key, f, size)
	}
	if err != nil {
		return nil, err
	}
	return &UploadInfo{Size: size, Checksum: checksum}, nil
}

func (b *S3Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	logging.Info().Str("key", key).Msg("downloading")
	return b.store.GetObject(ctx, key)
}

func (b *S3Backend) Delete(ctx context.Context, key string) error {
	logging.Info().Str("key", key).Msg("deleting")
	return b.store.DeleteObject(ctx, key)
}

func (b *S3Backend) List(ctx context.Context) ([]string, error) {
	return b.store.ListKeys(ctx)
}

func (b *S3Backend) Close() error {
	return nil
}
