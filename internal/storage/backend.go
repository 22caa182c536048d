// Package storage selects between the two archive destinations: the S3
// object store (synchronous, listable) and the Glacier cold tier (job-based
// retrieval, no listing, shadowed by the local inventory).
package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

const (
	DestinationS3      = "s3"
	DestinationGlacier = "glacier"
)

// ErrNotFound reports that a stored key is unknown to the backend.
var ErrNotFound = errors.New("backup not found")

// UploadInfo describes a completed upload.
type UploadInfo struct {
	Size     int64
	Checksum string
}

// Backend is the destination-independent surface the pipeline talks to.
// Implementations are synchronous; the one asynchronous-in-effect case is
// cold-storage retrieval, surfaced through RetrievalPendingError.
type Backend interface {
	// Container names the bucket or vault backing this destination.
	Container() string
	Upload(ctx context.Context, key, path string) (*UploadInfo, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

// RetrievalStatus is the answer of a poll-only readiness check.
type RetrievalStatus string

const (
	// RetrievalNone: no retrieval job exists for the key.
	RetrievalNone    RetrievalStatus = "none"
	RetrievalPending RetrievalStatus = "pending"
	RetrievalReady   RetrievalStatus = "ready"
)

// RetrievalChecker is implemented by backends whose downloads go through
// asynchronous jobs. CheckRetrieval is cheap and idempotent: it never
// initiates a job and never fetches.
type RetrievalChecker interface {
	CheckRetrieval(ctx context.Context, key string) (RetrievalStatus, error)
}

// RetrievalPendingError reports that an archive body is not yet servable.
// Requested distinguishes a freshly initiated job from one still running.
// The job id is persisted by the backend, so the caller may simply retry
// the download later, in this process or another.
type RetrievalPendingError struct {
	Key       string
	JobID     string
	Requested bool
}

func (e *RetrievalPendingError) Error() string {
	if e.Requested {
		return fmt.Sprintf("retrieval job %s started for %s; retry once it completes (typically a few hours)", e.JobID, e.Key)
	}
	return fmt.Sprintf("retrieval job %s for %s still pending", e.JobID, e.Key)
}

// fileDigest computes the blake3 checksum and size of a local file.
func fileDigest(path string) (checksum string, size int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := blake3.New()
	size, err = io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), size, nil
}
