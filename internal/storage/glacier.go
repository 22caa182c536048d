package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"ColdVault/internal/inventory"
	"ColdVault/internal/logging"
)

// ColdStore is the cold-tier contract: no native listing, asynchronous
// retrieval. *glacier.Client implements it.
type ColdStore interface {
	Vault() string
	Upload(ctx context.Context, body io.ReadSeeker, description string) (string, error)
	Delete(ctx context.Context, archiveID string) error
	RequestRetrieval(ctx context.Context, archiveID string) (string, error)
	JobReady(ctx context.Context, jobID string) (bool, error)
	FetchJobOutput(ctx context.Context, jobID string) (io.ReadCloser, error)
}

// GlacierBackend wraps every structural operation behind the shadow
// inventory: the cold tier cannot answer "what exists", so the catalog is
// the single source of truth for stored keys and their remote archive ids.
type GlacierBackend struct {
	cold       ColdStore
	inv        *inventory.Store
	checkpoint inventory.ObjectStore
}

// NewGlacier builds the cold backend. checkpoint is the object-store
// client used for inventory sync/restore; it may be nil when no bucket is
// configured, which disables the checkpoint operations only.
func NewGlacier(cold ColdStore, inv *inventory.Store, checkpoint inventory.ObjectStore) *GlacierBackend {
	return &GlacierBackend{cold: cold, inv: inv, checkpoint: checkpoint}
}

func (b *GlacierBackend) Container() string {
	return b.cold.Vault()
}

func (b *GlacierBackend) Upload(ctx context.Context, key, path string) (*UploadInfo, error) {
	checksum, size, err := fileDigest(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	logging.Info().Str("key", key).Int64("size", size).Str("vault", b.cold.Vault()).Msg("uploading to cold storage")
	archiveID, err := b.cold.Upload(ctx, f, key)
	if err != nil {
		return nil, err
	}
	if err := b.inv.Record(key, inventory.Entry{
		ArchiveID:  archiveID,
		Size:       size,
		Checksum:   checksum,
		UploadedAt: time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("record %s in inventory: %w", key, err)
	}
	return &UploadInfo{Size: size, Checksum: checksum}, nil
}

// Download serves the archive body through the two-phase retrieval
// protocol. The first call initiates a job and returns a
// RetrievalPendingError carrying its id; subsequent calls poll the job and
// either report it still pending or fetch the completed output. Job ids
// live in the inventory, so the sequence can span process restarts.
func (b *GlacierBackend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	entry, ok := b.inv.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s not in inventory", ErrNotFound, key)
	}

	if jobID, ok := b.inv.Job(key); ok {
		ready, err := b.cold.JobReady(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if !ready {
			return nil, &RetrievalPendingError{Key: key, JobID: jobID}
		}
		rc, err := b.cold.FetchJobOutput(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if err := b.inv.ClearJob(key); err != nil {
			_ = rc.Close()
			return nil, err
		}
		return rc, nil
	}

	logging.Info().Str("key", key).Msg("requesting cold-storage retrieval")
	jobID, err := b.cold.RequestRetrieval(ctx, entry.ArchiveID)
	if err != nil {
		return nil, err
	}
	if err := b.inv.SetJob(key, jobID); err != nil {
		return nil, err
	}
	return nil, &RetrievalPendingError{Key: key, JobID: jobID, Requested: true}
}

// CheckRetrieval polls the retrieval job for key without initiating or
// fetching anything.
func (b *GlacierBackend) CheckRetrieval(ctx context.Context, key string) (RetrievalStatus, error) {
	if _, ok := b.inv.Lookup(key); !ok {
		return RetrievalNone, fmt.Errorf("%w: %s not in inventory", ErrNotFound, key)
	}
	jobID, ok := b.inv.Job(key)
	if !ok {
		return RetrievalNone, nil
	}
	ready, err := b.cold.JobReady(ctx, jobID)
	if err != nil {
		return RetrievalNone, err
	}
	if ready {
		return RetrievalReady, nil
	}
	return RetrievalPending, nil
}

func (b *GlacierBackend) Delete(ctx context.Context, key string) error {
	entry, ok := b.inv.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s not in inventory", ErrNotFound, key)
	}
	logging.Info().Str("key", key).Msg("deleting cold-storage archive")
	if err := b.cold.Delete(ctx, entry.ArchiveID); err != nil {
		return err
	}
	return b.inv.Remove(key)
}

// List returns the shadow catalog's keys. The cold tier has no usable
// remote listing, so the catalog is authoritative.
func (b *GlacierBackend) List(_ context.Context) ([]string, error) {
	return b.inv.Keys(), nil
}

func (b *GlacierBackend) Close() error {
	return b.inv.Close()
}

// Entries exposes the catalog for the inventory show command.
func (b *GlacierBackend) Entries() map[string]inventory.Entry {
	return b.inv.Entries()
}

var errNoCheckpointStore = errors.New("no s3 bucket configured for inventory checkpoints")

// SyncInventory checkpoints the shadow catalog to the object-store tier.
func (b *GlacierBackend) SyncInventory(ctx context.Context) error {
	if b.checkpoint == nil {
		return errNoCheckpointStore
	}
	logging.Info().Msg("checkpointing inventory to object store")
	return b.inv.SyncToRemote(ctx, b.checkpoint)
}

// RestoreInventory replaces the shadow catalog with the last checkpoint.
func (b *GlacierBackend) RestoreInventory(ctx context.Context) error {
	if b.checkpoint == nil {
		return errNoCheckpointStore
	}
	logging.Info().Msg("restoring inventory from object store checkpoint")
	return b.inv.RestoreFromRemote(ctx, b.checkpoint)
}
