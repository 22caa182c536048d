// Package inventory maintains the local shadow catalog for the cold-storage
// tier. Glacier cannot be listed synchronously, so this catalog is the sole
// authority for which archives exist and what their remote identifiers are.
// It is persisted to disk on every mutation and checkpointed to the object
// store on demand so it survives loss of the local host.
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"ColdVault/internal/lock"
)

// CheckpointKey is the fixed, well-known object name the catalog is
// checkpointed under in the object-store tier.
const CheckpointKey = "coldvault-inventory.json"

// Entry maps one stored archive name to its remote identity plus cached
// upload metadata.
type Entry struct {
	ArchiveID  string    `json:"archive_id"`
	Size       int64     `json:"size,omitempty"`
	Checksum   string    `json:"checksum,omitempty"`
	UploadedAt time.Time `json:"uploaded_at,omitempty"`
}

type catalog struct {
	// Entries: stored archive name -> remote archive identity.
	Entries map[string]Entry `json:"entries"`
	// Jobs: stored archive name -> pending retrieval job id. Kept here so
	// a retrieval started in one process can be polled by a later one.
	Jobs map[string]string `json:"jobs,omitempty"`
}

// ObjectStore is the subset of the S3 client the checkpoint operations use.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
}

// Store is the durable local catalog. Opening a store takes a host-local
// lock; concurrent mutation is not supported and the lock enforces a
// single opener per catalog file.
type Store struct {
	path string
	lk   *lock.FileLock
	data catalog
}

// Open loads (or initializes) the catalog at path and locks it.
func Open(path string) (*Store, error) {
	lk := lock.New(path, 0)
	if err := lk.Acquire(); err != nil {
		return nil, err
	}

	s := &Store{path: path, lk: lk}
	if err := s.load(); err != nil {
		_ = lk.Release()
		return nil, err
	}
	return s, nil
}

// Close releases the catalog lock.
func (s *Store) Close() error {
	return s.lk.Release()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.data = emptyCatalog()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read inventory %s: %w", s.path, err)
	}
	var c catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("parse inventory %s: %w", s.path, err)
	}
	s.data = c
	s.ensureMaps()
	return nil
}

func emptyCatalog() catalog {
	return catalog{Entries: map[string]Entry{}, Jobs: map[string]string{}}
}

func (s *Store) ensureMaps() {
	if s.data.Entries == nil {
		s.data.Entries = map[string]Entry{}
	}
	if s.data.Jobs == nil {
		s.data.Jobs = map[string]string{}
	}
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal inventory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create inventory dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write inventory: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace inventory: %w", err)
	}
	return nil
}

// Record inserts or overwrites the entry for key.
func (s *Store) Record(key string, e Entry) error {
	s.data.Entries[key] = e
	return s.save()
}

// Lookup returns the entry for key.
func (s *Store) Lookup(key string) (Entry, bool) {
	e, ok := s.data.Entries[key]
	return e, ok
}

// Remove drops the entry (and any pending retrieval job) for key. Called
// after a confirmed remote deletion.
func (s *Store) Remove(key string) error {
	delete(s.data.Entries, key)
	delete(s.data.Jobs, key)
	return s.save()
}

// Keys returns the cataloged archive names, sorted. This stands in for the
// remote listing the cold tier does not offer.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.data.Entries))
	for k := range s.data.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns a copy of the catalog's entries for display.
func (s *Store) Entries() map[string]Entry {
	out := make(map[string]Entry, len(s.data.Entries))
	for k, v := range s.data.Entries {
		out[k] = v
	}
	return out
}

// SetJob remembers the retrieval job id for key.
func (s *Store) SetJob(key, jobID string) error {
	s.data.Jobs[key] = jobID
	return s.save()
}

// Job returns the pending retrieval job id for key, if any.
func (s *Store) Job(key string) (string, bool) {
	id, ok := s.data.Jobs[key]
	return id, ok
}

// ClearJob forgets the retrieval job for key.
func (s *Store) ClearJob(key string) error {
	delete(s.data.Jobs, key)
	return s.save()
}

// SyncToRemote checkpoints the whole catalog to the object store under
// CheckpointKey. This is an explicit operator action, not an automatic
// side effect of mutation; staleness of the checkpoint is bounded by how
// often it runs.
func (s *Store) SyncToRemote(ctx context.Context, store ObjectStore) error {
	data, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("marshal inventory: %w", err)
	}
	if err := store.PutObject(ctx, CheckpointKey, bytes.NewReader(data), int64(len(data))); err != nil {
		return fmt.Errorf("upload inventory checkpoint: %w", err)
	}
	return nil
}

// FetchRemote downloads the checkpoint and returns its entries. The local
// catalog is not consulted or modified; this is the read-only counterpart
// of RestoreFromRemote, used to inspect what the checkpoint holds.
func FetchRemote(ctx context.Context, store ObjectStore) (map[string]Entry, error) {
	rc, err := store.GetObject(ctx, CheckpointKey)
	if err != nil {
		return nil, fmt.Errorf("download inventory checkpoint: %w", err)
	}
	defer rc.Close()

	var c catalog
	if err := json.NewDecoder(rc).Decode(&c); err != nil {
		return nil, fmt.Errorf("parse inventory checkpoint: %w", err)
	}
	return c.Entries, nil
}

// RestoreFromRemote replaces the local catalog wholesale with the last
// checkpoint. Local entries not present in the checkpoint are lost; this
// is last-checkpoint-wins disaster recovery, not a merge.
func (s *Store) RestoreFromRemote(ctx context.Context, store ObjectStore) error {
	rc, err := store.GetObject(ctx, CheckpointKey)
	if err != nil {
		return fmt.Errorf("download inventory checkpoint: %w", err)
	}
	defer rc.Close()

	var c catalog
	if err := json.NewDecoder(rc).Decode(&c); err != nil {
		return fmt.Errorf("parse inventory checkpoint: %w", err)
	}
	s.data = c
	s.ensureMaps()
	return s.save()
}
