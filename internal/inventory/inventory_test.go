package inventory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "inventory.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordLookupRemove(t *testing.T) {
	s := openTestStore(t)

	e := Entry{ArchiveID: "arch-123", Size: 42, Checksum: "abcd", UploadedAt: time.Date(2025, 2, 26, 12, 0, 0, 0, time.UTC)}
	if err := s.Record("etc.20250226120000.tgz", e); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, ok := s.Lookup("etc.20250226120000.tgz")
	if !ok {
		t.Fatal("Lookup: not found")
	}
	if got != e {
		t.Errorf("Lookup = %+v, want %+v", got, e)
	}

	if _, ok := s.Lookup("missing"); ok {
		t.Error("Lookup(missing) found something")
	}

	if err := s.Remove("etc.20250226120000.tgz"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := s.Lookup("etc.20250226120000.tgz"); ok {
		t.Error("entry still present after Remove")
	}
}

func TestKeys_SortedAndStandInForListing(t *testing.T) {
	s := openTestStore(t)
	for _, k := range []string{"b.20250102000000.tgz", "a.20250101000000.tgz", "c.20250103000000.tgz"} {
		if err := s.Record(k, Entry{ArchiveID: "id-" + k}); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"a.20250101000000.tgz", "b.20250102000000.tgz", "c.20250103000000.tgz"}
	if got := s.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys = %v, want %v", got, want)
	}
}

func TestPersistence_ReloadAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Record("x.20250101000000.tgz", Entry{ArchiveID: "id-x", Size: 7}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetJob("x.20250101000000.tgz", "job-1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	e, ok := reopened.Lookup("x.20250101000000.tgz")
	if !ok || e.ArchiveID != "id-x" || e.Size != 7 {
		t.Errorf("reloaded entry = %+v, %v", e, ok)
	}
	job, ok := reopened.Job("x.20250101000000.tgz")
	if !ok || job != "job-1" {
		t.Errorf("reloaded job = %q, %v", job, ok)
	}
}

func TestOpen_SecondOpenerBlocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, err := Open(path); err == nil {
		t.Error("second Open succeeded while catalog locked")
	}
}

func TestJobs(t *testing.T) {
	s := openTestStore(t)

	if _, ok := s.Job("k"); ok {
		t.Error("Job on empty store found something")
	}
	if err := s.SetJob("k", "job-9"); err != nil {
		t.Fatal(err)
	}
	if id, ok := s.Job("k"); !ok || id != "job-9" {
		t.Errorf("Job = %q, %v", id, ok)
	}
	if err := s.ClearJob("k"); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Job("k"); ok {
		t.Error("job still present after ClearJob")
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	store := newFakeObjectStore()
	s := openTestStore(t)

	entries := map[string]Entry{
		"a.20250101000000.tgz":     {ArchiveID: "id-a", Size: 1},
		"b.20250102000000.tgz.enc": {ArchiveID: "id-b", Size: 2, Checksum: "beef"},
	}
	for k, e := range entries {
		if err := s.Record(k, e); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.SyncToRemote(context.Background(), store); err != nil {
		t.Fatalf("SyncToRemote: %v", err)
	}
	if _, ok := store.objects[CheckpointKey]; !ok {
		t.Fatalf("checkpoint not stored under %q", CheckpointKey)
	}

	// Restore with no intervening mutation reproduces an identical catalog.
	if err := s.RestoreFromRemote(context.Background(), store); err != nil {
		t.Fatalf("RestoreFromRemote: %v", err)
	}
	if got := s.Entries(); !reflect.DeepEqual(got, entries) {
		t.Errorf("restored entries = %+v, want %+v", got, entries)
	}
}

func TestRestoreFromRemote_LastCheckpointWins(t *testing.T) {
	store := newFakeObjectStore()
	s := openTestStore(t)

	if err := s.Record("kept.20250101000000.tgz", Entry{ArchiveID: "id-1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SyncToRemote(context.Background(), store); err != nil {
		t.Fatal(err)
	}

	// A local entry added after the checkpoint is lost on restore.
	if err := s.Record("late.20250201000000.tgz", Entry{ArchiveID: "id-2"}); err != nil {
		t.Fatal(err)
	}
	if err := s.RestoreFromRemote(context.Background(), store); err != nil {
		t.Fatal(err)
	}

	if _, ok := s.Lookup("kept.20250101000000.tgz"); !ok {
		t.Error("checkpointed entry missing after restore")
	}
	if _, ok := s.Lookup("late.20250201000000.tgz"); ok {
		t.Error("post-checkpoint entry survived a wholesale restore")
	}

	// The restored state is also persisted locally.
	data, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("kept.20250101000000.tgz")) {
		t.Error("restored catalog not written to disk")
	}
}

func TestFetchRemote_ReadsCheckpointOnly(t *testing.T) {
	store := newFakeObjectStore()
	s := openTestStore(t)

	if err := s.Record("r.20250101000000.tgz", Entry{ArchiveID: "id-r", Size: 3}); err != nil {
		t.Fatal(err)
	}
	if err := s.SyncToRemote(context.Background(), store); err != nil {
		t.Fatal(err)
	}
	if err := s.Record("local.20250201000000.tgz", Entry{ArchiveID: "id-l"}); err != nil {
		t.Fatal(err)
	}

	entries, err := FetchRemote(context.Background(), store)
	if err != nil {
		t.Fatalf("FetchRemote: %v", err)
	}
	if len(entries) != 1 || entries["r.20250101000000.tgz"].ArchiveID != "id-r" {
		t.Errorf("remote entries = %+v", entries)
	}
	// The local catalog keeps its post-checkpoint entry.
	if _, ok := s.Lookup("local.20250201000000.tgz"); !ok {
		t.Error("FetchRemote modified the local catalog")
	}
}

type fakeObjectStore struct {
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) PutObject(_ context.Context, key string, body io.Reader, _ int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjectStore) GetObject(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("no such object: %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
