package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"ColdVault/internal/archive"
	"ColdVault/internal/crypt"
	"ColdVault/internal/logging"
	"ColdVault/internal/storage"
	"ColdVault/internal/tarball"
)

type RestoreOptions struct {
	// Password decrypts an encrypted archive. When empty and Prompt is
	// set, it is asked for interactively before the download starts, so
	// a multi-hour cold-storage fetch is never wasted on a missing
	// passphrase.
	Password string
	Prompt   bool

	// TargetDir receives the extracted content; default is the current
	// directory.
	TargetDir string
}

// Restore downloads the most recent backup matching name and extracts it.
// On the cold backend the first call starts a retrieval job and returns a
// *storage.RetrievalPendingError; re-run once the job completes. A wrong
// password surfaces as crypt.ErrWrongPassword, distinct from a corrupt
// download.
func (e *Engine) Restore(ctx context.Context, name string, opts RestoreOptions) (*archive.Record, error) {
	rec, err := e.mostRecent(ctx, name)
	if err != nil {
		return nil, err
	}

	password := opts.Password
	if rec.Encrypted && password == "" {
		if !opts.Prompt {
			return nil, fmt.Errorf("%s is encrypted, a password is required", rec.Key)
		}
		if password, err = crypt.PromptPassword("Password: "); err != nil {
			return nil, err
		}
	}

	logging.Info().Str("key", rec.Key).Msg("restoring")
	rc, err := e.backend.Download(ctx, rec.Key)
	if err != nil {
		return rec, err
	}
	defer rc.Close()

	var payload io.Reader = rc
	if rec.Encrypted {
		logging.Info().Msg("decrypting")
		tmp, err := os.CreateTemp("", "coldvault-restore-*")
		if err != nil {
			return rec, fmt.Errorf("create temp plaintext: %w", err)
		}
		defer func() {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}()
		if err := crypt.Decrypt(tmp, rc, password); err != nil {
			return rec, err
		}
		if _, err := tmp.Seek(0, io.SeekStart); err != nil {
			return rec, err
		}
		payload = tmp
	}

	targetDir := opts.TargetDir
	if targetDir == "" {
		targetDir = "."
	}
	logging.Info().Str("target", targetDir).Msg("extracting")
	if err := tarball.Extract(payload, targetDir); err != nil {
		return rec, err
	}
	return rec, nil
}

// CheckRestore reports retrieval readiness for the most recent backup
// matching name without downloading anything. Synchronous backends are
// always ready; the cold backend polls its pending job, if any.
func (e *Engine) CheckRestore(ctx context.Context, name string) (storage.RetrievalStatus, *archive.Record, error) {
	rec, err := e.mostRecent(ctx, name)
	if err != nil {
		return storage.RetrievalNone, nil, err
	}
	checker, ok := e.backend.(storage.RetrievalChecker)
	if !ok {
		return storage.RetrievalReady, rec, nil
	}
	status, err := checker.CheckRetrieval(ctx, rec.Key)
	return status, rec, err
}

func (e *Engine) mostRecent(ctx context.Context, name string) (*archive.Record, error) {
	records, err := e.Match(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoBackupFound, name)
	}
	return &records[0], nil
}

// IsRetrievalPending reports whether err is the cold tier's "job not
// ready yet" status, which callers treat as a wait condition, not a
// failure.
func IsRetrievalPending(err error) (*storage.RetrievalPendingError, bool) {
	var pending *storage.RetrievalPendingError
	if errors.As(err, &pending) {
		return pending, true
	}
	return nil, false
}
