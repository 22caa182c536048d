package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ColdVault/internal/archive"
	"ColdVault/internal/crypt"
	"ColdVault/internal/logging"
	"ColdVault/internal/tarball"
)

type BackupOptions struct {
	// Password enables encryption when non-empty. When empty and Prompt
	// is set, the password is captured interactively (entered twice)
	// before any compression or upload work begins. Empty without Prompt
	// means encryption is off.
	Password string
	Prompt   bool

	// Now overrides the pipeline timestamp; zero means time.Now. The
	// timestamp is fixed once at pipeline start and reused for both the
	// stored key and the returned metadata.
	Now time.Time
}

// BackupResult is the metadata record of one completed backup.
type BackupResult struct {
	Name       string
	StoredKey  string
	BackupDate time.Time
	Size       int64
	Checksum   string
	Encrypted  bool
}

// Backup packages sourcePath into a compressed, optionally encrypted
// archive and uploads it. A source that is already a .tgz/.tar.gz is used
// as-is (and never deleted); temporary files the pipeline creates are
// removed on every exit path.
func (e *Engine) Backup(ctx context.Context, sourcePath string, opts BackupOptions) (*BackupResult, error) {
	if sourcePath == "" {
		return nil, ErrBlankName
	}
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	password := opts.Password
	if password == "" && opts.Prompt {
		var err error
		if password, err = crypt.PromptNewPassword(); err != nil {
			return nil, err
		}
	}

	arcname := filepath.Base(strings.TrimRight(sourcePath, "/"))
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	logging.Info().Str("source", sourcePath).Str("name", arcname).Msg("backing up")

	var temps []string
	defer func() {
		for _, p := range temps {
			_ = os.Remove(p)
		}
	}()

	name := arcname
	uploadPath := sourcePath
	if archive.IsCompressedName(arcname) {
		// Already a gzip tarball: skip compression, strip the extension
		// from the logical name so the stored key doesn't carry it twice.
		logging.Info().Str("source", sourcePath).Msg("source already compressed")
		name = archive.StripCompressedSuffix(arcname)
	} else {
		logging.Info().Msg("compressing")
		tmp, err := os.CreateTemp("", "coldvault-*.tgz")
		if err != nil {
			return nil, fmt.Errorf("create temp archive: %w", err)
		}
		temps = append(temps, tmp.Name())
		if err := tarball.Create(tmp, sourcePath, arcname); err != nil {
			_ = tmp.Close()
			return nil, err
		}
		if err := tmp.Close(); err != nil {
			return nil, fmt.Errorf("close temp archive: %w", err)
		}
		uploadPath = tmp.Name()
	}

	encrypted := password != ""
	if encrypted {
		logging.Info().Msg("encrypting")
		encPath, err := encryptToTemp(uploadPath, password)
		if err != nil {
			return nil, err
		}
		temps = append(temps, encPath)
		// The plaintext temp archive is no longer needed; a caller-provided
		// compressed file stays untouched.
		if uploadPath != sourcePath {
			_ = os.Remove(uploadPath)
		}
		uploadPath = encPath
	}

	storedKey := archive.EncodeKey(name, now, encrypted)
	info, err := e.backend.Upload(ctx, storedKey, uploadPath)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", storedKey, err)
	}

	return &BackupResult{
		Name:       name,
		StoredKey:  storedKey,
		BackupDate: now.Truncate(time.Second),
		Size:       info.Size,
		Checksum:   info.Checksum,
		Encrypted:  encrypted,
	}, nil
}

func encryptToTemp(path, password string) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open archive for encryption: %w", err)
	}
	defer in.Close()

	out, err := os.CreateTemp("", "coldvault-*.tgz.enc")
	if err != nil {
		return "", fmt.Errorf("create temp ciphertext: %w", err)
	}
	if err := crypt.Encrypt(out, in, password); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return "", err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(out.Name())
		return "", fmt.Errorf("close temp ciphertext: %w", err)
	}
	return out.Name(), nil
}
