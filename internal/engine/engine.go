// Package engine orchestrates the backup lifecycle: the forward pipeline
// (compress, optionally encrypt, name, upload), the reverse pipeline
// (download, decrypt, extract), and the maintenance operations (delete,
// prune by age, GFS rotation). It composes the key codec and the selected
// storage backend; all remote failures propagate to the caller untouched.
package engine

import (
	"context"
	"errors"

	"ColdVault/internal/archive"
	"ColdVault/internal/storage"
)

var (
	// ErrBlankName rejects empty filename arguments before any work.
	ErrBlankName = errors.New("filename can't be blank")

	// ErrNoBackupFound reports that no stored key matched the name.
	ErrNoBackupFound = errors.New("no matching backup found")
)

type Engine struct {
	backend storage.Backend
}

func New(backend storage.Backend) *Engine {
	return &Engine{backend: backend}
}

// Container names the bucket or vault this engine operates on.
func (e *Engine) Container() string {
	return e.backend.Container()
}

// List returns every stored key the backend knows, including objects not
// written by coldvault.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.backend.List(ctx)
}

// Match returns the decoded backup generations whose stored keys start
// with name, most recent first. Keys that are not coldvault archives are
// skipped, not errors.
func (e *Engine) Match(ctx context.Context, name string) ([]archive.Record, error) {
	if name == "" {
		return nil, ErrBlankName
	}
	keys, err := e.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	return archive.Match(keys, name), nil
}
