// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileBackend keeps each value in its own file under Directory. The
// directory is created owner-only and files are written owner-only,
// since snapshots hold secrets. TTLs are ignored: expiry is checked by
// the session itself when it is restored.
type FileBackend struct {
	Directory string
}

func (backend FileBackend) path(key string) string {
	return filepath.Join(backend.Directory, key)
}

// Get reads the file for key.
func (backend FileBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(backend.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put writes the file for key atomically: a temporary file in the
// same directory is renamed over the old one.
func (backend FileBackend) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := os.MkdirAll(backend.Directory, 0700); err != nil {
		return fmt.Errorf("creating %s: %w", backend.Directory, err)
	}

	temporary, err := os.CreateTemp(backend.Directory, "."+key+".*")
	if err != nil {
		return err
	}
	temporaryPath := temporary.Name()
	defer os.Remove(temporaryPath)

	if err := temporary.Chmod(0600); err != nil {
		temporary.Close()
		return err
	}
	if _, err := temporary.Write(value); err != nil {
		temporary.Close()
		return err
	}
	if err := temporary.Close(); err != nil {
		return err
	}
	return os.Rename(temporaryPath, backend.path(key))
}

// Delete removes the file for key.
func (backend FileBackend) Delete(ctx context.Context, key string) error {
	err := os.Remove(backend.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
