// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessionstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"filippo.io/age"

	"github.com/bureau-foundation/fbsession/lib/clock"
	"github.com/bureau-foundation/fbsession/lib/codec"
	"github.com/bureau-foundation/fbsession/lib/sealed"
	"github.com/bureau-foundation/fbsession/lib/session"
)

var (
	// ErrNotFound is returned when no snapshot is stored under a name.
	ErrNotFound = errors.New("sessionstore: snapshot not found")

	// ErrSealed is returned when a sealed snapshot is read by a store
	// with no identities to open it.
	ErrSealed = errors.New("sessionstore: snapshot is sealed and no identity is configured")

	// ErrInvalidName is returned for names that are empty or contain
	// characters outside [A-Za-z0-9._-].
	ErrInvalidName = errors.New("sessionstore: invalid session name")
)

// Format is the snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// sealedPrefix marks an age-sealed value. The rest is base64.
var sealedPrefix = []byte("age:")

// Backend stores opaque values by key.
type Backend interface {
	// Get returns the value under key, or an error wrapping
	// ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key. A positive ttl lets the backend
	// discard the value after that long; zero keeps it indefinitely.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Config holds configuration for creating a Store.
type Config struct {
	// Backend holds the encoded snapshots. Required.
	Backend Backend

	// Format is the snapshot encoding. Defaults to FormatJSON.
	Format Format

	// Recipients are age public keys. When set, snapshots are sealed
	// to them on save.
	Recipients []string

	// Identities open sealed snapshots on load.
	Identities []age.Identity

	// Clock computes TTLs from snapshot expiry. Defaults to clock.Real().
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Store saves and loads session snapshots.
type Store struct {
	backend    Backend
	format     Format
	recipients []string
	identities []age.Identity
	clock      clock.Clock
	logger     *slog.Logger
}

// New creates a Store.
func New(config Config) (*Store, error) {
	if config.Backend == nil {
		return nil, fmt.Errorf("sessionstore: backend is required")
	}

	format := config.Format
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatCBOR {
		return nil, fmt.Errorf("sessionstore: unknown format %q", format)
	}

	for _, recipient := range config.Recipients {
		if err := sealed.ParsePublicKey(recipient); err != nil {
			return nil, fmt.Errorf("sessionstore: %w", err)
		}
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		backend:    config.Backend,
		format:     format,
		recipients: config.Recipients,
		identities: config.Identities,
		clock:      clk,
		logger:     logger,
	}, nil
}

var validName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

func (store *Store) key(name string) (string, error) {
	if !validName.MatchString(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name + "." + string(store.format), nil
}

// Save stores snapshot under name, replacing any previous one.
func (store *Store) Save(ctx context.Context, name string, snapshot session.Snapshot) error {
	key, err := store.key(name)
	if err != nil {
		return err
	}

	value, err := store.encode(snapshot)
	if err != nil {
		return fmt.Errorf("sessionstore: encoding %s: %w", name, err)
	}

	if len(store.recipients) > 0 {
		ciphertext, err := sealed.Encrypt(value, store.recipients)
		if err != nil {
			return fmt.Errorf("sessionstore: sealing %s: %w", name, err)
		}
		value = append(bytes.Clone(sealedPrefix), ciphertext...)
	}

	ttl := store.ttl(snapshot)
	if ttl < 0 {
		store.logger.Warn("saving an already expired session", "name", name)
		ttl = 0
	}
	if err := store.backend.Put(ctx, key, value, ttl); err != nil {
		return fmt.Errorf("sessionstore: saving %s: %w", name, err)
	}

	store.logger.Debug("session saved",
		"name", name,
		"format", store.format,
		"sealed", len(store.recipients) > 0,
		"ttl", ttl,
	)
	return nil
}

// Load returns the snapshot stored under name.
func (store *Store) Load(ctx context.Context, name string) (session.Snapshot, error) {
	value, err := store.read(ctx, name)
	if err != nil {
		return session.Snapshot{}, err
	}
	snapshot, err := store.decode(value)
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("sessionstore: decoding %s: %w", name, err)
	}
	return snapshot, nil
}

// Dump returns the stored snapshot under name as text, unsealed: the
// JSON document itself, or the CBOR diagnostic notation.
func (store *Store) Dump(ctx context.Context, name string) (string, error) {
	value, err := store.read(ctx, name)
	if err != nil {
		return "", err
	}
	if store.format == FormatCBOR {
		diagnostic, err := codec.Diagnose(value)
		if err != nil {
			return "", fmt.Errorf("sessionstore: decoding %s: %w", name, err)
		}
		return diagnostic, nil
	}
	return string(value), nil
}

// read returns the encoded snapshot under name, opening it if sealed.
func (store *Store) read(ctx context.Context, name string) ([]byte, error) {
	key, err := store.key(name)
	if err != nil {
		return nil, err
	}

	value, err := store.backend.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("sessionstore: loading %s: %w", name, err)
	}

	ciphertext, ok := bytes.CutPrefix(value, sealedPrefix)
	if !ok {
		return value, nil
	}
	if len(store.identities) == 0 {
		return nil, fmt.Errorf("sessionstore: loading %s: %w", name, ErrSealed)
	}
	value, err = sealed.Decrypt(string(ciphertext), store.identities...)
	if err != nil {
		return nil, fmt.Errorf("sessionstore: opening %s: %w", name, err)
	}
	return value, nil
}

// Delete removes the snapshot stored under name.
func (store *Store) Delete(ctx context.Context, name string) error {
	key, err := store.key(name)
	if err != nil {
		return err
	}
	if err := store.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("sessionstore: deleting %s: %w", name, err)
	}
	return nil
}

func (store *Store) encode(snapshot session.Snapshot) ([]byte, error) {
	if store.format == FormatCBOR {
		return codec.Marshal(snapshot)
	}
	return json.MarshalIndent(snapshot, "", "  ")
}

func (store *Store) decode(value []byte) (session.Snapshot, error) {
	var snapshot session.Snapshot
	var err error
	if store.format == FormatCBOR {
		err = codec.Unmarshal(value, &snapshot)
	} else {
		err = json.Unmarshal(value, &snapshot)
	}
	return snapshot, err
}

// ttl is how long the snapshot stays useful: until its expiry, or
// forever (zero) for infinite and unauthenticated sessions. Negative
// means it has already expired.
func (store *Store) ttl(snapshot session.Snapshot) time.Duration {
	if snapshot.Expires == nil || *snapshot.Expires == 0 {
		return 0
	}
	remaining := time.Unix(*snapshot.Expires, 0).Sub(store.clock.Now())
	if remaining <= 0 {
		return -1
	}
	return remaining
}
