// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"filippo.io/age"

	"github.com/bureau-foundation/fbsession/cmd/fbsession/cli"
	"github.com/bureau-foundation/fbsession/lib/config"
	"github.com/bureau-foundation/fbsession/lib/credential"
	"github.com/bureau-foundation/fbsession/lib/rest"
	"github.com/bureau-foundation/fbsession/lib/sealed"
	"github.com/bureau-foundation/fbsession/lib/session"
	"github.com/bureau-foundation/fbsession/lib/sessionstore"
	"github.com/bureau-foundation/fbsession/lib/version"
)

// environment is everything a command needs to build, restore, and
// persist a session.
type environment struct {
	config *config.Config
	logger *slog.Logger
	client *rest.Client
	policy session.Policy

	backend sessionstore.Backend
	store   *sessionstore.Store
	closer  func() error
}

// loadConfig reads the config file named by --config, else by
// FBSESSION_CONFIG, else falls back to the built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case path != "":
		cfg, err = config.LoadFile(path)
	case os.Getenv("FBSESSION_CONFIG") != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, cli.Validation("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid config: %w", err)
	}
	return cfg, nil
}

// openEnvironment loads configuration and connects the snapshot
// store. Callers must call close.
func openEnvironment(ctx context.Context, global cli.GlobalParams, command string) (*environment, error) {
	cfg, err := loadConfig(global.ConfigFile)
	if err != nil {
		return nil, err
	}

	logger := cli.NewCommandLogger(global.Verbose).With(
		"command", command,
		"session", cfg.Session.Name,
	)

	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	client, err := rest.NewClient(rest.Config{
		URL:           cfg.API.RESTURL,
		AllowInsecure: cfg.API.AllowInsecure,
		HTTPClient:    &http.Client{Timeout: timeout},
		UserAgent:     version.UserAgent(),
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}

	policy, ok := session.PolicyByName(cfg.Session.Variant)
	if !ok {
		return nil, cli.Validation("unknown session variant %q", cfg.Session.Variant)
	}

	env := &environment{
		config: cfg,
		logger: logger,
		client: client,
		policy: policy,
		closer: func() error { return nil },
	}
	if err := env.openStore(ctx); err != nil {
		return nil, err
	}
	return env, nil
}

func (env *environment) openStore(ctx context.Context) error {
	format := sessionstore.FormatJSON
	switch env.config.Store.Backend {
	case config.BackendRedis:
		backend, err := sessionstore.NewRedisBackend(ctx, sessionstore.RedisConfig{
			Addr:      env.config.Store.Redis.Addr,
			KeyPrefix: env.config.Store.Redis.KeyPrefix,
		})
		if err != nil {
			return cli.Transient(err)
		}
		env.backend = backend
		env.closer = backend.Close
		format = sessionstore.FormatCBOR
	default:
		env.backend = sessionstore.FileBackend{Directory: env.config.Store.Path}
	}

	var identities []age.Identity
	if path := env.config.Store.Seal.IdentityFile; path != "" {
		loaded, err := sealed.ReadIdentityFile(path)
		if err != nil {
			env.closer()
			return err
		}
		identities = loaded
	}

	store, err := sessionstore.New(sessionstore.Config{
		Backend:    env.backend,
		Format:     format,
		Recipients: env.config.Store.Seal.Recipients,
		Identities: identities,
		Logger:     env.logger,
	})
	if err != nil {
		env.closer()
		return cli.Validation("%w", err)
	}
	env.store = store
	return nil
}

func (env *environment) close() {
	if err := env.closer(); err != nil {
		env.logger.Warn("closing session store", "error", err)
	}
}

// sessionConfig is the session configuration without keys.
func (env *environment) sessionConfig() session.Config {
	return session.Config{
		Transport:  env.client,
		Policy:     env.policy,
		LoginURL:   env.config.LoginURL(),
		InstallURL: env.config.InstallURL(),
		Logger:     env.logger,
	}
}

// newSession creates an unauthenticated session from the resolved
// application credentials.
func (env *environment) newSession() (*session.Session, error) {
	credentials, err := credential.Resolver{File: env.config.Credentials.File}.Resolve()
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	sessionConfig := env.sessionConfig()
	sessionConfig.APIKey = credentials.APIKey
	sessionConfig.SecretKey = credentials.SecretKey
	return session.New(sessionConfig)
}

// storedSession restores the session saved under the configured name.
func (env *environment) storedSession(ctx context.Context) (*session.Session, error) {
	snapshot, err := env.store.Load(ctx, env.config.Session.Name)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			return nil, cli.NotFound(fmt.Errorf("no stored session %q (run 'fbsession secure' first): %w",
				env.config.Session.Name, err))
		}
		return nil, err
	}
	return session.Restore(snapshot, env.sessionConfig())
}

// currentSession restores the stored session, or starts a new one
// when nothing is stored yet.
func (env *environment) currentSession(ctx context.Context) (*session.Session, error) {
	restored, err := env.storedSession(ctx)
	if err == nil {
		return restored, nil
	}
	if errors.Is(err, sessionstore.ErrNotFound) {
		env.logger.Debug("no stored session, starting a new one")
		return env.newSession()
	}
	return nil, err
}

func (env *environment) save(ctx context.Context, current *session.Session) error {
	return env.store.Save(ctx, env.config.Session.Name, current.Snapshot())
}

// classify marks platform throttling and outages as transient so the
// exit status tells scripts to retry.
func classify(err error) error {
	if err != nil && rest.IsTransient(err) {
		return cli.Transient(err)
	}
	return err
}
