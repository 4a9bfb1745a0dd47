// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/fbsession/lib/credential"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Store backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the master configuration for fbsession.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// API configures the remote endpoints.
	API APIConfig `yaml:"api"`

	// Credentials configures where the application keys come from.
	Credentials CredentialsConfig `yaml:"credentials"`

	// Store configures where session snapshots are kept.
	Store StoreConfig `yaml:"store"`

	// Session selects the session variant and the stored session name.
	Session SessionConfig `yaml:"session"`

	// EnvironmentOverrides contains per-environment overrides.
	// These are applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	API     *APIConfig     `yaml:"api,omitempty"`
	Store   *StoreConfig   `yaml:"store,omitempty"`
	Session *SessionConfig `yaml:"session,omitempty"`
}

// APIConfig configures the remote endpoints.
type APIConfig struct {
	// RESTURL is the REST server endpoint.
	// Default: https://api.facebook.com/restserver.php
	RESTURL string `yaml:"rest_url"`

	// WWWURL is the base of the login and install pages.
	// Default: https://www.facebook.com
	WWWURL string `yaml:"www_url"`

	// Timeout bounds each REST call.
	// Default: 30s
	Timeout string `yaml:"timeout"`

	// AllowInsecure permits http:// endpoints, for local test servers.
	// Never honored in production.
	AllowInsecure bool `yaml:"allow_insecure"`
}

// CredentialsConfig configures the credential file.
type CredentialsConfig struct {
	// File is the YAML or JSONC credentials file consulted after the
	// environment.
	// Default: $XDG_CONFIG_HOME/fbsession/credentials.yaml
	File string `yaml:"file"`
}

// StoreConfig configures the session snapshot store.
type StoreConfig struct {
	// Backend is "file" or "redis".
	// Default: file
	Backend string `yaml:"backend"`

	// Path is the directory holding snapshot files (file backend).
	// Default: $XDG_CONFIG_HOME/fbsession/sessions
	Path string `yaml:"path"`

	// Redis configures the redis backend.
	Redis RedisConfig `yaml:"redis"`

	// Seal encrypts snapshots at rest when recipients are configured.
	Seal SealConfig `yaml:"seal"`
}

// RedisConfig configures the redis snapshot backend.
type RedisConfig struct {
	// Addr is host:port of the redis server.
	// Default: localhost:6379
	Addr string `yaml:"addr"`

	// KeyPrefix is prepended to every snapshot key.
	// Default: fbsession:sessions:
	KeyPrefix string `yaml:"key_prefix"`
}

// SealConfig configures age encryption of stored snapshots.
type SealConfig struct {
	// Recipients are age public keys (age1...). Empty disables sealing.
	Recipients []string `yaml:"recipients"`

	// IdentityFile holds the age private key used to open sealed
	// snapshots.
	IdentityFile string `yaml:"identity_file"`
}

// SessionConfig selects the session variant.
type SessionConfig struct {
	// Variant is "web", "token", or "canvas".
	// Default: web
	Variant string `yaml:"variant"`

	// Name is the key the session snapshot is stored under.
	// Default: default
	Name string `yaml:"name"`
}

// Default returns the default configuration.
// These defaults are used as a base before loading the config file.
func Default() *Config {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	defaultRoot := filepath.Join(configDir, "fbsession")

	return &Config{
		Environment: Development,
		API: APIConfig{
			RESTURL: "https://api.facebook.com/restserver.php",
			WWWURL:  "https://www.facebook.com",
			Timeout: "30s",
		},
		Credentials: CredentialsConfig{
			File: credential.DefaultFile(),
		},
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    filepath.Join(defaultRoot, "sessions"),
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "fbsession:sessions:",
			},
		},
		Session: SessionConfig{
			Variant: "web",
			Name:    "default",
		},
	}
}

// Load loads configuration from the FBSESSION_CONFIG environment
// variable. There is no fallback: if FBSESSION_CONFIG is not set, this
// fails.
func Load() (*Config, error) {
	configPath := os.Getenv("FBSESSION_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("FBSESSION_CONFIG environment variable not set; " +
			"set it to the path of your fbsession.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// Environment variables do not override config values. The only
// expansion performed is ${HOME} and similar variables in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides != nil {
		if overrides.API != nil {
			if overrides.API.RESTURL != "" {
				c.API.RESTURL = overrides.API.RESTURL
			}
			if overrides.API.WWWURL != "" {
				c.API.WWWURL = overrides.API.WWWURL
			}
			if overrides.API.Timeout != "" {
				c.API.Timeout = overrides.API.Timeout
			}
			// AllowInsecure is a bool, so it is always applied from overrides.
			c.API.AllowInsecure = overrides.API.AllowInsecure
		}

		if overrides.Store != nil {
			if overrides.Store.Backend != "" {
				c.Store.Backend = overrides.Store.Backend
			}
			if overrides.Store.Path != "" {
				c.Store.Path = overrides.Store.Path
			}
			if overrides.Store.Redis.Addr != "" {
				c.Store.Redis.Addr = overrides.Store.Redis.Addr
			}
			if overrides.Store.Redis.KeyPrefix != "" {
				c.Store.Redis.KeyPrefix = overrides.Store.Redis.KeyPrefix
			}
			if len(overrides.Store.Seal.Recipients) > 0 {
				c.Store.Seal.Recipients = overrides.Store.Seal.Recipients
			}
			if overrides.Store.Seal.IdentityFile != "" {
				c.Store.Seal.IdentityFile = overrides.Store.Seal.IdentityFile
			}
		}

		if overrides.Session != nil {
			if overrides.Session.Variant != "" {
				c.Session.Variant = overrides.Session.Variant
			}
			if overrides.Session.Name != "" {
				c.Session.Name = overrides.Session.Name
			}
		}
	}

	// Production never talks plain HTTP, whatever the file says.
	if c.Environment == Production {
		c.API.AllowInsecure = false
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Credentials.File = expandVars(c.Credentials.File, vars)
	c.Store.Path = expandVars(c.Store.Path, vars)
	c.Store.Seal.IdentityFile = expandVars(c.Store.Seal.IdentityFile, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Timeout returns the parsed API timeout.
func (c *Config) Timeout() (time.Duration, error) {
	timeout, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0, fmt.Errorf("api.timeout: %w", err)
	}
	return timeout, nil
}

// LoginURL returns the login page URL under API.WWWURL.
func (c *Config) LoginURL() string {
	return strings.TrimSuffix(c.API.WWWURL, "/") + "/login.php"
}

// InstallURL returns the install page URL under API.WWWURL.
func (c *Config) InstallURL() string {
	return strings.TrimSuffix(c.API.WWWURL, "/") + "/install.php"
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	for name, raw := range map[string]string{"api.rest_url": c.API.RESTURL, "api.www_url": c.API.WWWURL} {
		parsed, err := url.Parse(raw)
		if raw == "" || err != nil || parsed.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute URL, got %q", name, raw))
			continue
		}
		if parsed.Scheme != "https" && !(parsed.Scheme == "http" && c.API.AllowInsecure) {
			errs = append(errs, fmt.Errorf("%s must use https, got %q", name, raw))
		}
	}

	if timeout, err := c.Timeout(); err != nil {
		errs = append(errs, err)
	} else if timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout))
	}

	backends := []string{BackendFile, BackendRedis}
	if !slices.Contains(backends, c.Store.Backend) {
		errs = append(errs, fmt.Errorf("store.backend must be one of: %v", backends))
	}
	if c.Store.Backend == BackendFile && c.Store.Path == "" {
		errs = append(errs, fmt.Errorf("store.path is required for the file backend"))
	}
	if c.Store.Backend == BackendRedis && c.Store.Redis.Addr == "" {
		errs = append(errs, fmt.Errorf("store.redis.addr is required for the redis backend"))
	}
	if len(c.Store.Seal.Recipients) > 0 && c.Store.Seal.IdentityFile == "" {
		errs = append(errs, fmt.Errorf("store.seal.identity_file is required when store.seal.recipients is set"))
	}

	variants := []string{"web", "token", "canvas"}
	if !slices.Contains(variants, c.Session.Variant) {
		errs = append(errs, fmt.Errorf("session.variant must be one of: %v", variants))
	}
	if c.Session.Name == "" {
		errs = append(errs, fmt.Errorf("session.name is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
