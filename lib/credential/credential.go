// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ErrConfigurationMissing is returned when a key cannot be found in
// any source.
var ErrConfigurationMissing = errors.New("credential: configuration missing")

// Credentials are the application's keys.
type Credentials struct {
	APIKey    string `env:"FACEBOOK_API_KEY" yaml:"api_key" json:"api_key"`
	SecretKey string `env:"FACEBOOK_SECRET_KEY" yaml:"secret_key" json:"secret_key"`
}

// Resolver looks up Credentials.
type Resolver struct {
	// File is the credentials file consulted for keys the environment
	// does not supply. Empty skips the file. A missing file is the same
	// as an empty one; an unreadable or malformed file is an error.
	File string
}

// DefaultFile returns the conventional credentials file location,
// $XDG_CONFIG_HOME/fbsession/credentials.yaml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultFile() string {
	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "fbsession", "credentials.yaml")
}

// Resolve returns both keys. A key missing from every source yields an
// error wrapping ErrConfigurationMissing that names the key.
func (resolver Resolver) Resolve() (Credentials, error) {
	credentials, err := resolver.fromEnvironment()
	if err != nil {
		return Credentials{}, err
	}

	if credentials.APIKey == "" || credentials.SecretKey == "" {
		fromFile, err := resolver.fromFile()
		if err != nil {
			return Credentials{}, err
		}
		if credentials.APIKey == "" {
			credentials.APIKey = fromFile.APIKey
		}
		if credentials.SecretKey == "" {
			credentials.SecretKey = fromFile.SecretKey
		}
	}

	var missing []error
	if credentials.APIKey == "" {
		missing = append(missing, fmt.Errorf("%w: could not find api key", ErrConfigurationMissing))
	}
	if credentials.SecretKey == "" {
		missing = append(missing, fmt.Errorf("%w: could not find secret key", ErrConfigurationMissing))
	}
	if len(missing) > 0 {
		return Credentials{}, errors.Join(missing...)
	}
	return credentials, nil
}

func (resolver Resolver) fromEnvironment() (Credentials, error) {
	var credentials Credentials
	err := envdecode.Decode(&credentials)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Credentials{}, fmt.Errorf("credential: reading environment: %w", err)
	}
	return credentials, nil
}

func (resolver Resolver) fromFile() (Credentials, error) {
	if resolver.File == "" {
		return Credentials{}, nil
	}
	data, err := os.ReadFile(resolver.File)
	if errors.Is(err, os.ErrNotExist) {
		return Credentials{}, nil
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("credential: reading %s: %w", resolver.File, err)
	}
	credentials, err := Parse(resolver.File, data)
	if err != nil {
		return Credentials{}, fmt.Errorf("credential: %s: %w", resolver.File, err)
	}
	return credentials, nil
}

// Parse decodes credentials file contents. name selects the format:
// JSON with comments for .json and .jsonc, YAML otherwise.
func Parse(name string, data []byte) (Credentials, error) {
	var credentials Credentials
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &credentials); err != nil {
			return Credentials{}, fmt.Errorf("parsing JSON credentials: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &credentials); err != nil {
			return Credentials{}, fmt.Errorf("parsing YAML credentials: %w", err)
		}
	}
	credentials.APIKey = strings.TrimSpace(credentials.APIKey)
	credentials.SecretKey = strings.TrimSpace(credentials.SecretKey)
	return credentials, nil
}
