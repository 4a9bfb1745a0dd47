// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearEnvironment unsets both credential variables for the test.
func clearEnvironment(t *testing.T) {
	t.Helper()
	t.Setenv("FACEBOOK_API_KEY", "")
	t.Setenv("FACEBOOK_SECRET_KEY", "")
	os.Unsetenv("FACEBOOK_API_KEY")
	os.Unsetenv("FACEBOOK_SECRET_KEY")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestResolve_Environment(t *testing.T) {
	clearEnvironment(t)
	t.Setenv("FACEBOOK_API_KEY", "env-api")
	t.Setenv("FACEBOOK_SECRET_KEY", "env-secret")

	credentials, err := Resolver{}.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if credentials.APIKey != "env-api" || credentials.SecretKey != "env-secret" {
		t.Errorf("credentials = %+v", credentials)
	}
}

func TestResolve_EnvironmentWinsOverFile(t *testing.T) {
	clearEnvironment(t)
	t.Setenv("FACEBOOK_API_KEY", "env-api")
	path := writeFile(t, "credentials.yaml", "api_key: file-api\nsecret_key: file-secret\n")

	credentials, err := Resolver{File: path}.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if credentials.APIKey != "env-api" {
		t.Errorf("api key = %q, want the environment's", credentials.APIKey)
	}
	if credentials.SecretKey != "file-secret" {
		t.Errorf("secret key = %q, want the file's", credentials.SecretKey)
	}
}

func TestResolve_JSONCFile(t *testing.T) {
	clearEnvironment(t)
	path := writeFile(t, "credentials.jsonc", `{
		// issued by the developer app page
		"api_key": "json-api",
		"secret_key": "json-secret", /* trailing comma below */
	}`)

	credentials, err := Resolver{File: path}.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if credentials.APIKey != "json-api" || credentials.SecretKey != "json-secret" {
		t.Errorf("credentials = %+v", credentials)
	}
}

func TestResolve_MissingKey(t *testing.T) {
	clearEnvironment(t)
	path := writeFile(t, "credentials.yaml", "api_key: only-api\n")

	_, err := Resolver{File: path}.Resolve()
	if !errors.Is(err, ErrConfigurationMissing) {
		t.Fatalf("expected ErrConfigurationMissing, got %v", err)
	}
	if !strings.Contains(err.Error(), "secret key") || strings.Contains(err.Error(), "api key") {
		t.Errorf("error should name only the secret key: %v", err)
	}
}

func TestResolve_NothingConfigured(t *testing.T) {
	clearEnvironment(t)

	_, err := Resolver{File: filepath.Join(t.TempDir(), "absent.yaml")}.Resolve()
	if !errors.Is(err, ErrConfigurationMissing) {
		t.Fatalf("expected ErrConfigurationMissing, got %v", err)
	}
	for _, key := range []string{"api key", "secret key"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error should name %s: %v", key, err)
		}
	}
}

func TestResolve_MalformedFile(t *testing.T) {
	clearEnvironment(t)
	path := writeFile(t, "credentials.yaml", "api_key: [unterminated\n")

	_, err := Resolver{File: path}.Resolve()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if errors.Is(err, ErrConfigurationMissing) {
		t.Error("a malformed file is not a missing configuration")
	}
}

func TestParse_TrimsWhitespace(t *testing.T) {
	credentials, err := Parse("creds.yml", []byte("api_key: \"  a  \"\nsecret_key: s\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if credentials.APIKey != "a" {
		t.Errorf("api key = %q", credentials.APIKey)
	}
}

func TestDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultFile(); got != "/xdg/fbsession/credentials.yaml" {
		t.Errorf("DefaultFile = %q", got)
	}
}
