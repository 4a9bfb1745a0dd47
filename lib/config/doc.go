// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for fbsession.
//
// Configuration is loaded from a single file specified by either the
// FBSESSION_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no automatic file search.
//
// The configuration file supports environment-specific sections
// (development, staging, production) that override base values when
// [Config].Environment matches. Production never permits plain HTTP
// endpoints.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. No other
// environment variables override config values; application keys are
// resolved separately by the credential package.
//
// This package depends on no other fbsession packages.
package config
