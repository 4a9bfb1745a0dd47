// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the
// fbsession binary.
//
// Three package-level variables are injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [Version] -- semantic version string (set manually for releases)
//
// [Info] formats them for --version output; [UserAgent] renders the
// User-Agent header sent to the REST server.
package version
