// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind the fbsession
// binary: a tree of [Command] values with pflag flag sets bound from
// tagged parameter structs, structured help, typo suggestions for
// commands and flags, and a terminal-aware slog logger.
package cli
