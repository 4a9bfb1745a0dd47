// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential resolves the application's API key and secret
// key.
//
// Each key is looked up on its own, first in the environment
// (FACEBOOK_API_KEY, FACEBOOK_SECRET_KEY) and then in a credentials
// file. The file is YAML, or JSON with comments when its name ends in
// .json or .jsonc:
//
//	api_key: 0123456789abcdef
//	secret_key: fedcba9876543210
//
// The file path is always explicit. There is no process-wide default
// that one caller could change under another.
package credential
