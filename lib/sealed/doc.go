// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed provides age encryption for stored session snapshots.
// It wraps filippo.io/age for the operations fbsession needs: generate
// x25519 keypairs, encrypt to one or more recipients, and decrypt with
// an identity read from a key file.
//
// Ciphertext is base64-encoded so sealed snapshots stay printable in
// files and redis values. Callers pass plaintext []byte to [Encrypt]
// and receive a base64 string; [Decrypt] reverses it.
//
// A snapshot holds the application secret and the session secret, so
// sealing is worth turning on whenever the store is shared.
package sealed
