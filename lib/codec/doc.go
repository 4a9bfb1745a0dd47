// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides fbsession's standard CBOR encoding.
//
// Session snapshots are JSON on local disk and CBOR in shared stores
// (redis). Snapshot types carry only `json` tags: fxamacker/cbor v2
// reads `json` tags when `cbor` tags are absent, so one tag set names
// the fields in both formats.
//
//	data, err := codec.Marshal(snapshot)
//	err = codec.Unmarshal(data, &snapshot)
package codec
