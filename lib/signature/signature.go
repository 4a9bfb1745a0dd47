// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package signature

import (
	"crypto/md5"
	"encoding/hex"
	"slices"
	"strconv"
	"strings"
)

// Sign returns the lowercase hexadecimal signature of params under
// secret. params must already hold the exact strings that will be
// transmitted; list values are flattened with JoinList before they
// reach here so that the signed and sent forms cannot diverge.
func Sign(params map[string]string, secret string) string {
	digest := md5.Sum([]byte(Canonical(params) + secret))
	return hex.EncodeToString(digest[:])
}

// Canonical returns the sorted, concatenated "key=value" rendering of
// params that Sign digests. Exposed for diagnostics ("fbsession sign
// --canonical") where comparing the canonical string against a
// server-side rejection is the only practical way to find a mismatch.
func Canonical(params map[string]string) string {
	pairs := make([]string, 0, len(params))
	for key, value := range params {
		pairs = append(pairs, key+"="+value)
	}
	slices.Sort(pairs)
	return strings.Join(pairs, "")
}

// Verify reports whether sig is the signature of params under secret.
func Verify(params map[string]string, secret, sig string) bool {
	return Sign(params, secret) == strings.ToLower(sig)
}

// JoinList renders a list parameter the way the REST server expects
// it: values joined by commas, no spaces.
func JoinList(values []string) string {
	return strings.Join(values, ",")
}

// JoinIDs renders a list of numeric ids as a comma-joined string.
func JoinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
