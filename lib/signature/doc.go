// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package signature implements the REST server's request signing scheme.
//
// A signature is computed by rendering every parameter as "key=value",
// sorting those strings lexicographically, concatenating them without a
// separator, appending the secret, and taking the lowercase hex MD5
// digest of the result. Sorting makes the signature a function of the
// set of pairs rather than of insertion order. The secret is appended
// only at signing time and is never a request parameter.
//
// MD5 is mandated by the remote platform; it is not a choice this
// package makes. Do not reuse it for anything else.
package signature
