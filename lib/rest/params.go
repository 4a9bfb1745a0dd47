// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rest

import (
	"maps"
	"net/url"
)

// Params is the parameter set of one REST call. Values are the exact
// strings that are signed and transmitted; list-valued parameters are
// flattened with signature.JoinList before they are stored here.
type Params map[string]string

// Clone returns a shallow copy of params. A nil receiver yields an
// empty, non-nil map.
func (params Params) Clone() Params {
	clone := make(Params, len(params)+6)
	maps.Copy(clone, params)
	return clone
}

// Encode renders params as an application/x-www-form-urlencoded body.
func (params Params) Encode() string {
	values := make(url.Values, len(params))
	for key, value := range params {
		values.Set(key, value)
	}
	return values.Encode()
}
