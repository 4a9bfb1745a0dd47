// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides bounded HTTP response reading.
//
// The REST server answers every call with a small XML or JSON document.
// ReadResponse and ReadBody bound the read at MaxResponseSize so that a
// misbehaving server or proxy cannot exhaust memory, and ReadBody
// transparently inflates gzip-encoded bodies when the caller asked for
// compression itself (which disables net/http's automatic inflation).
package netutil

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// MaxResponseSize bounds response body reads: 32 MB. The largest
// legitimate replies are structured-query result sets, which are orders
// of magnitude smaller.
const MaxResponseSize int64 = 32 << 20

// ReadResponse reads a response body up to MaxResponseSize bytes. Use
// instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ReadBody reads response's body, inflating it first when the server
// declared Content-Encoding: gzip. The decompressed size is bounded at
// MaxResponseSize as well, which guards against compression bombs.
// ReadBody does not close the body.
func ReadBody(response *http.Response) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(response.Header.Get("Content-Encoding")))
	switch encoding {
	case "", "identity":
		return ReadResponse(response.Body)
	case "gzip", "x-gzip":
		reader, err := gzip.NewReader(response.Body)
		if err != nil {
			return nil, fmt.Errorf("opening gzip body: %w", err)
		}
		defer reader.Close()
		data, err := ReadResponse(reader)
		if err != nil {
			return nil, fmt.Errorf("inflating gzip body: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported Content-Encoding %q", encoding)
	}
}

// ErrorBody reads an HTTP error response body and returns it as a string for
// diagnostic error messages. Read errors are silently ignored; a partial or
// empty body is still useful in an error message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, 4096))
	return string(data)
}
