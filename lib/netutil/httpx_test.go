// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestReadResponse(t *testing.T) {
	t.Run("normal body", func(t *testing.T) {
		data, err := ReadResponse(bytes.NewReader([]byte(`{"status":"ok"}`)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"status":"ok"}` {
			t.Fatalf("got %q, want %q", data, `{"status":"ok"}`)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		data, err := ReadResponse(bytes.NewReader(nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(data) != 0 {
			t.Fatalf("expected empty, got %d bytes", len(data))
		}
	})

	t.Run("read error propagates", func(t *testing.T) {
		_, err := ReadResponse(&failReader{})
		if err == nil {
			t.Fatal("expected error from failing reader")
		}
	})
}

func TestReadBody(t *testing.T) {
	payload := `<auth_createToken_response>abc123</auth_createToken_response>`

	t.Run("identity", func(t *testing.T) {
		response := &http.Response{
			Header: http.Header{},
			Body:   io.NopCloser(strings.NewReader(payload)),
		}
		data, err := ReadBody(response)
		if err != nil {
			t.Fatalf("ReadBody: %v", err)
		}
		if string(data) != payload {
			t.Errorf("got %q, want %q", data, payload)
		}
	})

	t.Run("gzip", func(t *testing.T) {
		var compressed bytes.Buffer
		writer := gzip.NewWriter(&compressed)
		if _, err := writer.Write([]byte(payload)); err != nil {
			t.Fatalf("gzip write: %v", err)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("gzip close: %v", err)
		}

		response := &http.Response{
			Header: http.Header{"Content-Encoding": []string{"gzip"}},
			Body:   io.NopCloser(&compressed),
		}
		data, err := ReadBody(response)
		if err != nil {
			t.Fatalf("ReadBody: %v", err)
		}
		if string(data) != payload {
			t.Errorf("got %q, want %q", data, payload)
		}
	})

	t.Run("corrupt gzip", func(t *testing.T) {
		response := &http.Response{
			Header: http.Header{"Content-Encoding": []string{"gzip"}},
			Body:   io.NopCloser(strings.NewReader("not gzip")),
		}
		if _, err := ReadBody(response); err == nil {
			t.Fatal("expected error for corrupt gzip body")
		}
	})

	t.Run("unsupported encoding", func(t *testing.T) {
		response := &http.Response{
			Header: http.Header{"Content-Encoding": []string{"br"}},
			Body:   io.NopCloser(strings.NewReader(payload)),
		}
		if _, err := ReadBody(response); err == nil {
			t.Fatal("expected error for unsupported encoding")
		}
	})
}

func TestErrorBody(t *testing.T) {
	if got := ErrorBody(strings.NewReader("Service Unavailable")); got != "Service Unavailable" {
		t.Errorf("got %q", got)
	}
	if got := ErrorBody(&failReader{}); got != "" {
		t.Errorf("failing reader: got %q, want empty", got)
	}
}

type failReader struct{}

func (*failReader) Read([]byte) (int, error) {
	return 0, fmt.Errorf("simulated read failure")
}
