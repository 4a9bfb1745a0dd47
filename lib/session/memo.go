// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
)

// memo holds a value computed at most once. The first successful
// computation wins and is never invalidated; a failed computation
// leaves the memo empty so the next call tries again.
type memo[T any] struct {
	mu    sync.Mutex
	done  bool
	value T
}

func (m *memo[T]) get(compute func() (T, error)) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return m.value, nil
	}
	value, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	m.value = value
	m.done = true
	return value, nil
}

func (m *memo[T]) set(value T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = value
	m.done = true
}

// peek returns the memoized value without computing it.
func (m *memo[T]) peek() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.done
}

// scalar renders a decoded reply value as the string the server sent.
func scalar(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case json.Number:
		return typed.String()
	case bool:
		return strconv.FormatBool(typed)
	case nil:
		return ""
	default:
		return fmt.Sprint(typed)
	}
}
