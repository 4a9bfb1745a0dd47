// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

func stringField(fields map[string]any, key string) string {
	switch value := fields[key].(type) {
	case string:
		return value
	case json.Number:
		return value.String()
	case bool:
		return strconv.FormatBool(value)
	case nil:
		return ""
	default:
		return fmt.Sprint(value)
	}
}

func int64Field(fields map[string]any, key string) int64 {
	parsed, err := strconv.ParseInt(strings.TrimSpace(stringField(fields, key)), 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func floatField(fields map[string]any, key string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(stringField(fields, key)), 64)
	if err != nil {
		return 0
	}
	return parsed
}
