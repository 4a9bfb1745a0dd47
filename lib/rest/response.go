// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rest

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// Response is a decoded REST server reply.
//
// Value holds the document in generic form: map[string]any for a
// structured object, []any for a list, string for a scalar (numbers
// from JSON documents arrive as json.Number, booleans as bool), or nil
// for an empty reply.
//
// ListType is the element name shared by the items of a list reply in
// XML form ("user", "photo", "event_member", ...). Structured queries
// use it as the result type tag. JSON replies carry no such tag and
// leave ListType empty.
type Response struct {
	Value    any
	ListType string
}

// Map returns the reply as a structured object.
func (response *Response) Map() (map[string]any, error) {
	object, ok := response.Value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("rest: expected object reply, got %s", describe(response.Value))
	}
	return object, nil
}

// Records returns the reply as a list of structured objects. An empty
// reply (nil, empty string, or empty object, which is how the server
// renders an empty list in some formats) is an empty list.
func (response *Response) Records() ([]map[string]any, error) {
	switch value := response.Value.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(value) == "" {
			return nil, nil
		}
	case map[string]any:
		if len(value) == 0 {
			return nil, nil
		}
	case []any:
		records := make([]map[string]any, 0, len(value))
		for index, item := range value {
			record, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("rest: list item %d: expected object, got %s", index, describe(item))
			}
			records = append(records, record)
		}
		return records, nil
	}
	return nil, fmt.Errorf("rest: expected list reply, got %s", describe(response.Value))
}

// Text returns a scalar reply rendered as a string.
func (response *Response) Text() (string, error) {
	switch value := response.Value.(type) {
	case string:
		return value, nil
	case json.Number:
		return value.String(), nil
	case bool:
		return strconv.FormatBool(value), nil
	}
	return "", fmt.Errorf("rest: expected scalar reply, got %s", describe(response.Value))
}

func describe(value any) string {
	switch value.(type) {
	case nil:
		return "empty reply"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	default:
		return fmt.Sprintf("%T", value)
	}
}

// decodeJSON decodes a JSON reply. Numbers are kept as json.Number so
// 64-bit ids survive intact.
func decodeJSON(body []byte) (*Response, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &Response{}, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("rest: decoding JSON reply: %w", err)
	}
	if object, ok := value.(map[string]any); ok {
		if _, isError := object["error_code"]; isError {
			return nil, apiErrorFromFields(object)
		}
	}
	return &Response{Value: value}, nil
}

// xmlNode is one element of an XML reply.
type xmlNode struct {
	name     string
	list     bool
	text     strings.Builder
	children []*xmlNode
}

// decodeXML decodes an XML reply. The server's XML dialect is simple:
// elements carrying list="true" hold repeated items, elements with
// child elements are objects, and leaf elements are strings. Replies
// declaring a non-UTF-8 encoding are transcoded.
func decodeXML(body []byte) (*Response, error) {
	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.CharsetReader = charset.NewReaderLabel
	var stack []*xmlNode
	var root *xmlNode

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("rest: decoding XML reply: %w", err)
		}
		switch element := token.(type) {
		case xml.StartElement:
			node := &xmlNode{name: element.Name.Local}
			for _, attribute := range element.Attr {
				if attribute.Name.Local == "list" && attribute.Value == "true" {
					node.list = true
				}
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			} else if root == nil {
				root = node
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("rest: decoding XML reply: unbalanced </%s>", element.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(element)
			}
		}
	}

	if root == nil {
		return &Response{}, nil
	}
	if root.name == "error_response" {
		fields, _ := root.value().(map[string]any)
		return nil, apiErrorFromFields(fields)
	}

	response := &Response{Value: root.value()}
	if root.list && len(root.children) > 0 {
		response.ListType = root.children[0].name
	}
	return response, nil
}

func (node *xmlNode) value() any {
	if node.list {
		items := make([]any, 0, len(node.children))
		for _, child := range node.children {
			items = append(items, child.value())
		}
		return items
	}
	if len(node.children) == 0 {
		return strings.TrimSpace(node.text.String())
	}
	object := make(map[string]any, len(node.children))
	for _, child := range node.children {
		object[child.name] = child.value()
	}
	return object
}

// apiErrorFromFields builds an APIError from an error document's
// fields. The failing method is recovered from request_args when the
// server echoes them.
func apiErrorFromFields(fields map[string]any) *APIError {
	apiError := &APIError{Code: 1}
	if code, err := strconv.Atoi(scalarString(fields["error_code"])); err == nil {
		apiError.Code = code
	}
	apiError.Message = scalarString(fields["error_msg"])
	apiError.Method = requestArgument(fields["request_args"], "method")
	return apiError
}

func requestArgument(arguments any, key string) string {
	var items []any
	switch value := arguments.(type) {
	case []any:
		items = value
	case map[string]any:
		// XML renders request_args as <request_args list="true"><arg>...
		// which decodes to a list; tolerate a single unwrapped arg.
		items = []any{value}
	}
	for _, item := range items {
		argument, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if scalarString(argument["key"]) == key {
			return scalarString(argument["value"])
		}
	}
	return ""
}

func scalarString(value any) string {
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
