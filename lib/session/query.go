// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/bureau-foundation/fbsession/lib/record"
	"github.com/bureau-foundation/fbsession/lib/rest"
)

// DefaultQueryFormat is the reply format requested for structured
// queries. XML replies name their record type; JSON replies do not.
const DefaultQueryFormat = "XML"

// RecordKind is the closed set of record types a structured query can
// produce.
type RecordKind int

const (
	// KindUnknown marks a result type with no hydration. Records of
	// this kind are dropped from query results.
	KindUnknown RecordKind = iota
	KindUser
	KindPhoto
	KindEventMember
)

var kindNames = map[RecordKind]string{
	KindUnknown:     "unknown",
	KindUser:        "user",
	KindPhoto:       "photo",
	KindEventMember: "event_member",
}

func (kind RecordKind) String() string {
	if name, ok := kindNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("RecordKind(%d)", int(kind))
}

// KindOf maps a result type tag to its kind. Every tag has a kind;
// unrecognized tags are KindUnknown.
func KindOf(tag string) RecordKind {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "user":
		return KindUser
	case "photo":
		return KindPhoto
	case "event_member":
		return KindEventMember
	}
	return KindUnknown
}

// tableKinds maps FQL table names to the tag their rows carry, for
// replies that do not name a type.
var tableKinds = map[string]string{
	"user":         "user",
	"photo":        "photo",
	"event_member": "event_member",
}

var fromClause = regexp.MustCompile(`(?i)\bfrom\s+([a-z_][a-z0-9_]*)`)

// tagFromQuery returns the result type tag implied by the table in the
// query's FROM clause, or "".
func tagFromQuery(query string) string {
	match := fromClause.FindStringSubmatch(query)
	if match == nil {
		return ""
	}
	return tableKinds[strings.ToLower(match[1])]
}

// Record is one hydrated structured-query row. Exactly one of the
// pointer fields is set, matching Kind.
type Record struct {
	Kind        RecordKind
	User        *record.User
	Photo       *record.Photo
	EventMember *record.Attendance
}

// TypeRecords hydrates rows of the given result type. Users are bound
// to owner. An unrecognized tag yields no records at all.
func TypeRecords(tag string, rows []map[string]any, owner record.Owner) []Record {
	kind := KindOf(tag)
	if kind == KindUnknown {
		return nil
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		switch kind {
		case KindUser:
			records = append(records, Record{Kind: kind, User: record.UserFromMap(row, owner)})
		case KindPhoto:
			records = append(records, Record{Kind: kind, Photo: record.PhotoFromMap(row)})
		case KindEventMember:
			records = append(records, Record{Kind: kind, EventMember: record.AttendanceFromMap(row)})
		}
	}
	return records
}

// Query runs a structured (FQL) query and hydrates the rows. format is
// the requested reply format; "" selects DefaultQueryFormat.
//
// The result type comes from the reply when it names one, otherwise
// from the table the query selects from. Rows of a type with no
// hydration are dropped and the result is empty; callers must not
// assume one record per row.
func (session *Session) Query(ctx context.Context, query, format string) ([]Record, error) {
	if format == "" {
		format = DefaultQueryFormat
	}
	response, err := session.Post(ctx, MethodFQLQuery, rest.Params{"query": query, "format": format})
	if err != nil {
		return nil, err
	}
	rows, err := response.Records()
	if err != nil {
		return nil, fmt.Errorf("session: query: %w", err)
	}

	tag := response.ListType
	if tag == "" {
		tag = tagFromQuery(query)
	}
	if KindOf(tag) == KindUnknown && len(rows) > 0 {
		session.logger.Debug("dropping query rows of unrecognized type",
			"type", tag,
			"rows", len(rows),
		)
	}
	return TypeRecords(tag, rows, session), nil
}
