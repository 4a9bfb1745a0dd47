// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/bureau-foundation/fbsession/lib/rest"
)

func TestKindOf(t *testing.T) {
	tests := map[string]RecordKind{
		"user":         KindUser,
		"photo":        KindPhoto,
		"event_member": KindEventMember,
		"Photo":        KindPhoto,
		"album":        KindUnknown,
		"":             KindUnknown,
	}
	for tag, want := range tests {
		if got := KindOf(tag); got != want {
			t.Errorf("KindOf(%q) = %v, want %v", tag, got, want)
		}
	}
	if KindEventMember.String() != "event_member" {
		t.Errorf("String = %q", KindEventMember.String())
	}
}

func TestQuery_PhotosInOrder(t *testing.T) {
	session, transport, _ := newTestSession(t, WebPolicy())
	transport.reply(MethodFQLQuery, &rest.Response{
		ListType: "photo",
		Value: []any{
			map[string]any{"pid": "100", "aid": "9", "caption": "first"},
			map[string]any{"pid": "200", "aid": "9", "caption": "second"},
		},
	})

	records, err := session.Query(context.Background(), "SELECT pid, aid, caption FROM photo WHERE aid = 9", "")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for index, want := range []string{"100", "200"} {
		if records[index].Kind != KindPhoto || records[index].Photo == nil {
			t.Fatalf("record %d is not a photo: %+v", index, records[index])
		}
		if records[index].Photo.PID != want {
			t.Errorf("record %d pid = %q, want %q", index, records[index].Photo.PID, want)
		}
	}

	call := transport.lastCall(t)
	if call["format"] != "XML" || call["query"] == "" {
		t.Errorf("query params = %v", call)
	}
}

func TestQuery_UnknownTypeIsEmpty(t *testing.T) {
	session, transport, _ := newTestSession(t, WebPolicy())
	transport.reply(MethodFQLQuery, &rest.Response{
		ListType: "album",
		Value: []any{
			map[string]any{"aid": "1"},
			map[string]any{"aid": "2"},
			map[string]any{"aid": "3"},
		},
	})

	records, err := session.Query(context.Background(), "SELECT aid FROM album WHERE owner = 1", "")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records for an unrecognized type, want 0", len(records))
	}
}

func TestQuery_UsersBoundToSession(t *testing.T) {
	session, transport, _ := newTestSession(t, WebPolicy())
	transport.reply(MethodFQLQuery, &rest.Response{
		ListType: "user",
		Value: []any{
			map[string]any{"uid": "42", "name": "Ada"},
		},
	})

	records, err := session.Query(context.Background(), "SELECT uid, name FROM user WHERE uid = 42", "")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 1 || records[0].User == nil {
		t.Fatalf("records = %+v", records)
	}
	user := records[0].User
	if user.UID != 42 || user.Name != "Ada" {
		t.Errorf("user = %+v", user)
	}
	if user.Owner() != session {
		t.Error("user should be bound to the querying session")
	}
}

func TestQuery_InfersTypeFromTable(t *testing.T) {
	session, transport, _ := newTestSession(t, WebPolicy())
	transport.reply(MethodFQLQuery, &rest.Response{
		Value: []any{
			map[string]any{"uid": json.Number("1"), "eid": json.Number("7"), "rsvp_status": "attending"},
			map[string]any{"uid": json.Number("2"), "eid": json.Number("7"), "rsvp_status": "declined"},
		},
	})

	records, err := session.Query(context.Background(), "select uid, eid, rsvp_status from event_member where eid = 7", "JSON")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if member := records[1].EventMember; member == nil || member.UID != 2 || member.RSVPStatus != "declined" {
		t.Errorf("second record = %+v", records[1])
	}
	if transport.lastCall(t)["format"] != "JSON" {
		t.Error("explicit format not sent")
	}
}

func TestQuery_EmptyReply(t *testing.T) {
	session, transport, _ := newTestSession(t, WebPolicy())
	transport.reply(MethodFQLQuery, &rest.Response{Value: ""})

	records, err := session.Query(context.Background(), "SELECT pid FROM photo WHERE aid = 0", "")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records", len(records))
	}
}

func TestQuery_FQLErrorPassesThrough(t *testing.T) {
	session, transport, _ := newTestSession(t, WebPolicy())
	transport.fail(MethodFQLQuery, &rest.APIError{Code: 602, Message: "foo is not a member of the user table."})

	_, err := session.Query(context.Background(), "SELECT foo FROM user", "")
	if !errors.Is(err, rest.ErrFQLFieldDoesNotExist) {
		t.Fatalf("expected ErrFQLFieldDoesNotExist, got %v", err)
	}
	if !rest.IsFQLError(err) {
		t.Error("IsFQLError should hold")
	}
}

func TestTagFromQuery(t *testing.T) {
	tests := map[string]string{
		"SELECT name FROM user WHERE uid = 1":        "user",
		"select pid from   PHOTO where aid = 1":       "photo",
		"SELECT uid FROM event_member WHERE eid = 3": "event_member",
		"SELECT aid FROM album":                      "",
		"SELECT 1":                                   "",
	}
	for query, want := range tests {
		if got := tagFromQuery(query); got != want {
			t.Errorf("tagFromQuery(%q) = %q, want %q", query, got, want)
		}
	}
}
