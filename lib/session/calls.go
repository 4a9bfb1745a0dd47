// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bureau-foundation/fbsession/lib/record"
	"github.com/bureau-foundation/fbsession/lib/rest"
	"github.com/bureau-foundation/fbsession/lib/signature"
)

// Methods wrapped by the convenience calls.
const (
	MethodEventsGet         = "facebook.events.get"
	MethodEventsGetMembers  = "facebook.events.getMembers"
	MethodPhotosGet         = "facebook.photos.get"
	MethodPhotosGetAlbums   = "facebook.photos.getAlbums"
	MethodPhotosGetTags     = "facebook.photos.getTags"
	MethodPhotosAddTag      = "facebook.photos.addTag"
	MethodNotificationsSend = "facebook.notifications.send"
	MethodSendRequest       = "facebook.notifications.sendRequest"
	MethodFriendsAreFriends = "facebook.friends.areFriends"
)

// The list calls below memoize their first successful result for the
// life of the Session. Later calls return that result whatever their
// arguments; create a new Session to query again.

// EventFilter narrows Events. Zero fields are not sent.
type EventFilter struct {
	UID        int64
	EIDs       []int64
	StartTime  time.Time
	EndTime    time.Time
	RSVPStatus string
}

func (filter EventFilter) params() rest.Params {
	params := rest.Params{}
	if filter.UID != 0 {
		params["uid"] = strconv.FormatInt(filter.UID, 10)
	}
	if len(filter.EIDs) > 0 {
		params["eids"] = signature.JoinIDs(filter.EIDs)
	}
	if !filter.StartTime.IsZero() {
		params["start_time"] = strconv.FormatInt(filter.StartTime.Unix(), 10)
	}
	if !filter.EndTime.IsZero() {
		params["end_time"] = strconv.FormatInt(filter.EndTime.Unix(), 10)
	}
	if filter.RSVPStatus != "" {
		params["rsvp_status"] = filter.RSVPStatus
	}
	return params
}

// Events returns events matching filter. Memoized.
func (session *Session) Events(ctx context.Context, filter EventFilter) ([]*record.Event, error) {
	return session.events.get(func() ([]*record.Event, error) {
		rows, err := session.postList(ctx, MethodEventsGet, filter.params())
		if err != nil {
			return nil, err
		}
		return hydrate(rows, record.EventFromMap), nil
	})
}

// EventMembers returns the attendance records of an event. Memoized.
func (session *Session) EventMembers(ctx context.Context, eid int64) ([]*record.Attendance, error) {
	return session.members.get(func() ([]*record.Attendance, error) {
		rows, err := session.postList(ctx, MethodEventsGetMembers, rest.Params{"eid": strconv.FormatInt(eid, 10)})
		if err != nil {
			return nil, err
		}
		return hydrate(rows, record.AttendanceFromMap), nil
	})
}

// PhotoFilter selects photos by id, by tagged subject, or by album. At
// least one field must be set.
type PhotoFilter struct {
	PIDs      []string
	SubjectID int64
	AID       string
}

// Photos returns photos matching filter. Memoized.
func (session *Session) Photos(ctx context.Context, filter PhotoFilter) ([]*record.Photo, error) {
	if len(filter.PIDs) == 0 && filter.SubjectID == 0 && filter.AID == "" {
		return nil, fmt.Errorf("session: photos need a photo, album, or subject id: %w", ErrMissingArgument)
	}
	return session.photos.get(func() ([]*record.Photo, error) {
		params := rest.Params{}
		if len(filter.PIDs) > 0 {
			params["pids"] = signature.JoinList(filter.PIDs)
		}
		if filter.SubjectID != 0 {
			params["subj_id"] = strconv.FormatInt(filter.SubjectID, 10)
		}
		if filter.AID != "" {
			params["aid"] = filter.AID
		}
		rows, err := session.postList(ctx, MethodPhotosGet, params)
		if err != nil {
			return nil, err
		}
		return hydrate(rows, record.PhotoFromMap), nil
	})
}

// Albums returns the albums with the given ids. Memoized.
func (session *Session) Albums(ctx context.Context, aids []string) ([]*record.Album, error) {
	return session.albums.get(func() ([]*record.Album, error) {
		rows, err := session.postList(ctx, MethodPhotosGetAlbums, rest.Params{"aids": signature.JoinList(aids)})
		if err != nil {
			return nil, err
		}
		return hydrate(rows, record.AlbumFromMap), nil
	})
}

// Tags returns the tags on the given photos. Memoized.
func (session *Session) Tags(ctx context.Context, pids []string) ([]*record.Tag, error) {
	return session.tags.get(func() ([]*record.Tag, error) {
		rows, err := session.postList(ctx, MethodPhotosGetTags, rest.Params{"pids": signature.JoinList(pids)})
		if err != nil {
			return nil, err
		}
		return hydrate(rows, record.TagFromMap), nil
	})
}

// AddTag tags a photo at (x, y), given as percentages of the photo's
// width and height. The subject is a user (tagUID) or free text
// (tagText); at least one is required.
func (session *Session) AddTag(ctx context.Context, pid string, x, y float64, tagUID int64, tagText string) error {
	if tagUID == 0 && tagText == "" {
		return fmt.Errorf("session: a tag needs a user or text: %w", ErrMissingArgument)
	}
	params := rest.Params{
		"pid": pid,
		"x":   strconv.FormatFloat(x, 'f', -1, 64),
		"y":   strconv.FormatFloat(y, 'f', -1, 64),
	}
	if tagUID != 0 {
		params["tag_uid"] = strconv.FormatInt(tagUID, 10)
	}
	if tagText != "" {
		params["tag_text"] = tagText
	}
	_, err := session.Post(ctx, MethodPhotosAddTag, params)
	return err
}

// SendNotification sends markup to the users' notification pages, and
// by email when emailMarkup is not empty.
func (session *Session) SendNotification(ctx context.Context, uids []int64, markup, emailMarkup string) error {
	params := rest.Params{
		"to_ids":       signature.JoinIDs(uids),
		"notification": markup,
	}
	if emailMarkup != "" {
		params["email"] = emailMarkup
	}
	_, err := session.Post(ctx, MethodNotificationsSend, params)
	return err
}

// Request is the body of a request or invitation.
type Request struct {
	Type     string
	Content  string
	ImageURL string
}

// SendRequest sends a request to users. The reply is the confirmation
// URL the platform returns, if any.
func (session *Session) SendRequest(ctx context.Context, uids []int64, request Request) (string, error) {
	return session.sendRequest(ctx, uids, request, false)
}

// SendInvitation sends an invitation to users.
func (session *Session) SendInvitation(ctx context.Context, uids []int64, invitation Request) (string, error) {
	return session.sendRequest(ctx, uids, invitation, true)
}

func (session *Session) sendRequest(ctx context.Context, uids []int64, request Request, invitation bool) (string, error) {
	response, err := session.Post(ctx, MethodSendRequest, rest.Params{
		"to_ids":     signature.JoinIDs(uids),
		"type":       request.Type,
		"content":    request.Content,
		"image":      request.ImageURL,
		"invitation": strconv.FormatBool(invitation),
	})
	if err != nil {
		return "", err
	}
	if response.Value == nil {
		return "", nil
	}
	return response.Text()
}

// FriendPair is an ordered pair of user ids.
type FriendPair struct {
	UID1 int64
	UID2 int64
}

// CheckFriendship asks whether each pair of users are friends. The
// result has an entry per pair the server answered; a nil value means
// the platform does not know.
func (session *Session) CheckFriendship(ctx context.Context, pairs []FriendPair) (map[FriendPair]*bool, error) {
	uids1 := make([]int64, len(pairs))
	uids2 := make([]int64, len(pairs))
	for index, pair := range pairs {
		uids1[index] = pair.UID1
		uids2[index] = pair.UID2
	}
	rows, err := session.postList(ctx, MethodFriendsAreFriends, rest.Params{
		"uids1": signature.JoinIDs(uids1),
		"uids2": signature.JoinIDs(uids2),
	})
	if err != nil {
		return nil, err
	}

	result := make(map[FriendPair]*bool, len(rows))
	for _, row := range rows {
		pair := FriendPair{}
		var err error
		if pair.UID1, err = strconv.ParseInt(scalar(row["uid1"]), 10, 64); err != nil {
			return nil, fmt.Errorf("session: friendship reply: %w", &CoercionError{Field: "uid1", Value: scalar(row["uid1"]), Err: err})
		}
		if pair.UID2, err = strconv.ParseInt(scalar(row["uid2"]), 10, 64); err != nil {
			return nil, fmt.Errorf("session: friendship reply: %w", &CoercionError{Field: "uid2", Value: scalar(row["uid2"]), Err: err})
		}
		result[pair] = friendAnswer(row["are_friends"])
	}
	return result, nil
}

func friendAnswer(value any) *bool {
	var answer bool
	switch strings.ToLower(strings.TrimSpace(scalar(value))) {
	case "1", "true":
		answer = true
	case "0", "false":
		answer = false
	default:
		return nil
	}
	return &answer
}

// ProfileFBML returns a user's profile markup.
func (session *Session) ProfileFBML(ctx context.Context, uid int64) (string, error) {
	response, err := session.Post(ctx, MethodGetProfileFBML, rest.Params{"uid": strconv.FormatInt(uid, 10)})
	if err != nil {
		return "", err
	}
	if response.Value == nil {
		return "", nil
	}
	return response.Text()
}

// SetProfileFBML replaces a user's profile markup.
func (session *Session) SetProfileFBML(ctx context.Context, uid int64, markup string) error {
	_, err := session.Post(ctx, MethodSetProfileFBML, rest.Params{
		"uid":    strconv.FormatInt(uid, 10),
		"markup": markup,
	})
	return err
}

func (session *Session) postList(ctx context.Context, method string, params rest.Params) ([]map[string]any, error) {
	response, err := session.Post(ctx, method, params)
	if err != nil {
		return nil, err
	}
	rows, err := response.Records()
	if err != nil {
		return nil, fmt.Errorf("session: %s: %w", method, err)
	}
	return rows, nil
}

func hydrate[T any](rows []map[string]any, from func(map[string]any) T) []T {
	records := make([]T, 0, len(rows))
	for _, row := range rows {
		records = append(records, from(row))
	}
	return records
}
