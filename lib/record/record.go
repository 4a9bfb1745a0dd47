// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package record

// Owner is the session a User record was fetched through. Users keep
// a reference so follow-up calls about them can be made on the same
// authenticated session.
type Owner interface {
	APIKey() string
}

// User is a platform user.
type User struct {
	UID       int64
	Name      string
	FirstName string
	LastName  string
	PicURL    string
	Fields    map[string]any

	owner Owner
}

// NewUser returns a User for uid bound to owner, with no fields
// populated.
func NewUser(uid int64, owner Owner) *User {
	return &User{UID: uid, owner: owner}
}

// UserFromMap hydrates a User from a reply object and binds it to owner.
func UserFromMap(fields map[string]any, owner Owner) *User {
	user := &User{owner: owner}
	user.Populate(fields)
	return user
}

// Populate copies the known fields of a reply object into user. A uid
// in fields replaces the current one only when present.
func (user *User) Populate(fields map[string]any) {
	if uid := int64Field(fields, "uid"); uid != 0 {
		user.UID = uid
	}
	user.Name = stringField(fields, "name")
	user.FirstName = stringField(fields, "first_name")
	user.LastName = stringField(fields, "last_name")
	user.PicURL = stringField(fields, "pic")
	user.Fields = fields
}

// Owner returns the session the user is bound to, or nil.
func (user *User) Owner() Owner { return user.owner }

// Photo is a photo in an album.
type Photo struct {
	PID     string
	AID     string
	Owner   int64
	Src     string
	Link    string
	Caption string
	Created int64
	Fields  map[string]any
}

// PhotoFromMap hydrates a Photo from a reply object.
func PhotoFromMap(fields map[string]any) *Photo {
	return &Photo{
		PID:     stringField(fields, "pid"),
		AID:     stringField(fields, "aid"),
		Owner:   int64Field(fields, "owner"),
		Src:     stringField(fields, "src"),
		Link:    stringField(fields, "link"),
		Caption: stringField(fields, "caption"),
		Created: int64Field(fields, "created"),
		Fields:  fields,
	}
}

// Album is a photo album.
type Album struct {
	AID         string
	CoverPID    string
	Owner       int64
	Name        string
	Description string
	Location    string
	Size        int64
	Created     int64
	Modified    int64
	Fields      map[string]any
}

// AlbumFromMap hydrates an Album from a reply object.
func AlbumFromMap(fields map[string]any) *Album {
	return &Album{
		AID:         stringField(fields, "aid"),
		CoverPID:    stringField(fields, "cover_pid"),
		Owner:       int64Field(fields, "owner"),
		Name:        stringField(fields, "name"),
		Description: stringField(fields, "description"),
		Location:    stringField(fields, "location"),
		Size:        int64Field(fields, "size"),
		Created:     int64Field(fields, "created"),
		Modified:    int64Field(fields, "modified"),
		Fields:      fields,
	}
}

// Tag marks a subject at a position in a photo. XCoord and YCoord are
// percentages of the photo's width and height.
type Tag struct {
	PID     string
	Subject int64
	Text    string
	XCoord  float64
	YCoord  float64
	Created int64
	Fields  map[string]any
}

// TagFromMap hydrates a Tag from a reply object.
func TagFromMap(fields map[string]any) *Tag {
	return &Tag{
		PID:     stringField(fields, "pid"),
		Subject: int64Field(fields, "subject"),
		Text:    stringField(fields, "text"),
		XCoord:  floatField(fields, "xcoord"),
		YCoord:  floatField(fields, "ycoord"),
		Created: int64Field(fields, "created"),
		Fields:  fields,
	}
}

// Event is a scheduled event.
type Event struct {
	EID         int64
	Name        string
	Tagline     string
	Host        string
	Description string
	Location    string
	Creator     int64
	StartTime   int64
	EndTime     int64
	Fields      map[string]any
}

// EventFromMap hydrates an Event from a reply object.
func EventFromMap(fields map[string]any) *Event {
	return &Event{
		EID:         int64Field(fields, "eid"),
		Name:        stringField(fields, "name"),
		Tagline:     stringField(fields, "tagline"),
		Host:        stringField(fields, "host"),
		Description: stringField(fields, "description"),
		Location:    stringField(fields, "location"),
		Creator:     int64Field(fields, "creator"),
		StartTime:   int64Field(fields, "start_time"),
		EndTime:     int64Field(fields, "end_time"),
		Fields:      fields,
	}
}

// Attendance is one user's RSVP to an event.
type Attendance struct {
	UID        int64
	EID        int64
	RSVPStatus string
	Fields     map[string]any
}

// AttendanceFromMap hydrates an Attendance from a reply object.
func AttendanceFromMap(fields map[string]any) *Attendance {
	return &Attendance{
		UID:        int64Field(fields, "uid"),
		EID:        int64Field(fields, "eid"),
		RSVPStatus: stringField(fields, "rsvp_status"),
		Fields:     fields,
	}
}
