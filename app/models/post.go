package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Tag is a named label attachable to posts.
type Tag struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts both {"name": "..."} and a bare "..." string,
// since some API versions send tags as plain names.
func (t *Tag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*t = Tag{Name: name}
		return nil
	}
	type plain Tag
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Tag(p)
	return nil
}

// Post is a piece of remote content. Comments are Posts with a parent.
type Post struct {
	ID            int64       `json:"id"`
	Type          ContentType `json:"type,omitempty"`
	Title         string      `json:"title"`
	Text          string      `json:"text"`
	Image         []byte      `json:"image,omitempty"`
	DateTime      Timestamp   `json:"dateTime,omitempty"`
	Author        User        `json:"author"`
	Tags          []Tag       `json:"tags,omitempty"`
	Status        PostStatus  `json:"status,omitempty"`
	IsCommentable bool        `json:"isCommentable"`
	Upvotes       int         `json:"upvotes"`
	Downvotes     int         `json:"downvotes"`
	Parent        *Post       `json:"parent,omitempty"`
}

// UnmarshalJSON also honours the "commentable" spelling produced by bean-style serializers.
func (p *Post) UnmarshalJSON(data []byte) error {
	type plain Post
	aux := struct {
		*plain
		Commentable *bool `json:"commentable"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Commentable != nil && !p.IsCommentable {
		p.IsCommentable = *aux.Commentable
	}
	return nil
}

// IsComment reports whether p is a comment on another post.
func (p *Post) IsComment() bool {
	return p.Type == ContentTypeComment || p.Parent != nil
}

// OwnedBy reports whether userID authored the post.
func (p *Post) OwnedBy(userID int64) bool {
	return userID > 0 && p.Author.ID == userID
}

// TagNames returns the names of the post's tags.
func (p *Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}

// Timestamp holds the API's zone-less local date-time. It decodes both the
// ISO string form and the [y, m, d, h, min, s, nanos] array form.
type Timestamp string

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*ts = ""
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("invalid timestamp array: %w", err)
		}
		for len(parts) < 7 {
			parts = append(parts, 0)
		}
		t := time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.UTC)
		*ts = Timestamp(t.Format("2006-01-02T15:04:05.999999999"))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*ts = Timestamp(s)
	return nil
}

// Time parses the timestamp. The boolean is false for empty or unparseable values.
func (ts Timestamp) Time() (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, string(ts)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Format renders the timestamp as "Jan 2, 2006, 3:04 PM". Unparseable
// values are returned as given.
func (ts Timestamp) Format() string {
	t, ok := ts.Time()
	if !ok {
		return string(ts)
	}
	return t.Format("Jan 2, 2006, 3:04 PM")
}
