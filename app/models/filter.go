package models

import (
	"sort"
	"strings"
)

// FilterMode selects which field a feed query is matched against.
type FilterMode string

const (
	FilterAll   FilterMode = "all"
	FilterTag   FilterMode = "tag"
	FilterTitle FilterMode = "title"
	FilterUser  FilterMode = "user"
)

// FilterModes lists the modes with their menu labels, in display order.
var FilterModes = []struct {
	Mode  FilterMode
	Label string
}{
	{FilterAll, "All Posts"},
	{FilterTag, "By Tag"},
	{FilterTitle, "By Title"},
	{FilterUser, "By User"},
}

// ParseFilterMode falls back to FilterAll for anything unknown.
func ParseFilterMode(s string) FilterMode {
	switch FilterMode(strings.ToLower(strings.TrimSpace(s))) {
	case FilterTag:
		return FilterTag
	case FilterTitle:
		return FilterTitle
	case FilterUser:
		return FilterUser
	}
	return FilterAll
}

// Label returns the menu label for the mode.
func (m FilterMode) Label() string {
	for _, fm := range FilterModes {
		if fm.Mode == m {
			return fm.Label
		}
	}
	return "All Posts"
}

// FilterPosts keeps the posts whose selected field contains query,
// case-insensitively. A blank query or FilterAll returns posts unchanged.
func FilterPosts(posts []Post, mode FilterMode, query string) []Post {
	q := strings.ToLower(strings.TrimSpace(query))
	if mode == FilterAll || q == "" {
		return posts
	}
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if postMatches(&p, mode, q) {
			out = append(out, p)
		}
	}
	return out
}

func postMatches(p *Post, mode FilterMode, q string) bool {
	switch mode {
	case FilterTag:
		for _, t := range p.Tags {
			if strings.Contains(strings.ToLower(t.Name), q) {
				return true
			}
		}
		return false
	case FilterTitle:
		return strings.Contains(strings.ToLower(p.Title), q)
	case FilterUser:
		return strings.Contains(strings.ToLower(p.Author.Username), q)
	}
	return true
}

// SortNewest returns a copy of posts ordered newest first. Posts without a
// parseable date sort as the zero time, i.e. last.
func SortNewest(posts []Post) []Post {
	out := make([]Post, len(posts))
	copy(out, posts)
	sort.SliceStable(out, func(i, j int) bool {
		ti, _ := out[i].DateTime.Time()
		tj, _ := out[j].DateTime.Time()
		return ti.After(tj)
	})
	return out
}

// Without returns a new slice with the post of the given id removed.
func Without(posts []Post, id int64) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
