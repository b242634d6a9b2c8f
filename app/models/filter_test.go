package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func samplePosts() []Post {
	return []Post{
		{ID: 1, Title: "Morning Coffee", DateTime: "2024-01-01T08:00:00", Author: User{Username: "Alice"}, Tags: []Tag{{Name: "Food"}}},
		{ID: 2, Title: "Mountain hike", DateTime: "2024-01-03T08:00:00", Author: User{Username: "bob"}, Tags: []Tag{{Name: "outdoors"}, {Name: "travel"}}},
		{ID: 3, Title: "Untitled", Author: User{Username: "carol"}},
		{ID: 4, Title: "Coffee beans", DateTime: "2024-01-02T08:00:00", Author: User{Username: "alicia"}},
	}
}

func ids(posts []Post) []int64 {
	out := make([]int64, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterPosts(t *testing.T) {
	posts := samplePosts()

	tests := []struct {
		name  string
		mode  FilterMode
		query string
		want  []int64
	}{
		{"all ignores query", FilterAll, "coffee", []int64{1, 2, 3, 4}},
		{"blank query returns everything", FilterTitle, "   ", []int64{1, 2, 3, 4}},
		{"title is case-insensitive", FilterTitle, "COFFEE", []int64{1, 4}},
		{"tag substring", FilterTag, "tra", []int64{2}},
		{"tag case-insensitive", FilterTag, "food", []int64{1}},
		{"user substring", FilterUser, "ali", []int64{1, 4}},
		{"no match", FilterUser, "zed", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterPosts(posts, tt.mode, tt.query)))
		})
	}
}

func TestParseFilterMode(t *testing.T) {
	assert.Equal(t, FilterTag, ParseFilterMode("Tag"))
	assert.Equal(t, FilterAll, ParseFilterMode("bogus"))
	assert.Equal(t, "By User", FilterUser.Label())
}

func TestSortNewest(t *testing.T) {
	posts := samplePosts()
	sorted := SortNewest(posts)
	assert.Equal(t, []int64{2, 4, 1, 3}, ids(sorted))
	// The input is left untouched.
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(posts))
}

func TestWithout(t *testing.T) {
	posts := samplePosts()
	assert.Equal(t, []int64{1, 3, 4}, ids(Without(posts, 2)))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(Without(posts, 99)))
	assert.Len(t, posts, 4)
}
