package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ContentType distinguishes top-level posts from comments.
type ContentType string

const (
	ContentTypePost    ContentType = "POST"
	ContentTypeComment ContentType = "COMMENT"
)

// PostStatus is the lifecycle badge the remote API attaches to a post.
type PostStatus string

const (
	StatusJustPosted     PostStatus = "JUST_POSTED"
	StatusFirstReactions PostStatus = "FIRST_REACTIONS"
	StatusOutdated       PostStatus = "OUTDATED"
)

// PostStatuses lists the statuses a user may pick, in display order.
var PostStatuses = []PostStatus{StatusJustPosted, StatusFirstReactions, StatusOutdated}

// Valid reports whether s is one of the known statuses.
func (s PostStatus) Valid() bool {
	for _, known := range PostStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Color maps a status to the badge colour used by the card view.
func (s PostStatus) Color() string {
	switch s {
	case StatusJustPosted:
		return "info"
	case StatusFirstReactions:
		return "success"
	case StatusOutdated:
		return "warning"
	default:
		return "default"
	}
}

// ParsePostStatus accepts a status name in any case.
func ParsePostStatus(s string) (PostStatus, error) {
	status := PostStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("invalid status: %q", s)
	}
	return status, nil
}

// VoteType is the remote API's vote enum.
type VoteType string

const (
	VoteUp   VoteType = "UPVOTE"
	VoteDown VoteType = "DOWN_VOTE"
)

// ParseVoteDirection maps the UI verbs "up" and "down" onto VoteType.
func ParseVoteDirection(direction string) (VoteType, error) {
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "up", "upvote":
		return VoteUp, nil
	case "down", "downvote", "down_vote":
		return VoteDown, nil
	}
	return "", fmt.Errorf("invalid vote direction: %q", direction)
}
