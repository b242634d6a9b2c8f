package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/textproto"
	"strings"
	"unicode/utf8"
)

// maxMessageRunes caps a plain-text error body kept as the message.
const maxMessageRunes = 200

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// APIError is a non-2xx response from the remote API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api error: %d %s", e.StatusCode, e.Message)
}

// Is lets errors.Is match the status sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// MessageOf returns the server-provided message of err, if it carries one.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Detail  string `json:"detail"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case payload.Error != "" && payload.Error != http.StatusText(status):
			msg = payload.Error
		case payload.Detail != "":
			msg = payload.Detail
		}
	} else {
		msg = strings.TrimSpace(string(body))
		if utf8.RuneCountInString(msg) > maxMessageRunes {
			msg = string([]rune(msg)[:maxMessageRunes])
		}
	}
	return &APIError{StatusCode: status, Message: msg}
}

func fileHeader(f *FilePart) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	filename := f.Filename
	if filename == "" {
		filename = "upload"
	}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, filename))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	return h
}
