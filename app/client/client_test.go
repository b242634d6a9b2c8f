package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientJSON(t *testing.T) {
	var gotMethod, gotPath, gotBody, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.RequestURI()
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 5, "name": "go"}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", 0)
	var out struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	t.Run("get", func(t *testing.T) {
		require.NoError(t, c.GetJSON(context.Background(), "/tags/getAll", &out))
		assert.Equal(t, http.MethodGet, gotMethod)
		assert.Equal(t, "/tags/getAll", gotPath)
		assert.Equal(t, 5, out.ID)
	})

	t.Run("post", func(t *testing.T) {
		require.NoError(t, c.PostJSON(context.Background(), "/tags/create", map[string]string{"name": "go"}, &out))
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "application/json", gotContentType)
		assert.JSONEq(t, `{"name":"go"}`, gotBody)
	})

	t.Run("put with query and no body", func(t *testing.T) {
		path := WithQuery("/contents/update-status/3", url.Values{"status": {"OUTDATED"}})
		require.NoError(t, c.PutJSON(context.Background(), path, nil, nil))
		assert.Equal(t, http.MethodPut, gotMethod)
		assert.Equal(t, "/contents/update-status/3?status=OUTDATED", gotPath)
		assert.Empty(t, gotBody)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Delete(context.Background(), "/contents/delete/3", nil))
		assert.Equal(t, http.MethodDelete, gotMethod)
	})
}

func TestClientMultipart(t *testing.T) {
	var fields map[string]string
	var fileData, fileName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		if f, hdr, err := r.FormFile("image"); err == nil {
			b, _ := io.ReadAll(f)
			fileData = string(b)
			fileName = hdr.Filename
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	err := c.PostMultipart(context.Background(), "/contents/create",
		map[string]string{"title": "Hi", "type": "POST"},
		&FilePart{Field: "image", Filename: "pic.jpg", ContentType: "image/jpeg", Data: []byte("jpegbytes")},
		nil)
	require.NoError(t, err)
	assert.Equal(t, "Hi", fields["title"])
	assert.Equal(t, "POST", fields["type"])
	assert.Equal(t, "jpegbytes", fileData)
	assert.Equal(t, "pic.jpg", fileName)
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"session has expired"}`, ErrUnauthorized, "session has expired"},
		{"not found", http.StatusNotFound, `{"error":"Content not found with id: 9"}`, ErrNotFound, "Content not found with id: 9"},
		{"spring default body", http.StatusInternalServerError, `{"status":500,"error":"Internal Server Error"}`, nil, ""},
		{"plain text", http.StatusBadRequest, "Invalid vote type", nil, "Invalid vote type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := New(srv.URL, 0).GetJSON(context.Background(), "/x", nil)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, MessageOf(err))
			if tt.sentinel != nil {
				assert.True(t, errors.Is(err, tt.sentinel))
			} else {
				assert.False(t, errors.Is(err, ErrUnauthorized))
			}
		})
	}
}

func TestAPIErrorTruncatesPlainBodyOnRunes(t *testing.T) {
	body := "a" + strings.Repeat("é", 300)

	err := newAPIError(http.StatusBadGateway, []byte(body))

	assert.True(t, utf8.ValidString(err.Message))
	assert.Equal(t, maxMessageRunes, utf8.RuneCountInString(err.Message))
	assert.Equal(t, "a"+strings.Repeat("é", maxMessageRunes-1), err.Message)

	short := newAPIError(http.StatusBadGateway, []byte("  héllo  "))
	assert.Equal(t, "héllo", short.Message)
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	err := New(addr, 0).GetJSON(context.Background(), "/contents/posts", nil)
	require.Error(t, err)
	assert.Equal(t, "", MessageOf(err))
}
