package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"instafront/app/client"
	"instafront/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	URI    string
	Body   string
	Form   map[string]string
	Files  map[string]string
}

// fakeAPI records every request and answers with the canned response for its path.
type fakeAPI struct {
	server    *httptest.Server
	requests  []recordedRequest
	responses map[string]string
	status    int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	f := &fakeAPI{responses: map[string]string{}, status: http.StatusOK}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, URI: r.URL.RequestURI(), Form: map[string]string{}, Files: map[string]string{}}
		if r.MultipartForm == nil && r.Header.Get("Content-Type") != "" && r.Header.Get("Content-Type") != "application/json" {
			if err := r.ParseMultipartForm(1 << 20); err == nil {
				for k, v := range r.MultipartForm.Value {
					rec.Form[k] = v[0]
				}
				for k, fh := range r.MultipartForm.File {
					fd, _ := fh[0].Open()
					b, _ := io.ReadAll(fd)
					rec.Files[k] = string(b)
				}
			}
		} else {
			b, _ := io.ReadAll(r.Body)
			rec.Body = string(b)
		}
		f.requests = append(f.requests, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		w.Write([]byte(f.responses[r.URL.Path]))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) client() *client.Client {
	return client.New(f.server.URL, 0)
}

func (f *fakeAPI) last(t *testing.T) recordedRequest {
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func TestAuthService(t *testing.T) {
	api := newFakeAPI(t)
	service := NewAuthService(api.client())
	ctx := context.Background()

	t.Run("login", func(t *testing.T) {
		api.responses["/users/login"] = `{"id": 3, "username": "alice", "email": "alice@example.com"}`
		resp, err := service.Login(ctx, LoginRequest{Username: "alice", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.ID)

		req := api.last(t)
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/users/login", req.URI)
		assert.JSONEq(t, `{"username":"alice","password":"pw"}`, req.Body)
	})

	t.Run("login without id", func(t *testing.T) {
		api.responses["/users/login"] = `{"username": "alice"}`
		_, err := service.Login(ctx, LoginRequest{Username: "alice", Password: "pw"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidResponse))
		assert.Equal(t, "Invalid response from server", err.Error())
	})

	t.Run("login rejected with message", func(t *testing.T) {
		api.status = http.StatusBadRequest
		defer func() { api.status = http.StatusOK }()
		api.responses["/users/login"] = `{"error": "Invalid password"}`

		_, err := service.Login(ctx, LoginRequest{Username: "alice", Password: "bad"})
		require.Error(t, err)
		assert.Equal(t, "Invalid password", err.Error())
	})

	t.Run("login rejected without message", func(t *testing.T) {
		api.status = http.StatusInternalServerError
		defer func() { api.status = http.StatusOK }()
		api.responses["/users/login"] = ``

		_, err := service.Login(ctx, LoginRequest{Username: "alice", Password: "bad"})
		require.Error(t, err)
		assert.Equal(t, "Login failed. Please check your credentials.", err.Error())
	})

	t.Run("register sends defaults", func(t *testing.T) {
		api.responses["/users/create"] = `{"id": 9, "username": "bob", "email": "bob@example.com"}`
		resp, err := service.Register(ctx, RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, int64(9), resp.ID)

		req := api.last(t)
		assert.Equal(t, "/users/create", req.URI)
		assert.JSONEq(t, `{"username":"bob","email":"bob@example.com","password":"secret1","role":"USER","banned":false,"score":0}`, req.Body)
	})

	t.Run("register failure fallback", func(t *testing.T) {
		api.status = http.StatusConflict
		defer func() { api.status = http.StatusOK }()
		api.responses["/users/create"] = `{}`

		_, err := service.Register(ctx, RegisterRequest{Username: "bob"})
		require.Error(t, err)
		assert.Equal(t, "Registration failed. Please try again.", err.Error())
	})
}

func TestPostService(t *testing.T) {
	api := newFakeAPI(t)
	service := NewPostService(api.client())
	ctx := context.Background()

	t.Run("create post", func(t *testing.T) {
		api.responses["/contents/create"] = `{"id": 11, "title": "Hello", "status": "JUST_POSTED"}`
		post, err := service.CreatePost(ctx, CreatePostRequest{
			AuthorID: 3,
			Title:    "Hello",
			Text:     "World",
			TagNames: []string{"go", "web"},
			Image:    &models.Upload{Filename: "a.png", ContentType: "image/png", Data: []byte("png")},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(11), post.ID)

		req := api.last(t)
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "Hello", req.Form["title"])
		assert.Equal(t, "World", req.Form["text"])
		assert.Equal(t, "POST", req.Form["type"])
		assert.Equal(t, "true", req.Form["isCommentable"])
		assert.Equal(t, "JUST_POSTED", req.Form["status"])
		assert.Equal(t, "3", req.Form["authorId"])
		assert.Equal(t, `["go","web"]`, req.Form["tags"])
		assert.Equal(t, "png", req.Files["image"])
	})

	t.Run("create post without tags or image", func(t *testing.T) {
		_, err := service.CreatePost(ctx, CreatePostRequest{AuthorID: 3, Title: "t", Text: "x"})
		require.NoError(t, err)
		req := api.last(t)
		_, hasTags := req.Form["tags"]
		assert.False(t, hasTags)
		assert.Empty(t, req.Files)
	})

	t.Run("create comment", func(t *testing.T) {
		_, err := service.CreateComment(ctx, 11, CreateCommentRequest{AuthorID: 4, Text: "Nice"})
		require.NoError(t, err)
		req := api.last(t)
		assert.Equal(t, "Comment", req.Form["title"])
		assert.Equal(t, "COMMENT", req.Form["type"])
		assert.Equal(t, "11", req.Form["parentId"])
		assert.Equal(t, "false", req.Form["isCommentable"])
		assert.Equal(t, "4", req.Form["authorId"])
	})

	t.Run("read endpoints", func(t *testing.T) {
		api.responses["/contents/posts"] = `[{"id":1},{"id":2}]`
		posts, err := service.GetAllPosts(ctx)
		require.NoError(t, err)
		assert.Len(t, posts, 2)

		api.responses["/contents/get/2"] = `{"id":2,"title":"two"}`
		post, err := service.GetPostByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "two", post.Title)

		_, err = service.GetPostsByAuthor(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "/contents/posts/author/3", api.last(t).URI)

		comments, err := service.GetCommentsByPost(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "/contents/comments/parent/2", api.last(t).URI)
		assert.NotNil(t, comments)

		_, err = service.GetCommentsByAuthor(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "/contents/comments/author/3", api.last(t).URI)
	})

	t.Run("update and delete", func(t *testing.T) {
		_, err := service.UpdatePost(ctx, 2, "New", "Body")
		require.NoError(t, err)
		req := api.last(t)
		assert.Equal(t, http.MethodPut, req.Method)
		assert.Equal(t, "/contents/update/2", req.URI)
		assert.JSONEq(t, `{"title":"New","text":"Body"}`, req.Body)

		require.NoError(t, service.DeletePost(ctx, 2))
		req = api.last(t)
		assert.Equal(t, http.MethodDelete, req.Method)
		assert.Equal(t, "/contents/delete/2", req.URI)
	})

	t.Run("status and votes", func(t *testing.T) {
		_, err := service.UpdateStatus(ctx, 5, models.StatusOutdated)
		require.NoError(t, err)
		assert.Equal(t, "/contents/update-status/5?status=OUTDATED", api.last(t).URI)

		api.responses["/contents/5/vote"] = `{"id":5,"upvotes":2,"downvotes":1}`
		post, err := service.Vote(ctx, 5, 3, models.VoteDown)
		require.NoError(t, err)
		req := api.last(t)
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/contents/5/vote?userId=3&voteType=DOWN_VOTE", req.URI)
		assert.Equal(t, 1, post.Downvotes)

		_, err = service.RemoveVote(ctx, 5, 3)
		require.NoError(t, err)
		req = api.last(t)
		assert.Equal(t, http.MethodDelete, req.Method)
		assert.Equal(t, "/contents/5/vote?userId=3", req.URI)
	})

	t.Run("unauthorized is preserved through wrapping", func(t *testing.T) {
		api.status = http.StatusUnauthorized
		defer func() { api.status = http.StatusOK }()

		err := service.DeletePost(ctx, 1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, client.ErrUnauthorized))
	})
}

func TestTagService(t *testing.T) {
	api := newFakeAPI(t)
	service := NewTagService(api.client())
	ctx := context.Background()

	api.responses["/tags/getAll"] = `[{"id":1,"name":"go"},{"id":2,"name":"web"}]`
	tags, err := service.GetAllTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Tag{{ID: 1, Name: "go"}, {ID: 2, Name: "web"}}, tags)

	api.responses["/tags/create"] = ``
	tag, err := service.CreateTag(ctx, "  rust ")
	require.NoError(t, err)
	assert.Equal(t, "rust", tag.Name)
	assert.JSONEq(t, `{"name":"rust"}`, api.last(t).Body)

	_, err = service.CreateTag(ctx, "   ")
	assert.Error(t, err)
}

func TestUserService(t *testing.T) {
	api := newFakeAPI(t)
	service := NewUserService(api.client())
	ctx := context.Background()

	api.responses["/users/get/3"] = `{"id":3,"username":"alice","email":"a@example.com","score":7}`
	user, err := service.GetUserByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, float64(7), user.Score)

	user.Username = "alicia"
	api.responses["/users/update/3"] = `{"id":3,"username":"alicia","email":"a@example.com"}`
	updated, err := service.UpdateUser(ctx, 3, user)
	require.NoError(t, err)
	assert.Equal(t, "alicia", updated.Username)
	var sent models.User
	require.NoError(t, json.Unmarshal([]byte(api.last(t).Body), &sent))
	assert.Equal(t, "alicia", sent.Username)
	assert.Equal(t, float64(7), sent.Score)

	api.responses["/users/getAll"] = `[{"id":1},{"id":3}]`
	users, err := service.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = service.UpdateProfilePicture(ctx, 3, &models.Upload{Filename: "me.jpg", Data: []byte("jpg")})
	require.NoError(t, err)
	req := api.last(t)
	assert.Equal(t, "/users/3/profile-picture", req.URI)
	assert.Equal(t, "jpg", req.Files["profilePicture"])

	_, err = service.UpdateProfilePicture(ctx, 3, nil)
	assert.Error(t, err)
}
