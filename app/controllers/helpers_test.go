package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"instafront/app/models"
	repomock "instafront/app/repositories/mock"
	"instafront/app/services/mock"
	"instafront/app/session"
	"instafront/app/views"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	api      *mock.API
	repo     *repomock.SessionRepository
	sessions *session.Manager
	router   *mux.Router
	alice    *models.User
	bob      *models.User
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	api := mock.NewAPI()
	repo := repomock.NewSessionRepository()
	sessions := session.NewManager(repo, session.Options{})
	base := NewBase(views.MustLoad(), sessions)

	env := &testEnv{
		api:      api,
		repo:     repo,
		sessions: sessions,
		alice:    api.AddUser("alice", "alice@example.com", "secret1"),
		bob:      api.AddUser("bob", "bob@example.com", "secret2"),
	}

	auth := NewAuthController(base, api)
	users := NewUserController(base, api, api)
	posts := NewPostController(base, api, api)
	comments := NewCommentController(base, api)
	tags := NewTagController(base, api)
	profile := NewProfileController(base, api)

	router := mux.NewRouter()
	router.HandleFunc("/", auth.Start).Methods("GET")
	router.HandleFunc("/login", auth.LoginForm).Methods("GET")
	router.HandleFunc("/login", auth.Login).Methods("POST")
	router.HandleFunc("/register", auth.RegisterForm).Methods("GET")
	router.HandleFunc("/register", auth.Register).Methods("POST")
	router.HandleFunc("/logout", auth.Logout).Methods("POST")
	router.HandleFunc("/user", users.Feed).Methods("GET")
	router.HandleFunc("/user/posts", users.MyPosts).Methods("GET")
	router.HandleFunc("/users", users.List).Methods("GET")
	router.HandleFunc("/users/{id}", users.Show).Methods("GET")
	router.HandleFunc("/posts/new", posts.New).Methods("GET")
	router.HandleFunc("/posts", posts.Create).Methods("POST")
	router.HandleFunc("/posts/{id}", posts.Show).Methods("GET")
	router.HandleFunc("/posts/{id}/edit", posts.EditForm).Methods("GET")
	router.HandleFunc("/posts/{id}/edit", posts.Update).Methods("POST")
	router.HandleFunc("/posts/{id}/delete", posts.ConfirmDelete).Methods("GET")
	router.HandleFunc("/posts/{id}/delete", posts.Delete).Methods("POST")
	router.HandleFunc("/posts/{id}/vote", posts.Vote).Methods("POST")
	router.HandleFunc("/posts/{id}/unvote", posts.Unvote).Methods("POST")
	router.HandleFunc("/posts/{id}/status", posts.UpdateStatus).Methods("POST")
	router.HandleFunc("/posts/{id}/comments", comments.Create).Methods("POST")
	router.HandleFunc("/tags", tags.Index).Methods("GET")
	router.HandleFunc("/tags", tags.Create).Methods("POST")
	router.HandleFunc("/profile", profile.Show).Methods("GET")
	router.HandleFunc("/profile", profile.Update).Methods("POST")
	router.HandleFunc("/profile/picture", profile.UploadPicture).Methods("POST")
	router.HandleFunc("/api/posts", posts.List).Methods("GET")
	env.router = router
	return env
}

// login starts a session for user and returns its cookie.
func (e *testEnv) login(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, e.sessions.Save(rec, &models.SessionUser{UserID: user.ID, Username: user.Username, Email: user.Email}))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func (e *testEnv) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// sessionCount is the number of live session records.
func (e *testEnv) sessionCount(t *testing.T) int {
	t.Helper()
	n, err := e.repo.Count()
	require.NoError(t, err)
	return n
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
