package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"instafront/app/models"
	"instafront/app/repositories"
	"instafront/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alice() *models.SessionUser {
	return &models.SessionUser{UserID: 7, Username: "alice", Email: "alice@example.com"}
}

// requestWith copies the cookies a response set onto a fresh request.
func requestWith(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestManagerSaveAndLoad(t *testing.T) {
	repo := mock.NewSessionRepository()
	m := NewManager(repo, Options{TTL: time.Hour, Secure: true})

	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(rec, alice()))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, 3600, cookie.MaxAge)

	t.Run("record is keyed by the token digest", func(t *testing.T) {
		_, err := repo.Get(cookie.Value)
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		stored, err := repo.Get(hashToken(cookie.Value))
		require.NoError(t, err)
		assert.Equal(t, "alice", stored.Username)
		assert.False(t, stored.CreatedAt.IsZero())
	})

	t.Run("load and current", func(t *testing.T) {
		req := requestWith(rec)
		user, err := m.Load(req)
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.UserID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.True(t, m.IsAuthenticated(req))
		assert.Equal(t, "alice", m.Current(req).Username)
	})
}

func TestManagerRejectsIncompleteUser(t *testing.T) {
	m := NewManager(mock.NewSessionRepository(), Options{})
	rec := httptest.NewRecorder()

	err := m.Save(rec, &models.SessionUser{UserID: 1, Username: "bob"})
	assert.Error(t, err)
	assert.Empty(t, rec.Result().Cookies())
}

func TestManagerNoSession(t *testing.T) {
	repo := mock.NewSessionRepository()
	m := NewManager(repo, Options{})

	t.Run("no cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := m.Load(req)
		assert.ErrorIs(t, err, ErrNoSession)
		assert.Nil(t, m.Current(req))
		assert.False(t, m.IsAuthenticated(req))
	})

	t.Run("unknown token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "forged"})
		_, err := m.Load(req)
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("incomplete record", func(t *testing.T) {
		require.NoError(t, repo.Put(hashToken("partial"), &models.SessionUser{UserID: 3, Username: "x"}, 0))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "partial"})
		_, err := m.Load(req)
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("storage failure reads as logged out", func(t *testing.T) {
		failing := mock.NewSessionRepository()
		failing.Err = errors.New("disk gone")
		fm := NewManager(failing, Options{})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "tok"})

		_, err := fm.Load(req)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoSession)
		assert.Nil(t, fm.Current(req))
	})
}

func TestManagerExpiry(t *testing.T) {
	repo := mock.NewSessionRepository()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.Now = func() time.Time { return now }
	m := NewManager(repo, Options{TTL: time.Minute})

	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(rec, alice()))
	req := requestWith(rec)
	assert.True(t, m.IsAuthenticated(req))

	now = now.Add(2 * time.Minute)
	assert.False(t, m.IsAuthenticated(req))
}

func TestManagerClear(t *testing.T) {
	repo := mock.NewSessionRepository()
	m := NewManager(repo, Options{})

	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(rec, alice()))
	req := requestWith(rec)

	out := httptest.NewRecorder()
	require.NoError(t, m.Clear(out, req))

	cookies := out.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)

	assert.False(t, m.IsAuthenticated(req))
	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	t.Run("without cookie only expires it", func(t *testing.T) {
		out := httptest.NewRecorder()
		assert.NoError(t, m.Clear(out, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Len(t, out.Result().Cookies(), 1)
	})
}

func TestManagerRefresh(t *testing.T) {
	repo := mock.NewSessionRepository()
	m := NewManager(repo, Options{TTL: time.Hour})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(rec, alice()))
	req := requestWith(rec)
	token := rec.Result().Cookies()[0].Value

	now = now.Add(30 * time.Minute)
	updated := alice()
	updated.Username = "alice2"
	out := httptest.NewRecorder()
	require.NoError(t, m.Refresh(out, req, updated))
	assert.Equal(t, "alice2", m.Current(req).Username)

	cookies := out.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, token, cookies[0].Value)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.True(t, cookies[0].Expires.Equal(now.Add(time.Hour)))
	assert.True(t, cookies[0].HttpOnly)

	out = httptest.NewRecorder()
	err := m.Refresh(out, httptest.NewRequest(http.MethodGet, "/", nil), updated)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, out.Result().Cookies())
}

func TestContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, FromContext(req.Context()))

	ctx := WithUser(req.Context(), alice())
	assert.Equal(t, "alice", FromContext(ctx).Username)

	m := NewManager(mock.NewSessionRepository(), Options{})
	assert.Equal(t, "alice", m.Current(req.WithContext(ctx)).Username)
}
