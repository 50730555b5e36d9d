package screens

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapfeed/internal/api"
	"snapfeed/internal/models"
	"snapfeed/internal/session"
)

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	s, err := session.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// Login must store the returned token, every later authenticated call
// must carry it, and logout must leave the store empty.
func TestSessionLifecycle(t *testing.T) {
	var feedAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Empty(t, r.Header.Get("Authorization"), "login is unauthenticated")
		writeJSON(w, models.AuthResponse{
			AccessToken: "T1",
			TokenType:   "bearer",
			User:        models.AuthUser{ID: "u1", Email: req.Email, Username: "alice"},
		})
	})
	mux.HandleFunc("/api/feed", func(w http.ResponseWriter, r *http.Request) {
		feedAuth = r.Header.Get("Authorization")
		writeJSON(w, []models.Post{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := newTestStore(t)
	client := api.New(srv.URL, store)

	auth := NewAuth(client, store)
	defer auth.Close()

	u, err := auth.Login(models.LoginRequest{Email: "a@b.c", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	tok, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "T1", tok)

	feed := NewFeed(client)
	defer feed.Close()
	require.NoError(t, feed.Load())
	assert.Equal(t, "Bearer T1", feedAuth)

	require.NoError(t, auth.Logout())
	_, ok = store.Token()
	assert.False(t, ok, "logout destroys the credential")
}

func TestRegisterStoresSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		writeJSON(w, models.AuthResponse{
			AccessToken: "T-reg",
			TokenType:   "bearer",
			User:        models.AuthUser{ID: "u9", Email: req.Email, Username: req.Username, FullName: req.FullName},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := newTestStore(t)
	auth := NewAuth(api.New(srv.URL, store), store)
	defer auth.Close()

	u, err := auth.Register(models.RegisterRequest{
		Email: "new@b.c", Password: "secret1", Username: "newbie",
		FullName: models.Str("New B."),
	})
	require.NoError(t, err)
	assert.Equal(t, "newbie", u.Username)

	tok, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "T-reg", tok)

	saved, ok := store.User()
	require.True(t, ok)
	assert.Equal(t, "u9", saved.ID)
}

func TestRegisterValidatesBeforeRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	store := newTestStore(t)
	auth := NewAuth(api.New(srv.URL, store), store)
	defer auth.Close()

	cases := []models.RegisterRequest{
		{Email: "not-an-email", Password: "secret1", Username: "alice"},
		{Email: "a@b.c", Password: "short", Username: "alice"},
		{Email: "a@b.c", Password: "secret1", Username: "ab"},
	}
	for _, req := range cases {
		_, err := auth.Register(req)
		assert.Error(t, err, "%+v", req)
	}
	assert.Zero(t, calls, "invalid forms never reach the network")

	_, ok := store.Token()
	assert.False(t, ok)
}

func TestLoginFailureLeavesStoreEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusUnauthorized, "Invalid email or password")
	}))
	defer srv.Close()

	store := newTestStore(t)
	auth := NewAuth(api.New(srv.URL, store), store)
	defer auth.Close()

	_, err := auth.Login(models.LoginRequest{Email: "a@b.c", Password: "wrong"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email or password")

	_, ok := store.Token()
	assert.False(t, ok)
}
