package screens

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapfeed/internal/models"
)

// fakeProfileBackend serves /api/me, /api/users/{id} and the post grids
// the profile screen fans out to.
type fakeProfileBackend struct {
	mux     *http.ServeMux
	me      models.Profile
	posts   []models.Post
	updates int32
	failPut bool
}

func newFakeProfileBackend() *fakeProfileBackend {
	b := &fakeProfileBackend{
		me: models.Profile{
			ID: "u1", Email: "a@b.c", Username: "alice",
			FullName: models.Str("Alice A."), Bio: models.Str("hi"),
			FollowersCount: 3, FollowingCount: 2, PostsCount: 1,
		},
		posts: []models.Post{{ID: "p1", UserID: "u1", Username: "alice", Media: mediaN(1)}},
	}
	b.mux = http.NewServeMux()
	b.mux.HandleFunc("/api/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			atomic.AddInt32(&b.updates, 1)
			if b.failPut {
				writeDetail(w, http.StatusBadRequest, "Username already taken")
				return
			}
			var upd models.ProfileUpdate
			json.NewDecoder(r.Body).Decode(&upd)
			if upd.Username != nil {
				b.me.Username = *upd.Username
			}
			if upd.FullName != nil {
				b.me.FullName = upd.FullName
			}
			if upd.Bio != nil {
				b.me.Bio = upd.Bio
			}
			if upd.ProfilePic != nil {
				b.me.ProfilePic = upd.ProfilePic
			}
		}
		writeJSON(w, b.me)
	})
	b.mux.HandleFunc("/api/users/u1/posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, b.posts)
	})
	return b
}

func TestProfileLoadJoinsBothRequests(t *testing.T) {
	b := newFakeProfileBackend()
	p := NewOwnProfile(newTestClient(t, b.mux), "u1")
	defer p.Close()

	require.NoError(t, p.Load())
	assert.False(t, p.Loading)
	require.NotNil(t, p.Info)
	assert.Equal(t, "alice", p.Info.Username)
	require.Len(t, p.Posts, 1)
	assert.Equal(t, "p1", p.Posts[0].ID)
}

func TestProfileLoadFailureClearsSpinner(t *testing.T) {
	p := NewOwnProfile(newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusInternalServerError, "boom")
	})), "u1")
	defer p.Close()

	require.Error(t, p.Load())
	assert.False(t, p.Loading)
	assert.Nil(t, p.Info)
}

func TestEditCancelKeepsCanonicalProfile(t *testing.T) {
	b := newFakeProfileBackend()
	p := NewOwnProfile(newTestClient(t, b.mux), "u1")
	defer p.Close()
	require.NoError(t, p.Load())

	require.NoError(t, p.BeginEdit())
	assert.True(t, p.Editing)
	assert.Equal(t, "alice", p.Buffer.Username)
	assert.Equal(t, "Alice A.", p.Buffer.FullName)

	p.Buffer.Username = "totally_new"
	p.CancelEdit()

	assert.False(t, p.Editing)
	assert.Equal(t, "alice", p.Info.Username, "cancel never touches the canonical profile")
	assert.Zero(t, atomic.LoadInt32(&b.updates), "cancel sends nothing")
}

func TestEditSaveSuccessReloads(t *testing.T) {
	b := newFakeProfileBackend()
	p := NewOwnProfile(newTestClient(t, b.mux), "u1")
	defer p.Close()
	require.NoError(t, p.Load())

	require.NoError(t, p.BeginEdit())
	p.Buffer.Username = "alice2"
	p.Buffer.Bio = "new bio"

	require.NoError(t, p.SaveEdit())
	assert.False(t, p.Editing)
	assert.Equal(t, "alice2", p.Info.Username, "canonical profile reflects the reload")
	require.NotNil(t, p.Info.Bio)
	assert.Equal(t, "new bio", *p.Info.Bio)
}

func TestEditSaveFailureStaysEditing(t *testing.T) {
	b := newFakeProfileBackend()
	b.failPut = true
	p := NewOwnProfile(newTestClient(t, b.mux), "u1")
	defer p.Close()
	require.NoError(t, p.Load())

	require.NoError(t, p.BeginEdit())
	p.Buffer.Username = "taken"

	err := p.SaveEdit()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Username already taken")
	assert.True(t, p.Editing, "failure keeps the user in edit mode")
	assert.Equal(t, "taken", p.Buffer.Username, "unsaved edits are preserved")
	assert.Equal(t, "alice", p.Info.Username)
}

func TestSaveEditRequiresEditMode(t *testing.T) {
	b := newFakeProfileBackend()
	p := NewOwnProfile(newTestClient(t, b.mux), "u1")
	defer p.Close()
	require.NoError(t, p.Load())

	assert.ErrorIs(t, p.SaveEdit(), ErrNotEditing)
}

func TestBeginEditTwice(t *testing.T) {
	b := newFakeProfileBackend()
	p := NewOwnProfile(newTestClient(t, b.mux), "u1")
	defer p.Close()
	require.NoError(t, p.Load())

	require.NoError(t, p.BeginEdit())
	assert.ErrorIs(t, p.BeginEdit(), ErrAlreadyEditing)
}

func TestToggleFollowOptimisticWithRollback(t *testing.T) {
	fail := false
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/u2", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.Profile{ID: "u2", Username: "bob", FollowersCount: 10})
	})
	mux.HandleFunc("/api/users/u2/posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []models.Post{})
	})
	mux.HandleFunc("/api/users/u2/follow", func(w http.ResponseWriter, r *http.Request) {
		if fail {
			writeDetail(w, http.StatusInternalServerError, "boom")
			return
		}
		writeJSON(w, map[string]string{"message": "ok"})
	})

	p := NewUserProfile(newTestClient(t, mux), "u2")
	defer p.Close()
	require.NoError(t, p.Load())

	require.NoError(t, p.ToggleFollow())
	assert.True(t, p.Info.IsFollowing)
	assert.Equal(t, 11, p.Info.FollowersCount)

	fail = true
	require.Error(t, p.ToggleFollow())
	assert.True(t, p.Info.IsFollowing, "failed unfollow rolls back")
	assert.Equal(t, 11, p.Info.FollowersCount)
}

func TestDeletePostRemovesFromGrid(t *testing.T) {
	b := newFakeProfileBackend()
	b.mux.HandleFunc("/api/posts/p1", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		writeJSON(w, map[string]string{"message": "ok"})
	})
	p := NewOwnProfile(newTestClient(t, b.mux), "u1")
	defer p.Close()
	require.NoError(t, p.Load())

	require.NoError(t, p.DeletePost("p1"))
	assert.Empty(t, p.Posts)
	assert.Zero(t, p.Info.PostsCount)
}
