package session

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(NewMemoryBackend(), zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestSetAndGet(t *testing.T) {
	store := newMemoryStore(t)

	sess := Session{
		Token: "tok",
		User:  User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: RoleUser},
	}
	require.NoError(t, store.Set(sess))

	got := store.Get()
	assert.True(t, got.Authenticated())
	assert.Equal(t, sess, got)
}

func TestSetWithoutTokenRejected(t *testing.T) {
	store := newMemoryStore(t)

	err := store.Set(Session{User: User{ID: "u1"}})
	require.Error(t, err, "token and user must be stored together")
	assert.False(t, store.Get().Authenticated())
}

func TestClearRemovesBoth(t *testing.T) {
	backend := NewMemoryBackend()
	store, err := NewStore(backend, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, store.Set(Session{Token: "tok", User: User{ID: "u1"}}))
	require.NoError(t, store.Clear())

	assert.False(t, store.Get().Authenticated())
	_, haveToken, _ := backend.Get("token")
	_, haveUser, _ := backend.Get("user")
	assert.False(t, haveToken)
	assert.False(t, haveUser)
}

func TestSubscribersObserveLogout(t *testing.T) {
	store := newMemoryStore(t)
	require.NoError(t, store.Set(Session{Token: "tok", User: User{ID: "u1"}}))

	var seen []Session
	unsubscribe := store.Subscribe(func(s Session) {
		seen = append(seen, s)
	})

	require.NoError(t, store.Clear())
	require.Len(t, seen, 1)
	assert.False(t, seen[0].Authenticated())

	unsubscribe()
	require.NoError(t, store.Set(Session{Token: "tok2", User: User{ID: "u1"}}))
	assert.Len(t, seen, 1, "no notifications after unsubscribe")
}

func TestLoadDropsTokenWithoutUser(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set("token", "orphan"))

	store, err := NewStore(backend, zerolog.Nop())
	require.NoError(t, err)

	assert.False(t, store.Get().Authenticated(), "a token without a user record is not a session")
}

func TestLoadDropsCorruptUserRecord(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set("token", "tok"))
	require.NoError(t, backend.Set("user", "{not json"))

	store, err := NewStore(backend, zerolog.Nop())
	require.NoError(t, err)

	assert.False(t, store.Get().Authenticated())
}

func TestFileBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store, err := NewStore(NewFileBackend(path), zerolog.Nop())
	require.NoError(t, err)

	sess := Session{
		Token: "tok",
		User:  User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: RoleAdmin, PhoneNumber: "+1 555-0100"},
	}
	require.NoError(t, store.Set(sess))

	// A fresh store over the same file restores the session.
	reopened, err := NewStore(NewFileBackend(path), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, sess, reopened.Get())

	require.NoError(t, reopened.Clear())
	third, err := NewStore(NewFileBackend(path), zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, third.Get().Authenticated())
}
