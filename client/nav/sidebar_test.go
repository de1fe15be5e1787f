package nav

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/api/client/guard"
	"todolist/api/client/session"
)

func TestItemsByRole(t *testing.T) {
	admin := Items(session.RoleAdmin)
	require.Len(t, admin, 5)
	assert.Equal(t, "/admin/dashboard", admin[0].Href)

	user := Items(session.RoleUser)
	require.Len(t, user, 4)
	assert.Equal(t, "/user/todos", user[1].Href)
}

func TestTabSlug(t *testing.T) {
	assert.Equal(t, "my-todos", Item{Name: "My Todos"}.Tab())
	assert.Equal(t, "admin-dashboard", Item{Name: "Admin Dashboard"}.Tab())
	assert.Equal(t, "dashboard", Item{Name: "Dashboard"}.Tab())
}

func TestActive(t *testing.T) {
	items := Items(session.RoleUser)

	item, ok := Active(items, "my-todos")
	require.True(t, ok)
	assert.Equal(t, "My Todos", item.Name)

	_, ok = Active(items, "manage-users")
	assert.False(t, ok, "admin tabs never match the user menu")
}

type stubLogout struct {
	called bool
	err    error
}

func (s *stubLogout) Logout(context.Context) error {
	s.called = true
	return s.err
}

func TestSignOutUsesAPI(t *testing.T) {
	api := &stubLogout{}

	path := SignOut(context.Background(), api, nil)
	assert.True(t, api.called)
	assert.Equal(t, guard.EntryPath, path)
}

func TestSignOutAPIFailureStillRedirects(t *testing.T) {
	api := &stubLogout{err: errors.New("server down")}

	path := SignOut(context.Background(), api, nil)
	assert.Equal(t, guard.EntryPath, path)
}

func TestSignOutWithoutAPIClearsStore(t *testing.T) {
	store, err := session.NewStore(session.NewMemoryBackend(), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.Set(session.Session{Token: "tok", User: session.User{ID: "u1"}}))

	path := SignOut(context.Background(), nil, store)
	assert.Equal(t, guard.EntryPath, path)
	assert.False(t, store.Get().Authenticated())
}
