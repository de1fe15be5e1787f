package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"todolist/api/client/session"
)

func TestCheck(t *testing.T) {
	admin := session.Session{Token: "tok", User: session.User{ID: "a1", Role: session.RoleAdmin}}
	user := session.Session{Token: "tok", User: session.User{ID: "u1", Role: session.RoleUser}}
	anonymous := session.Session{}

	tests := []struct {
		name string
		sess session.Session
		req  Requirement
		want Decision
	}{
		{"no token on user page", anonymous, RequireUser, Decision{Redirect: EntryPath}},
		{"no token on admin page", anonymous, RequireAdmin, Decision{Redirect: EntryPath}},
		{"user on user page", user, RequireUser, Decision{Allow: true}},
		{"admin on admin page", admin, RequireAdmin, Decision{Allow: true}},
		{"user on admin page", user, RequireAdmin, Decision{Redirect: UserHomePath}},
		{"admin on user page", admin, RequireUser, Decision{Redirect: AdminHomePath}},
		{"anyone on open page", anonymous, RequireNone, Decision{Allow: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.sess, tt.req))
		})
	}
}

func TestUserDataIgnoredWithoutToken(t *testing.T) {
	// A stale user record must not grant access when the token is gone.
	stale := session.Session{User: session.User{ID: "a1", Role: session.RoleAdmin}}

	decision := Check(stale, RequireAdmin)
	assert.False(t, decision.Allow)
	assert.Equal(t, EntryPath, decision.Redirect)
}
