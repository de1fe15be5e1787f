// Package guard decides whether a protected page may render for the
// current session. It runs before any data fetch; a failed check is an
// immediate navigation, never an error message and never retried.
package guard

import "todolist/api/client/session"

// Requirement is the role a page demands.
type Requirement int

const (
	RequireNone Requirement = iota
	RequireUser
	RequireAdmin
)

// Well-known navigation targets.
const (
	EntryPath     = "/"
	UserHomePath  = "/user/dashboard"
	AdminHomePath = "/admin/dashboard"
)

// Decision says whether to render. When Allow is false, Redirect holds
// the path to navigate to and nothing further may render or fetch.
type Decision struct {
	Allow    bool
	Redirect string
}

// Check applies the gate rules: no token sends the visitor to the entry
// page; a role mismatch sends them to their own role's home.
func Check(sess session.Session, req Requirement) Decision {
	if req == RequireNone {
		return Decision{Allow: true}
	}

	if !sess.Authenticated() {
		return Decision{Redirect: EntryPath}
	}

	switch req {
	case RequireAdmin:
		if sess.User.Role != session.RoleAdmin {
			return Decision{Redirect: UserHomePath}
		}
	case RequireUser:
		if sess.User.Role != session.RoleUser {
			return Decision{Redirect: AdminHomePath}
		}
	}

	return Decision{Allow: true}
}
