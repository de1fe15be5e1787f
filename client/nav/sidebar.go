// Package nav models the shared sidebar: the role-scoped menu, active
// tab derivation and the sign-out flow.
package nav

import (
	"context"
	"strings"

	"todolist/api/client/guard"
	"todolist/api/client/session"
)

type Item struct {
	Name string
	Href string
	Icon string
}

// Tab returns the item's active-tab key: the lowercased name with
// spaces collapsed to dashes.
func (i Item) Tab() string {
	return strings.ReplaceAll(strings.ToLower(i.Name), " ", "-")
}

var adminItems = []Item{
	{Name: "Admin Dashboard", Href: "/admin/dashboard", Icon: "speedometer2"},
	{Name: "Manage Users", Href: "/admin/users", Icon: "people"},
	{Name: "All Todos", Href: "/admin/todos", Icon: "clipboard-check"},
	{Name: "Analytics", Href: "/admin/analytics", Icon: "graph-up"},
	{Name: "System Settings", Href: "/admin/settings", Icon: "gear"},
}

var userItems = []Item{
	{Name: "Dashboard", Href: "/user/dashboard", Icon: "speedometer2"},
	{Name: "My Todos", Href: "/user/todos", Icon: "clipboard-check"},
	{Name: "Completed", Href: "/user/completed", Icon: "check-circle"},
	{Name: "My Profile", Href: "/user/profile", Icon: "person"},
}

// Items returns the menu for the given role.
func Items(role session.Role) []Item {
	var src []Item
	if role == session.RoleAdmin {
		src = adminItems
	} else {
		src = userItems
	}
	out := make([]Item, len(src))
	copy(out, src)
	return out
}

// Active returns the item matching the active tab key, if any.
func Active(items []Item, activeTab string) (Item, bool) {
	for _, item := range items {
		if item.Tab() == activeTab {
			return item, true
		}
	}
	return Item{}, false
}

// LogoutAPI is the slice of the API client sign-out needs.
type LogoutAPI interface {
	Logout(ctx context.Context) error
}

// SignOut ends the session and returns the path to navigate to. The
// server call is best-effort; the local session is cleared regardless
// so every subscriber observes the logout.
func SignOut(ctx context.Context, api LogoutAPI, store *session.Store) string {
	if api != nil {
		// Logout clears the store even when the server call fails; a
		// failure only means the server session outlives the token TTL.
		_ = api.Logout(ctx)
		return guard.EntryPath
	}
	if store != nil {
		_ = store.Clear()
	}
	return guard.EntryPath
}
