package state

import (
	"context"
	"errors"
	"math"
	"sync"

	"todolist/api/client"
)

// AdminAPI is the slice of the API client the admin console needs.
type AdminAPI interface {
	AdminStats(ctx context.Context) (client.Stats, error)
	AdminListUsers(ctx context.Context) ([]client.User, error)
	AdminDeleteUser(ctx context.Context, id string) error
	AdminListTodos(ctx context.Context) ([]client.Todo, error)
	AdminDeleteTodo(ctx context.Context, id string) error
}

// ErrDeleteSelf rejects the one delete the console must never perform.
var ErrDeleteSelf = errors.New("cannot delete your own account")

// ErrNoPendingDelete means Confirm was called with no delete staged.
var ErrNoPendingDelete = errors.New("no delete pending confirmation")

// Dashboard holds the aggregate counters view.
type Dashboard struct {
	mu    sync.Mutex
	api   AdminAPI
	stats client.Stats
}

func NewDashboard(api AdminAPI) *Dashboard {
	return &Dashboard{api: api}
}

func (d *Dashboard) Load(ctx context.Context) error {
	stats, err := d.api.AdminStats(ctx)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats = stats
	return nil
}

func (d *Dashboard) Stats() client.Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// CompletionPercent is the rounded completed/total ratio; 0 when there
// are no todos at all.
func (d *Dashboard) CompletionPercent() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stats.TotalTodos == 0 {
		return 0
	}
	return int(math.Round(float64(d.stats.CompletedTodos) / float64(d.stats.TotalTodos) * 100))
}

// UserList is the admin user management view. Deletion is a two-step
// flow: RequestDelete stages the target, Confirm commits it.
type UserList struct {
	mu            sync.Mutex
	api           AdminAPI
	sessionUserID string
	users         []client.User
	pending       *client.User
}

// NewUserList needs the session user's id to refuse self-deletion.
func NewUserList(api AdminAPI, sessionUserID string) *UserList {
	return &UserList{api: api, sessionUserID: sessionUserID}
}

func (u *UserList) Load(ctx context.Context) error {
	users, err := u.api.AdminListUsers(ctx)

	u.mu.Lock()
	defer u.mu.Unlock()
	if err != nil {
		u.users = nil
		return err
	}
	u.users = users
	return nil
}

func (u *UserList) Users() []client.User {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]client.User, len(u.users))
	copy(out, u.users)
	return out
}

// CanDelete is false for the session user's own row; the delete action
// is absent for it, not merely disabled.
func (u *UserList) CanDelete(user client.User) bool {
	return user.ID != u.sessionUserID
}

// RequestDelete stages a user for deletion, to be confirmed or
// cancelled. Staging one's own row is rejected outright.
func (u *UserList) RequestDelete(id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if id == u.sessionUserID {
		return ErrDeleteSelf
	}
	for i := range u.users {
		if u.users[i].ID == id {
			target := u.users[i]
			u.pending = &target
			return nil
		}
	}
	return errors.New("user not found")
}

func (u *UserList) Pending() (client.User, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.pending == nil {
		return client.User{}, false
	}
	return *u.pending, true
}

func (u *UserList) CancelDelete() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pending = nil
}

// ConfirmDelete commits the staged deletion and removes the row on
// success. The staged target is kept on failure so the user can retry.
func (u *UserList) ConfirmDelete(ctx context.Context) error {
	u.mu.Lock()
	if u.pending == nil {
		u.mu.Unlock()
		return ErrNoPendingDelete
	}
	id := u.pending.ID
	u.mu.Unlock()

	if err := u.api.AdminDeleteUser(ctx, id); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	kept := u.users[:0]
	for _, user := range u.users {
		if user.ID != id {
			kept = append(kept, user)
		}
	}
	u.users = kept
	u.pending = nil
	return nil
}

// TodoFilter narrows the admin todo table.
type TodoFilter string

const (
	FilterAll       TodoFilter = "all"
	FilterCompleted TodoFilter = "completed"
	FilterPending   TodoFilter = "pending"
)

// AdminTodoList is the all-users todo view with its display filter and
// the same staged-delete flow as the user list.
type AdminTodoList struct {
	mu      sync.Mutex
	api     AdminAPI
	todos   []client.Todo
	filter  TodoFilter
	pending *client.Todo
}

func NewAdminTodoList(api AdminAPI) *AdminTodoList {
	return &AdminTodoList{api: api, filter: FilterAll}
}

func (t *AdminTodoList) Load(ctx context.Context) error {
	todos, err := t.api.AdminListTodos(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.todos = nil
		return err
	}
	t.todos = todos
	return nil
}

func (t *AdminTodoList) SetFilter(filter TodoFilter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filter = filter
}

func (t *AdminTodoList) Filter() TodoFilter {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filter
}

// Filtered applies the filter predicate strictly on the completed flag;
// it never mutates or reorders the underlying collection.
func (t *AdminTodoList) Filtered() []client.Todo {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]client.Todo, 0, len(t.todos))
	for _, todo := range t.todos {
		switch t.filter {
		case FilterCompleted:
			if !todo.Completed {
				continue
			}
		case FilterPending:
			if todo.Completed {
				continue
			}
		}
		out = append(out, todo)
	}
	return out
}

func (t *AdminTodoList) RequestDelete(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.todos {
		if t.todos[i].ID == id {
			target := t.todos[i]
			t.pending = &target
			return nil
		}
	}
	return errors.New("todo not found")
}

func (t *AdminTodoList) Pending() (client.Todo, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending == nil {
		return client.Todo{}, false
	}
	return *t.pending, true
}

func (t *AdminTodoList) CancelDelete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = nil
}

func (t *AdminTodoList) ConfirmDelete(ctx context.Context) error {
	t.mu.Lock()
	if t.pending == nil {
		t.mu.Unlock()
		return ErrNoPendingDelete
	}
	id := t.pending.ID
	t.mu.Unlock()

	if err := t.api.AdminDeleteTodo(ctx, id); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.todos[:0]
	for _, todo := range t.todos {
		if todo.ID != id {
			kept = append(kept, todo)
		}
	}
	t.todos = kept
	t.pending = nil
	return nil
}
