// Package state holds the page-level view state that the web client
// kept in component hooks: the personal todo list with its single-slot
// edit draft, and the admin console's lists, filter and delete
// confirmations. Every mutation is confirmed-write-then-update: the
// server response is awaited and local state only changes on success.
package state

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"todolist/api/client"
)

// TodoAPI is the slice of the API client the list manager needs.
type TodoAPI interface {
	ListTodos(ctx context.Context) ([]client.Todo, error)
	CreateTodo(ctx context.Context, title string, completed bool) (client.Todo, error)
	UpdateTodoCompleted(ctx context.Context, id string, completed bool) (client.Todo, error)
	UpdateTodoTitle(ctx context.Context, id string, title string) (client.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
}

// draft is the editing state: at most one todo is editable at a time.
// A nil draft is idle; a non-nil draft always has its text initialized.
type draft struct {
	id   string
	text string
}

// TodoList keeps the in-memory ordered todo collection synchronized
// with the server. Existing entries are never reordered; new items are
// prepended because the list renders newest-first.
type TodoList struct {
	mu    sync.Mutex
	api   TodoAPI
	todos []client.Todo
	draft *draft
	log   zerolog.Logger
}

func NewTodoList(api TodoAPI, log zerolog.Logger) *TodoList {
	return &TodoList{api: api, log: log}
}

// Load replaces the whole collection from the server. On failure the
// collection is emptied rather than left stale.
func (l *TodoList) Load(ctx context.Context) error {
	todos, err := l.api.ListTodos(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.todos = nil
		return err
	}
	l.todos = todos
	return nil
}

// Add creates a todo from the trimmed title and prepends the server's
// canonical record. An empty trimmed title is a no-op: no request is
// sent and the list is unchanged.
func (l *TodoList) Add(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	todo, err := l.api.CreateTodo(ctx, title, false)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.todos = append([]client.Todo{todo}, l.todos...)
	return nil
}

// Toggle sends the inverted completed flag and flips the local copy
// once the server confirms. A failure leaves state unchanged and is
// only logged; the toggle is low-stakes and the user can re-click.
func (l *TodoList) Toggle(ctx context.Context, id string) {
	l.mu.Lock()
	var current *client.Todo
	for i := range l.todos {
		if l.todos[i].ID == id {
			current = &l.todos[i]
			break
		}
	}
	if current == nil {
		l.mu.Unlock()
		return
	}
	target := !current.Completed
	l.mu.Unlock()

	updated, err := l.api.UpdateTodoCompleted(ctx, id, target)
	if err != nil {
		l.log.Error().Err(err).Str("todo_id", id).Msg("toggle todo failed")
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.todos {
		if l.todos[i].ID == id {
			l.todos[i].Completed = updated.Completed
			return
		}
	}
}

// StartEdit opens the edit draft for the given todo, initializing the
// text from its current title. Starting an edit while another is active
// discards the previous draft's uncommitted text.
func (l *TodoList) StartEdit(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.todos {
		if l.todos[i].ID == id {
			l.draft = &draft{id: id, text: l.todos[i].Title}
			return true
		}
	}
	return false
}

func (l *TodoList) SetEditText(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.draft != nil {
		l.draft.text = text
	}
}

// Editing reports the active draft, if any.
func (l *TodoList) Editing() (id string, text string, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.draft == nil {
		return "", "", false
	}
	return l.draft.id, l.draft.text, true
}

// CancelEdit discards the draft without persisting anything.
func (l *TodoList) CancelEdit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.draft = nil
}

// SaveEdit commits the draft. A trimmed-empty draft behaves exactly
// like CancelEdit: no request, title unchanged. On success the local
// title is updated and the draft cleared.
func (l *TodoList) SaveEdit(ctx context.Context) error {
	l.mu.Lock()
	if l.draft == nil {
		l.mu.Unlock()
		return nil
	}
	id := l.draft.id
	title := strings.TrimSpace(l.draft.text)
	if title == "" {
		l.draft = nil
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	updated, err := l.api.UpdateTodoTitle(ctx, id, title)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.todos {
		if l.todos[i].ID == id {
			l.todos[i].Title = updated.Title
			break
		}
	}
	l.draft = nil
	return nil
}

// Remove deletes the todo and drops it from the collection, preserving
// the order of the survivors.
func (l *TodoList) Remove(ctx context.Context, id string) error {
	if err := l.api.DeleteTodo(ctx, id); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.todos[:0]
	for _, todo := range l.todos {
		if todo.ID != id {
			kept = append(kept, todo)
		}
	}
	l.todos = kept
	if l.draft != nil && l.draft.id == id {
		l.draft = nil
	}
	return nil
}

// Todos returns a copy of the current collection.
func (l *TodoList) Todos() []client.Todo {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]client.Todo, len(l.todos))
	copy(out, l.todos)
	return out
}

// Counts returns the footer numbers: active first, completed second.
func (l *TodoList) Counts() (active int, completed int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, todo := range l.todos {
		if todo.Completed {
			completed++
		} else {
			active++
		}
	}
	return active, completed
}
