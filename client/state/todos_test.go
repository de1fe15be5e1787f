package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/api/client"
)

type fakeTodoAPI struct {
	todos []client.Todo

	listErr   error
	createErr error
	updateErr error
	deleteErr error

	createCalls int
	updateCalls int
	deleteCalls int
	nextID      int
}

func (f *fakeTodoAPI) ListTodos(context.Context) ([]client.Todo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]client.Todo, len(f.todos))
	copy(out, f.todos)
	return out, nil
}

func (f *fakeTodoAPI) CreateTodo(_ context.Context, title string, completed bool) (client.Todo, error) {
	f.createCalls++
	if f.createErr != nil {
		return client.Todo{}, f.createErr
	}
	f.nextID++
	todo := client.Todo{
		ID:        string(rune('a' + f.nextID)),
		Title:     title,
		Completed: completed,
		CreatedAt: time.Now(),
		UserID:    "u1",
	}
	f.todos = append([]client.Todo{todo}, f.todos...)
	return todo, nil
}

func (f *fakeTodoAPI) UpdateTodoCompleted(_ context.Context, id string, completed bool) (client.Todo, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return client.Todo{}, f.updateErr
	}
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos[i].Completed = completed
			return f.todos[i], nil
		}
	}
	return client.Todo{}, errors.New("not found")
}

func (f *fakeTodoAPI) UpdateTodoTitle(_ context.Context, id string, title string) (client.Todo, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return client.Todo{}, f.updateErr
	}
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos[i].Title = title
			return f.todos[i], nil
		}
	}
	return client.Todo{}, errors.New("not found")
}

func (f *fakeTodoAPI) DeleteTodo(_ context.Context, id string) error {
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.todos[:0]
	for _, todo := range f.todos {
		if todo.ID != id {
			kept = append(kept, todo)
		}
	}
	f.todos = kept
	return nil
}

func seededList(t *testing.T, todos ...client.Todo) (*TodoList, *fakeTodoAPI) {
	t.Helper()
	api := &fakeTodoAPI{todos: todos}
	list := NewTodoList(api, zerolog.Nop())
	require.NoError(t, list.Load(context.Background()))
	return list, api
}

func TestAddBlankTitleIsNoOp(t *testing.T) {
	list, api := seededList(t, client.Todo{ID: "t1", Title: "A"})

	require.NoError(t, list.Add(context.Background(), ""))
	require.NoError(t, list.Add(context.Background(), "   "))

	assert.Zero(t, api.createCalls, "no request may be issued for blank titles")
	assert.Len(t, list.Todos(), 1)
}

func TestAddPrependsServerRecord(t *testing.T) {
	list, _ := seededList(t, client.Todo{ID: "t1", Title: "Old"})

	require.NoError(t, list.Add(context.Background(), "  Buy milk  "))

	todos := list.Todos()
	require.Len(t, todos, 2)
	assert.Equal(t, "Buy milk", todos[0].Title)
	assert.False(t, todos[0].Completed)
	assert.NotEmpty(t, todos[0].ID, "server assigns the id")
	assert.Equal(t, "t1", todos[1].ID, "existing entries keep their position")
}

func TestAddFailureLeavesListUnchanged(t *testing.T) {
	list, api := seededList(t, client.Todo{ID: "t1", Title: "A"})
	api.createErr = errors.New("boom")

	err := list.Add(context.Background(), "New")
	require.Error(t, err)
	assert.Len(t, list.Todos(), 1)
}

func TestToggleFlipsExactlyOne(t *testing.T) {
	list, _ := seededList(t,
		client.Todo{ID: "t1", Title: "A", Completed: false},
		client.Todo{ID: "t2", Title: "B", Completed: true},
		client.Todo{ID: "t3", Title: "C", Completed: false},
	)

	list.Toggle(context.Background(), "t2")

	todos := list.Todos()
	assert.False(t, todos[0].Completed)
	assert.False(t, todos[1].Completed, "t2 flipped")
	assert.False(t, todos[2].Completed)
}

func TestToggleFailureIsSilentAndStateUnchanged(t *testing.T) {
	list, api := seededList(t, client.Todo{ID: "t1", Title: "A", Completed: false})
	api.updateErr = errors.New("boom")

	list.Toggle(context.Background(), "t1")

	assert.False(t, list.Todos()[0].Completed)
}

func TestEditDraftSingleSlot(t *testing.T) {
	list, _ := seededList(t,
		client.Todo{ID: "t1", Title: "A"},
		client.Todo{ID: "t2", Title: "B"},
	)

	require.True(t, list.StartEdit("t1"))
	id, text, ok := list.Editing()
	require.True(t, ok)
	assert.Equal(t, "t1", id)
	assert.Equal(t, "A", text, "text initialized from the title")

	require.True(t, list.StartEdit("t2"))
	id, text, ok = list.Editing()
	require.True(t, ok)
	assert.Equal(t, "t2", id, "second edit displaces the first")
	assert.Equal(t, "B", text)
}

func TestStartEditUnknownID(t *testing.T) {
	list, _ := seededList(t, client.Todo{ID: "t1", Title: "A"})

	assert.False(t, list.StartEdit("missing"))
	_, _, ok := list.Editing()
	assert.False(t, ok)
}

func TestSaveEditEmptyBehavesAsCancel(t *testing.T) {
	list, api := seededList(t, client.Todo{ID: "t1", Title: "A"})

	require.True(t, list.StartEdit("t1"))
	list.SetEditText("   ")
	require.NoError(t, list.SaveEdit(context.Background()))

	assert.Zero(t, api.updateCalls, "no request for an empty draft")
	assert.Equal(t, "A", list.Todos()[0].Title)
	_, _, ok := list.Editing()
	assert.False(t, ok, "draft cleared")
}

func TestSaveEditTrimsAndUpdates(t *testing.T) {
	list, _ := seededList(t, client.Todo{ID: "t1", Title: "A"})

	require.True(t, list.StartEdit("t1"))
	list.SetEditText("  New title  ")
	require.NoError(t, list.SaveEdit(context.Background()))

	assert.Equal(t, "New title", list.Todos()[0].Title)
	_, _, ok := list.Editing()
	assert.False(t, ok)
}

func TestCancelEditKeepsTitle(t *testing.T) {
	list, api := seededList(t, client.Todo{ID: "t1", Title: "A"})

	require.True(t, list.StartEdit("t1"))
	list.SetEditText("changed")
	list.CancelEdit()

	assert.Zero(t, api.updateCalls)
	assert.Equal(t, "A", list.Todos()[0].Title)
}

func TestRemovePreservesOrder(t *testing.T) {
	list, _ := seededList(t,
		client.Todo{ID: "t1", Title: "A"},
		client.Todo{ID: "t2", Title: "B"},
		client.Todo{ID: "t3", Title: "C"},
	)

	require.NoError(t, list.Remove(context.Background(), "t2"))

	todos := list.Todos()
	require.Len(t, todos, 2)
	assert.Equal(t, "t1", todos[0].ID)
	assert.Equal(t, "t3", todos[1].ID)
}

func TestRemoveClearsMatchingDraft(t *testing.T) {
	list, _ := seededList(t, client.Todo{ID: "t1", Title: "A"})

	require.True(t, list.StartEdit("t1"))
	require.NoError(t, list.Remove(context.Background(), "t1"))

	_, _, ok := list.Editing()
	assert.False(t, ok)
}

func TestLoadFailureEmptiesList(t *testing.T) {
	list, api := seededList(t, client.Todo{ID: "t1", Title: "A"})
	api.listErr = errors.New("boom")

	err := list.Load(context.Background())
	require.Error(t, err)
	assert.Empty(t, list.Todos(), "no partial state retained")
}

func TestCounts(t *testing.T) {
	list, _ := seededList(t,
		client.Todo{ID: "t1", Completed: false},
		client.Todo{ID: "t2", Completed: true},
		client.Todo{ID: "t3", Completed: true},
	)

	active, completed := list.Counts()
	assert.Equal(t, 1, active)
	assert.Equal(t, 2, completed)
}
