package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/api/client/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := session.NewStore(session.NewMemoryBackend(), zerolog.Nop())
	require.NoError(t, err)

	return New(srv.URL, store, zerolog.Nop()), srv
}

func TestLoginStoresTokenAndUserTogether(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-123",
			"user": map[string]any{
				"id": "u1", "name": "Ada", "email": "ada@example.com",
				"role": 2, "phone_number": "+1 555-0100",
			},
		})
	})

	c, _ := newTestClient(t, mux)

	user, err := c.Login(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, session.RoleUser, user.Role)

	sess := c.Store().Get()
	require.True(t, sess.Authenticated())
	assert.Equal(t, "tok-123", sess.Token)
	assert.Equal(t, "Ada", sess.User.Name)
}

func TestLoginErrorLeavesSessionEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid email or password"})
	})

	c, _ := newTestClient(t, mux)

	_, err := c.Login(context.Background(), "ada@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid email or password", apiErr.Message)
	assert.False(t, c.Store().Get().Authenticated())
}

func TestBearerTokenInjected(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/todos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"todos": []map[string]any{{
				"id": "1", "title": "A", "completed": false,
				"created_at": created, "user_id": "u1",
			}},
		})
	})

	c, _ := newTestClient(t, mux)
	require.NoError(t, c.Store().Set(session.Session{
		Token: "tok-123",
		User:  session.User{ID: "u1", Role: session.RoleUser},
	}))

	todos, err := c.ListTodos(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, Todo{
		ID:        "1",
		Title:     "A",
		Completed: false,
		CreatedAt: created,
		UserID:    "u1",
	}, todos[0])
}

func TestLogoutClearsSessionEvenOnServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "db down"})
	})

	c, _ := newTestClient(t, mux)
	require.NoError(t, c.Store().Set(session.Session{
		Token: "tok-123",
		User:  session.User{ID: "u1"},
	}))

	err := c.Logout(context.Background())
	require.Error(t, err, "server failure still reported")
	assert.False(t, c.Store().Get().Authenticated(), "local session cleared regardless")
}

func TestCreateTodoSendsWrappedBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/todos", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Todo struct {
				Title     string `json:"title"`
				Completed bool   `json:"completed"`
			} `json:"todo"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Buy milk", body.Todo.Title)
		assert.False(t, body.Todo.Completed)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"todo": map[string]any{"id": "srv-1", "title": "Buy milk", "completed": false, "user_id": "u1"},
		})
	})

	c, _ := newTestClient(t, mux)
	require.NoError(t, c.Store().Set(session.Session{Token: "tok", User: session.User{ID: "u1"}}))

	todo, err := c.CreateTodo(context.Background(), "Buy milk", false)
	require.NoError(t, err)
	assert.Equal(t, "srv-1", todo.ID, "server is the id authority")
}

func TestAdminStatsDecoded(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"stats": map[string]int{
				"totalUsers": 3, "totalTodos": 10,
				"completedTodos": 4, "pendingTodos": 6,
			},
		})
	})

	c, _ := newTestClient(t, mux)
	require.NoError(t, c.Store().Set(session.Session{Token: "tok", User: session.User{ID: "a1", Role: session.RoleAdmin}}))

	stats, err := c.AdminStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalUsers: 3, TotalTodos: 10, CompletedTodos: 4, PendingTodos: 6}, stats)
}

func TestUpdateProfileRefreshesCachedUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/users/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{
				"id": "u1", "name": "Ada L", "email": "ada@new.example.com", "role": 2,
			},
		})
	})

	c, _ := newTestClient(t, mux)
	require.NoError(t, c.Store().Set(session.Session{
		Token: "tok",
		User:  session.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: session.RoleUser},
	}))

	_, err := c.UpdateProfile(context.Background(), ProfileInput{Name: "Ada L", Email: "ada@new.example.com"})
	require.NoError(t, err)

	sess := c.Store().Get()
	assert.Equal(t, "Ada L", sess.User.Name)
	assert.Equal(t, "ada@new.example.com", sess.User.Email)
	assert.Equal(t, "tok", sess.Token, "token untouched by a profile update")
}

func TestErrorWithoutPayloadFallsBackToStatusText(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/todos", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	c, _ := newTestClient(t, mux)
	require.NoError(t, c.Store().Set(session.Session{Token: "tok", User: session.User{ID: "u1"}}))

	_, err := c.ListTodos(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}
