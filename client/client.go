// Package client is the Go client for the todolist API. It injects the
// bearer token from the session store on every authenticated call and
// keeps the store in sync across login, registration and logout.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"todolist/api/client/session"
)

// User is the profile shape the API returns.
type User struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Role        session.Role `json:"role"`
	PhoneNumber string       `json:"phone_number"`
	CreatedAt   time.Time    `json:"created_at"`
}

type Todo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	UserEmail string    `json:"user_email,omitempty"`
}

type Stats struct {
	TotalUsers     int `json:"totalUsers"`
	TotalTodos     int `json:"totalTodos"`
	CompletedTodos int `json:"completedTodos"`
	PendingTodos   int `json:"pendingTodos"`
}

// APIError is a server-reported business error: a non-2xx status with
// an error payload.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	store   *session.Store
	log     zerolog.Logger
}

func New(baseURL string, store *session.Store, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		store:   store,
		log:     log,
	}
}

// Store exposes the session store the client was built around.
func (c *Client) Store() *session.Store {
	return c.store
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess := c.store.Get(); sess.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		message := http.StatusText(resp.StatusCode)
		if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
			message = payload.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	Role        int    `json:"role"`
}

type authEnvelope struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Register creates an account and stores the resulting session.
func (c *Client) Register(ctx context.Context, input RegisterInput) (User, error) {
	if input.Role == 0 {
		input.Role = int(session.RoleUser)
	}

	var resp authEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", input, &resp); err != nil {
		return User{}, err
	}

	if err := c.storeSession(resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	body := map[string]string{"email": email, "password": password}

	var resp authEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return User{}, err
	}

	if err := c.storeSession(resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

func (c *Client) storeSession(resp authEnvelope) error {
	return c.store.Set(session.Session{
		Token: resp.Token,
		User: session.User{
			ID:          resp.User.ID,
			Name:        resp.User.Name,
			Email:       resp.User.Email,
			Role:        resp.User.Role,
			PhoneNumber: resp.User.PhoneNumber,
		},
	})
}

// Logout clears the local session even when the server call fails; a
// dead token on the server is preferable to a stuck local session.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if clearErr := c.store.Clear(); clearErr != nil {
		return clearErr
	}
	return err
}

func (c *Client) ListTodos(ctx context.Context) ([]Todo, error) {
	var resp struct {
		Todos []Todo `json:"todos"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/todos", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Todos, nil
}

func (c *Client) CreateTodo(ctx context.Context, title string, completed bool) (Todo, error) {
	body := map[string]any{
		"todo": map[string]any{"title": title, "completed": completed},
	}

	var resp struct {
		Todo Todo `json:"todo"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/todos", body, &resp); err != nil {
		return Todo{}, err
	}
	return resp.Todo, nil
}

func (c *Client) UpdateTodoCompleted(ctx context.Context, id string, completed bool) (Todo, error) {
	body := map[string]any{"completed": completed}

	var resp struct {
		Todo Todo `json:"todo"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/todos/"+id, body, &resp); err != nil {
		return Todo{}, err
	}
	return resp.Todo, nil
}

func (c *Client) UpdateTodoTitle(ctx context.Context, id string, title string) (Todo, error) {
	body := map[string]any{"title": title}

	var resp struct {
		Todo Todo `json:"todo"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/todos/"+id, body, &resp); err != nil {
		return Todo{}, err
	}
	return resp.Todo, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/todos/"+id, nil, nil)
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

type ProfileInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// UpdateProfile saves the profile and refreshes the cached user record
// so the sidebar and other consumers pick up the new identity.
func (c *Client) UpdateProfile(ctx context.Context, input ProfileInput) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/users/me", input, &resp); err != nil {
		return User{}, err
	}

	sess := c.store.Get()
	if sess.Authenticated() {
		sess.User.Name = resp.User.Name
		sess.User.Email = resp.User.Email
		sess.User.PhoneNumber = resp.User.PhoneNumber
		if err := c.store.Set(sess); err != nil {
			c.log.Warn().Err(err).Msg("refresh cached user failed")
		}
	}
	return resp.User, nil
}

func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	return c.do(ctx, http.MethodPost, "/api/users/me/change-password", body, nil)
}

func (c *Client) AdminStats(ctx context.Context) (Stats, error) {
	var resp struct {
		Stats Stats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, &resp); err != nil {
		return Stats{}, err
	}
	return resp.Stats, nil
}

func (c *Client) AdminListUsers(ctx context.Context) ([]User, error) {
	var resp struct {
		Users []User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *Client) AdminDeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/users/"+id, nil, nil)
}

func (c *Client) AdminListTodos(ctx context.Context) ([]Todo, error) {
	var resp struct {
		Todos []Todo `json:"todos"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/admin/todos", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Todos, nil
}

func (c *Client) AdminDeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/todos/"+id, nil, nil)
}
