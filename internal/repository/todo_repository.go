package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"todolist/api/internal/models"
)

var ErrTodoNotFound = errors.New("todo not found")

type TodoRepository struct {
	pool *pgxpool.Pool
}

func NewTodoRepository(pool *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{pool: pool}
}

const todoColumns = `id, user_id, title, completed, created_at, updated_at`

func scanTodo(row pgx.Row) (models.Todo, error) {
	var todo models.Todo
	if err := row.Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&todo.Completed,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Todo{}, ErrTodoNotFound
		}
		return models.Todo{}, err
	}
	return todo, nil
}

func (r *TodoRepository) Create(ctx context.Context, todo models.Todo) error {
	const query = `
		INSERT INTO todos (
			id, user_id, title, completed, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Completed,
	)
	return err
}

func (r *TodoRepository) GetByID(ctx context.Context, id string) (models.Todo, error) {
	const query = `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	return scanTodo(r.pool.QueryRow(ctx, query, id))
}

// ListByUser returns the user's todos newest-first, matching the order
// clients render them in.
func (r *TodoRepository) ListByUser(ctx context.Context, userID string) ([]models.Todo, error) {
	const query = `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

// ListAll joins owner identity for the admin console.
func (r *TodoRepository) ListAll(ctx context.Context) ([]models.Todo, error) {
	const query = `
		SELECT t.id, t.user_id, t.title, t.completed, t.created_at, t.updated_at,
		       u.name, u.email
		FROM todos t
		JOIN users u ON u.id = t.user_id
		ORDER BY t.created_at DESC, t.id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		var todo models.Todo
		if err := rows.Scan(
			&todo.ID,
			&todo.UserID,
			&todo.Title,
			&todo.Completed,
			&todo.CreatedAt,
			&todo.UpdatedAt,
			&todo.UserName,
			&todo.UserEmail,
		); err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

func (r *TodoRepository) UpdateTitle(ctx context.Context, id string, title string) error {
	const query = `UPDATE todos SET title = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, title)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func (r *TodoRepository) UpdateCompleted(ctx context.Context, id string, completed bool) error {
	const query = `UPDATE todos SET completed = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, completed)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM todos WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// Counts feeds the admin dashboard aggregates in a single round trip.
func (r *TodoRepository) Counts(ctx context.Context) (total int, completed int, err error) {
	const query = `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE completed)
		FROM todos
	`
	if err := r.pool.QueryRow(ctx, query).Scan(&total, &completed); err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}
