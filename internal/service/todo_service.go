package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"todolist/api/internal/ids"
	"todolist/api/internal/models"
	"todolist/api/internal/repository"
)

var (
	ErrEmptyTitle = errors.New("title must not be empty")
	ErrNotOwner   = errors.New("todo belongs to another user")
)

type TodoService struct {
	todos *repository.TodoRepository
	stats *StatsCache
	log   zerolog.Logger
}

func NewTodoService(todos *repository.TodoRepository, stats *StatsCache, log zerolog.Logger) *TodoService {
	return &TodoService{
		todos: todos,
		stats: stats,
		log:   log,
	}
}

func (s *TodoService) ListForUser(ctx context.Context, userID string) ([]models.Todo, error) {
	return s.todos.ListByUser(ctx, userID)
}

// Create returns the canonical stored record; callers prepend it to
// their local list instead of trusting their own input.
func (s *TodoService) Create(ctx context.Context, userID string, title string, completed bool) (models.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Todo{}, ErrEmptyTitle
	}

	todo := models.Todo{
		ID:        ids.New(),
		UserID:    userID,
		Title:     title,
		Completed: completed,
	}

	if err := s.todos.Create(ctx, todo); err != nil {
		return models.Todo{}, err
	}

	s.stats.Invalidate(ctx)

	return s.todos.GetByID(ctx, todo.ID)
}

type UpdateTodoInput struct {
	Title     *string
	Completed *bool
}

func (s *TodoService) Update(ctx context.Context, userID string, todoID string, input UpdateTodoInput) (models.Todo, error) {
	todo, err := s.getOwned(ctx, userID, todoID)
	if err != nil {
		return models.Todo{}, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return models.Todo{}, ErrEmptyTitle
		}
		if err := s.todos.UpdateTitle(ctx, todo.ID, title); err != nil {
			return models.Todo{}, err
		}
	}

	if input.Completed != nil {
		if err := s.todos.UpdateCompleted(ctx, todo.ID, *input.Completed); err != nil {
			return models.Todo{}, err
		}
		s.stats.Invalidate(ctx)
	}

	return s.todos.GetByID(ctx, todo.ID)
}

func (s *TodoService) Delete(ctx context.Context, userID string, todoID string) error {
	todo, err := s.getOwned(ctx, userID, todoID)
	if err != nil {
		return err
	}

	if err := s.todos.Delete(ctx, todo.ID); err != nil {
		return err
	}

	s.stats.Invalidate(ctx)
	return nil
}

func (s *TodoService) getOwned(ctx context.Context, userID string, todoID string) (models.Todo, error) {
	todo, err := s.todos.GetByID(ctx, todoID)
	if err != nil {
		return models.Todo{}, err
	}
	if todo.UserID != userID {
		return models.Todo{}, ErrNotOwner
	}
	return todo, nil
}
