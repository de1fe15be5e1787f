package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"todolist/api/internal/models"
	"todolist/api/internal/repository"
)

// ErrSelfDelete guards the one transition the admin console must never
// allow: an administrator removing their own account.
var ErrSelfDelete = errors.New("cannot delete your own account")

type AdminService struct {
	users *repository.UserRepository
	todos *repository.TodoRepository
	stats *StatsCache
	log   zerolog.Logger
}

func NewAdminService(
	users *repository.UserRepository,
	todos *repository.TodoRepository,
	stats *StatsCache,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		users: users,
		todos: todos,
		stats: stats,
		log:   log,
	}
}

func (s *AdminService) Stats(ctx context.Context) (models.Stats, error) {
	return s.stats.Get(ctx)
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *AdminService) DeleteUser(ctx context.Context, actorID string, userID string) error {
	if actorID == userID {
		return ErrSelfDelete
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.stats.Invalidate(ctx)

	s.log.Info().
		Str("actor_id", actorID).
		Str("user_id", userID).
		Msg("user deleted by admin")
	return nil
}

func (s *AdminService) ListTodos(ctx context.Context) ([]models.Todo, error) {
	return s.todos.ListAll(ctx)
}

func (s *AdminService) DeleteTodo(ctx context.Context, actorID string, todoID string) error {
	if err := s.todos.Delete(ctx, todoID); err != nil {
		return err
	}

	s.stats.Invalidate(ctx)

	s.log.Info().
		Str("actor_id", actorID).
		Str("todo_id", todoID).
		Msg("todo deleted by admin")
	return nil
}
