package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"todolist/api/internal/models"
	"todolist/api/internal/repository"
)

const statsCacheKey = "todolist:admin:stats"

// StatsCache keeps the admin dashboard counters in redis so the
// dashboard does not hit three aggregate queries on every load. Writers
// invalidate, the scheduler re-warms.
type StatsCache struct {
	cache *redis.Client
	users *repository.UserRepository
	todos *repository.TodoRepository
	ttl   time.Duration
	log   zerolog.Logger
}

func NewStatsCache(
	cache *redis.Client,
	users *repository.UserRepository,
	todos *repository.TodoRepository,
	ttl time.Duration,
	log zerolog.Logger,
) *StatsCache {
	return &StatsCache{
		cache: cache,
		users: users,
		todos: todos,
		ttl:   ttl,
		log:   log,
	}
}

func (c *StatsCache) Get(ctx context.Context) (models.Stats, error) {
	if c.cache != nil {
		raw, err := c.cache.Get(ctx, statsCacheKey).Bytes()
		if err == nil {
			var stats models.Stats
			if err := json.Unmarshal(raw, &stats); err == nil {
				return stats, nil
			}
		} else if err != redis.Nil {
			c.log.Warn().Err(err).Msg("stats cache read failed")
		}
	}

	return c.Refresh(ctx)
}

// Refresh recomputes the counters from postgres and stores them.
func (c *StatsCache) Refresh(ctx context.Context) (models.Stats, error) {
	totalUsers, err := c.users.Count(ctx)
	if err != nil {
		return models.Stats{}, err
	}

	totalTodos, completedTodos, err := c.todos.Counts(ctx)
	if err != nil {
		return models.Stats{}, err
	}

	stats := models.Stats{
		TotalUsers:     totalUsers,
		TotalTodos:     totalTodos,
		CompletedTodos: completedTodos,
		PendingTodos:   totalTodos - completedTodos,
	}

	if c.cache != nil {
		raw, err := json.Marshal(stats)
		if err == nil {
			if err := c.cache.Set(ctx, statsCacheKey, raw, c.ttl).Err(); err != nil {
				c.log.Warn().Err(err).Msg("stats cache write failed")
			}
		}
	}

	return stats, nil
}

func (c *StatsCache) Invalidate(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Del(ctx, statsCacheKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("stats cache invalidate failed")
	}
}
