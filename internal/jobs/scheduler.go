package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"todolist/api/internal/repository"
	"todolist/api/internal/service"
)

// Scheduler runs the background maintenance the request path should not
// pay for: dropping expired sessions and keeping the admin stats cache
// warm.
type Scheduler struct {
	cron     *cron.Cron
	sessions *repository.SessionRepository
	stats    *service.StatsCache
	log      zerolog.Logger
}

func NewScheduler(sessions *repository.SessionRepository, stats *service.StatsCache, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		sessions: sessions,
		stats:    stats,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.purgeExpiredSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@every 5m", s.warmStatsCache); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits for in-flight jobs, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) purgeExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.sessions.PurgeExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("purge expired sessions failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("expired sessions purged")
	}
}

func (s *Scheduler) warmStatsCache() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.stats.Refresh(ctx); err != nil {
		s.log.Error().Err(err).Msg("stats cache warm failed")
	}
}
