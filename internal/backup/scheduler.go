package backup

import (
	"context"
	"fmt"

	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"
)

// Scheduler runs backups on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	service *Service
}

// NewScheduler registers the backup job under the given standard five-field cron schedule.
func NewScheduler(service *Service, schedule string) (*Scheduler, error) {
	c := cron.New()
	s := &Scheduler{cron: c, service: service}

	if _, err := c.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start starts the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Bool("encrypted", s.service.Encrypted()).Msg("backup scheduler started")
}

// Stop stops the scheduler and waits for a running backup to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		log.Warn().Msg("backup scheduler stop timed out")
		return
	}
	log.Info().Msg("backup scheduler stopped")
}

func (s *Scheduler) run() {
	if _, err := s.service.Run(context.Background()); err != nil {
		log.Error().Err(err).Msg("scheduled backup failed")
	}
}
