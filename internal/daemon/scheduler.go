package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	derrors "git.home.luguber.info/inful/docregistry/internal/foundation/errors"
	"git.home.luguber.info/inful/docregistry/internal/logfields"
)

// Scheduler wraps gocron for periodic maintenance tasks (link verification).
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryInternal, "failed to create scheduler").Build()
	}
	return &Scheduler{scheduler: s}, nil
}

// ScheduleVerification runs the verify task at the given interval.
// Returns the job ID for later management.
func (s *Scheduler) ScheduleVerification(interval time.Duration, verify func(ctx context.Context)) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			verify(context.Background())
		}),
		gocron.WithName("link-verification"),
	)
	if err != nil {
		return "", derrors.WrapError(err, derrors.CategoryInternal, "failed to schedule verification").Build()
	}
	slog.Info("Scheduled periodic link verification", slog.Duration("interval", interval))
	return job.ID().String(), nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		slog.Warn("Scheduler shutdown error", logfields.Error(err))
		return err
	}
	return nil
}
