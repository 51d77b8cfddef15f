// Package scheduler runs the periodic jobs that drive the special mission
// engine: the assignment pass, the expiration sweep, and the inactivity
// deactivation. Jobs are independent; a slow sweep never blocks assignment.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"habitflow/pkg/logger"
	"go.uber.org/zap"

	"github.com/robfig/cron/v3"
)

type MissionJobs interface {
	RunAssignmentPass(ctx context.Context) error
	RunExpirationSweep(ctx context.Context) error
}

type UserJobs interface {
	DeactivateInactive(ctx context.Context) error
}

type Config struct {
	AssignmentInterval   time.Duration `yaml:"assignmentInterval"`
	ExpirationInterval   time.Duration `yaml:"expirationInterval"`
	DeactivationInterval time.Duration `yaml:"deactivationInterval"`
}

type Scheduler struct {
	cron     *cron.Cron
	cfg      Config
	missions MissionJobs
	users    UserJobs
}

func New(cfg Config, missions MissionJobs, users UserJobs) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		cfg:      cfg,
		missions: missions,
		users:    users,
	}
}

func (s *Scheduler) Start() error {
	log := logger.Logger()

	jobs := []struct {
		name     string
		interval time.Duration
		run      func(context.Context) error
	}{
		// The sweep is registered first so stale assignments from previous
		// days tend to be expired before the pass checks the day window.
		{"expiration_sweep", s.cfg.ExpirationInterval, s.missions.RunExpirationSweep},
		{"assignment_pass", s.cfg.AssignmentInterval, s.missions.RunAssignmentPass},
		{"inactivity_deactivation", s.cfg.DeactivationInterval, s.users.DeactivateInactive},
	}

	for _, job := range jobs {
		job := job
		spec := fmt.Sprintf("@every %s", job.interval)

		_, err := s.cron.AddFunc(spec, func() {
			if err := job.run(context.Background()); err != nil {
				log.Error("scheduled job failed",
					zap.String("job", job.name),
					zap.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("failed to register job %s: %w", job.name, err)
		}

		log.Info("registered scheduled job",
			zap.String("job", job.name),
			zap.Duration("interval", job.interval))
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Logger().Info("scheduler stopped")
}
