// Package scheduler runs the periodic snapshot refresh.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"triada/internal/logger"
)

type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Start registers the refresh job at the given interval and starts the cron
// loop. Job errors are logged, never fatal: a failed refresh leaves the
// previous snapshot serving.
func (s *Scheduler) Start(interval time.Duration, job func() error) error {
	minutes := int(interval.Minutes())
	if minutes < 1 {
		minutes = 1
	}

	spec := fmt.Sprintf("@every %dm", minutes)
	if _, err := s.cron.AddFunc(spec, func() {
		if err := job(); err != nil {
			logger.Error("scheduled refresh failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule refresh job: %w", err)
	}

	s.cron.Start()
	logger.Info("scheduled snapshot refresh", "every_minutes", minutes)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
