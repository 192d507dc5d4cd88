// Package scheduler fires pricing passes on a cron expression evaluated in UTC.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopify-repricer/internal/app/usecases"
	"shopify-repricer/internal/logging"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Scheduler struct {
	cron     *cron.Cron
	entry    cron.EntryID
	repricer usecases.RepricerService
	logger   logging.LoggerService
	ctx      context.Context
}

func New(expression string, repricer usecases.RepricerService, logger logging.LoggerService) (*Scheduler, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		repricer: repricer,
		logger:   logger,
		ctx:      context.Background(),
	}
	entry, err := s.cron.AddFunc(withUTC(expression), s.runPass)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", expression, err)
	}
	s.entry = entry
	return s, nil
}

// Start begins firing passes in the background. ctx is handed to every pass.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
	s.logger.Log("scheduler started", zap.Time("next_run", s.Next()))
}

// Stop prevents new passes and waits for a running one, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.LogWarning("scheduler stop timed out with a pass still running")
	}
}

func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Schedule.Next(time.Now().UTC())
}

// withUTC pins the expression to UTC unless it names its own zone.
func withUTC(expression string) string {
	expression = strings.TrimSpace(expression)
	if strings.HasPrefix(expression, "CRON_TZ=") || strings.HasPrefix(expression, "TZ=") {
		return expression
	}
	return "CRON_TZ=UTC " + expression
}

func (s *Scheduler) runPass() {
	_, err := s.repricer.Run(s.ctx, usecases.TriggerScheduled)
	if errors.Is(err, usecases.ErrPassInProgress) {
		s.logger.Log("scheduled pass skipped: another pass is running")
		return
	}
	if err != nil {
		s.logger.LogError("scheduled pass failed", err)
	}
}
