// Package jobs runs the periodic liveness work: refunding wagers the oracle
// never answered and re-submitting requests it never received.
package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const (
	RefundSpec   = "@every 1m"
	ResubmitSpec = "@every 1m"
)

// Sweeper is the part of the wagering service the scheduler drives.
type Sweeper interface {
	RefundExpired(ctx context.Context) (int, error)
	ResubmitPending(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
}

func NewScheduler(sweeper Sweeper) *Scheduler {
	// A slow sweep must not overlap its next tick.
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	return &Scheduler{
		cron:    c,
		sweeper: sweeper,
	}
}

// Start registers the jobs and starts the cron loop. Jobs run with ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(RefundSpec, func() { s.refund(ctx) })
	if err != nil {
		return fmt.Errorf("schedule refund: %w", err)
	}

	_, err = s.cron.AddFunc(ResubmitSpec, func() { s.resubmit(ctx) })
	if err != nil {
		return fmt.Errorf("schedule resubmit: %w", err)
	}

	s.cron.Start()
	log.WithField("jobs", len(s.cron.Entries())).Info("scheduler started")

	return nil
}

// Stop waits for running jobs, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		log.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop scheduler: %w", ctx.Err())
	}
}

// RunOnce performs one pass of every job.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.refund(ctx)
	s.resubmit(ctx)
}

func (s *Scheduler) refund(ctx context.Context) {
	n, err := s.sweeper.RefundExpired(ctx)
	if err != nil {
		log.WithError(err).Error("[CRON] refund expired wagers")
	}
	if n > 0 {
		log.WithField("refunded", n).Info("[CRON] expired wagers refunded")
	}
}

func (s *Scheduler) resubmit(ctx context.Context) {
	n, err := s.sweeper.ResubmitPending(ctx)
	if err != nil {
		log.WithError(err).Error("[CRON] resubmit randomness requests")
	}
	if n > 0 {
		log.WithField("resubmitted", n).Info("[CRON] randomness requests resubmitted")
	}
}
