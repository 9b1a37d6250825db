// Package scheduler runs the ingestion pipeline periodically. Retry of
// transient fetch failures lives here, outside the pipeline itself: each tick
// wraps the run in an exponential backoff, and a failed tick simply leaves
// the previous snapshot standing until the next one.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/robfig/cron/v3"

	"github.com/tbraun/spielplan/internal/fetch"
	"github.com/tbraun/spielplan/internal/ingest"
	"github.com/tbraun/spielplan/internal/logger"
)

const maxRetryWindow = 10 * time.Minute

// Scheduler triggers scrape runs on a cron spec
type Scheduler struct {
	c          *cron.Cron
	runner     *ingest.Runner
	runTimeout time.Duration
}

// New creates a Scheduler firing the runner on the given 5-field cron spec
func New(runner *ingest.Runner, spec string, runTimeout time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		c:          cron.New(),
		runner:     runner,
		runTimeout: runTimeout,
	}

	if _, err := s.c.AddFunc(spec, s.tick); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins firing ticks in the background
func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop stops the cron loop; a tick already running finishes on its own
func (s *Scheduler) Stop() {
	s.c.Stop()
}

// tick executes one scheduled run, retrying transient fetch failures with
// exponential backoff. Write failures and layout changes are not retried;
// they need a human anyway.
func (s *Scheduler) tick() {
	logger.Info("scheduled scrape starting", nil)

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = maxRetryWindow

	operation := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		defer cancel()

		summary, err := s.runner.Run(ctx)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}

		logger.Info("scheduled scrape finished", logger.Fields{
			"fixtures": summary.Fixtures,
			"dates":    summary.Dates,
			"warnings": summary.Warnings,
		})
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		logger.Error("scheduled scrape failed", logger.Fields{
			"code": ingest.ErrorCode(err),
		}, err)
	}
}

// retryable reports whether a run failure is worth retrying: transport
// hiccups and timeouts are, bad status codes and everything else are not
func retryable(err error) bool {
	var fetchErr *fetch.Error
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind == fetch.KindTransport || fetchErr.Kind == fetch.KindTimeout
	}
	return false
}
