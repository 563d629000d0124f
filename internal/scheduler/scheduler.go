// Package scheduler runs the nightly stock refresh. One Nightly instance
// exists per process; it sleeps until a fixed wall-clock time after market
// close, triggers the batch update, and repeats until stopped.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"stockmarket/internal/apperrors"
	"stockmarket/internal/model"
)

// wakeSpec is the daily wake time: 16:30 local, 30 minutes after market close.
const wakeSpec = "30 16 * * *"

// Updater is the batch operation the scheduler triggers on wake.
type Updater interface {
	PopulateStocks(ctx context.Context) (model.BatchReport, error)
}

// Nightly is the background task driving the nightly refresh cycle.
// Start and Stop report lifecycle errors instead of mutating shared flags.
type Nightly struct {
	updater       Updater
	logger        *logrus.Logger
	schedule      cron.Schedule
	loc           *time.Location
	retryInterval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewNightly creates the nightly scheduler.
//
// loc is the exchange's local time zone in which the 16:30 wake time is
// interpreted. retryInterval is the pause after each cycle, successful or
// not, before the next wake time is computed; it keeps a failing update from
// spinning in a tight loop.
func NewNightly(updater Updater, logger *logrus.Logger, loc *time.Location, retryInterval time.Duration) (*Nightly, error) {
	schedule, err := cron.ParseStandard(wakeSpec)
	if err != nil {
		return nil, err
	}

	return &Nightly{
		updater:       updater,
		logger:        logger,
		schedule:      schedule,
		loc:           loc,
		retryInterval: retryInterval,
	}, nil
}

// NextWake computes the next wake instant strictly after now: 16:30 today in
// the exchange's local time zone, or 16:30 tomorrow when now is already at or
// past today's target.
func (n *Nightly) NextWake(now time.Time) time.Time {
	return n.schedule.Next(now.In(n.loc))
}

// Start launches the background loop. Returns apperrors.ErrAlreadyRunning if
// the scheduler is already running.
func (n *Nightly) Start() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cancel != nil {
		return apperrors.ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel
	n.done = make(chan struct{})

	go n.run(ctx, n.done)

	n.logger.Info("nightly stock scheduler started")
	return nil
}

// Stop cancels the in-flight wait and prevents further iterations. Writes
// already committed by a running update are not rolled back. Returns
// apperrors.ErrNotRunning if the scheduler is not running.
func (n *Nightly) Stop() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cancel == nil {
		return apperrors.ErrNotRunning
	}

	n.cancel()
	<-n.done
	n.cancel = nil
	n.done = nil

	n.logger.Info("nightly stock scheduler stopped")
	return nil
}

// run is the scheduler loop: wait until the next wake time, update, pause,
// repeat. Update errors are logged and never terminate the loop.
func (n *Nightly) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		next := n.NextWake(time.Now())
		n.logger.WithField("next_wake", next.Format(time.RFC3339)).Info("waiting until next stock update")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		n.logger.Info("starting nightly stock data update")
		report, err := n.updater.PopulateStocks(ctx)
		if err != nil {
			n.logger.WithError(err).Error("nightly stock update failed")
		} else {
			n.logger.WithFields(logrus.Fields{
				"attempted": report.Attempted,
				"succeeded": report.Succeeded,
				"failed":    report.Failed,
				"updated":   report.Updated,
			}).Info("nightly stock update completed")
		}

		// Pause before recomputing the wake time, even after an error.
		select {
		case <-ctx.Done():
			return
		case <-time.After(n.retryInterval):
		}
	}
}
