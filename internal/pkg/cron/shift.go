package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/turnilab/turni-backend-go/internal/domain/shift"
	"github.com/turnilab/turni-backend-go/internal/pkg/clock"
)

// SweepNotifier is told about shifts the sweeper closed or expired so
// the affected users can be informed.
type SweepNotifier interface {
	ShiftSwept(ctx context.Context, s shift.Shift, event shift.Event)
}

// ShiftJobs holds the background jobs that keep shift state consistent
// with the wall clock.
type ShiftJobs struct {
	repo         shift.ShiftRepository
	notifier     SweepNotifier
	clk          clock.Clock
	lookbackDays int
}

func NewShiftJobs(repo shift.ShiftRepository, notifier SweepNotifier, clk clock.Clock, lookbackDays int) *ShiftJobs {
	if lookbackDays <= 0 {
		lookbackDays = 2
	}
	return &ShiftJobs{
		repo:         repo,
		notifier:     notifier,
		clk:          clk,
		lookbackDays: lookbackDays,
	}
}

// Register attaches the sweep job to the scheduler.
func (j *ShiftJobs) Register(s *Scheduler, interval time.Duration) {
	s.AddJob("shift-sweeper", interval, j.Sweep)
}

// Sweep closes running shifts past their scheduled end and expires
// unanswered assignments past the grace period. Each shift is handled
// independently so one bad row never blocks the rest. Running the
// sweep twice over the same window is a no-op the second time.
func (j *ShiftJobs) Sweep(ctx context.Context) error {
	_, err := j.SweepOnce(ctx, j.clk.Now())
	return err
}

// SweepOnce runs a single sweep at the given instant and returns the
// number of shifts it transitioned.
func (j *ShiftJobs) SweepOnce(ctx context.Context, now time.Time) (int, error) {
	since := now.AddDate(0, 0, -j.lookbackDays)
	until := now.AddDate(0, 0, 1)

	live, err := j.repo.GetLive(ctx, since, until)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, s := range live {
		swept, event, ok := shift.Sweep(s, now)
		if !ok {
			continue
		}

		if err := j.repo.Update(ctx, swept); err != nil {
			slog.Error("Failed to persist swept shift",
				"shift_id", s.ID,
				"event", string(event),
				"error", err,
			)
			continue
		}

		changed++
		slog.Info("Shift swept",
			"shift_id", s.ID,
			"collaborator_id", s.CollaboratorID,
			"event", string(event),
			"status", string(swept.Status),
		)

		if j.notifier != nil {
			j.notifier.ShiftSwept(ctx, swept, event)
		}
	}

	return changed, nil
}
