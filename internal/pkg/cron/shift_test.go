package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnilab/turni-backend-go/internal/domain/shift"
)

type fakeShiftRepo struct {
	shifts    map[string]shift.Shift
	updateErr map[string]error
	updates   int
}

func newFakeShiftRepo(shifts ...shift.Shift) *fakeShiftRepo {
	r := &fakeShiftRepo{
		shifts:    make(map[string]shift.Shift),
		updateErr: make(map[string]error),
	}
	for _, s := range shifts {
		r.shifts[s.ID] = s
	}
	return r
}

func (r *fakeShiftRepo) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	r.shifts[s.ID] = s
	return s, nil
}

func (r *fakeShiftRepo) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (r *fakeShiftRepo) List(ctx context.Context, filter shift.ShiftFilter) ([]shift.Shift, int64, error) {
	out := make([]shift.Shift, 0, len(r.shifts))
	for _, s := range r.shifts {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeShiftRepo) GetLive(ctx context.Context, since, until time.Time) ([]shift.Shift, error) {
	out := make([]shift.Shift, 0)
	for _, s := range r.shifts {
		if !s.Status.Terminal() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeShiftRepo) Update(ctx context.Context, s shift.Shift) error {
	if err := r.updateErr[s.ID]; err != nil {
		return err
	}
	r.shifts[s.ID] = s
	r.updates++
	return nil
}

func (r *fakeShiftRepo) Delete(ctx context.Context, id string) error {
	delete(r.shifts, id)
	return nil
}

type recordingNotifier struct {
	events []shift.Event
}

func (n *recordingNotifier) ShiftSwept(ctx context.Context, s shift.Shift, event shift.Event) {
	n.events = append(n.events, event)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func sweeperShift(id string, status shift.Status) shift.Shift {
	return shift.Shift{
		ID:             id,
		CollaboratorID: "c1",
		Date:           "2024-03-10",
		StartTime:      "18:00",
		EndTime:        "22:00",
		PayoutRate:     decimal.NewFromInt(10),
		RateType:       shift.RateHourly,
		Status:         status,
	}
}

func TestSweepClosesRunningShiftPastEnd(t *testing.T) {
	repo := newFakeShiftRepo(sweeperShift("s1", shift.StatusInProgress))
	notifier := &recordingNotifier{}
	now := time.Date(2024, 3, 10, 22, 5, 0, 0, time.Local)

	jobs := NewShiftJobs(repo, notifier, fixedClock{now}, 2)
	changed, err := jobs.SweepOnce(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	got := repo.shifts["s1"]
	assert.Equal(t, shift.StatusCompleted, got.Status)
	assert.True(t, got.SystemClosed)
	require.NotNil(t, got.RealEndTime)
	assert.Equal(t, 22, got.RealEndTime.Hour())
	assert.Equal(t, []shift.Event{shift.EventAutoClose}, notifier.events)
}

func TestSweepExpiresUnansweredAssignment(t *testing.T) {
	repo := newFakeShiftRepo(sweeperShift("s1", shift.StatusAssigned))
	now := time.Date(2024, 3, 10, 22, 31, 0, 0, time.Local)

	jobs := NewShiftJobs(repo, nil, fixedClock{now}, 2)
	changed, err := jobs.SweepOnce(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	assert.Equal(t, shift.StatusExpired, repo.shifts["s1"].Status)
}

func TestSweepLeavesFutureShiftsAlone(t *testing.T) {
	repo := newFakeShiftRepo(
		sweeperShift("s1", shift.StatusAssigned),
		sweeperShift("s2", shift.StatusAccepted),
	)
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, time.Local)

	jobs := NewShiftJobs(repo, nil, fixedClock{now}, 2)
	changed, err := jobs.SweepOnce(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)
	assert.Equal(t, shift.StatusAssigned, repo.shifts["s1"].Status)
	assert.Equal(t, shift.StatusAccepted, repo.shifts["s2"].Status)
}

func TestSweepIsIdempotent(t *testing.T) {
	repo := newFakeShiftRepo(sweeperShift("s1", shift.StatusInProgress))
	now := time.Date(2024, 3, 10, 23, 0, 0, 0, time.Local)

	jobs := NewShiftJobs(repo, nil, fixedClock{now}, 2)

	changed, err := jobs.SweepOnce(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	changed, err = jobs.SweepOnce(context.Background(), now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, changed)
	assert.Equal(t, 1, repo.updates)
}

func TestSweepContinuesPastPersistenceFailure(t *testing.T) {
	repo := newFakeShiftRepo(
		sweeperShift("s1", shift.StatusInProgress),
		sweeperShift("s2", shift.StatusInProgress),
	)
	repo.updateErr["s1"] = errors.New("connection reset")
	now := time.Date(2024, 3, 10, 23, 0, 0, 0, time.Local)

	jobs := NewShiftJobs(repo, nil, fixedClock{now}, 2)
	changed, err := jobs.SweepOnce(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, changed)
	assert.Equal(t, shift.StatusCompleted, repo.shifts["s2"].Status)
	assert.Equal(t, shift.StatusInProgress, repo.shifts["s1"].Status)
}
