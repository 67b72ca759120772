package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunsJobOnStart(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
}

func TestSchedulerStartIsIdempotent(t *testing.T) {
	s := NewScheduler()
	var runs int32
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	s.Start()
	s.Start()
	s.Stop()

	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestSchedulerStopCancelsJobContext(t *testing.T) {
	s := NewScheduler()
	got := make(chan context.Context, 1)
	s.AddJob("ctx", time.Hour, func(ctx context.Context) error {
		got <- ctx
		return nil
	})

	s.Start()
	var jobCtx context.Context
	select {
	case jobCtx = <-got:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}

	s.Stop()
	require.Error(t, jobCtx.Err())
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	s := NewScheduler()
	s.AddJob("idle", time.Hour, func(ctx context.Context) error { return nil })
	s.Stop()
}
