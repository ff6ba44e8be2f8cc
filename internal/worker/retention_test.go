package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fsa_tracker/internal/repository/mocks"
)

func TestRunOnceUsesRetentionCutoff(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	locs := &mocks.Locations{}
	locs.On("PruneBefore", mock.Anything, now.Add(-72*time.Hour)).Return(int64(4), nil).Once()

	w := NewRetentionWorker(locs, time.Hour, 72*time.Hour)
	w.now = func() time.Time { return now }

	assert.Equal(t, int64(4), w.RunOnce(context.Background()))
	locs.AssertExpectations(t)
}

func TestRunOnceSwallowsErrors(t *testing.T) {
	locs := &mocks.Locations{}
	locs.On("PruneBefore", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	w := NewRetentionWorker(locs, time.Hour, time.Hour)
	assert.Equal(t, int64(0), w.RunOnce(context.Background()))
}

type panickyPruner struct{}

func (panickyPruner) PruneBefore(context.Context, time.Time) (int64, error) {
	panic("boom")
}

func TestRunOnceRecoversPanics(t *testing.T) {
	w := NewRetentionWorker(panickyPruner{}, time.Hour, time.Hour)
	assert.NotPanics(t, func() {
		assert.Equal(t, int64(0), w.RunOnce(context.Background()))
	})
}

type signalPruner chan time.Time

func (p signalPruner) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	select {
	case p <- cutoff:
	default:
	}
	return 0, nil
}

func TestStartStopsWithContext(t *testing.T) {
	calls := make(signalPruner, 1)
	w := NewRetentionWorker(calls, time.Hour, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("worker did not prune on start")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestStartDisabled(t *testing.T) {
	w := NewRetentionWorker(&mocks.Locations{}, time.Hour, 0)
	w.Start(context.Background())
}

func TestNamedWorkerPrunesItsOwnSource(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	calls := make(signalPruner, 1)
	w := NewRetentionWorker(calls, time.Hour, 24*time.Hour).Named("route cache")
	w.now = func() time.Time { return now }

	w.RunOnce(context.Background())
	assert.Equal(t, "route cache", w.name)
	assert.Equal(t, now.Add(-24*time.Hour), <-calls)
}
