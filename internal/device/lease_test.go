package device

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fsa_tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaseReleasesExactlyOnce(t *testing.T) {
	reg := NewLeases()
	l, err := reg.Acquire(KindCamera, "rep-1")
	require.NoError(t, err)

	l.Release()
	l.Release()

	got := reg.Stats()[KindCamera]
	assert.Equal(t, Counts{Acquired: 1, Released: 1}, got)
}

func TestExclusiveKindPerOwner(t *testing.T) {
	reg := NewLeases()
	first, err := reg.Acquire(KindScanner, "rep-1")
	require.NoError(t, err)

	_, err = reg.Acquire(KindScanner, "rep-1")
	assert.ErrorIs(t, err, ErrInUse)

	other, err := reg.Acquire(KindScanner, "rep-2")
	require.NoError(t, err)
	other.Release()

	first.Release()
	again, err := reg.Acquire(KindScanner, "rep-1")
	require.NoError(t, err)
	again.Release()
}

func TestSharedKindAllowsSeveral(t *testing.T) {
	reg := NewLeases()
	a, err := reg.Acquire(KindLocationFeed, "sup-1")
	require.NoError(t, err)
	b, err := reg.Acquire(KindLocationFeed, "sup-1")
	require.NoError(t, err)

	assert.Len(t, reg.Held("sup-1"), 2)
	a.Release()
	b.Release()
	assert.Empty(t, reg.Held("sup-1"))
}

// Every acquisition in a scripted open/close sequence is matched by exactly
// one release, whatever path closes it.
func TestScriptedOpenCloseSequenceBalances(t *testing.T) {
	reg := NewLeases()
	errCancelled := errors.New("cancelled")

	open := func(kind Kind, owner string, outcome error) error {
		l, err := reg.Acquire(kind, owner)
		if err != nil {
			return err
		}
		defer l.Release()
		if outcome != nil {
			// error and cancel paths release too, sometimes twice
			l.Release()
			return outcome
		}
		return nil
	}

	script := []struct {
		kind    Kind
		outcome error
	}{
		{KindCamera, nil},
		{KindCamera, errCancelled},
		{KindGeolocationWatch, nil},
		{KindGeolocationWatch, context.DeadlineExceeded},
		{KindScanner, nil},
		{KindScanner, errCancelled},
		{KindCamera, context.Canceled},
	}
	for _, step := range script {
		_ = open(step.kind, "rep-1", step.outcome)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l, err := reg.Acquire(KindLocationFeed, "sup-1")
			if err != nil {
				return
			}
			l.Release()
			l.Release()
		}()
	}
	wg.Wait()

	for kind, c := range reg.Stats() {
		assert.Equal(t, c.Acquired, c.Released, "kind %s", kind)
		assert.Zero(t, c.Active, "kind %s", kind)
	}
	assert.Equal(t, 3, reg.Stats()[KindCamera].Acquired)
	assert.Equal(t, 20, reg.Stats()[KindLocationFeed].Acquired)
}

type fakeSource struct {
	loc *models.LocationHistory
	err error
}

func (f fakeSource) LastKnown(context.Context, uint) (*models.LocationHistory, error) {
	return f.loc, f.err
}

func TestLastKnownLocator(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	fresh := &models.LocationHistory{Latitude: -1.2, Longitude: 36.8, Accuracy: 12, Timestamp: now.Add(-time.Minute)}
	stale := &models.LocationHistory{Latitude: -1.2, Longitude: 36.8, Timestamp: now.Add(-time.Hour)}

	loc := &LastKnownLocator{Source: fakeSource{loc: fresh}, MaxAge: 5 * time.Minute, Now: func() time.Time { return now }}
	c, err := loc.Locate(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 12.0, c.Accuracy)

	loc.Source = fakeSource{loc: stale}
	_, err = loc.Locate(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNoFix)

	loc.Source = fakeSource{}
	_, err = loc.Locate(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNoFix)

	boom := errors.New("db down")
	loc.Source = fakeSource{err: boom}
	_, err = loc.Locate(context.Background(), 7)
	assert.ErrorIs(t, err, boom)
}
