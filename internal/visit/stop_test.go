package visit_test

import (
	"testing"
	"time"

	"fsa_tracker/internal/visit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func TestStop_StartOnlyFromPending(t *testing.T) {
	s := visit.Stop{ID: "STOP-1", Status: visit.StatusPending}
	fix := &visit.Coordinates{Latitude: -6.2, Longitude: 106.8}

	require.NoError(t, s.Start(fix, now))
	assert.Equal(t, visit.StatusInProgress, s.Status)
	assert.Equal(t, fix, s.Location)

	assert.ErrorIs(t, s.Start(nil, now), visit.ErrInvalidTransition)

	arrived := visit.Stop{ID: "STOP-2", Status: visit.StatusArrived}
	assert.ErrorIs(t, arrived.Start(nil, now), visit.ErrInvalidTransition)
}

func TestStop_StartWithoutGPS(t *testing.T) {
	s := visit.Stop{ID: "STOP-1", Status: visit.StatusPending}
	require.NoError(t, s.Start(nil, now))
	assert.Nil(t, s.Location)
	assert.Equal(t, visit.StatusInProgress, s.Status)
}

func TestStop_CompleteRequiresGate(t *testing.T) {
	s := visit.Stop{ID: "STOP-1", Status: visit.StatusInProgress}

	err := s.Complete(visit.GateResult{CanCheckOut: false, Missing: []visit.ActivityKey{visit.ActivityStockOpname}}, now)
	assert.ErrorIs(t, err, visit.ErrCheckoutBlocked)
	assert.Equal(t, visit.StatusInProgress, s.Status)

	require.NoError(t, s.Complete(visit.GateResult{CanCheckOut: true}, now))
	assert.Equal(t, visit.StatusCompleted, s.Status)
	assert.NotNil(t, s.EndedAt)
}

func TestStop_CompleteRequiresActiveStatus(t *testing.T) {
	s := visit.Stop{ID: "STOP-1", Status: visit.StatusPending}
	assert.ErrorIs(t, s.Complete(visit.GateResult{CanCheckOut: true}, now), visit.ErrInvalidTransition)

	arrived := visit.Stop{ID: "STOP-2", Status: visit.StatusArrived}
	assert.NoError(t, arrived.Complete(visit.GateResult{CanCheckOut: true}, now))
}

func TestStop_SkipNeedsReason(t *testing.T) {
	s := visit.Stop{ID: "STOP-1", Status: visit.StatusPending}

	assert.ErrorIs(t, s.Skip("", "", now), visit.ErrSkipReasonRequired)
	assert.ErrorIs(t, s.Skip("Rain", "", now), visit.ErrSkipReasonRequired)
	assert.Equal(t, visit.StatusPending, s.Status)

	require.NoError(t, s.Skip("Customer Closed", "shutter down", now))
	assert.Equal(t, visit.StatusSkipped, s.Status)
	assert.Equal(t, visit.SkipCustomerClosed, s.SkipReason)
	assert.Equal(t, "shutter down", s.Notes)
}

func TestStop_SkipFromInProgress(t *testing.T) {
	s := visit.Stop{ID: "STOP-1", Status: visit.StatusInProgress}
	require.NoError(t, s.Skip(string(visit.SkipTimeConstraint), "", now))
	assert.Equal(t, visit.StatusSkipped, s.Status)
}

func TestStop_TerminalStatesAreFinal(t *testing.T) {
	for _, st := range []visit.StopStatus{visit.StatusCompleted, visit.StatusSkipped, visit.StatusFailed} {
		s := visit.Stop{ID: "STOP-1", Status: st}
		assert.ErrorIs(t, s.Start(nil, now), visit.ErrInvalidTransition, st)
		assert.ErrorIs(t, s.Arrive(nil, now), visit.ErrInvalidTransition, st)
		assert.ErrorIs(t, s.Complete(visit.GateResult{CanCheckOut: true}, now), visit.ErrInvalidTransition, st)
		assert.ErrorIs(t, s.Skip(string(visit.SkipOther), "", now), visit.ErrInvalidTransition, st)
		assert.ErrorIs(t, s.Fail("", now), visit.ErrInvalidTransition, st)
		assert.Equal(t, st, s.Status)
	}
}

func TestStop_Fail(t *testing.T) {
	s := visit.Stop{ID: "STOP-1", Status: visit.StatusArrived}
	require.NoError(t, s.Fail("truck broke down", now))
	assert.Equal(t, visit.StatusFailed, s.Status)
	assert.True(t, s.Status.Terminal())
}

func TestParseStopStatus(t *testing.T) {
	st, err := visit.ParseStopStatus("")
	require.NoError(t, err)
	assert.Equal(t, visit.StatusPending, st)

	_, err = visit.ParseStopStatus("cancelled")
	assert.ErrorIs(t, err, visit.ErrUnknownStopStatus)
}

func TestDisplayStatus(t *testing.T) {
	done := visit.Records{visit.ActivityPhotos: {Key: visit.ActivityPhotos, Completed: true}}

	cases := []struct {
		status  visit.StopStatus
		records visit.Records
		want    visit.StopStatus
	}{
		{visit.StatusPending, nil, visit.StatusPending},
		{visit.StatusPending, done, visit.StatusInProgress},
		{visit.StatusArrived, nil, visit.StatusInProgress},
		{visit.StatusInProgress, nil, visit.StatusInProgress},
		{visit.StatusCompleted, nil, visit.StatusCompleted},
		{visit.StatusSkipped, nil, visit.StatusSkipped},
		{visit.StatusFailed, nil, visit.StatusSkipped},
	}
	for _, tc := range cases {
		got := visit.DisplayStatus(visit.Stop{Status: tc.status}, tc.records)
		assert.Equal(t, tc.want, got, "status %s", tc.status)
	}
}
