package visit_test

import (
	"testing"

	"fsa_tracker/internal/visit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func route(statuses ...visit.StopStatus) *visit.Route {
	r := &visit.Route{ID: "ROUTE-1"}
	for i, st := range statuses {
		r.Stops = append(r.Stops, visit.Stop{
			ID:       string(rune('A' + i)),
			Sequence: i + 1,
			Type:     visit.StopSalesVisit,
			Status:   st,
		})
	}
	return r
}

func TestProgress_EmptyRoute(t *testing.T) {
	p := (&visit.Route{}).Progress()
	assert.Equal(t, 0, p.TotalStops)
	assert.Equal(t, 0, p.Percentage)
	assert.Equal(t, visit.RouteNotStarted, p.Status)
}

func TestProgress_Rounding(t *testing.T) {
	cases := []struct {
		statuses []visit.StopStatus
		want     int
	}{
		{[]visit.StopStatus{visit.StatusCompleted, visit.StatusPending, visit.StatusPending}, 33},
		{[]visit.StopStatus{visit.StatusCompleted, visit.StatusSkipped, visit.StatusPending}, 67},
		{[]visit.StopStatus{visit.StatusCompleted, visit.StatusPending}, 50},
		{[]visit.StopStatus{visit.StatusFailed, visit.StatusPending}, 0},
		{[]visit.StopStatus{visit.StatusCompleted, visit.StatusSkipped}, 100},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, route(tc.statuses...).Progress().Percentage, "%v", tc.statuses)
	}
}

func TestProgress_Status(t *testing.T) {
	assert.Equal(t, visit.RouteNotStarted, route(visit.StatusPending, visit.StatusPending).Progress().Status)
	assert.Equal(t, visit.RouteInProgress, route(visit.StatusInProgress, visit.StatusPending).Progress().Status)
	assert.Equal(t, visit.RouteInProgress, route(visit.StatusCompleted, visit.StatusPending).Progress().Status)

	done := route(visit.StatusCompleted, visit.StatusFailed)
	p := done.Progress()
	assert.Equal(t, visit.RouteCompleted, p.Status)
	assert.Equal(t, 1, p.FailedStops)
	assert.True(t, done.Completed())
}

func TestCurrentStop_PrefersActiveStop(t *testing.T) {
	r := route(visit.StatusCompleted, visit.StatusPending, visit.StatusInProgress)
	cur := r.CurrentStop()
	require.NotNil(t, cur)
	assert.Equal(t, 3, cur.Sequence)
}

func TestCurrentStop_FirstOpenBySequence(t *testing.T) {
	r := route(visit.StatusCompleted, visit.StatusSkipped, visit.StatusPending, visit.StatusPending)
	// out of order input still resolves by sequence
	r.Stops[2], r.Stops[3] = r.Stops[3], r.Stops[2]
	cur := r.CurrentStop()
	require.NotNil(t, cur)
	assert.Equal(t, 3, cur.Sequence)
}

func TestCurrentStop_NilWhenDone(t *testing.T) {
	assert.Nil(t, route(visit.StatusCompleted, visit.StatusFailed).CurrentStop())
}

func TestRoute_StopLookup(t *testing.T) {
	r := route(visit.StatusPending)
	s, err := r.Stop("A")
	require.NoError(t, err)
	s.Status = visit.StatusInProgress
	assert.Equal(t, visit.StatusInProgress, r.Stops[0].Status, "lookup returns a pointer into the route")

	_, err = r.Stop("Z")
	assert.ErrorIs(t, err, visit.ErrStopNotFound)
}

func TestRoute_SortStops(t *testing.T) {
	r := &visit.Route{Stops: []visit.Stop{{ID: "b", Sequence: 2}, {ID: "a", Sequence: 1}}}
	r.SortStops()
	assert.Equal(t, "a", r.Stops[0].ID)
}

// Three stops: #1 completed, #2 in progress with stock opname open, #3 pending.
func TestRoute_CheckoutScenario(t *testing.T) {
	r := route(visit.StatusCompleted, visit.StatusInProgress, visit.StatusPending)
	catalog := visit.DefaultCatalog()

	cur := r.CurrentStop()
	require.NotNil(t, cur)
	assert.Equal(t, "B", cur.ID)
	assert.Equal(t, 33, r.Progress().Percentage)

	ledger := visit.NewLedger(nil)
	err := cur.Complete(visit.Gate(catalog, cur.Type, ledger.Records()), now)
	assert.ErrorIs(t, err, visit.ErrCheckoutBlocked)

	tok, err := ledger.Begin(visit.ActivityStockOpname)
	require.NoError(t, err)
	_, err = ledger.Confirm(tok, "SO-0001", "12 items counted")
	require.NoError(t, err)

	require.NoError(t, cur.Complete(visit.Gate(catalog, cur.Type, ledger.Records()), now))
	assert.Equal(t, 67, r.Progress().Percentage)
	assert.Equal(t, "C", r.CurrentStop().ID)
}
