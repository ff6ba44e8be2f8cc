package visit_test

import (
	"testing"

	"fsa_tracker/internal/visit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_NoRecordsBlocksCheckout(t *testing.T) {
	g := visit.Gate(visit.DefaultCatalog(), visit.StopSalesVisit, nil)

	assert.False(t, g.CanCheckOut)
	assert.Equal(t, visit.ActivityStockOpname, g.Active)
	assert.Equal(t, []visit.ActivityKey{visit.ActivityStockOpname}, g.Missing)
}

func TestGate_SkipDoesNotSatisfyRequired(t *testing.T) {
	records := visit.Records{
		visit.ActivityStockOpname: {Key: visit.ActivityStockOpname, Skipped: true},
	}
	g := visit.Gate(visit.DefaultCatalog(), visit.StopSalesVisit, records)

	assert.False(t, g.CanCheckOut)
	assert.Empty(t, g.Active, "skipped activity is no longer the active one")
}

func TestGate_PendingDoesNotSatisfyRequired(t *testing.T) {
	records := visit.Records{
		visit.ActivityStockOpname: {Key: visit.ActivityStockOpname, Pending: true},
	}
	g := visit.Gate(visit.DefaultCatalog(), visit.StopSalesVisit, records)
	assert.False(t, g.CanCheckOut)
}

func TestGate_SoftActivitiesDoNotBlock(t *testing.T) {
	records := visit.Records{
		visit.ActivityStockOpname: {Key: visit.ActivityStockOpname, Completed: true},
	}
	g := visit.Gate(visit.DefaultCatalog(), visit.StopSalesVisit, records)

	assert.True(t, g.CanCheckOut)
	assert.Empty(t, g.Active)
	assert.Empty(t, g.Missing)
}

func TestGate_StopTypeWithoutRequiredActivities(t *testing.T) {
	for _, st := range []visit.StopType{visit.StopDelivery, visit.StopPickup, visit.StopTransfer, visit.StopBreak} {
		g := visit.Gate(visit.DefaultCatalog(), st, nil)
		assert.True(t, g.CanCheckOut, st)
	}
}

// Every combination of completed/skipped over the catalog: checkout is allowed
// exactly when every required activity is completed.
func TestGate_CheckoutIffRequiredCompleted(t *testing.T) {
	catalog := visit.Catalog{
		{Key: visit.ActivityPhotos, Required: true},
		{Key: visit.ActivityStockOpname, Required: true},
		{Key: visit.ActivityPayment},
		{Key: visit.ActivitySalesOrder},
		{Key: visit.ActivitySurvey, Required: true},
	}
	n := len(visit.ActivityKeys)
	// three states per activity: absent, completed, skipped
	total := 1
	for i := 0; i < n; i++ {
		total *= 3
	}
	for combo := 0; combo < total; combo++ {
		records := visit.Records{}
		c := combo
		for _, key := range visit.ActivityKeys {
			switch c % 3 {
			case 1:
				records[key] = visit.ActivityRecord{Key: key, Completed: true}
			case 2:
				records[key] = visit.ActivityRecord{Key: key, Skipped: true}
			}
			c /= 3
		}

		want := true
		for _, d := range catalog {
			if d.Required && !records.Get(d.Key).Completed {
				want = false
			}
		}
		got := visit.Gate(catalog, visit.StopSalesVisit, records)
		require.Equal(t, want, got.CanCheckOut, "combo %d", combo)
	}
}

func TestGate_ActiveFollowsDeclaredOrder(t *testing.T) {
	catalog := visit.Catalog{
		{Key: visit.ActivityPhotos, Required: true},
		{Key: visit.ActivityStockOpname, Required: true},
	}
	records := visit.Records{
		visit.ActivityPhotos: {Key: visit.ActivityPhotos, Completed: true},
	}
	g := visit.Gate(catalog, visit.StopSalesVisit, records)
	assert.Equal(t, visit.ActivityStockOpname, g.Active)
}

func TestCatalog_Validate(t *testing.T) {
	require.NoError(t, visit.DefaultCatalog().Validate())

	dup := visit.Catalog{{Key: visit.ActivityPhotos}, {Key: visit.ActivityPhotos}}
	assert.Error(t, dup.Validate())

	unknown := visit.Catalog{{Key: "signature"}}
	assert.ErrorIs(t, unknown.Validate(), visit.ErrUnknownActivity)

	badType := visit.Catalog{{Key: visit.ActivityPhotos, StopTypes: []visit.StopType{"warehouse"}}}
	assert.ErrorIs(t, badType.Validate(), visit.ErrUnknownStopType)
}

func TestCatalog_ForBreakIsEmpty(t *testing.T) {
	assert.Empty(t, visit.DefaultCatalog().For(visit.StopBreak))
	assert.Len(t, visit.DefaultCatalog().For(visit.StopSalesVisit), 5)
}
