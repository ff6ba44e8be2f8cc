package controllers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fsa_tracker/internal/execution"
	"fsa_tracker/internal/middleware"
	"fsa_tracker/internal/models"
	"fsa_tracker/internal/remote"
	"fsa_tracker/internal/remote/mocks"
	"fsa_tracker/internal/rpc"
)

type fieldFixture struct {
	backend *mocks.Backend
	router  *gin.Engine
	token   string
}

func newFieldFixture(t *testing.T, stops ...remote.StopDoc) *fieldFixture {
	t.Helper()
	f := &fieldFixture{backend: &mocks.Backend{}}
	f.backend.On("GetRouteExecution", mock.Anything, "R1").Return(&remote.RouteExecution{
		Name: "R1", SalesPerson: "EMP-1", Date: "2026-03-02", Stops: stops,
	}, nil).Maybe()
	for _, m := range []string{"GetVisitPhotos", "GetStockOpname", "GetVisitPayment", "GetVisitOrder", "GetCompetitorSurvey"} {
		f.backend.On(m, mock.Anything, mock.Anything).Return(nil, rpc.ErrNotFound).Maybe()
	}

	fc := NewFieldController(execution.NewService(f.backend, nil, nil, nil, execution.Options{}))
	f.router = gin.New()
	api := f.router.Group("/api", middleware.RequireAuth())
	api.GET("/routes", fc.ListRoutes)
	api.GET("/routes/:route", fc.GetRoute)
	api.GET("/routes/:route/geometry", fc.RouteGeometry)
	stop := api.Group("/routes/:route/stops/:stop")
	stop.GET("", fc.GetStop)
	stop.GET("/events", fc.StopEvents)
	stop.POST("/start", fc.StartVisit)
	stop.POST("/checkout", fc.CheckOut)
	stop.POST("/skip", fc.SkipStop)
	stop.POST("/activities/:activity", fc.SaveActivity)
	stop.POST("/activities/:activity/skip", fc.SkipActivity)
	api.POST("/deliveries/:assignment/reject", fc.RejectAssignment)

	f.token = tokenFor(t, middleware.Claims{UserID: 1, Role: models.RoleRep, SalesPerson: "EMP-1"})
	return f
}

func pendingSalesStop(name string, seq int) remote.StopDoc {
	return remote.StopDoc{Name: name, Sequence: seq, StopType: "Sales Visit", Status: "Pending", Customer: "CUST-" + name,
		Latitude: -1.28, Longitude: 36.8 + float64(seq)/100}
}

func TestGetRouteReportsProgress(t *testing.T) {
	f := newFieldFixture(t, pendingSalesStop("A", 1), pendingSalesStop("B", 2))

	w := do(t, f.router, http.MethodGet, "/api/routes/R1", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	progress := body["progress"].(map[string]any)
	assert.EqualValues(t, 2, progress["total_stops"])
	assert.EqualValues(t, 0, progress["progress_percentage"])
	assert.Equal(t, "A", body["current_stop"])
}

func TestRouteGeometryIsGeoJSON(t *testing.T) {
	f := newFieldFixture(t, pendingSalesStop("A", 1), pendingSalesStop("B", 2))

	w := do(t, f.router, http.MethodGet, "/api/routes/R1/geometry", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "FeatureCollection", body["type"])
	assert.Len(t, body["features"], 3)
}

func TestListRoutesRejectsBadDate(t *testing.T) {
	f := newFieldFixture(t)
	w := do(t, f.router, http.MethodGet, "/api/routes?date=02-03-2026", f.token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.backend.AssertNotCalled(t, "GetMyRoutes", mock.Anything, mock.Anything, mock.Anything)
}

func TestListRoutesPassesEmployee(t *testing.T) {
	f := newFieldFixture(t)
	f.backend.On("GetMyRoutes", mock.Anything, "EMP-1", "2026-03-02").
		Return([]remote.RouteSummary{{Name: "R1", Date: "2026-03-02"}}, nil).Once()

	w := do(t, f.router, http.MethodGet, "/api/routes?date=2026-03-02", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)
}

func TestStartVisitWithoutBodyStartsWithoutGPS(t *testing.T) {
	f := newFieldFixture(t, pendingSalesStop("A", 1))
	f.backend.On("UpdateRouteStopStatus", mock.Anything, mock.MatchedBy(func(u remote.StopStatusUpdate) bool {
		return u.Stop == "A" && u.Status == "in_progress" && u.Latitude == 0 && u.Longitude == 0
	})).Return(&remote.StopStatusResult{Name: "A", Status: "in_progress"}, nil).Once()

	w := do(t, f.router, http.MethodPost, "/api/routes/R1/stops/A/start", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stop := decode(t, w)["stop"].(map[string]any)
	assert.Equal(t, "in_progress", stop["status"])
	assert.NotContains(t, stop, "location")
	f.backend.AssertExpectations(t)
}

func TestStartVisitSendsRequestFix(t *testing.T) {
	f := newFieldFixture(t, pendingSalesStop("A", 1))
	f.backend.On("UpdateRouteStopStatus", mock.Anything, mock.MatchedBy(func(u remote.StopStatusUpdate) bool {
		return u.Latitude == -1.3 && u.Longitude == 36.9 && u.Accuracy == 12
	})).Return(&remote.StopStatusResult{Name: "A", Status: "in_progress"}, nil).Once()

	w := do(t, f.router, http.MethodPost, "/api/routes/R1/stops/A/start", f.token,
		gin.H{"latitude": -1.3, "longitude": 36.9, "accuracy": 12})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, decode(t, w)["stop"], "location")
}

func TestStartVisitRejectsOutOfRangeFix(t *testing.T) {
	f := newFieldFixture(t, pendingSalesStop("A", 1))
	w := do(t, f.router, http.MethodPost, "/api/routes/R1/stops/A/start", f.token, gin.H{"latitude": 123.0, "longitude": 36.9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckOutBlockedUntilStockCounted(t *testing.T) {
	stop := pendingSalesStop("A", 1)
	stop.Status = "In Progress"
	f := newFieldFixture(t, stop)

	w := do(t, f.router, http.MethodPost, "/api/routes/R1/stops/A/checkout", f.token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode(t, w)["error"], "checkout blocked")

	f.backend.On("SaveStockOpname", mock.Anything, mock.MatchedBy(func(p remote.StockOpnamePayload) bool {
		return p.Stop == "A" && len(p.Items) == 1
	})).Return(&remote.StockOpnameDoc{DocStatus: remote.DocStatus{Name: "SO-1", Status: "Submitted"}, ItemCount: 1}, nil).Once()
	w = do(t, f.router, http.MethodPost, "/api/routes/R1/stops/A/activities/stock_opname", f.token,
		gin.H{"items": []gin.H{{"item_code": "SKU-1", "qty": 3}}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	gate := decode(t, w)["gate"].(map[string]any)
	assert.Equal(t, true, gate["can_check_out"])

	f.backend.On("UpdateRouteStopStatus", mock.Anything, mock.MatchedBy(func(u remote.StopStatusUpdate) bool {
		return u.Stop == "A" && u.Status == "completed"
	})).Return(&remote.StopStatusResult{Name: "A", Status: "completed"}, nil).Once()
	w = do(t, f.router, http.MethodPost, "/api/routes/R1/stops/A/checkout", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 100, decode(t, w)["progress"].(map[string]any)["progress_percentage"])
}

func TestSaveActivityRejectsEmptyForm(t *testing.T) {
	stop := pendingSalesStop("A", 1)
	stop.Status = "In Progress"
	f := newFieldFixture(t, stop)

	w := do(t, f.router, http.MethodPost, "/api/routes/R1/stops/A/activities/stock_opname", f.token, gin.H{"items": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, f.router, http.MethodPost, "/api/routes/R1/stops/A/activities/karaoke", f.token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.backend.AssertNotCalled(t, "SaveStockOpname", mock.Anything, mock.Anything)
}

func TestSkipRequiredActivityRejected(t *testing.T) {
	stop := pendingSalesStop("A", 1)
	stop.Status = "In Progress"
	f := newFieldFixture(t, stop)

	w := do(t, f.router, http.MethodPost, "/api/routes/R1/stops/A/activities/stock_opname/skip", f.token, gin.H{"reason": "no stock"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.backend.AssertNotCalled(t, "SkipActivity", mock.Anything, mock.Anything)
}

func TestSkipStopValidatesReason(t *testing.T) {
	f := newFieldFixture(t, pendingSalesStop("A", 1))

	w := do(t, f.router, http.MethodPost, "/api/routes/R1/stops/A/skip", f.token, gin.H{"reason": "Bored"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, decode(t, w)["reasons"], 5)
	f.backend.AssertNotCalled(t, "UpdateRouteStopStatus", mock.Anything, mock.Anything)

	f.backend.On("UpdateRouteStopStatus", mock.Anything, mock.MatchedBy(func(u remote.StopStatusUpdate) bool {
		return u.Status == "skipped" && u.SkipReason == "Customer Closed" && u.Notes == "gate locked"
	})).Return(&remote.StopStatusResult{Name: "A", Status: "skipped"}, nil).Once()
	w = do(t, f.router, http.MethodPost, "/api/routes/R1/stops/A/skip", f.token, gin.H{"reason": "Customer Closed", "notes": "gate locked"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "completed", decode(t, w)["progress"].(map[string]any)["status"])
}

func TestOtherRepsRouteForbidden(t *testing.T) {
	f := newFieldFixture(t, pendingSalesStop("A", 1))
	other := tokenFor(t, middleware.Claims{UserID: 2, Role: models.RoleRep, SalesPerson: "EMP-2"})

	w := do(t, f.router, http.MethodGet, "/api/routes/R1/stops/A", other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, f.router, http.MethodGet, "/api/routes/R1/stops/A/events", other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, f.router, http.MethodGet, "/api/routes/R1/stops/A/events", f.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, decode(t, w)["data"])
}

func TestUnknownStopNotFound(t *testing.T) {
	f := newFieldFixture(t, pendingSalesStop("A", 1))
	w := do(t, f.router, http.MethodGet, "/api/routes/R1/stops/Z", f.token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoteFailureSurfacesBackendMessage(t *testing.T) {
	backend := &mocks.Backend{}
	backend.On("GetRouteExecution", mock.Anything, "R9").
		Return(nil, &rpc.Error{Method: remote.MethodGetRouteExecution, StatusCode: 500, Message: "Route Execution R9 is locked"})
	fc := NewFieldController(execution.NewService(backend, nil, nil, nil, execution.Options{}))
	r := gin.New()
	r.GET("/api/routes/:route", middleware.RequireAuth(), fc.GetRoute)

	tok := tokenFor(t, middleware.Claims{UserID: 1, Role: models.RoleRep, SalesPerson: "EMP-1"})
	w := do(t, r, http.MethodGet, "/api/routes/R9", tok, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Route Execution R9 is locked", decode(t, w)["error"])
}

func TestRejectAssignmentPassesReason(t *testing.T) {
	f := newFieldFixture(t)
	f.backend.On("RejectAssignment", mock.Anything, "DA-1", "truck broke down").
		Return(&remote.Assignment{Name: "DA-1", Status: "Rejected"}, nil).Once()

	w := do(t, f.router, http.MethodPost, "/api/deliveries/DA-1/reject", f.token, gin.H{"reason": "truck broke down"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	f.backend.AssertExpectations(t)
}

func TestHandlersRequireClaims(t *testing.T) {
	fc := NewFieldController(execution.NewService(&mocks.Backend{}, nil, nil, nil, execution.Options{}))
	r := gin.New()
	r.GET("/routes", fc.ListRoutes)

	w := do(t, r, http.MethodGet, "/routes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "authentication"))
}
