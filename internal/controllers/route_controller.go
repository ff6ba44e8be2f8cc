package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fsa_tracker/internal/execution"
	"fsa_tracker/internal/geo"
	"fsa_tracker/internal/middleware"
	"fsa_tracker/internal/visit"
)

// FieldController serves the route execution screens of reps and drivers.
type FieldController struct {
	svc *execution.Service
}

func NewFieldController(svc *execution.Service) *FieldController {
	return &FieldController{svc: svc}
}

func actorFrom(c *gin.Context) (execution.Actor, bool) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication"})
		return execution.Actor{}, false
	}
	return execution.Actor{UserID: claims.UserID, SalesPerson: claims.SalesPerson}, true
}

// ListRoutes returns the user's routes for ?date=YYYY-MM-DD (today by default).
func (fc *FieldController) ListRoutes(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	date := c.Query("date")
	if date != "" {
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
	}
	routes, err := fc.svc.ListRoutes(c.Request.Context(), actor, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": routes})
}

// GetRoute reloads the route from the remote store.
func (fc *FieldController) GetRoute(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	view, err := fc.svc.LoadRoute(c.Request.Context(), actor, c.Param("route"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// RouteGeometry renders the route's stops as GeoJSON for the map.
func (fc *FieldController) RouteGeometry(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	view, err := fc.svc.Route(c.Request.Context(), actor, c.Param("route"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, geo.RouteFeatures(view.Route))
}

func (fc *FieldController) GetStop(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	view, err := fc.svc.OpenStop(c.Request.Context(), actor, c.Param("route"), c.Param("stop"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (fc *FieldController) StopEvents(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	events, err := fc.svc.Events(c.Request.Context(), actor, c.Param("route"), c.Param("stop"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

type fixInput struct {
	Latitude  *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
	Accuracy  float64  `json:"accuracy" binding:"gte=0"`
}

func (in fixInput) coordinates() *visit.Coordinates {
	if in.Latitude == nil || in.Longitude == nil {
		return nil
	}
	return &visit.Coordinates{Latitude: *in.Latitude, Longitude: *in.Longitude, Accuracy: in.Accuracy}
}

// bindOptional binds a JSON body when one was sent.
func bindOptional(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// StartVisit moves the stop to in_progress. GPS is optional.
func (fc *FieldController) StartVisit(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var in fixInput
	if !bindOptional(c, &in) {
		return
	}
	res, err := fc.svc.StartVisit(c.Request.Context(), actor, c.Param("route"), c.Param("stop"), in.coordinates())
	if err != nil {
		respondError(c, err)
		return
	}
	if res.Stop.Location == nil {
		logrus.WithFields(logrus.Fields{
			"route": c.Param("route"),
			"stop":  c.Param("stop"),
		}).Info("Visit started without GPS.")
	}
	c.JSON(http.StatusOK, res)
}

func (fc *FieldController) Arrive(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var in fixInput
	if !bindOptional(c, &in) {
		return
	}
	res, err := fc.svc.ArriveAtStop(c.Request.Context(), actor, c.Param("route"), c.Param("stop"), in.coordinates())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (fc *FieldController) CheckOut(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	res, err := fc.svc.CheckOut(c.Request.Context(), actor, c.Param("route"), c.Param("stop"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type skipStopInput struct {
	Reason string `json:"reason" binding:"required,skipreason"`
	Notes  string `json:"notes"`
}

func (fc *FieldController) SkipStop(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var in skipStopInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reason must be one of the skip reasons", "reasons": visit.SkipReasons})
		return
	}
	res, err := fc.svc.SkipStop(c.Request.Context(), actor, c.Param("route"), c.Param("stop"), in.Reason, in.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (fc *FieldController) FailStop(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var in struct {
		Notes string `json:"notes"`
	}
	if !bindOptional(c, &in) {
		return
	}
	res, err := fc.svc.FailStop(c.Request.Context(), actor, c.Param("route"), c.Param("stop"), in.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SkipReasons lists the reasons offered by the skip dialog.
func (fc *FieldController) SkipReasons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": visit.SkipReasons})
}
