package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fsa_tracker/internal/execution"
	"fsa_tracker/internal/remote"
	"fsa_tracker/internal/visit"
)

func (fc *FieldController) GetActivity(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	key, err := visit.ParseActivityKey(c.Param("activity"))
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := fc.svc.EditActivity(c.Request.Context(), actor, c.Param("route"), c.Param("stop"), key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// saveActivity binds the payload and runs save.
func saveActivity[P any](c *gin.Context, save func(ctx *gin.Context, actor execution.Actor, route, stop string, p P) (*execution.StopView, error)) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var p P
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := save(c, actor, c.Param("route"), c.Param("stop"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SaveActivity submits the form of the activity named in the path.
func (fc *FieldController) SaveActivity(c *gin.Context) {
	key, err := visit.ParseActivityKey(c.Param("activity"))
	if err != nil {
		respondError(c, err)
		return
	}
	switch key {
	case visit.ActivityPhotos:
		fc.SavePhotos(c)
	case visit.ActivityStockOpname:
		fc.SaveStockOpname(c)
	case visit.ActivityPayment:
		fc.SavePayment(c)
	case visit.ActivitySalesOrder:
		fc.CreateOrder(c)
	case visit.ActivitySurvey:
		fc.SaveSurvey(c)
	default:
		respondError(c, visit.ErrUnknownActivity)
	}
}

func (fc *FieldController) SavePhotos(c *gin.Context) {
	saveActivity(c, func(ctx *gin.Context, a execution.Actor, route, stop string, p remote.PhotosPayload) (*execution.StopView, error) {
		return fc.svc.SavePhotos(ctx.Request.Context(), a, route, stop, p)
	})
}

func (fc *FieldController) SaveStockOpname(c *gin.Context) {
	saveActivity(c, func(ctx *gin.Context, a execution.Actor, route, stop string, p remote.StockOpnamePayload) (*execution.StopView, error) {
		return fc.svc.SaveStockOpname(ctx.Request.Context(), a, route, stop, p)
	})
}

func (fc *FieldController) SavePayment(c *gin.Context) {
	saveActivity(c, func(ctx *gin.Context, a execution.Actor, route, stop string, p remote.PaymentPayload) (*execution.StopView, error) {
		return fc.svc.CreatePayment(ctx.Request.Context(), a, route, stop, p)
	})
}

func (fc *FieldController) CreateOrder(c *gin.Context) {
	saveActivity(c, func(ctx *gin.Context, a execution.Actor, route, stop string, p remote.OrderPayload) (*execution.StopView, error) {
		return fc.svc.CreateOrder(ctx.Request.Context(), a, route, stop, p)
	})
}

func (fc *FieldController) SaveSurvey(c *gin.Context) {
	saveActivity(c, func(ctx *gin.Context, a execution.Actor, route, stop string, p remote.SurveyPayload) (*execution.StopView, error) {
		return fc.svc.SaveSurvey(ctx.Request.Context(), a, route, stop, p)
	})
}

func (fc *FieldController) SkipActivity(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	key, err := visit.ParseActivityKey(c.Param("activity"))
	if err != nil {
		respondError(c, err)
		return
	}
	var in struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": visit.ErrSkipReasonRequired.Error()})
		return
	}
	view, err := fc.svc.SkipActivity(c.Request.Context(), actor, c.Param("route"), c.Param("stop"), key, in.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
