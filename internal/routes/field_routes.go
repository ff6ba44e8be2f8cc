package routes

import (
	"fsa_tracker/internal/controllers"
	"fsa_tracker/internal/middleware"
	"fsa_tracker/internal/models"

	"github.com/gin-gonic/gin"
)

func FieldRoutes(r *gin.Engine, fc *controllers.FieldController) {
	api := r.Group("/api")
	api.Use(middleware.RequireAuthWithRoles(models.RoleRep, models.RoleDriver))
	{
		api.GET("/skip-reasons", fc.SkipReasons)
		api.GET("/routes", fc.ListRoutes)
		api.GET("/routes/:route", fc.GetRoute)
		api.GET("/routes/:route/geometry", fc.RouteGeometry)

		stop := api.Group("/routes/:route/stops/:stop")
		stop.GET("", fc.GetStop)
		stop.GET("/events", fc.StopEvents)
		stop.POST("/start", fc.StartVisit)
		stop.POST("/arrive", fc.Arrive)
		stop.POST("/checkout", fc.CheckOut)
		stop.POST("/skip", fc.SkipStop)
		stop.POST("/fail", fc.FailStop)

		stop.GET("/activities/:activity", fc.GetActivity)
		stop.POST("/activities/:activity/skip", fc.SkipActivity)
		stop.POST("/activities/:activity", fc.SaveActivity)

		stop.POST("/pod", fc.SaveProofOfDelivery)
		stop.POST("/scan", fc.ValidateScan)

		api.POST("/deliveries/:assignment/start", fc.StartDelivery)
		api.POST("/deliveries/:assignment/accept", fc.AcceptAssignment)
		api.POST("/deliveries/:assignment/reject", fc.RejectAssignment)
	}
}
