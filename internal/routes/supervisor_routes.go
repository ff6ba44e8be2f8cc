package routes

import (
	"fsa_tracker/internal/controllers"
	"fsa_tracker/internal/middleware"
	"fsa_tracker/internal/models"

	"github.com/gin-gonic/gin"
)

func SupervisorRoutes(r *gin.Engine, sc *controllers.SupervisorController) {
	sup := r.Group("/supervisor")
	sup.Use(middleware.RequireAuthWithRoles(models.RoleSupervisor, models.RoleAdmin))
	{
		sup.GET("/reps", sc.TeamReps)
		sup.GET("/leases", sc.LeaseStats)
	}
}
