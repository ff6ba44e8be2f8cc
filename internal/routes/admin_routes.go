package routes

import (
	"fsa_tracker/internal/controllers"
	"fsa_tracker/internal/middleware"
	"fsa_tracker/internal/models"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine, tc *controllers.TeamController) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRoles(models.RoleAdmin))
	{
		admin.POST("/teams", tc.CreateTeam)
		admin.GET("/teams", tc.ListTeams)
		admin.GET("/teams/:id", tc.GetTeam)
		admin.PUT("/teams/:id", tc.UpdateTeam)
		admin.DELETE("/teams/:id", tc.DeleteTeam)
		admin.PUT("/teams/:id/members/:user", tc.AddMember)
	}
}
