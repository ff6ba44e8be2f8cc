package routes

import (
	"fsa_tracker/internal/controllers"

	"github.com/gin-gonic/gin"
)

// WebSocketRoutes authenticates with ?token= since browsers cannot set headers
// on the upgrade request.
func WebSocketRoutes(r *gin.Engine, hub *controllers.LocationHub) {
	ws := r.Group("/ws")
	{
		ws.GET("/location", hub.HandleLocationWebSocket)
	}
}
