package routes

import (
	"io"
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fsa_tracker/internal/controllers"
)

// Handlers bundles the controllers mounted by SetupRouter.
type Handlers struct {
	Auth       *controllers.AuthController
	Field      *controllers.FieldController
	Supervisor *controllers.SupervisorController
	Teams      *controllers.TeamController
	Hub        *controllers.LocationHub
	Health     *controllers.HealthController
}

// SetupRouter builds the engine. accessLog receives one line per request.
func SetupRouter(h Handlers, accessLog io.Writer) *gin.Engine {
	r := gin.New()
	r.Use(ginlog.SetLogger(
		ginlog.WithWriter(accessLog),
		ginlog.WithUTC(true),
		ginlog.WithSkipPath([]string{"/health"}),
	))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logrus.WithField("panic", recovered).WithField("path", c.Request.URL.Path).Error("Recovered from panic.")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Reload the page or return home."})
	}))

	r.GET("/health", h.Health.Health)

	AuthRoutes(r, h.Auth)
	FieldRoutes(r, h.Field)
	SupervisorRoutes(r, h.Supervisor)
	AdminRoutes(r, h.Teams)
	WebSocketRoutes(r, h.Hub)

	return r
}
