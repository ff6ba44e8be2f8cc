package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fsa_tracker/internal/device"
	"fsa_tracker/internal/middleware"
	"fsa_tracker/internal/models"
	"fsa_tracker/internal/repository"
)

type SupervisorController struct {
	users     repository.Users
	locations repository.Locations
	leases    *device.Leases
}

func NewSupervisorController(users repository.Users, locations repository.Locations, leases *device.Leases) *SupervisorController {
	return &SupervisorController{users: users, locations: locations, leases: leases}
}

type repStatus struct {
	ID          uint                    `json:"id"`
	Name        string                  `json:"name"`
	Role        string                  `json:"role"`
	SalesPerson string                  `json:"sales_person"`
	Location    *models.LocationHistory `json:"location,omitempty"`
	Leases      []device.Kind           `json:"leases"`
}

// TeamReps lists the supervisor's team with each member's last fix and the
// device leases they currently hold.
func (sc *SupervisorController) TeamReps(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication"})
		return
	}
	ctx := c.Request.Context()

	team, err := sc.users.SupervisedTeam(ctx, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	members, err := sc.users.TeamMembers(ctx, team.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	latest, err := sc.locations.Latest(ctx, ids)
	if err != nil {
		respondError(c, err)
		return
	}
	byUser := make(map[uint]models.LocationHistory, len(latest))
	for _, l := range latest {
		byUser[l.UserID] = l
	}

	out := make([]repStatus, 0, len(members))
	for _, m := range members {
		st := repStatus{ID: m.ID, Name: m.Name, Role: m.Role, SalesPerson: m.SalesPerson, Leases: []device.Kind{}}
		if l, ok := byUser[m.ID]; ok {
			st.Location = &l
		}
		if held := sc.leases.Held(device.UserOwner(m.ID)); held != nil {
			st.Leases = held
		}
		out = append(out, st)
	}
	c.JSON(http.StatusOK, gin.H{"team": team.Name, "data": out})
}

// LeaseStats reports device lease counters; acquired equals released for
// every kind once all holders are idle.
func (sc *SupervisorController) LeaseStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": sc.leases.Stats()})
}
