package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fsa_tracker/internal/models"
	"fsa_tracker/internal/repository"
)

// TeamController lets admins organise reps into supervised teams.
type TeamController struct {
	teams repository.Teams
}

func NewTeamController(teams repository.Teams) *TeamController {
	return &TeamController{teams: teams}
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// CreateTeam registers a new team
func (tc *TeamController) CreateTeam(c *gin.Context) {
	var input models.Team
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.Members = nil

	if err := tc.teams.Create(c.Request.Context(), &input); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"team": input})
}

// GetTeam retrieves a team with its members
func (tc *TeamController) GetTeam(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	team, err := tc.teams.ByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": team})
}

func (tc *TeamController) ListTeams(c *gin.Context) {
	teams, err := tc.teams.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if teams == nil {
		teams = []models.Team{}
	}
	c.JSON(http.StatusOK, gin.H{"data": teams})
}

// UpdateTeam applies the fields present in the body.
func (tc *TeamController) UpdateTeam(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	team, err := tc.teams.ByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var input struct {
		Name         *string `json:"name"`
		Territory    *string `json:"territory"`
		SupervisorID *uint   `json:"supervisor_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Name != nil {
		team.Name = *input.Name
	}
	if input.Territory != nil {
		team.Territory = *input.Territory
	}
	if input.SupervisorID != nil {
		team.SupervisorID = *input.SupervisorID
	}

	if err := tc.teams.Save(c.Request.Context(), team); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"team": team})
}

func (tc *TeamController) DeleteTeam(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := tc.teams.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team deleted"})
}

// AddMember moves a user into the team.
func (tc *TeamController) AddMember(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := idParam(c, "user")
	if !ok {
		return
	}
	if err := tc.teams.AssignMember(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member added"})
}
