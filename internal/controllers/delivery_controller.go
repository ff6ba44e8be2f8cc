package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fsa_tracker/internal/remote"
)

func (fc *FieldController) SaveProofOfDelivery(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var p remote.ProofOfDelivery
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc, err := fc.svc.SaveProofOfDelivery(c.Request.Context(), actor, c.Param("route"), c.Param("stop"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (fc *FieldController) ValidateScan(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var in struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := fc.svc.ValidateScan(c.Request.Context(), actor, c.Param("route"), c.Param("stop"), in.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (fc *FieldController) StartDelivery(c *gin.Context) {
	a, err := fc.svc.StartDelivery(c.Request.Context(), c.Param("assignment"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (fc *FieldController) AcceptAssignment(c *gin.Context) {
	a, err := fc.svc.AcceptAssignment(c.Request.Context(), c.Param("assignment"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (fc *FieldController) RejectAssignment(c *gin.Context) {
	var in struct {
		Reason string `json:"reason"`
	}
	if !bindOptional(c, &in) {
		return
	}
	a, err := fc.svc.RejectAssignment(c.Request.Context(), c.Param("assignment"), in.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
