package controllers

import (
	"context"
	"errors"
	"net/http"

	"fsa_tracker/internal/device"
	"fsa_tracker/internal/execution"
	"fsa_tracker/internal/repository"
	"fsa_tracker/internal/rpc"
	"fsa_tracker/internal/visit"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var statusFor = []struct {
	err    error
	status int
}{
	{visit.ErrCheckoutBlocked, http.StatusUnprocessableEntity},

	{visit.ErrInvalidTransition, http.StatusConflict},
	{visit.ErrRouteCompleted, http.StatusConflict},
	{visit.ErrActivityLocked, http.StatusConflict},
	{visit.ErrActivityPending, http.StatusConflict},
	{execution.ErrBusy, http.StatusConflict},
	{execution.ErrStopClosed, http.StatusConflict},
	{device.ErrInUse, http.StatusConflict},
	{repository.ErrConflict, http.StatusConflict},

	{visit.ErrSkipReasonRequired, http.StatusBadRequest},
	{visit.ErrRequiredActivity, http.StatusBadRequest},
	{visit.ErrActivityNotOffered, http.StatusBadRequest},
	{visit.ErrUnknownActivity, http.StatusBadRequest},
	{execution.ErrEmptyScan, http.StatusBadRequest},
	{execution.ErrReasonRequired, http.StatusBadRequest},
	{execution.ErrNoAssignment, http.StatusBadRequest},
	{execution.ErrNotDeliveryStop, http.StatusBadRequest},
	{rpc.ErrValidation, http.StatusBadRequest},

	{visit.ErrStopNotFound, http.StatusNotFound},
	{rpc.ErrNotFound, http.StatusNotFound},
	{repository.ErrNotFound, http.StatusNotFound},

	{execution.ErrNotAssigned, http.StatusForbidden},
	{rpc.ErrPermission, http.StatusForbidden},

	{rpc.ErrTimeout, http.StatusGatewayTimeout},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},
	{rpc.ErrUnavailable, http.StatusBadGateway},

	// remote data we could not map
	{visit.ErrUnknownStopStatus, http.StatusBadGateway},
	{visit.ErrUnknownStopType, http.StatusBadGateway},
}

// httpStatus maps a domain error to its response status.
func httpStatus(err error) int {
	for _, m := range statusFor {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	var remoteErr *rpc.Error
	if errors.As(err, &remoteErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": ...}. Remote failures carry the backend's
// own message; unexpected errors get a generic one.
func respondError(c *gin.Context, err error) {
	status := httpStatus(err)
	msg := err.Error()

	var remoteErr *rpc.Error
	if errors.As(err, &remoteErr) && remoteErr.Message != "" {
		msg = remoteErr.Message
	}
	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Unhandled error.")
		msg = "Something went wrong. Reload the page or return home."
	}
	c.JSON(status, gin.H{"error": msg})
}
