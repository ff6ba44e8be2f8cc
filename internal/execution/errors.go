package execution

import "errors"

var (
	// ErrBusy is returned when a submission is already in flight for the same
	// stop or assignment.
	ErrBusy = errors.New("another submission is in progress")

	ErrNotAssigned     = errors.New("route is not assigned to this user")
	ErrStopClosed      = errors.New("stop is already closed")
	ErrEmptyScan       = errors.New("scanned code is empty")
	ErrReasonRequired  = errors.New("reason required")
	ErrNoAssignment    = errors.New("assignment name required")
	ErrNotDeliveryStop = errors.New("stop does not take proof of delivery")
)
