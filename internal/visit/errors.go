package visit

import "errors"

var (
	ErrUnknownActivity    = errors.New("unknown activity")
	ErrUnknownStopType    = errors.New("unknown stop type")
	ErrUnknownStopStatus  = errors.New("unknown stop status")
	ErrActivityNotOffered = errors.New("activity not offered at this stop")

	// ErrInvalidTransition is returned when a stop status change is not allowed
	// from the stop's current status.
	ErrInvalidTransition = errors.New("invalid stop transition")

	// ErrCheckoutBlocked is returned when a required activity is not completed.
	ErrCheckoutBlocked = errors.New("checkout blocked: required activities incomplete")

	ErrSkipReasonRequired = errors.New("skip reason required")
	ErrRequiredActivity   = errors.New("required activity cannot be skipped")
	ErrActivityLocked     = errors.New("activity already completed")
	ErrRouteCompleted     = errors.New("route already completed")
	ErrStopNotFound       = errors.New("stop not found on route")
	ErrStaleToken         = errors.New("activity commit token no longer valid")
	ErrActivityPending    = errors.New("activity save already in flight")
)
