package visit

import (
	"fmt"
	"time"
)

// StopStatus is the lifecycle status of a route stop.
type StopStatus string

const (
	StatusPending    StopStatus = "pending"
	StatusInProgress StopStatus = "in_progress"
	StatusArrived    StopStatus = "arrived"
	StatusCompleted  StopStatus = "completed"
	StatusSkipped    StopStatus = "skipped"
	StatusFailed     StopStatus = "failed"
)

// ParseStopStatus maps a remote status string. An empty status is pending.
func ParseStopStatus(raw string) (StopStatus, error) {
	switch s := StopStatus(raw); s {
	case "":
		return StatusPending, nil
	case StatusPending, StatusInProgress, StatusArrived, StatusCompleted, StatusSkipped, StatusFailed:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStopStatus, raw)
	}
}

// Terminal statuses never change again.
func (s StopStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusSkipped || s == StatusFailed
}

// Active statuses mean the rep is working the stop.
func (s StopStatus) Active() bool {
	return s == StatusInProgress || s == StatusArrived
}

// StopType is the kind of visit a stop represents.
type StopType string

const (
	StopSalesVisit StopType = "sales_visit"
	StopDelivery   StopType = "delivery"
	StopTransfer   StopType = "transfer"
	StopPickup     StopType = "pickup"
	StopBreak      StopType = "break"
)

func ParseStopType(raw string) (StopType, error) {
	switch t := StopType(raw); t {
	case "":
		return StopSalesVisit, nil
	case StopSalesVisit, StopDelivery, StopTransfer, StopPickup, StopBreak:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStopType, raw)
	}
}

// Coordinates is a GPS fix.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"`
}

// Stop is one location visit within a route.
type Stop struct {
	ID             string       `json:"id"`
	RouteID        string       `json:"route_id"`
	Sequence       int          `json:"sequence"`
	Type           StopType     `json:"stop_type"`
	Status         StopStatus   `json:"status"`
	Customer       string       `json:"customer,omitempty"`
	CustomerName   string       `json:"customer_name,omitempty"`
	LinkedDocument string       `json:"linked_document,omitempty"`
	Planned        *Coordinates `json:"planned_location,omitempty"`
	// Location is the fix captured when the visit started; nil when GPS was unavailable.
	Location   *Coordinates `json:"location,omitempty"`
	SkipReason SkipReason   `json:"skip_reason,omitempty"`
	Notes      string       `json:"notes,omitempty"`
	StartedAt  *time.Time   `json:"started_at,omitempty"`
	EndedAt    *time.Time   `json:"ended_at,omitempty"`
}

func (s *Stop) transitionError(to StopStatus) error {
	return fmt.Errorf("%w: stop %s is %s, cannot become %s", ErrInvalidTransition, s.ID, s.Status, to)
}

// CanStart reports whether Start would succeed.
func (s *Stop) CanStart() error {
	if s.Status != StatusPending {
		return s.transitionError(StatusInProgress)
	}
	return nil
}

// Start moves a pending stop to in_progress. A nil fix is recorded as absent.
func (s *Stop) Start(fix *Coordinates, at time.Time) error {
	if err := s.CanStart(); err != nil {
		return err
	}
	s.Status = StatusInProgress
	s.Location = fix
	s.StartedAt = &at
	return nil
}

// CanArrive reports whether Arrive would succeed.
func (s *Stop) CanArrive() error {
	if s.Status != StatusPending {
		return s.transitionError(StatusArrived)
	}
	return nil
}

// Arrive marks a pending stop as reached.
func (s *Stop) Arrive(fix *Coordinates, at time.Time) error {
	if err := s.CanArrive(); err != nil {
		return err
	}
	s.Status = StatusArrived
	if fix != nil {
		s.Location = fix
	}
	s.StartedAt = &at
	return nil
}

// CanComplete checks the status and the checkout gate.
func (s *Stop) CanComplete(g GateResult) error {
	if !s.Status.Active() {
		return s.transitionError(StatusCompleted)
	}
	if !g.CanCheckOut {
		return fmt.Errorf("%w: missing %v", ErrCheckoutBlocked, g.Missing)
	}
	return nil
}

// Complete closes an active stop when the gate allows it.
func (s *Stop) Complete(g GateResult, at time.Time) error {
	if err := s.CanComplete(g); err != nil {
		return err
	}
	s.Status = StatusCompleted
	s.EndedAt = &at
	return nil
}

// CanSkip validates the reason and that the stop is not terminal.
func (s *Stop) CanSkip(reason string) (SkipReason, error) {
	r, err := ParseSkipReason(reason)
	if err != nil {
		return "", err
	}
	if s.Status.Terminal() {
		return "", s.transitionError(StatusSkipped)
	}
	return r, nil
}

// Skip closes a non-terminal stop with a reason from the fixed enumeration.
func (s *Stop) Skip(reason, notes string, at time.Time) error {
	r, err := s.CanSkip(reason)
	if err != nil {
		return err
	}
	s.Status = StatusSkipped
	s.SkipReason = r
	s.Notes = notes
	s.EndedAt = &at
	return nil
}

// CanFail reports whether Fail would succeed.
func (s *Stop) CanFail() error {
	if s.Status.Terminal() {
		return s.transitionError(StatusFailed)
	}
	return nil
}

// Fail closes a non-terminal stop as failed.
func (s *Stop) Fail(notes string, at time.Time) error {
	if err := s.CanFail(); err != nil {
		return err
	}
	s.Status = StatusFailed
	s.Notes = notes
	s.EndedAt = &at
	return nil
}

// DisplayStatus collapses the stop status to pending, in_progress, completed or
// skipped. A pending stop with activity progress shows as in_progress; a failed
// stop shows as skipped since it was not visited.
func DisplayStatus(s Stop, records Records) StopStatus {
	switch s.Status {
	case StatusCompleted:
		return StatusCompleted
	case StatusSkipped, StatusFailed:
		return StatusSkipped
	case StatusInProgress, StatusArrived:
		return StatusInProgress
	}
	if records.AnyDone() {
		return StatusInProgress
	}
	return StatusPending
}
