package visit

import (
	"math"
	"sort"
)

// RouteStatus is derived from the stops, never stored.
type RouteStatus string

const (
	RouteNotStarted RouteStatus = "not_started"
	RouteInProgress RouteStatus = "in_progress"
	RouteCompleted  RouteStatus = "completed"
)

// Route is a rep's ordered assignment of stops for one day.
type Route struct {
	ID    string `json:"id"`
	Rep   string `json:"rep"`
	Date  string `json:"date"`
	Stops []Stop `json:"stops"`
}

// Progress is the route-level projection over its stops.
type Progress struct {
	TotalStops     int         `json:"total_stops"`
	CompletedStops int         `json:"completed_stops"`
	FailedStops    int         `json:"failed_stops"`
	Percentage     int         `json:"progress_percentage"`
	Status         RouteStatus `json:"status"`
}

// SortStops orders stops by sequence number.
func (r *Route) SortStops() {
	sort.SliceStable(r.Stops, func(i, j int) bool {
		return r.Stops[i].Sequence < r.Stops[j].Sequence
	})
}

// Progress counts completed and skipped stops as done. Percentage is 0 for an
// empty route.
func (r *Route) Progress() Progress {
	p := Progress{TotalStops: len(r.Stops)}
	terminal, touched := 0, false
	for _, s := range r.Stops {
		switch s.Status {
		case StatusCompleted, StatusSkipped:
			p.CompletedStops++
		case StatusFailed:
			p.FailedStops++
		}
		if s.Status.Terminal() {
			terminal++
		}
		if s.Status != StatusPending {
			touched = true
		}
	}
	if p.TotalStops > 0 {
		p.Percentage = int(math.Round(float64(p.CompletedStops) / float64(p.TotalStops) * 100))
	}
	switch {
	case p.TotalStops > 0 && terminal == p.TotalStops:
		p.Status = RouteCompleted
	case touched:
		p.Status = RouteInProgress
	default:
		p.Status = RouteNotStarted
	}
	return p
}

// Completed reports whether the route is closed to further stop changes.
func (r *Route) Completed() bool {
	return r.Progress().Status == RouteCompleted
}

// CurrentStop picks the stop the rep should be working on: the lowest-sequence
// stop already in progress or arrived, else the lowest-sequence non-terminal
// stop. Nil when every stop is terminal.
func (r *Route) CurrentStop() *Stop {
	var active, open *Stop
	for i := range r.Stops {
		s := &r.Stops[i]
		if s.Status.Active() && (active == nil || s.Sequence < active.Sequence) {
			active = s
		}
		if !s.Status.Terminal() && (open == nil || s.Sequence < open.Sequence) {
			open = s
		}
	}
	if active != nil {
		return active
	}
	return open
}

// Stop returns a pointer to the stop with id.
func (r *Route) Stop(id string) (*Stop, error) {
	for i := range r.Stops {
		if r.Stops[i].ID == id {
			return &r.Stops[i], nil
		}
	}
	return nil, ErrStopNotFound
}
