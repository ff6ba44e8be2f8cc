package execution

import (
	"fmt"

	"fsa_tracker/internal/visit"
)

// Phase is the state of a stop session. Exactly one of Idle, Loading,
// Editing, Submitting or Failed.
type Phase interface {
	phase()
}

type Idle struct{}

type Loading struct{}

// Editing means a form for Activity is open.
type Editing struct {
	Activity visit.ActivityKey
}

// Submitting means a remote save is in flight. Activity is empty for stop
// status changes.
type Submitting struct {
	Activity visit.ActivityKey
}

// Failed holds the message of the last failed remote call.
type Failed struct {
	Reason string
}

func (Idle) phase()       {}
func (Loading) phase()    {}
func (Editing) phase()    {}
func (Submitting) phase() {}
func (Failed) phase()     {}

// PhaseView is the JSON shape of a phase.
type PhaseView struct {
	Name     string            `json:"name"`
	Activity visit.ActivityKey `json:"activity,omitempty"`
	Reason   string            `json:"reason,omitempty"`
}

func viewPhase(p Phase) PhaseView {
	switch p := p.(type) {
	case Idle:
		return PhaseView{Name: "idle"}
	case Loading:
		return PhaseView{Name: "loading"}
	case Editing:
		return PhaseView{Name: "editing", Activity: p.Activity}
	case Submitting:
		return PhaseView{Name: "submitting", Activity: p.Activity}
	case Failed:
		return PhaseView{Name: "failed", Reason: p.Reason}
	default:
		panic(fmt.Sprintf("execution: unhandled phase %T", p))
	}
}

func submitting(p Phase) bool {
	_, ok := p.(Submitting)
	return ok
}
