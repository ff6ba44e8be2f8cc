package visit

import "fmt"

// Mode is how the field app presents an activity form.
type Mode int

const (
	ModeCreate Mode = iota + 1
	ModeEdit
	ModeView
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	case ModeView:
		return "view"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ModeFor picks the form mode for an activity record. Completed records are
// editable only when the definition allows re-submission.
func ModeFor(d Definition, r ActivityRecord) Mode {
	if !r.Completed {
		return ModeCreate
	}
	if d.Editable {
		return ModeEdit
	}
	return ModeView
}

// AcceptsSubmission reports whether a save may be started in this mode.
func (m Mode) AcceptsSubmission() bool {
	switch m {
	case ModeCreate, ModeEdit:
		return true
	case ModeView:
		return false
	default:
		panic(fmt.Sprintf("visit: unhandled mode %d", int(m)))
	}
}

// AcceptsSkip reports whether the activity may still be skipped.
func (m Mode) AcceptsSkip() bool {
	switch m {
	case ModeCreate:
		return true
	case ModeEdit, ModeView:
		return false
	default:
		panic(fmt.Sprintf("visit: unhandled mode %d", int(m)))
	}
}
