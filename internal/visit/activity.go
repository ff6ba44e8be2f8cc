package visit

import (
	"fmt"
	"time"
)

// ActivityKey names one sub-task that can be performed at a stop.
type ActivityKey string

const (
	ActivityPhotos      ActivityKey = "photos"
	ActivityStockOpname ActivityKey = "stock_opname"
	ActivityPayment     ActivityKey = "payment"
	ActivitySalesOrder  ActivityKey = "sales_order"
	ActivitySurvey      ActivityKey = "survey"
)

// ActivityKeys lists every activity in declared order.
var ActivityKeys = []ActivityKey{
	ActivityPhotos,
	ActivityStockOpname,
	ActivityPayment,
	ActivitySalesOrder,
	ActivitySurvey,
}

// ParseActivityKey validates a raw activity name.
func ParseActivityKey(raw string) (ActivityKey, error) {
	for _, k := range ActivityKeys {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownActivity, raw)
}

// ActivityRecord is the local status of one activity at one stop.
type ActivityRecord struct {
	Key        ActivityKey `json:"key"`
	Completed  bool        `json:"completed"`
	Skipped    bool        `json:"skipped"`
	Pending    bool        `json:"pending"`
	DocumentID string      `json:"document_id,omitempty"`
	Summary    string      `json:"summary,omitempty"`
	SkipReason string      `json:"skip_reason,omitempty"`
	UpdatedAt  time.Time   `json:"updated_at,omitempty"`
}

// Done reports whether the record needs no further action (completed or skipped).
func (r ActivityRecord) Done() bool {
	return r.Completed || r.Skipped
}

// DisplaySummary is what the stop timeline shows for the record.
func (r ActivityRecord) DisplaySummary() string {
	switch {
	case r.Pending:
		return "Saving..."
	case r.Completed && r.Summary != "":
		return r.Summary
	case r.Completed:
		return "Completed"
	case r.Skipped && r.SkipReason != "":
		return "Skipped: " + r.SkipReason
	case r.Skipped:
		return "Skipped"
	default:
		return "Not started"
	}
}

// Records maps activity keys to their local record. A missing key means the
// activity has not been started.
type Records map[ActivityKey]ActivityRecord

// Get returns the record for key, defaulting to an empty, not-completed one.
func (rs Records) Get(key ActivityKey) ActivityRecord {
	if r, ok := rs[key]; ok {
		return r
	}
	return ActivityRecord{Key: key}
}

// Clone returns an independent copy.
func (rs Records) Clone() Records {
	out := make(Records, len(rs))
	for k, v := range rs {
		out[k] = v
	}
	return out
}

// AnyDone reports whether at least one activity was completed or skipped.
func (rs Records) AnyDone() bool {
	for _, r := range rs {
		if r.Done() {
			return true
		}
	}
	return false
}
