package visit

// GateResult is the checkout projection for one stop.
type GateResult struct {
	CanCheckOut bool          `json:"can_check_out"`
	Active      ActivityKey   `json:"active_activity,omitempty"`
	Missing     []ActivityKey `json:"missing,omitempty"`
}

// Gate evaluates the checkout condition for a stop of type t.
//
// Checkout requires every required activity to be completed; a skipped or
// pending record does not count. Active is the first activity in declared order
// that is required and neither completed nor skipped.
func Gate(c Catalog, t StopType, records Records) GateResult {
	res := GateResult{CanCheckOut: true}
	for _, d := range c.For(t) {
		if !d.Required {
			continue
		}
		r := records.Get(d.Key)
		if !r.Completed {
			res.CanCheckOut = false
			res.Missing = append(res.Missing, d.Key)
		}
		if res.Active == "" && !r.Completed && !r.Skipped {
			res.Active = d.Key
		}
	}
	return res
}
