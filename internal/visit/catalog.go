package visit

import "fmt"

// Definition describes one activity as configured for the field app.
type Definition struct {
	Key      ActivityKey `json:"key" yaml:"key"`
	Label    string      `json:"label" yaml:"label"`
	Required bool        `json:"required" yaml:"required"`
	// Editable activities may be re-submitted after completion.
	Editable  bool       `json:"editable" yaml:"editable"`
	StopTypes []StopType `json:"stop_types,omitempty" yaml:"stop_types"`
}

// AppliesTo reports whether the activity is offered at stops of type t.
// An empty StopTypes list means every stop type except breaks.
func (d Definition) AppliesTo(t StopType) bool {
	if len(d.StopTypes) == 0 {
		return t != StopBreak
	}
	for _, st := range d.StopTypes {
		if st == t {
			return true
		}
	}
	return false
}

// Catalog is the ordered list of activity definitions.
type Catalog []Definition

// DefaultCatalog mirrors the field app: every activity at sales visits with
// stock opname as the only hard requirement, photos and payment at logistics stops.
func DefaultCatalog() Catalog {
	logistics := []StopType{StopSalesVisit, StopDelivery, StopPickup, StopTransfer}
	sales := []StopType{StopSalesVisit}
	return Catalog{
		{Key: ActivityPhotos, Label: "Visit Photos", Editable: true, StopTypes: logistics},
		{Key: ActivityStockOpname, Label: "Stock Opname", Required: true, Editable: true, StopTypes: sales},
		{Key: ActivityPayment, Label: "Payment Collection", StopTypes: logistics},
		{Key: ActivitySalesOrder, Label: "Sales Order", StopTypes: sales},
		{Key: ActivitySurvey, Label: "Competitor Survey", StopTypes: sales},
	}
}

// For returns the definitions offered at stops of type t, in declared order.
func (c Catalog) For(t StopType) Catalog {
	var out Catalog
	for _, d := range c {
		if d.AppliesTo(t) {
			out = append(out, d)
		}
	}
	return out
}

// Lookup finds the definition for key.
func (c Catalog) Lookup(key ActivityKey) (Definition, bool) {
	for _, d := range c {
		if d.Key == key {
			return d, true
		}
	}
	return Definition{}, false
}

// Validate checks keys are known, unique and stop types are valid.
func (c Catalog) Validate() error {
	seen := make(map[ActivityKey]bool, len(c))
	for _, d := range c {
		if _, err := ParseActivityKey(string(d.Key)); err != nil {
			return err
		}
		if seen[d.Key] {
			return fmt.Errorf("duplicate activity %q in catalog", d.Key)
		}
		seen[d.Key] = true
		for _, st := range d.StopTypes {
			if _, err := ParseStopType(string(st)); err != nil {
				return fmt.Errorf("activity %q: %w", d.Key, err)
			}
		}
	}
	return nil
}
