package visit

import (
	"fmt"
	"strings"
)

// SkipReason is one of the fixed reasons a rep may give for skipping a stop.
type SkipReason string

const (
	SkipCustomerClosed  SkipReason = "Customer Closed"
	SkipOutOfStock      SkipReason = "Out of Stock"
	SkipCustomerRefused SkipReason = "Customer Refused"
	SkipTimeConstraint  SkipReason = "Time Constraint"
	SkipOther           SkipReason = "Other"
)

// SkipReasons is the enumeration offered by the skip dialog.
var SkipReasons = []SkipReason{
	SkipCustomerClosed,
	SkipOutOfStock,
	SkipCustomerRefused,
	SkipTimeConstraint,
	SkipOther,
}

// ParseSkipReason accepts only values of the enumeration. Surrounding
// whitespace is ignored; an empty value returns ErrSkipReasonRequired.
func ParseSkipReason(raw string) (SkipReason, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrSkipReasonRequired
	}
	for _, r := range SkipReasons {
		if string(r) == raw {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not a valid reason", ErrSkipReasonRequired, raw)
}

// IsValidSkipReason is the predicate behind the request validator.
func IsValidSkipReason(raw string) bool {
	_, err := ParseSkipReason(raw)
	return err == nil
}
