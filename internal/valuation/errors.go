package valuation

import "fmt"

// ComputationError reports a missing or invalid field, or a failed table
// lookup, discovered at calculation time. It is returned as a value, never
// panicked, so the dialogue session stays usable and the user can correct
// inputs and retry.
type ComputationError struct {
	Field  string
	Reason string
}

func (e *ComputationError) Error() string {
	if e.Field == "" {
		return "computation error: " + e.Reason
	}
	return fmt.Sprintf("computation error on %q: %s", e.Field, e.Reason)
}
