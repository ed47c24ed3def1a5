// internal/reconcile/errors.go
package reconcile

import "fmt"

// CodeValidation is the status block error code for malformed snapshots.
const CodeValidation uint16 = 2

// ValidationError reports a snapshot that cannot be reconciled:
// a missing counter or a value that is not an integer.
type ValidationError struct {
	Field  string // empty when the body itself is unusable
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "reconcile: invalid snapshot: " + e.Reason
	}
	return fmt.Sprintf("reconcile: field %q: %s", e.Field, e.Reason)
}

// Code implements the status block error code contract.
func (e *ValidationError) Code() uint16 { return CodeValidation }
