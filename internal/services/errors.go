// internal/services/errors.go
package services

import "fmt"

// InvalidStateTransitionError reports an operation attempted in a state that
// does not allow it. Nothing is mutated when this is returned.
type InvalidStateTransitionError struct {
	Entity    string
	From      string
	Operation string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s in state %q does not allow %s", e.Entity, e.From, e.Operation)
}

// AlreadySignedError reports a second signature attempt for the same role.
type AlreadySignedError struct {
	Role string
}

func (e *AlreadySignedError) Error() string {
	return fmt.Sprintf("contract already carries a %s signature", e.Role)
}
