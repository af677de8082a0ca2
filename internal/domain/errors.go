package domain

import (
	"errors"
	"fmt"
)

// ErrVersionConflict signals that a rental row changed under an
// optimistic write; the caller may re-read and retry.
var ErrVersionConflict = errors.New("rental version conflict")

// NotFoundError reports that a referenced rental or remote inventory
// item does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InvalidTransitionError reports a requested status move that is not in
// the lifecycle table.
type InvalidTransitionError struct {
	From RentalStatus
	To   RentalStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid rental transition from %s to %s", e.From, e.To)
}

// ValidationError reports a missing or malformed field on the caller's
// input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// BusinessRuleError reports a transition that is structurally valid but
// blocked by remote state, e.g. booking an item that is not available.
type BusinessRuleError struct {
	Rule string
}

func (e *BusinessRuleError) Error() string {
	return e.Rule
}

// RemoteCallError reports a failed call to the inventory or notification
// service: timeout, 5xx, connection error. The orchestrator does not
// retry these itself.
type RemoteCallError struct {
	Service   string
	Operation string
	Err       error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Service, e.Operation, e.Err)
}

func (e *RemoteCallError) Unwrap() error { return e.Err }

// CompensationFailedError is the double-failure case: the remote
// inventory mutation succeeded, the local write failed, and the
// compensating remote call failed too. The remote item and the local
// rental now disagree and need manual reconciliation.
type CompensationFailedError struct {
	RentalID        string
	From            RentalStatus
	To              RentalStatus
	Err             error // the original local-write failure
	CompensationErr error // the failure of the restoring call
}

func (e *CompensationFailedError) Error() string {
	return fmt.Sprintf(
		"compensation failed for rental %s (%s -> %s): %v (original error: %v)",
		e.RentalID, e.From, e.To, e.CompensationErr, e.Err,
	)
}

func (e *CompensationFailedError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
