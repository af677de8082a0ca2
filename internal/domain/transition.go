package domain

// allowedTransitions is the single source of truth for the rental
// lifecycle. RETURNED and CANCELLED are terminal. OVERDUE is normally
// entered by the reconciliation job rather than an explicit caller, but
// the same table governs it.
var allowedTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusPending:   {RentalStatusBooked, RentalStatusCancelled},
	RentalStatusBooked:    {RentalStatusPickedUp, RentalStatusCancelled},
	RentalStatusPickedUp:  {RentalStatusReturned, RentalStatusOverdue},
	RentalStatusOverdue:   {RentalStatusReturned},
	RentalStatusReturned:  {},
	RentalStatusCancelled: {},
}

// IsValidTransition reports whether moving from one status to another is
// permitted by the lifecycle table. Pure function, no side effects.
func IsValidTransition(from, to RentalStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an InvalidTransitionError carrying both
// states when the requested move is not in the table.
func ValidateTransition(from, to RentalStatus) error {
	if !IsValidTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// AllowedTransitions returns the statuses reachable from the given one.
func AllowedTransitions(from RentalStatus) []RentalStatus {
	next := allowedTransitions[from]
	out := make([]RentalStatus, len(next))
	copy(out, next)
	return out
}

// AllRentalStatuses lists every lifecycle status, for exhaustive checks.
func AllRentalStatuses() []RentalStatus {
	return []RentalStatus{
		RentalStatusPending,
		RentalStatusBooked,
		RentalStatusPickedUp,
		RentalStatusReturned,
		RentalStatusOverdue,
		RentalStatusCancelled,
	}
}
