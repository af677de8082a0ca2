package domain

import "time"

// TimelineEntry is an append-only audit record of one status change on a
// rental. Entries are never updated or deleted; ordered by creation time
// they form a valid walk of the transition table starting at PENDING.
type TimelineEntry struct {
	ID        string       `json:"id"`
	RentalID  string       `json:"rental_id"`
	Status    RentalStatus `json:"status"`
	Notes     string       `json:"notes"`
	CreatedOn time.Time    `json:"created_on"`
}
