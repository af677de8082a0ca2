package domain

import "time"

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "PENDING"
	RentalStatusBooked    RentalStatus = "BOOKED"
	RentalStatusPickedUp  RentalStatus = "PICKED_UP"
	RentalStatusReturned  RentalStatus = "RETURNED"
	RentalStatusOverdue   RentalStatus = "OVERDUE"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

// Rental is the aggregate root of the booking lifecycle. All status
// changes go through the lifecycle service; nothing else may write
// Status or append timeline entries.
type Rental struct {
	ID                string     `json:"id"`
	RentalNumber      string     `json:"rental_number"`
	ProductID         string     `json:"product_id"`
	InventoryItemID   string     `json:"inventory_item_id"`
	CustomerID        string     `json:"customer_id"`
	ShippingAddressID string     `json:"shipping_address_id"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           time.Time  `json:"end_date"`
	ActualStartDate   *time.Time `json:"actual_start_date,omitempty"`
	ActualReturnDate  *time.Time `json:"actual_return_date,omitempty"`
	// Price snapshot fields captured at rental creation time, not
	// touched by the lifecycle machine.
	RentalPriceCents     int64        `json:"rental_price_cents"`
	DailyRateCents       int64        `json:"daily_rate_cents"`
	SecurityDepositCents int64        `json:"security_deposit_cents"`
	LateFeeCents         int64        `json:"late_fee_cents"`
	DamageFeeCents       int64        `json:"damage_fee_cents"`
	Status               RentalStatus `json:"status"`
	Notes                string       `json:"notes"`
	ReturnConditionNotes string       `json:"return_condition_notes"`
	// Version is the optimistic concurrency token; SaveTransition bumps
	// it and rejects writes against a stale value.
	Version   int64     `json:"version"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// IsTerminal reports whether the rental can never leave its current status.
func (s RentalStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// AppendNote appends a timestamped line to a free-text field, never
// overwriting what is already there.
func AppendNote(existing, note string, at time.Time) string {
	if note == "" {
		return existing
	}
	line := "[" + at.Format("2006-01-02 15:04") + "] " + note
	if existing == "" {
		return line
	}
	return existing + "\n" + line
}
