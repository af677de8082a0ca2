package service

import (
	"context"
	"time"

	"rentalhub-backend/internal/domain"
)

// NewRentalInput carries everything needed to open a rental in PENDING.
type NewRentalInput struct {
	ProductID            string
	InventoryItemID      string
	CustomerID           string
	ShippingAddressID    string
	StartDate            time.Time
	EndDate              time.Time
	RentalPriceCents     int64
	DailyRateCents       int64
	SecurityDepositCents int64
	Notes                string
}

// TransitionInput carries the optional per-transition fields.
// ActualStartDate is required for PICKED_UP, ActualReturnDate for
// RETURNED; ReturnCondition is only consulted on RETURNED.
type TransitionInput struct {
	Notes            string
	ActualStartDate  *time.Time
	ActualReturnDate *time.Time
	ReturnCondition  string
}

// RentalLifecycleService drives a rental through its status lifecycle.
// ApplyTransition is the sole mutation path for rental status and
// timeline entries.
type RentalLifecycleService interface {
	CreateRental(ctx context.Context, input NewRentalInput) (*domain.Rental, error)
	ApplyTransition(ctx context.Context, rentalID string, target domain.RentalStatus, input TransitionInput) (*domain.Rental, error)
	GetRental(ctx context.Context, rentalID string) (*domain.Rental, []domain.TimelineEntry, error)
}

// NotificationDispatcher turns a lifecycle event into an outbound
// notification. Failures are logged by callers, never propagated into
// the transition result.
type NotificationDispatcher interface {
	Notify(ctx context.Context, rental *domain.Rental, payload domain.NotificationPayload) error
	NotifySummary(ctx context.Context, payload domain.DailySummaryPayload) error
}

type EmailService interface {
	SendAdminNotification(ctx context.Context, to, subject, body string) error
}
