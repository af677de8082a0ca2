package repository

import (
	"context"
	"time"

	"rentalhub-backend/internal/domain"
)

// RentalRepository is the rental record store. Create and
// SaveTransition are transactional: the rental row and its timeline
// entry commit together or not at all.
type RentalRepository interface {
	// Create persists a new rental together with its initial timeline
	// entry and assigns the per-day sequential rental number.
	Create(ctx context.Context, rental *domain.Rental, initial *domain.TimelineEntry) error
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	// SaveTransition writes the updated rental and appends the timeline
	// entry in one transaction. Returns domain.ErrVersionConflict when
	// the rental row changed since it was read.
	SaveTransition(ctx context.Context, rental *domain.Rental, entry *domain.TimelineEntry) error

	// Reconciliation scans. All date arguments are supplied by the
	// caller so the store itself never reads the wall clock.
	ListStalePending(ctx context.Context, createdBefore time.Time) ([]domain.Rental, error)
	ListOverdueAsOf(ctx context.Context, today time.Time) ([]domain.Rental, error)
	ListReturnsDueOn(ctx context.Context, day time.Time, statuses []domain.RentalStatus) ([]domain.Rental, error)
	ListDeliveriesDueOn(ctx context.Context, day time.Time) ([]domain.Rental, error)

	ListTimeline(ctx context.Context, rentalID string) ([]domain.TimelineEntry, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id string) error
}
