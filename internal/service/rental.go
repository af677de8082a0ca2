package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"rentalhub-backend/internal/clock"
	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/inventory"
	"rentalhub-backend/internal/logger"
	"rentalhub-backend/internal/metrics"
	"rentalhub-backend/internal/repository"
)

// rentalLifecycleService applies lifecycle transitions. The remote
// inventory mutation always precedes the local write; on a local-write
// failure a single compensating call restores the item's prior status.
// There is no transaction spanning the two stores, and the compensating
// call is best-effort, not a guarantee.
type rentalLifecycleService struct {
	rentalRepo    repository.RentalRepository
	inventorySvc  inventory.Client
	dispatcher    NotificationDispatcher
	clock         clock.Clock
	metrics       *metrics.LifecycleMetrics
	remoteTimeout time.Duration
	locks         rentalLocks
}

func NewRentalLifecycleService(
	rentalRepo repository.RentalRepository,
	inventorySvc inventory.Client,
	dispatcher NotificationDispatcher,
	clk clock.Clock,
	m *metrics.LifecycleMetrics,
	remoteTimeout time.Duration,
) RentalLifecycleService {
	return &rentalLifecycleService{
		rentalRepo:    rentalRepo,
		inventorySvc:  inventorySvc,
		dispatcher:    dispatcher,
		clock:         clk,
		metrics:       m,
		remoteTimeout: remoteTimeout,
		locks:         rentalLocks{byID: make(map[string]*sync.Mutex)},
	}
}

func (s *rentalLifecycleService) CreateRental(ctx context.Context, input NewRentalInput) (*domain.Rental, error) {
	if input.ProductID == "" {
		return nil, &domain.ValidationError{Field: "product_id", Reason: "required"}
	}
	if input.InventoryItemID == "" {
		return nil, &domain.ValidationError{Field: "inventory_item_id", Reason: "required"}
	}
	if input.CustomerID == "" {
		return nil, &domain.ValidationError{Field: "customer_id", Reason: "required"}
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, &domain.ValidationError{Field: "end_date", Reason: "must not be before start_date"}
	}

	now := s.clock.Now()
	rt := &domain.Rental{
		ID:                   uuid.NewString(),
		ProductID:            input.ProductID,
		InventoryItemID:      input.InventoryItemID,
		CustomerID:           input.CustomerID,
		ShippingAddressID:    input.ShippingAddressID,
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
		RentalPriceCents:     input.RentalPriceCents,
		DailyRateCents:       input.DailyRateCents,
		SecurityDepositCents: input.SecurityDepositCents,
		Status:               domain.RentalStatusPending,
		Notes:                domain.AppendNote("", input.Notes, now),
		Version:              1,
		CreatedOn:            now,
		UpdatedOn:            now,
	}

	initial := &domain.TimelineEntry{
		ID:        uuid.NewString(),
		RentalID:  rt.ID,
		Status:    domain.RentalStatusPending,
		Notes:     input.Notes,
		CreatedOn: now,
	}

	if err := s.rentalRepo.Create(ctx, rt, initial); err != nil {
		return nil, err
	}
	logger.Info("Rental created", "rental_id", rt.ID, "rental_number", rt.RentalNumber)

	s.dispatch(ctx, rt, domain.StatusChangePayload{
		NotificationKind: domain.NotificationRentalRequested,
		RentalNumber:     rt.RentalNumber,
		CustomerID:       rt.CustomerID,
		NewStatus:        rt.Status,
		Notes:            input.Notes,
	})

	return rt, nil
}

func (s *rentalLifecycleService) ApplyTransition(ctx context.Context, rentalID string, target domain.RentalStatus, input TransitionInput) (*domain.Rental, error) {
	// Transitions on the same rental are serialized in-process; the
	// store's version check remains as a backstop for anything else
	// writing the row.
	unlock := s.locks.lock(rentalID)
	defer unlock()

	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	from := rt.Status

	if err := domain.ValidateTransition(from, target); err != nil {
		return nil, err
	}

	switch target {
	case domain.RentalStatusPickedUp:
		if input.ActualStartDate == nil {
			return nil, &domain.ValidationError{Field: "actual_start_date", Reason: "required for pickup"}
		}
	case domain.RentalStatusReturned:
		if input.ActualReturnDate == nil {
			return nil, &domain.ValidationError{Field: "actual_return_date", Reason: "required for return"}
		}
	}

	// Remote inventory mutation, strictly before the local write.
	remoteMutated := false
	var restoreTo domain.InventoryStatus
	switch target {
	case domain.RentalStatusBooked:
		item, err := s.getItem(ctx, rt.InventoryItemID)
		if err != nil {
			s.metrics.RecordTransitionFailed(string(target))
			return nil, err
		}
		if item.Status != domain.InventoryStatusAvailable {
			return nil, &domain.BusinessRuleError{Rule: "item not available for booking"}
		}
		if err := s.setItemStatus(ctx, rt.InventoryItemID, domain.InventoryStatusRented,
			"booked for rental "+rt.RentalNumber); err != nil {
			s.metrics.RecordTransitionFailed(string(target))
			return nil, err
		}
		remoteMutated = true
		restoreTo = item.Status

	case domain.RentalStatusCancelled:
		// Only a booked rental holds the item; cancelling from PENDING
		// touches nothing remote.
		if from == domain.RentalStatusBooked {
			if err := s.setItemStatus(ctx, rt.InventoryItemID, domain.InventoryStatusAvailable,
				"rental "+rt.RentalNumber+" cancelled"); err != nil {
				s.metrics.RecordTransitionFailed(string(target))
				return nil, err
			}
			remoteMutated = true
			restoreTo = domain.InventoryStatusRented
		}

	case domain.RentalStatusReturned:
		if err := s.setItemStatus(ctx, rt.InventoryItemID, domain.InventoryStatusAvailable,
			"rental "+rt.RentalNumber+" returned"); err != nil {
			s.metrics.RecordTransitionFailed(string(target))
			return nil, err
		}
		remoteMutated = true
		restoreTo = domain.InventoryStatusRented

	case domain.RentalStatusPickedUp, domain.RentalStatusOverdue:
		// Purely local moves; the item is already RENTED.
	}

	now := s.clock.Now()
	rt.Status = target
	rt.Notes = domain.AppendNote(rt.Notes, input.Notes, now)
	rt.UpdatedOn = now
	switch target {
	case domain.RentalStatusPickedUp:
		rt.ActualStartDate = input.ActualStartDate
	case domain.RentalStatusReturned:
		rt.ActualReturnDate = input.ActualReturnDate
		rt.ReturnConditionNotes = domain.AppendNote(rt.ReturnConditionNotes, input.ReturnCondition, now)
	}

	entry := &domain.TimelineEntry{
		ID:        uuid.NewString(),
		RentalID:  rt.ID,
		Status:    target,
		Notes:     input.Notes,
		CreatedOn: now,
	}

	if err := s.rentalRepo.SaveTransition(ctx, rt, entry); err != nil {
		s.metrics.RecordTransitionFailed(string(target))
		if remoteMutated {
			return nil, s.compensate(ctx, rt, from, target, restoreTo, err)
		}
		return nil, err
	}

	s.metrics.RecordTransitionApplied(string(target))
	logger.Info("Rental transition applied",
		"rental_id", rt.ID,
		"rental_number", rt.RentalNumber,
		"from", from,
		"to", target)

	s.dispatch(ctx, rt, domain.StatusChangePayload{
		NotificationKind: notificationKindFor(target),
		RentalNumber:     rt.RentalNumber,
		CustomerID:       rt.CustomerID,
		NewStatus:        target,
		Notes:            input.Notes,
	})

	return rt, nil
}

func (s *rentalLifecycleService) GetRental(ctx context.Context, rentalID string) (*domain.Rental, []domain.TimelineEntry, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, nil, err
	}
	timeline, err := s.rentalRepo.ListTimeline(ctx, rentalID)
	if err != nil {
		return nil, nil, err
	}
	return rt, timeline, nil
}

// compensate makes one attempt to restore the remote item's
// pre-transition status after a failed local write. A failure here is
// the detectable inconsistency window: the item and the rental now
// disagree until someone reconciles them by hand.
func (s *rentalLifecycleService) compensate(ctx context.Context, rt *domain.Rental, from, target domain.RentalStatus, restoreTo domain.InventoryStatus, original error) error {
	s.metrics.RecordCompensation()
	compErr := s.setItemStatus(ctx, rt.InventoryItemID, restoreTo,
		"compensation: transition of rental "+rt.RentalNumber+" failed")
	if compErr != nil {
		s.metrics.RecordCompensationFailure()
		logger.Error("INVENTORY COMPENSATION FAILED: manual reconciliation required",
			"rental_id", rt.ID,
			"rental_number", rt.RentalNumber,
			"inventory_item_id", rt.InventoryItemID,
			"from", from,
			"to", target,
			"restore_to", restoreTo,
			"original_error", original,
			"compensation_error", compErr)
		return &domain.CompensationFailedError{
			RentalID:        rt.ID,
			From:            from,
			To:              target,
			Err:             original,
			CompensationErr: compErr,
		}
	}
	logger.Warn("Local write failed; inventory change compensated",
		"rental_id", rt.ID,
		"inventory_item_id", rt.InventoryItemID,
		"restored_to", restoreTo,
		"error", original)
	return original
}

func (s *rentalLifecycleService) dispatch(ctx context.Context, rt *domain.Rental, payload domain.NotificationPayload) {
	if err := s.dispatcher.Notify(ctx, rt, payload); err != nil {
		logger.Warn("Notification dispatch failed",
			"rental_id", rt.ID,
			"kind", payload.Kind(),
			"error", err)
	}
}

func (s *rentalLifecycleService) getItem(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	ctx, cancel := s.remoteContext(ctx)
	defer cancel()
	return s.inventorySvc.GetItem(ctx, itemID)
}

func (s *rentalLifecycleService) setItemStatus(ctx context.Context, itemID string, status domain.InventoryStatus, reason string) error {
	ctx, cancel := s.remoteContext(ctx)
	defer cancel()
	return s.inventorySvc.SetItemStatus(ctx, itemID, status, reason)
}

func (s *rentalLifecycleService) remoteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.remoteTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.remoteTimeout)
}

func notificationKindFor(status domain.RentalStatus) domain.NotificationKind {
	switch status {
	case domain.RentalStatusBooked:
		return domain.NotificationRentalBooked
	case domain.RentalStatusPickedUp:
		return domain.NotificationRentalPickedUp
	case domain.RentalStatusReturned:
		return domain.NotificationRentalReturned
	case domain.RentalStatusOverdue:
		return domain.NotificationRentalOverdue
	case domain.RentalStatusCancelled:
		return domain.NotificationRentalCancelled
	default:
		return domain.NotificationRentalRequested
	}
}

// rentalLocks hands out one mutex per rental id. Entries are kept for
// the life of the process; the map grows with the set of rentals
// touched since startup.
type rentalLocks struct {
	mu   sync.Mutex
	byID map[string]*sync.Mutex
}

func (l *rentalLocks) lock(id string) func() {
	l.mu.Lock()
	m, ok := l.byID[id]
	if !ok {
		m = &sync.Mutex{}
		l.byID[id] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}
