package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rentalhub-backend/internal/domain"
)

// memRentalRepo is an in-memory RentalRepository with the same version
// semantics as the postgres implementation.
type memRentalRepo struct {
	mu          sync.Mutex
	rentals     map[string]*domain.Rental
	timeline    map[string][]domain.TimelineEntry
	failSaveFor map[string]error
	seq         int
}

func newMemRentalRepo() *memRentalRepo {
	return &memRentalRepo{
		rentals:     make(map[string]*domain.Rental),
		timeline:    make(map[string][]domain.TimelineEntry),
		failSaveFor: make(map[string]error),
	}
}

func (r *memRentalRepo) Create(ctx context.Context, rt *domain.Rental, initial *domain.TimelineEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	rt.RentalNumber = fmt.Sprintf("RNT-%s-%05d", rt.CreatedOn.Format("20060102"), r.seq)
	cp := *rt
	r.rentals[rt.ID] = &cp
	r.timeline[rt.ID] = append(r.timeline[rt.ID], *initial)
	return nil
}

func (r *memRentalRepo) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.rentals[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "rental", ID: id}
	}
	cp := *rt
	return &cp, nil
}

func (r *memRentalRepo) SaveTransition(ctx context.Context, rt *domain.Rental, entry *domain.TimelineEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failSaveFor[rt.ID]; ok {
		return err
	}
	stored, ok := r.rentals[rt.ID]
	if !ok || stored.Version != rt.Version {
		return domain.ErrVersionConflict
	}
	cp := *rt
	cp.Version++
	r.rentals[rt.ID] = &cp
	r.timeline[rt.ID] = append(r.timeline[rt.ID], *entry)
	rt.Version++
	return nil
}

func (r *memRentalRepo) ListStalePending(ctx context.Context, createdBefore time.Time) ([]domain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Rental
	for _, rt := range r.rentals {
		if rt.Status == domain.RentalStatusPending && rt.CreatedOn.Before(createdBefore) {
			out = append(out, *rt)
		}
	}
	return out, nil
}

func (r *memRentalRepo) ListOverdueAsOf(ctx context.Context, today time.Time) ([]domain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	today = today.Truncate(24 * time.Hour)
	var out []domain.Rental
	for _, rt := range r.rentals {
		if rt.Status == domain.RentalStatusPickedUp && rt.EndDate.Before(today) {
			out = append(out, *rt)
		}
	}
	return out, nil
}

func (r *memRentalRepo) ListReturnsDueOn(ctx context.Context, day time.Time, statuses []domain.RentalStatus) ([]domain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day = day.Truncate(24 * time.Hour)
	var out []domain.Rental
	for _, rt := range r.rentals {
		if !sameDay(rt.EndDate, day) {
			continue
		}
		for _, s := range statuses {
			if rt.Status == s {
				out = append(out, *rt)
				break
			}
		}
	}
	return out, nil
}

func (r *memRentalRepo) ListDeliveriesDueOn(ctx context.Context, day time.Time) ([]domain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day = day.Truncate(24 * time.Hour)
	var out []domain.Rental
	for _, rt := range r.rentals {
		if rt.Status == domain.RentalStatusBooked && sameDay(rt.StartDate, day) {
			out = append(out, *rt)
		}
	}
	return out, nil
}

func (r *memRentalRepo) ListTimeline(ctx context.Context, rentalID string) ([]domain.TimelineEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.TimelineEntry(nil), r.timeline[rentalID]...), nil
}

func sameDay(t, day time.Time) bool {
	return !t.Before(day) && t.Before(day.Add(24*time.Hour))
}

// fakeInventory tracks item statuses and records every mutating call.
type fakeInventory struct {
	mu     sync.Mutex
	items  map[string]domain.InventoryStatus
	calls  []string
	setErr error
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{items: make(map[string]domain.InventoryStatus)}
}

func (f *fakeInventory) GetItem(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status, ok := f.items[itemID]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "inventory item", ID: itemID}
	}
	return &domain.InventoryItem{ID: itemID, Status: status}, nil
}

func (f *fakeInventory) SetItemStatus(ctx context.Context, itemID string, status domain.InventoryStatus, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("%s:%s", itemID, status))
	if f.setErr != nil {
		return f.setErr
	}
	f.items[itemID] = status
	return nil
}

func (f *fakeInventory) statusOf(itemID string) domain.InventoryStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[itemID]
}

func (f *fakeInventory) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// recordingDispatcher collects dispatched payloads instead of sending.
type recordingDispatcher struct {
	mu        sync.Mutex
	payloads  []domain.NotificationPayload
	summaries []domain.DailySummaryPayload
	notifyErr error
}

func (d *recordingDispatcher) Notify(ctx context.Context, rental *domain.Rental, payload domain.NotificationPayload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.notifyErr != nil {
		return d.notifyErr
	}
	d.payloads = append(d.payloads, payload)
	return nil
}

func (d *recordingDispatcher) NotifySummary(ctx context.Context, payload domain.DailySummaryPayload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.summaries = append(d.summaries, payload)
	return nil
}

func (d *recordingDispatcher) kinds() []domain.NotificationKind {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.NotificationKind, 0, len(d.payloads))
	for _, p := range d.payloads {
		out = append(out, p.Kind())
	}
	return out
}
