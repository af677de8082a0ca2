package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"rentalhub-backend/internal/domain"
)

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rental *domain.Rental, initial *domain.TimelineEntry) error {
	args := m.Called(ctx, rental, initial)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) SaveTransition(ctx context.Context, rental *domain.Rental, entry *domain.TimelineEntry) error {
	args := m.Called(ctx, rental, entry)
	return args.Error(0)
}
func (m *MockRentalRepo) ListStalePending(ctx context.Context, createdBefore time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, createdBefore)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListOverdueAsOf(ctx context.Context, today time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, today)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListReturnsDueOn(ctx context.Context, day time.Time, statuses []domain.RentalStatus) ([]domain.Rental, error) {
	args := m.Called(ctx, day, statuses)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListDeliveriesDueOn(ctx context.Context, day time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, day)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListTimeline(ctx context.Context, rentalID string) ([]domain.TimelineEntry, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.TimelineEntry), args.Error(1)
}

// MockInventoryClient
type MockInventoryClient struct {
	mock.Mock
}

func (m *MockInventoryClient) GetItem(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}
func (m *MockInventoryClient) SetItemStatus(ctx context.Context, itemID string, status domain.InventoryStatus, reason string) error {
	args := m.Called(ctx, itemID, status, reason)
	return args.Error(0)
}

// MockDispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Notify(ctx context.Context, rental *domain.Rental, payload domain.NotificationPayload) error {
	args := m.Called(ctx, rental, payload)
	return args.Error(0)
}
func (m *MockDispatcher) NotifySummary(ctx context.Context, payload domain.DailySummaryPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendAdminNotification(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}
