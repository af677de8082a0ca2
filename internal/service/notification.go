package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"rentalhub-backend/internal/clock"
	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/repository"
)

// notificationDispatcher renders typed payloads into stored notification
// rows and admin emails. Each payload kind maps to subject and body by
// explicit field access; there is no template reflection anywhere.
type notificationDispatcher struct {
	noteRepo   repository.NotificationRepository
	emailSvc   EmailService
	adminEmail string
	clock      clock.Clock
}

func NewNotificationDispatcher(noteRepo repository.NotificationRepository, emailSvc EmailService, adminEmail string, clk clock.Clock) NotificationDispatcher {
	return &notificationDispatcher{
		noteRepo:   noteRepo,
		emailSvc:   emailSvc,
		adminEmail: adminEmail,
		clock:      clk,
	}
}

func (d *notificationDispatcher) Notify(ctx context.Context, rental *domain.Rental, payload domain.NotificationPayload) error {
	title, message := renderPayload(payload)

	note := &domain.Notification{
		ID:       uuid.NewString(),
		RentalID: rental.ID,
		Kind:     payload.Kind(),
		Title:    title,
		Message:  message,
		Attributes: map[string]string{
			"rental_number": rental.RentalNumber,
			"customer_id":   rental.CustomerID,
			"status":        string(rental.Status),
		},
		CreatedOn: d.clock.Now(),
	}
	if err := d.noteRepo.Create(ctx, note); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	if err := d.emailSvc.SendAdminNotification(ctx, d.adminEmail, title, message); err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}
	return nil
}

func (d *notificationDispatcher) NotifySummary(ctx context.Context, payload domain.DailySummaryPayload) error {
	title, message := renderPayload(payload)

	note := &domain.Notification{
		ID:      uuid.NewString(),
		Kind:    payload.Kind(),
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"date":           payload.Date.Format("2006-01-02"),
			"returns_due":    fmt.Sprintf("%d", payload.ReturnsDue),
			"deliveries_due": fmt.Sprintf("%d", payload.DeliveriesDue),
		},
		CreatedOn: d.clock.Now(),
	}
	if err := d.noteRepo.Create(ctx, note); err != nil {
		return fmt.Errorf("store summary notification: %w", err)
	}

	if err := d.emailSvc.SendAdminNotification(ctx, d.adminEmail, title, message); err != nil {
		return fmt.Errorf("send summary email: %w", err)
	}
	return nil
}

func renderPayload(payload domain.NotificationPayload) (title, message string) {
	switch p := payload.(type) {
	case domain.StatusChangePayload:
		switch p.NotificationKind {
		case domain.NotificationRentalRequested:
			title = fmt.Sprintf("New Rental Request %s", p.RentalNumber)
			message = fmt.Sprintf("Rental %s was requested by customer %s.", p.RentalNumber, p.CustomerID)
		case domain.NotificationRentalBooked:
			title = fmt.Sprintf("Rental Booked %s", p.RentalNumber)
			message = fmt.Sprintf("Rental %s is booked; the inventory item is reserved.", p.RentalNumber)
		case domain.NotificationRentalPickedUp:
			title = fmt.Sprintf("Rental Picked Up %s", p.RentalNumber)
			message = fmt.Sprintf("Rental %s was picked up by customer %s.", p.RentalNumber, p.CustomerID)
		case domain.NotificationRentalReturned:
			title = fmt.Sprintf("Rental Returned %s", p.RentalNumber)
			message = fmt.Sprintf("Rental %s was returned; the inventory item is available again.", p.RentalNumber)
		case domain.NotificationRentalOverdue:
			title = fmt.Sprintf("Rental Overdue %s", p.RentalNumber)
			message = fmt.Sprintf("Rental %s is past its end date and not returned.", p.RentalNumber)
		case domain.NotificationRentalCancelled:
			title = fmt.Sprintf("Rental Cancelled %s", p.RentalNumber)
			message = fmt.Sprintf("Rental %s was cancelled.", p.RentalNumber)
		default:
			title = fmt.Sprintf("Rental Update %s", p.RentalNumber)
			message = fmt.Sprintf("Rental %s changed status to %s.", p.RentalNumber, p.NewStatus)
		}
		if p.Notes != "" {
			message += "\n\nNotes: " + p.Notes
		}
	case domain.DueTodayPayload:
		if p.NotificationKind == domain.NotificationDeliveryDueToday {
			title = fmt.Sprintf("Delivery Due Today %s", p.RentalNumber)
			message = fmt.Sprintf("Rental %s for customer %s starts today (%s).",
				p.RentalNumber, p.CustomerID, p.DueDate.Format("2006-01-02"))
		} else {
			title = fmt.Sprintf("Return Due Today %s", p.RentalNumber)
			message = fmt.Sprintf("Rental %s for customer %s is due back today (%s).",
				p.RentalNumber, p.CustomerID, p.DueDate.Format("2006-01-02"))
		}
	case domain.DailySummaryPayload:
		title = fmt.Sprintf("Rental Summary for %s", p.Date.Format("2006-01-02"))
		message = fmt.Sprintf("Returns due today: %d\nDeliveries due today: %d\n\nDetails: %s",
			p.ReturnsDue, p.DeliveriesDue, p.AdminDeepLink)
	default:
		title = string(payload.Kind())
		message = string(payload.Kind())
	}
	return title, message
}
