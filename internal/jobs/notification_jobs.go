package jobs

import (
	"context"
	"time"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/logger"
)

// alertableReturnStatuses are the statuses a rental can hold while still
// owing a return: anything not terminal.
var alertableReturnStatuses = []domain.RentalStatus{
	domain.RentalStatusPending,
	domain.RentalStatusBooked,
	domain.RentalStatusPickedUp,
	domain.RentalStatusOverdue,
}

// SendReturnDeliveryAlerts sends one notification per rental due back
// today and per delivery starting today.
func (jr *JobRunner) SendReturnDeliveryAlerts() {
	jr.runWithRecovery("SendReturnDeliveryAlerts", func() {
		ctx := context.Background()
		today := jr.clock.Now().Truncate(24 * time.Hour)

		returns, err := jr.rentalRepo.ListReturnsDueOn(ctx, today, alertableReturnStatuses)
		if err != nil {
			logger.Error("Failed to list returns due today", "error", err)
			return
		}
		deliveries, err := jr.rentalRepo.ListDeliveriesDueOn(ctx, today)
		if err != nil {
			logger.Error("Failed to list deliveries due today", "error", err)
			return
		}

		sent, failed := 0, 0
		for i := range returns {
			rt := &returns[i]
			err := jr.dispatcher.Notify(ctx, rt, domain.DueTodayPayload{
				NotificationKind: domain.NotificationReturnDueToday,
				RentalNumber:     rt.RentalNumber,
				CustomerID:       rt.CustomerID,
				DueDate:          rt.EndDate,
			})
			if err != nil {
				failed++
				logger.Error("Failed to send return-due alert", "rental_id", rt.ID, "error", err)
				continue
			}
			sent++
		}
		for i := range deliveries {
			rt := &deliveries[i]
			err := jr.dispatcher.Notify(ctx, rt, domain.DueTodayPayload{
				NotificationKind: domain.NotificationDeliveryDueToday,
				RentalNumber:     rt.RentalNumber,
				CustomerID:       rt.CustomerID,
				DueDate:          rt.StartDate,
			})
			if err != nil {
				failed++
				logger.Error("Failed to send delivery-due alert", "rental_id", rt.ID, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Return/delivery alerts sent",
			"returns_due", len(returns),
			"deliveries_due", len(deliveries),
			"sent", sent,
			"failed", failed)
	})
}

// SendReturnDeliverySummary sends a single aggregate notification with
// today's counts; returns are restricted to rentals already picked up.
func (jr *JobRunner) SendReturnDeliverySummary() {
	jr.runWithRecovery("SendReturnDeliverySummary", func() {
		ctx := context.Background()
		today := jr.clock.Now().Truncate(24 * time.Hour)

		returns, err := jr.rentalRepo.ListReturnsDueOn(ctx, today, []domain.RentalStatus{domain.RentalStatusPickedUp})
		if err != nil {
			logger.Error("Failed to list returns for summary", "error", err)
			return
		}
		deliveries, err := jr.rentalRepo.ListDeliveriesDueOn(ctx, today)
		if err != nil {
			logger.Error("Failed to list deliveries for summary", "error", err)
			return
		}

		payload := domain.DailySummaryPayload{
			Date:          today,
			ReturnsDue:    len(returns),
			DeliveriesDue: len(deliveries),
			AdminDeepLink: jr.config.Rental.AdminBaseURL + "/rentals?due=" + today.Format("2006-01-02"),
		}
		if err := jr.dispatcher.NotifySummary(ctx, payload); err != nil {
			logger.Error("Failed to send daily summary", "error", err)
			return
		}

		logger.Info("Daily summary sent",
			"returns_due", payload.ReturnsDue,
			"deliveries_due", payload.DeliveriesDue)
	})
}
