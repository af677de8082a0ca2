package jobs

import (
	"context"
	"fmt"
	"time"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/logger"
	"rentalhub-backend/internal/service"
)

// AutoCancelStalePending cancels rentals that sat in PENDING for longer
// than the configured threshold without ever being booked. A failure on
// one rental does not abort the batch.
func (jr *JobRunner) AutoCancelStalePending() {
	jr.runWithRecovery("AutoCancelStalePending", func() {
		ctx := context.Background()

		days := jr.config.Rental.StalePendingDays
		cutoff := jr.clock.Now().AddDate(0, 0, -days)

		rentals, err := jr.rentalRepo.ListStalePending(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stale pending rentals", "error", err)
			return
		}

		note := fmt.Sprintf("Auto-cancelled by system after %d days without confirmation", days)
		cancelled, failed := 0, 0
		for _, rt := range rentals {
			_, err := jr.lifecycle.ApplyTransition(ctx, rt.ID, domain.RentalStatusCancelled, service.TransitionInput{Notes: note})
			if err != nil {
				failed++
				logger.Error("Failed to auto-cancel stale rental",
					"rental_id", rt.ID,
					"rental_number", rt.RentalNumber,
					"error", err)
				continue
			}
			cancelled++
			logger.Debug("Auto-cancelled stale rental",
				"rental_id", rt.ID,
				"rental_number", rt.RentalNumber,
				"created_on", rt.CreatedOn)
		}

		logger.Info("Stale pending rentals processed",
			"matched", len(rentals),
			"cancelled", cancelled,
			"failed", failed,
			"threshold_days", days)
	})
}

// MarkOverdueRentals moves picked-up rentals past their end date to
// OVERDUE. Idempotent: an OVERDUE rental no longer matches the scan.
func (jr *JobRunner) MarkOverdueRentals() {
	jr.runWithRecovery("MarkOverdueRentals", func() {
		ctx := context.Background()

		today := jr.clock.Now().Truncate(24 * time.Hour)
		rentals, err := jr.rentalRepo.ListOverdueAsOf(ctx, today)
		if err != nil {
			logger.Error("Failed to list overdue candidates", "error", err)
			return
		}

		marked, failed := 0, 0
		for _, rt := range rentals {
			_, err := jr.lifecycle.ApplyTransition(ctx, rt.ID, domain.RentalStatusOverdue, service.TransitionInput{
				Notes: "Marked overdue by system: rental past end date and not returned",
			})
			if err != nil {
				failed++
				logger.Error("Failed to mark rental overdue",
					"rental_id", rt.ID,
					"rental_number", rt.RentalNumber,
					"error", err)
				continue
			}
			marked++
			logger.Debug("Marked rental as overdue",
				"rental_id", rt.ID,
				"rental_number", rt.RentalNumber,
				"end_date", rt.EndDate.Format("2006-01-02"))
		}

		logger.Info("Overdue rentals processed",
			"matched", len(rentals),
			"marked", marked,
			"failed", failed)
	})
}
