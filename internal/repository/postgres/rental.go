package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/repository"
)

const rentalColumns = `id, rental_number, product_id, inventory_item_id, customer_id, shipping_address_id,
	       start_date, end_date, actual_start_date, actual_return_date,
	       rental_price_cents, daily_rate_cents, security_deposit_cents, late_fee_cents, damage_fee_cents,
	       status, notes, return_condition_notes, version, created_on, updated_on`

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental, initial *domain.TimelineEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create rental: %w", err)
	}
	defer tx.Rollback()

	// Rental numbers are sequential per calendar day. The count query
	// runs inside the same transaction as the insert.
	day := rt.CreatedOn.Truncate(24 * time.Hour)
	var seq int64
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) + 1 FROM rentals WHERE created_on >= $1 AND created_on < $2`,
		day, day.Add(24*time.Hour),
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("next rental number: %w", err)
	}
	rt.RentalNumber = fmt.Sprintf("RNT-%s-%05d", day.Format("20060102"), seq)

	query := `INSERT INTO rentals (` + rentalColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err = tx.ExecContext(ctx, query,
		rt.ID, rt.RentalNumber, rt.ProductID, rt.InventoryItemID, rt.CustomerID, rt.ShippingAddressID,
		rt.StartDate, rt.EndDate, rt.ActualStartDate, rt.ActualReturnDate,
		rt.RentalPriceCents, rt.DailyRateCents, rt.SecurityDepositCents, rt.LateFeeCents, rt.DamageFeeCents,
		rt.Status, rt.Notes, rt.ReturnConditionNotes, rt.Version, rt.CreatedOn, rt.UpdatedOn,
	)
	if err != nil {
		return fmt.Errorf("insert rental: %w", err)
	}

	if err := insertTimelineEntry(ctx, tx, initial); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "rental", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) SaveTransition(ctx context.Context, rt *domain.Rental, entry *domain.TimelineEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transition: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE rentals
	          SET status = $1, actual_start_date = $2, actual_return_date = $3,
	              notes = $4, return_condition_notes = $5,
	              version = version + 1, updated_on = $6
	          WHERE id = $7 AND version = $8`
	result, err := tx.ExecContext(ctx, query,
		rt.Status, rt.ActualStartDate, rt.ActualReturnDate,
		rt.Notes, rt.ReturnConditionNotes,
		rt.UpdatedOn, rt.ID, rt.Version,
	)
	if err != nil {
		return fmt.Errorf("update rental %s: %w", rt.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrVersionConflict
	}

	if err := insertTimelineEntry(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	rt.Version++
	return nil
}

func (r *rentalRepository) ListStalePending(ctx context.Context, createdBefore time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE status = $1 AND created_on < $2 ORDER BY created_on`
	return r.list(ctx, query, domain.RentalStatusPending, createdBefore)
}

func (r *rentalRepository) ListOverdueAsOf(ctx context.Context, today time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE status = $1 AND end_date < $2 ORDER BY end_date`
	return r.list(ctx, query, domain.RentalStatusPickedUp, today.Truncate(24*time.Hour))
}

func (r *rentalRepository) ListReturnsDueOn(ctx context.Context, day time.Time, statuses []domain.RentalStatus) ([]domain.Rental, error) {
	day = day.Truncate(24 * time.Hour)
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE end_date >= $1 AND end_date < $2 AND status = ANY($3) ORDER BY rental_number`
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	return r.list(ctx, query, day, day.Add(24*time.Hour), pq.Array(values))
}

func (r *rentalRepository) ListDeliveriesDueOn(ctx context.Context, day time.Time) ([]domain.Rental, error) {
	day = day.Truncate(24 * time.Hour)
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE start_date >= $1 AND start_date < $2 AND status = $3 ORDER BY rental_number`
	return r.list(ctx, query, day, day.Add(24*time.Hour), domain.RentalStatusBooked)
}

func (r *rentalRepository) ListTimeline(ctx context.Context, rentalID string) ([]domain.TimelineEntry, error) {
	query := `SELECT id, rental_id, status, notes, created_on
	          FROM rental_timeline WHERE rental_id = $1 ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.TimelineEntry
	for rows.Next() {
		var e domain.TimelineEntry
		if err := rows.Scan(&e.ID, &e.RentalID, &e.Status, &e.Notes, &e.CreatedOn); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *rentalRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Rental, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

// Timeline entries are insert-only; there is no update or delete path.
func insertTimelineEntry(ctx context.Context, tx *sql.Tx, e *domain.TimelineEntry) error {
	query := `INSERT INTO rental_timeline (id, rental_id, status, notes, created_on)
	          VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.ExecContext(ctx, query, e.ID, e.RentalID, e.Status, e.Notes, e.CreatedOn); err != nil {
		return fmt.Errorf("insert timeline entry: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(
		&rt.ID, &rt.RentalNumber, &rt.ProductID, &rt.InventoryItemID, &rt.CustomerID, &rt.ShippingAddressID,
		&rt.StartDate, &rt.EndDate, &rt.ActualStartDate, &rt.ActualReturnDate,
		&rt.RentalPriceCents, &rt.DailyRateCents, &rt.SecurityDepositCents, &rt.LateFeeCents, &rt.DamageFeeCents,
		&rt.Status, &rt.Notes, &rt.ReturnConditionNotes, &rt.Version, &rt.CreatedOn, &rt.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return rt, nil
}
