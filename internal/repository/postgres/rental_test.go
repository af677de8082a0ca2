package postgres

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalhub-backend/internal/domain"
)

var repoNow = time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC)

func newMockRepo(t *testing.T) (*rentalRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &rentalRepository{db: db}, mock
}

func rentalRowColumns() []string {
	return []string{
		"id", "rental_number", "product_id", "inventory_item_id", "customer_id", "shipping_address_id",
		"start_date", "end_date", "actual_start_date", "actual_return_date",
		"rental_price_cents", "daily_rate_cents", "security_deposit_cents", "late_fee_cents", "damage_fee_cents",
		"status", "notes", "return_condition_notes", "version", "created_on", "updated_on",
	}
}

func sampleRentalRow(id, number string, status domain.RentalStatus) []driver.Value {
	return []driver.Value{
		id, number, "p-1", "inv-1", "c-1", "",
		repoNow.AddDate(0, 0, 1), repoNow.AddDate(0, 0, 5), nil, nil,
		int64(10000), int64(2500), int64(5000), int64(0), int64(0),
		string(status), "", "", int64(1), repoNow, repoNow,
	}
}

func TestRentalRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	rt := &domain.Rental{
		ID:              "r-1",
		ProductID:       "p-1",
		InventoryItemID: "inv-1",
		CustomerID:      "c-1",
		StartDate:       repoNow.AddDate(0, 0, 1),
		EndDate:         repoNow.AddDate(0, 0, 5),
		Status:          domain.RentalStatusPending,
		Version:         1,
		CreatedOn:       repoNow,
		UpdatedOn:       repoNow,
	}
	initial := &domain.TimelineEntry{
		ID:        "t-1",
		RentalID:  "r-1",
		Status:    domain.RentalStatusPending,
		CreatedOn: repoNow,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) \+ 1 FROM rentals`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectExec(`INSERT INTO rentals`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO rental_timeline`).
		WithArgs("t-1", "r-1", string(domain.RentalStatusPending), "", repoNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(ctx, rt, initial)
	require.NoError(t, err)
	assert.Equal(t, "RNT-20250801-00003", rt.RentalNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_GetByID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		rows := sqlmock.NewRows(rentalRowColumns()).
			AddRow(sampleRentalRow("r-1", "RNT-20250801-00001", domain.RentalStatusBooked)...)
		mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE id = \$1`).
			WithArgs("r-1").
			WillReturnRows(rows)

		rt, err := repo.GetByID(context.Background(), "r-1")
		require.NoError(t, err)
		assert.Equal(t, "RNT-20250801-00001", rt.RentalNumber)
		assert.Equal(t, domain.RentalStatusBooked, rt.Status)
		assert.Equal(t, int64(1), rt.Version)
		assert.Nil(t, rt.ActualStartDate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE id = \$1`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(rentalRowColumns()))

		rt, err := repo.GetByID(context.Background(), "missing")
		assert.Nil(t, rt)
		assert.True(t, domain.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalRepository_SaveTransition(t *testing.T) {
	transitioned := func() (*domain.Rental, *domain.TimelineEntry) {
		rt := &domain.Rental{
			ID:        "r-1",
			Status:    domain.RentalStatusBooked,
			Notes:     "[2025-08-01 09:30] confirmed",
			Version:   1,
			UpdatedOn: repoNow,
		}
		entry := &domain.TimelineEntry{
			ID:        "t-2",
			RentalID:  "r-1",
			Status:    domain.RentalStatusBooked,
			Notes:     "confirmed",
			CreatedOn: repoNow,
		}
		return rt, entry
	}

	t.Run("Success bumps the version", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		rt, entry := transitioned()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE rentals`).
			WithArgs(string(domain.RentalStatusBooked), nil, nil,
				rt.Notes, "", repoNow, "r-1", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO rental_timeline`).
			WithArgs("t-2", "r-1", string(domain.RentalStatusBooked), "confirmed", repoNow).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.SaveTransition(context.Background(), rt, entry)
		require.NoError(t, err)
		assert.Equal(t, int64(2), rt.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Stale version yields conflict", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		rt, entry := transitioned()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE rentals`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SaveTransition(context.Background(), rt, entry)
		assert.ErrorIs(t, err, domain.ErrVersionConflict)
		assert.Equal(t, int64(1), rt.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalRepository_ListStalePending(t *testing.T) {
	repo, mock := newMockRepo(t)
	cutoff := repoNow.AddDate(0, 0, -10)

	rows := sqlmock.NewRows(rentalRowColumns()).
		AddRow(sampleRentalRow("r-1", "RNT-20250715-00001", domain.RentalStatusPending)...).
		AddRow(sampleRentalRow("r-2", "RNT-20250716-00001", domain.RentalStatusPending)...)
	mock.ExpectQuery(`SELECT (.+) FROM rentals\s+WHERE status = \$1 AND created_on < \$2`).
		WithArgs(string(domain.RentalStatusPending), cutoff).
		WillReturnRows(rows)

	rentals, err := repo.ListStalePending(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, rentals, 2)
	assert.Equal(t, "RNT-20250715-00001", rentals[0].RentalNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_ListReturnsDueOn(t *testing.T) {
	repo, mock := newMockRepo(t)
	day := repoNow.Truncate(24 * time.Hour)

	rows := sqlmock.NewRows(rentalRowColumns()).
		AddRow(sampleRentalRow("r-1", "RNT-20250728-00001", domain.RentalStatusPickedUp)...)
	mock.ExpectQuery(`SELECT (.+) FROM rentals\s+WHERE end_date >= \$1 AND end_date < \$2 AND status = ANY\(\$3\)`).
		WillReturnRows(rows)

	rentals, err := repo.ListReturnsDueOn(context.Background(), repoNow,
		[]domain.RentalStatus{domain.RentalStatusPickedUp})
	require.NoError(t, err)
	require.Len(t, rentals, 1)
	assert.Equal(t, domain.RentalStatusPickedUp, rentals[0].Status)
	assert.True(t, rentals[0].EndDate.After(day) || rentals[0].EndDate.Equal(day))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_ListTimeline(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "rental_id", "status", "notes", "created_on"}).
		AddRow("t-1", "r-1", string(domain.RentalStatusPending), "", repoNow.AddDate(0, 0, -2)).
		AddRow("t-2", "r-1", string(domain.RentalStatusBooked), "confirmed", repoNow)
	mock.ExpectQuery(`SELECT (.+) FROM rental_timeline WHERE rental_id = \$1`).
		WithArgs("r-1").
		WillReturnRows(rows)

	entries, err := repo.ListTimeline(context.Background(), "r-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.RentalStatusPending, entries[0].Status)
	assert.Equal(t, domain.RentalStatusBooked, entries[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
