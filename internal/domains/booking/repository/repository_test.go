package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghumakad/infras/otel/mocks"
	"ghumakad/infras/postgres"
	"ghumakad/internal/domains/booking/model"
	"ghumakad/internal/domains/booking/repository"
	"ghumakad/internal/domains/listing"
	"ghumakad/shared/constant"
)

// The overlap predicate is pinned literally: confirmed bookings are counted
// only when booked.check_in < requested.check_out AND booked.check_out >
// requested.check_in, the half-open rule that leaves touching ranges
// (one check-out equal to the other check-in) out of the sum.
const overlapClause = `AND check_in < $5 AND check_out > $4`

func newMockRepository(t *testing.T) (repository.Booking, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres")
	conn := &postgres.Connection{Read: db, Write: db}

	return repository.New(conn, mocks.NewOtel()), mock
}

func TestBookingRepository_SumOverlappingRooms(t *testing.T) {
	repo, mock := newMockRepository(t)

	checkIn := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(overlapClause)).
		WithArgs("hotel", "hotel-id-123", constant.BookingStatusConfirmed, checkIn, checkOut).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))

	booked, err := repo.SumOverlappingRooms(context.Background(), "hotel-id-123", checkIn, checkOut)

	assert.NoError(t, err)
	assert.Equal(t, 3, booked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_SumGuestsOn(t *testing.T) {
	repo, mock := newMockRepository(t)

	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`date_time::date = $4::date`)).
		WithArgs("service", "service-id-123", constant.BookingStatusConfirmed, date).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(8))

	booked, err := repo.SumGuestsOn(context.Background(), listing.KindService, "service-id-123", date)

	assert.NoError(t, err)
	assert.Equal(t, 8, booked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_Reserve(t *testing.T) {
	checkIn := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)

	booking := model.Booking{
		ID:          "booking-id-123",
		UserID:      "user-id-123",
		Type:        listing.KindHotel,
		ReferenceID: "hotel-id-123",
		CheckIn:     &checkIn,
		CheckOut:    &checkOut,
		Guests:      4,
		Rooms:       3,
		TotalPrice:  9000,
		Status:      constant.BookingStatusConfirmed,
	}

	lock := listing.Lock{
		Kind:           listing.KindHotel,
		Table:          "hotels",
		CapacityColumn: "available_rooms",
		ID:             "hotel-id-123",
	}

	lockQuery := regexp.QuoteMeta(`SELECT available_rooms FROM hotels WHERE id = $1 FOR UPDATE`)

	t.Run("reserves under the listing lock", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		smaller := booking
		smaller.Rooms = 2

		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs("hotel-id-123").
			WillReturnRows(sqlmock.NewRows([]string{"available_rooms"}).AddRow(5))
		mock.ExpectQuery(regexp.QuoteMeta(overlapClause)).
			WithArgs("hotel", "hotel-id-123", constant.BookingStatusConfirmed, checkIn, checkOut).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))
		mock.ExpectExec("INSERT INTO bookings").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		remaining, err := repo.Reserve(context.Background(), smaller, lock)

		assert.NoError(t, err)
		assert.Equal(t, 0, remaining)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("refuses when booked rooms leave too few", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs("hotel-id-123").
			WillReturnRows(sqlmock.NewRows([]string{"available_rooms"}).AddRow(5))
		mock.ExpectQuery(regexp.QuoteMeta(overlapClause)).
			WithArgs("hotel", "hotel-id-123", constant.BookingStatusConfirmed, checkIn, checkOut).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))
		mock.ExpectRollback()

		_, err := repo.Reserve(context.Background(), booking, lock)

		var capacityErr *repository.CapacityExceededError
		assert.ErrorAs(t, err, &capacityErr)
		assert.Equal(t, 2, capacityErr.Available)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a vanished listing", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs("hotel-id-123").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := repo.Reserve(context.Background(), booking, lock)

		assert.True(t, errors.Is(err, repository.ErrListingGone))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
