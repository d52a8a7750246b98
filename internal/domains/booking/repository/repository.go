package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ghumakad/infras/otel"
	"ghumakad/infras/postgres"
	"ghumakad/internal/domains/booking/model"
	"ghumakad/internal/domains/listing"
	"ghumakad/shared/constant"
	gDto "ghumakad/shared/dto"
	"ghumakad/shared/logger"
	gRepo "ghumakad/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrListingGone = errors.New("listing no longer exists")

// CapacityExceededError reports how many units were still available when a
// reservation was refused.
type CapacityExceededError struct {
	Available int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("capacity exceeded, %d available", e.Available)
}

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	SumOverlappingRooms(ctx context.Context, referenceID string, checkIn, checkOut time.Time) (int, error)
	SumGuestsOn(ctx context.Context, kind listing.Kind, referenceID string, date time.Time) (int, error)
	Reserve(ctx context.Context, booking model.Booking, lock listing.Lock) (int, error)
	StatsByReferences(ctx context.Context, kind listing.Kind, referenceIDs []string, since time.Time) (int, int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// SumOverlappingRooms totals the rooms held by confirmed hotel bookings whose
// half-open [check_in, check_out) range overlaps the requested one. Ranges
// that merely touch (one check-out equals the other check-in) do not overlap.
func (repo *repositoryImpl) SumOverlappingRooms(ctx context.Context, referenceID string, checkIn, checkOut time.Time) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".SumOverlappingRooms")
	defer scope.End()

	query := fmt.Sprintf(`SELECT COALESCE(SUM(%s), 0) FROM %s
		WHERE %s = $1 AND %s = $2 AND %s = $3 AND %s < $5 AND %s > $4`,
		model.FieldRooms, model.TableName,
		model.FieldType, model.FieldReferenceID, model.FieldStatus,
		model.FieldCheckIn, model.FieldCheckOut)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var booked int

	err := repo.db.Read.GetContext(ctx, &booked, query,
		listing.KindHotel, referenceID, constant.BookingStatusConfirmed, checkIn, checkOut)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to sum overlapping rooms: %w", err)
	}

	return booked, nil
}

// SumGuestsOn totals the guests of confirmed bookings that share the exact
// requested calendar date.
func (repo *repositoryImpl) SumGuestsOn(ctx context.Context, kind listing.Kind, referenceID string, date time.Time) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".SumGuestsOn")
	defer scope.End()

	query := fmt.Sprintf(`SELECT COALESCE(SUM(%s), 0) FROM %s
		WHERE %s = $1 AND %s = $2 AND %s = $3 AND %s::date = $4::date`,
		model.FieldGuests, model.TableName,
		model.FieldType, model.FieldReferenceID, model.FieldStatus, model.FieldDateTime)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var booked int

	err := repo.db.Read.GetContext(ctx, &booked, query,
		kind, referenceID, constant.BookingStatusConfirmed, date)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to sum guests on date: %w", err)
	}

	return booked, nil
}

// Reserve checks capacity and inserts the booking in one transaction. The
// listing row is locked FOR UPDATE and the booked sum is re-read under the
// lock, so two concurrent reservations for the same listing serialize and
// cannot oversell. Returns the units remaining after the reservation.
func (repo *repositoryImpl) Reserve(ctx context.Context, booking model.Booking, lock listing.Lock) (remaining int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".Reserve")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.Beginx()
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to begin reservation transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var capacity int

	lockQuery := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 FOR UPDATE", lock.CapacityColumn, lock.Table)
	scope.SetAttribute(constant.OtelQueryAttributeKey, lockQuery)

	if err = tx.GetContext(ctx, &capacity, lockQuery, lock.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrListingGone
		}

		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to lock listing row: %w", err)
	}

	booked, err := repo.sumBookedTx(ctx, tx, booking)
	if err != nil {
		return 0, err
	}

	units := booking.Units()
	if capacity-booked < units {
		err = &CapacityExceededError{Available: capacity - booked}

		return 0, err
	}

	if err = repo.InsertTx(ctx, tx, booking); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to commit reservation: %w", err)
	}

	return capacity - booked - units, nil
}

func (repo *repositoryImpl) sumBookedTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking) (int, error) {
	var (
		query string
		args  []any
	)

	if booking.Type == listing.KindHotel {
		query = fmt.Sprintf(`SELECT COALESCE(SUM(%s), 0) FROM %s
			WHERE %s = $1 AND %s = $2 AND %s = $3 AND %s < $5 AND %s > $4`,
			model.FieldRooms, model.TableName,
			model.FieldType, model.FieldReferenceID, model.FieldStatus,
			model.FieldCheckIn, model.FieldCheckOut)
		args = []any{booking.Type, booking.ReferenceID, constant.BookingStatusConfirmed, booking.CheckIn, booking.CheckOut}
	} else {
		query = fmt.Sprintf(`SELECT COALESCE(SUM(%s), 0) FROM %s
			WHERE %s = $1 AND %s = $2 AND %s = $3 AND %s::date = $4::date`,
			model.FieldGuests, model.TableName,
			model.FieldType, model.FieldReferenceID, model.FieldStatus, model.FieldDateTime)
		args = []any{booking.Type, booking.ReferenceID, constant.BookingStatusConfirmed, booking.DateTime}
	}

	var booked int
	if err := tx.GetContext(ctx, &booked, query, args...); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to sum booked units: %w", err)
	}

	return booked, nil
}

// StatsByReferences counts confirmed bookings and sums their totals across
// the given listings, optionally restricted to bookings created since a
// lookback cutoff (zero time means no cutoff).
func (repo *repositoryImpl) StatsByReferences(ctx context.Context, kind listing.Kind, referenceIDs []string, since time.Time) (int, int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".StatsByReferences")
	defer scope.End()

	if len(referenceIDs) == 0 {
		return 0, 0, nil
	}

	query := fmt.Sprintf(`SELECT COUNT(%s), COALESCE(SUM(%s), 0) FROM %s
		WHERE %s = $1 AND %s = $2 AND %s = ANY($3)`,
		model.FieldID, model.FieldTotalPrice, model.TableName,
		model.FieldType, model.FieldStatus, model.FieldReferenceID)
	args := []any{kind, constant.BookingStatusConfirmed, pq.Array(referenceIDs)}

	if !since.IsZero() {
		query += fmt.Sprintf(" AND %s >= $4", constant.FieldCreatedAt)
		args = append(args, since)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var (
		count    int
		earnings int64
	)

	if err := repo.db.Read.QueryRowxContext(ctx, query, args...).Scan(&count, &earnings); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, 0, fmt.Errorf("failed to aggregate booking stats: %w", err)
	}

	return count, earnings, nil
}
