package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"dormitory-backend/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBooking() *entity.Booking {
	now := time.Now()
	b := &entity.Booking{
		StudentID:  uuid.New(),
		RoomID:     uuid.New(),
		StartDate:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		TotalPrice: decimal.NewFromInt(600),
		Payed:      decimal.Zero,
		Status:     entity.BookingStatusActive,
		CreatedBy:  uuid.New(),
	}
	b.ID = uuid.New()
	b.CreatedAt = now
	b.UpdatedAt = now
	return b
}

func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestBookingRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewBookingRepository(mock, zap.NewNop())

	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(anyArgs(12)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), newBooking()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_Create_SecondActiveBooking(t *testing.T) {
	mock := newMockPool(t)
	repo := NewBookingRepository(mock, zap.NewNop())

	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(anyArgs(12)...).
		WillReturnError(&pgconn.PgError{
			Code:           "23505",
			ConstraintName: "bookings_one_active_per_student",
		})

	err := repo.Create(context.Background(), newBooking())

	assert.ErrorIs(t, err, ErrActiveBookingExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_Create_OtherUniqueViolation(t *testing.T) {
	mock := newMockPool(t)
	repo := NewBookingRepository(mock, zap.NewNop())

	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(anyArgs(12)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "bookings_pkey"})

	err := repo.Create(context.Background(), newBooking())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrActiveBookingExists)
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
}

func TestBookingRepository_Update_NoRows(t *testing.T) {
	mock := newMockPool(t)
	repo := NewBookingRepository(mock, zap.NewNop())
	booking := newBooking()

	mock.ExpectExec(`UPDATE bookings`).
		WithArgs(anyArgs(7)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.Error(t, repo.Update(context.Background(), booking))
	assert.NoError(t, mock.ExpectationsWereMet())
}
