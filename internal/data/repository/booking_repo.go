package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dormitory-backend/internal/data/entity"
	"dormitory-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const activeBookingConstraint = "bookings_one_active_per_student"

// DebtorRow is one line of the debtors report.
type DebtorRow struct {
	BookingID  uuid.UUID
	Student    string
	Building   string
	RoomNumber string
	StartDate  time.Time
	EndDate    time.Time
	Status     entity.BookingStatus
	TotalPrice decimal.Decimal
	Payed      decimal.Decimal
}

func (d DebtorRow) Debt() decimal.Decimal {
	return d.TotalPrice.Sub(d.Payed)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	// FindByIDForUpdate locks the booking row until the surrounding tx ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindActiveByStudentID(ctx context.Context, studentID uuid.UUID) (*entity.Booking, error)
	Update(ctx context.Context, booking *entity.Booking) error

	// Reporting
	FindDebtors(ctx context.Context) ([]DebtorRow, error)
}

type bookingRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewBookingRepository(db database.DBTX, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, student_id, room_id, privilege_id, start_date, end_date,
		       total_price, payed, status, created_by, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.StudentID,
		&booking.RoomID,
		&booking.PrivilegeID,
		&booking.StartDate,
		&booking.EndDate,
		&booking.TotalPrice,
		&booking.Payed,
		&booking.Status,
		&booking.CreatedBy,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, student_id, room_id, privilege_id, start_date, end_date,
		                      total_price, payed, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.StudentID,
		booking.RoomID,
		booking.PrivilegeID,
		booking.StartDate,
		booking.EndDate,
		booking.TotalPrice,
		booking.Payed,
		booking.Status,
		booking.CreatedBy,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if isUniqueViolation(err, activeBookingConstraint) {
		return ErrActiveBookingExists
	}
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("student_id", booking.StudentID.String()),
			zap.String("room_id", booking.RoomID.String()),
		)
		return fmt.Errorf("create booking for student %s: %w", booking.StudentID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", id.String()))
		return nil, fmt.Errorf("find booking %s: %w", id, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock booking", zap.Error(err), zap.String("booking_id", id.String()))
		return nil, fmt.Errorf("lock booking %s: %w", id, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindActiveByStudentID(ctx context.Context, studentID uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE student_id = $1 AND status = $2`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, studentID, entity.BookingStatusActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active booking",
			zap.Error(err),
			zap.String("student_id", studentID.String()),
		)
		return nil, fmt.Errorf("find active booking for student %s: %w", studentID, err)
	}

	return booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET room_id = $2, end_date = $3, total_price = $4, payed = $5,
		    status = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.RoomID,
		booking.EndDate,
		booking.TotalPrice,
		booking.Payed,
		booking.Status,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("status", string(booking.Status)),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", booking.ID)
	}

	return nil
}

func (r *bookingRepository) FindDebtors(ctx context.Context) ([]DebtorRow, error) {
	query := `
		SELECT b.id, TRIM(s.name || ' ' || s.last_name), bl.name, rm.number,
		       b.start_date, b.end_date, b.status, b.total_price, b.payed
		FROM bookings b
		JOIN students s ON s.id = b.student_id
		JOIN rooms rm ON rm.id = b.room_id
		JOIN buildings bl ON bl.id = rm.building_id
		WHERE b.status <> $1 AND b.payed < b.total_price
		ORDER BY bl.name, rm.number, s.name
	`

	rows, err := r.db.Query(ctx, query, entity.BookingStatusCanceled)
	if err != nil {
		r.log.Error("Failed to query debtors", zap.Error(err))
		return nil, fmt.Errorf("find debtors: %w", err)
	}
	defer rows.Close()

	var debtors []DebtorRow
	for rows.Next() {
		var d DebtorRow
		if err := rows.Scan(
			&d.BookingID,
			&d.Student,
			&d.Building,
			&d.RoomNumber,
			&d.StartDate,
			&d.EndDate,
			&d.Status,
			&d.TotalPrice,
			&d.Payed,
		); err != nil {
			r.log.Error("Failed to scan debtor row", zap.Error(err))
			return nil, fmt.Errorf("scan debtor row: %w", err)
		}
		debtors = append(debtors, d)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate debtor rows: %w", err)
	}

	return debtors, nil
}
