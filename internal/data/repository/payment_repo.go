package repository

import (
	"context"
	"fmt"

	"dormitory-backend/internal/data/entity"
	"dormitory-backend/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error)
}

type paymentRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewPaymentRepository(db database.DBTX, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, amount, bill, comment, payed_at, received_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.Amount,
		payment.Bill,
		payment.Comment,
		payment.PayedAt,
		payment.ReceivedBy,
		payment.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("booking_id", payment.BookingID.String()),
			zap.String("amount", payment.Amount.String()),
		)
		return fmt.Errorf("create payment for booking %s: %w", payment.BookingID, err)
	}

	return nil
}

func (r *paymentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error) {
	query := `
		SELECT id, booking_id, amount, bill, comment, payed_at, received_by, created_at
		FROM payments
		WHERE booking_id = $1
		ORDER BY payed_at DESC, created_at DESC
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to get payments", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("find payments for booking %s: %w", bookingID, err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(
			&p.ID,
			&p.BookingID,
			&p.Amount,
			&p.Bill,
			&p.Comment,
			&p.PayedAt,
			&p.ReceivedBy,
			&p.CreatedAt,
		); err != nil {
			r.log.Error("Failed to scan payment row", zap.Error(err))
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, &p)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate payment rows: %w", err)
	}

	return payments, nil
}
