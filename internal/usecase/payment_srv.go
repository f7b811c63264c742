package usecase

import (
	"context"
	"time"

	"dormitory-backend/internal/data/entity"
	"dormitory-backend/internal/data/repository"
	"dormitory-backend/pkg/metrics"
	"dormitory-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PaymentInput struct {
	BookingID uuid.UUID
	Amount    decimal.Decimal
	Bill      string
	Comment   *string
	// PayedAt defaults to the time the payment is recorded.
	PayedAt time.Time
}

// PaymentLedger lists the payments of one booking, newest first.
type PaymentLedger struct {
	Payments []*entity.Payment
	Total    decimal.Decimal
}

type PaymentService interface {
	RecordPayment(ctx context.Context, actor entity.Actor, in PaymentInput) (*entity.Payment, error)
	ListPayments(ctx context.Context, actor entity.Actor, bookingID uuid.UUID) (*PaymentLedger, error)
}

type paymentService struct {
	tx      *txRunner
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewPaymentService(store Store, config *utils.Config, m *metrics.Metrics, log *zap.Logger) PaymentService {
	log = log.With(zap.String("service", "payment"))
	return &paymentService{
		tx:      newTxRunner(store, config.Storage, log),
		metrics: m,
		log:     log,
	}
}

func (s *paymentService) RecordPayment(ctx context.Context, actor entity.Actor, in PaymentInput) (*entity.Payment, error) {
	if err := authorize(actor, staffRoles...); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		s.metrics.Rejected("payment", rejectionReason(ErrNonPositiveAmount))
		return nil, ErrNonPositiveAmount
	}
	if !fitsMoneyColumn(in.Amount) {
		s.metrics.Rejected("payment", rejectionReason(ErrInvalidAmount))
		return nil, ErrInvalidAmount
	}

	now := time.Now()
	payedAt := in.PayedAt
	if payedAt.IsZero() {
		payedAt = now
	}

	var payment *entity.Payment

	err := s.tx.run(ctx, "payment", func(tx *repository.Repository) error {
		booking, err := tx.Booking.FindByIDForUpdate(ctx, in.BookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return ErrBookingNotFound
		}

		payed := booking.Payed.Add(in.Amount)
		if payed.GreaterThan(booking.TotalPrice) {
			return &OverpaymentError{Excess: payed.Sub(booking.TotalPrice)}
		}

		payment = &entity.Payment{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			BookingID:  booking.ID,
			Amount:     in.Amount,
			Bill:       in.Bill,
			Comment:    in.Comment,
			PayedAt:    payedAt,
			ReceivedBy: actor.UserID,
		}
		if err := tx.Payment.Create(ctx, payment); err != nil {
			return err
		}

		booking.Payed = payed
		booking.UpdatedAt = now
		return tx.Booking.Update(ctx, booking)
	})
	if err != nil {
		s.metrics.Rejected("payment", rejectionReason(err))
		if IsDomainError(err) {
			s.log.Warn("Payment rejected",
				zap.Error(err),
				zap.String("booking_id", in.BookingID.String()),
				zap.String("amount", in.Amount.String()),
			)
		} else {
			s.log.Error("Failed to record payment",
				zap.Error(err),
				zap.String("booking_id", in.BookingID.String()),
			)
		}
		return nil, err
	}

	amount, _ := payment.Amount.Float64()
	s.metrics.Payment(amount)
	s.log.Info("Payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", in.BookingID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("bill", payment.Bill),
		zap.String("actor_id", actor.UserID.String()),
	)

	return payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, actor entity.Actor, bookingID uuid.UUID) (*PaymentLedger, error) {
	if err := authorize(actor, staffRoles...); err != nil {
		return nil, err
	}

	ledger := &PaymentLedger{Total: decimal.Zero}

	err := s.tx.run(ctx, "list_payments", func(tx *repository.Repository) error {
		booking, err := tx.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return ErrBookingNotFound
		}

		payments, err := tx.Payment.FindByBookingID(ctx, bookingID)
		if err != nil {
			return err
		}

		ledger.Payments = payments
		ledger.Total = decimal.Zero
		for _, p := range payments {
			ledger.Total = ledger.Total.Add(p.Amount)
		}
		return nil
	})
	if err != nil {
		if !IsDomainError(err) {
			s.log.Error("Failed to list payments", zap.Error(err), zap.String("booking_id", bookingID.String()))
		}
		return nil, err
	}

	return ledger, nil
}

// maxMoney is the exclusive upper bound of a NUMERIC(12,2) column.
var maxMoney = decimal.New(1, 10)

// fitsMoneyColumn reports whether amount is stored exactly in NUMERIC(12,2).
func fitsMoneyColumn(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(2)) && amount.LessThan(maxMoney)
}
