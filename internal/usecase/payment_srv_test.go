package usecase

import (
	"context"
	"errors"
	"testing"

	"dormitory-backend/internal/data/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func preparedBooking(t *testing.T, store *memStore, svc *Service, total, payed int64) entity.Booking {
	t.Helper()
	room := store.addRoom("900", 4, 0, entity.GenderUnset)
	b := seat(t, svc, store.addStudent("Aida", entity.GenderFemale, entity.BillingMonthly, "100"), room, "2024-01-15")

	booking := store.booking(b.ID)
	booking.TotalPrice = decimal.NewFromInt(total)
	booking.Payed = decimal.NewFromInt(payed)
	store.setBooking(booking)
	return booking
}

func TestPaymentService_RecordPayment(t *testing.T) {
	store, svc := newTestServices(t)
	room := store.addRoom("801", 2, 0, entity.GenderUnset)
	b := seat(t, svc, store.addStudent("Aida", entity.GenderFemale, entity.BillingMonthly, "100"), room, "2024-01-15")
	comment := "first installment"

	payment, err := svc.Payment.RecordPayment(context.Background(), managerActor, PaymentInput{
		BookingID: b.ID,
		Amount:    decimal.RequireFromString("250.50"),
		Bill:      "KZ-0001",
		Comment:   &comment,
	})
	require.NoError(t, err)

	assert.Equal(t, b.ID, payment.BookingID)
	assert.Equal(t, managerActor.UserID, payment.ReceivedBy)
	assert.False(t, payment.PayedAt.IsZero())
	assert.Equal(t, "250.5", store.booking(b.ID).Payed.String())
	assert.True(t, store.paymentsSum(b.ID).Equal(store.booking(b.ID).Payed))
}

func TestPaymentService_RecordPayment_ExactDebtAllowed(t *testing.T) {
	store, svc := newTestServices(t)
	booking := preparedBooking(t, store, svc, 500, 400)

	_, err := svc.Payment.RecordPayment(context.Background(), managerActor, PaymentInput{
		BookingID: booking.ID,
		Amount:    decimal.NewFromInt(100),
		Bill:      "B-3",
	})
	require.NoError(t, err)

	stored := store.booking(booking.ID)
	assert.Equal(t, "500", stored.Payed.String())
	assert.True(t, stored.Debt().IsZero())
}

func TestPaymentService_RecordPayment_Overpayment(t *testing.T) {
	store, svc := newTestServices(t)
	booking := preparedBooking(t, store, svc, 500, 400)

	_, err := svc.Payment.RecordPayment(context.Background(), managerActor, PaymentInput{
		BookingID: booking.ID,
		Amount:    decimal.NewFromInt(150),
		Bill:      "B-4",
	})

	require.ErrorIs(t, err, ErrOverpaymentRejected)
	var overpayment *OverpaymentError
	require.True(t, errors.As(err, &overpayment))
	assert.Equal(t, "50", overpayment.Excess.String())
	assert.Equal(t, "payment exceeds the remaining debt by 50.00", err.Error())

	assert.Equal(t, "400", store.booking(booking.ID).Payed.String())
	assert.True(t, store.paymentsSum(booking.ID).IsZero())
}

func TestPaymentService_RecordPayment_NonPositiveAmount(t *testing.T) {
	store, svc := newTestServices(t)
	booking := preparedBooking(t, store, svc, 500, 0)

	for _, amount := range []string{"0", "-5"} {
		_, err := svc.Payment.RecordPayment(context.Background(), managerActor, PaymentInput{
			BookingID: booking.ID,
			Amount:    decimal.RequireFromString(amount),
			Bill:      "B-5",
		})
		assert.ErrorIs(t, err, ErrNonPositiveAmount, "amount %s", amount)
	}
	assert.True(t, store.booking(booking.ID).Payed.IsZero())
}

func TestPaymentService_RecordPayment_AmountOutsideMoneyColumn(t *testing.T) {
	store, svc := newTestServices(t)
	booking := preparedBooking(t, store, svc, 100, 0)

	for _, amount := range []string{"0.001", "100.004", "10000000000"} {
		_, err := svc.Payment.RecordPayment(context.Background(), managerActor, PaymentInput{
			BookingID: booking.ID,
			Amount:    decimal.RequireFromString(amount),
			Bill:      "B-7",
		})
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %s", amount)
		assert.NotErrorIs(t, err, ErrOverpaymentRejected, "amount %s", amount)
	}
	assert.True(t, store.booking(booking.ID).Payed.IsZero())
	assert.True(t, store.paymentsSum(booking.ID).IsZero())

	// Trailing zeros are still whole cents.
	_, err := svc.Payment.RecordPayment(context.Background(), managerActor, PaymentInput{
		BookingID: booking.ID,
		Amount:    decimal.RequireFromString("99.990"),
		Bill:      "B-8",
	})
	require.NoError(t, err)
	assert.Equal(t, "99.99", store.booking(booking.ID).Payed.StringFixed(2))
}

func TestPaymentService_RecordPayment_BookingNotFound(t *testing.T) {
	_, svc := newTestServices(t)

	_, err := svc.Payment.RecordPayment(context.Background(), managerActor, PaymentInput{
		BookingID: uuid.New(),
		Amount:    decimal.NewFromInt(10),
		Bill:      "B-6",
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestPaymentService_ListPayments(t *testing.T) {
	store, svc := newTestServices(t)
	booking := preparedBooking(t, store, svc, 600, 0)

	for _, amount := range []string{"100", "75.25"} {
		_, err := svc.Payment.RecordPayment(context.Background(), managerActor, PaymentInput{
			BookingID: booking.ID,
			Amount:    decimal.RequireFromString(amount),
			Bill:      "B-" + amount,
		})
		require.NoError(t, err)
	}

	ledger, err := svc.Payment.ListPayments(context.Background(), managerActor, booking.ID)
	require.NoError(t, err)

	require.Len(t, ledger.Payments, 2)
	assert.Equal(t, "B-75.25", ledger.Payments[0].Bill)
	assert.Equal(t, "175.25", ledger.Total.String())
	assert.True(t, ledger.Total.Equal(store.booking(booking.ID).Payed))

	_, err = svc.Payment.ListPayments(context.Background(), managerActor, uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
