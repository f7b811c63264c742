package wire

import (
	"dormitory-backend/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler) {
	r.Post("/payments", paymentHandler.RecordPayment) // POST /api/payments
}
