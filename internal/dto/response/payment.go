package response

import (
	"time"

	"dormitory-backend/internal/data/entity"
	"dormitory-backend/internal/usecase"
)

type PaymentResponse struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"booking_id"`
	Amount     string    `json:"amount"`
	Bill       string    `json:"bill"`
	Comment    *string   `json:"comment,omitempty"`
	PayedAt    time.Time `json:"payed_at"`
	ReceivedBy string    `json:"received_by"`
	CreatedAt  time.Time `json:"created_at"`
}

type PaymentLedgerResponse struct {
	Payments []PaymentResponse `json:"payments"`
	Total    string            `json:"total"`
}

func PaymentToResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID.String(),
		BookingID:  p.BookingID.String(),
		Amount:     p.Amount.StringFixed(2),
		Bill:       p.Bill,
		Comment:    p.Comment,
		PayedAt:    p.PayedAt,
		ReceivedBy: p.ReceivedBy.String(),
		CreatedAt:  p.CreatedAt,
	}
}

func PaymentLedgerToResponse(l *usecase.PaymentLedger) PaymentLedgerResponse {
	resp := PaymentLedgerResponse{
		Payments: make([]PaymentResponse, 0, len(l.Payments)),
		Total:    l.Total.StringFixed(2),
	}
	for _, p := range l.Payments {
		resp.Payments = append(resp.Payments, PaymentToResponse(p))
	}
	return resp
}
