package request

type CreatePaymentRequest struct {
	BookingID string  `json:"booking_id" validate:"required,uuid"`
	Amount    string  `json:"amount" validate:"required,numeric"`
	Bill      string  `json:"bill" validate:"required,max=64"`
	Comment   *string `json:"comment,omitempty" validate:"omitempty,max=500"`
	PayedAt   *string `json:"payed_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
