package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Payment struct {
	BaseSimple
	BookingID  uuid.UUID       `db:"booking_id"`
	Amount     decimal.Decimal `db:"amount"`
	Bill       string          `db:"bill"`
	Comment    *string         `db:"comment"`
	PayedAt    time.Time       `db:"payed_at"`
	ReceivedBy uuid.UUID       `db:"received_by"`
}
