package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	// BookingStatusActive is a checked-in student holding a seat.
	BookingStatusActive BookingStatus = "booking"
	// BookingStatusSettled is a closed stay with its final price.
	BookingStatusSettled BookingStatus = "process"
	// BookingStatusCanceled is a stay voided before it was settled.
	BookingStatusCanceled BookingStatus = "canceling"
)

type Booking struct {
	BaseNoDelete
	StudentID   uuid.UUID       `db:"student_id"`
	RoomID      uuid.UUID       `db:"room_id"`
	PrivilegeID *uuid.UUID      `db:"privilege_id"`
	StartDate   time.Time       `db:"start_date"`
	EndDate     time.Time       `db:"end_date"`
	TotalPrice  decimal.Decimal `db:"total_price"`
	Payed       decimal.Decimal `db:"payed"`
	Status      BookingStatus   `db:"status"`
	CreatedBy   uuid.UUID       `db:"created_by"`
}

func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusActive
}

// Debt is what the student still owes on this booking.
func (b *Booking) Debt() decimal.Decimal {
	return b.TotalPrice.Sub(b.Payed)
}

// Transfer records a booking moving from one room to another.
type Transfer struct {
	ID         uuid.UUID `db:"id"`
	BookingID  uuid.UUID `db:"booking_id"`
	FromRoomID uuid.UUID `db:"from_room_id"`
	ToRoomID   uuid.UUID `db:"to_room_id"`
	MovedBy    uuid.UUID `db:"moved_by"`
	MovedAt    time.Time `db:"moved_at"`
}
