package response

import (
	"time"

	"dormitory-backend/internal/data/entity"
	"dormitory-backend/internal/usecase"
	"dormitory-backend/pkg/utils"
)

type BookingResponse struct {
	ID          string               `json:"id"`
	StudentID   string               `json:"student_id"`
	RoomID      string               `json:"room_id"`
	PrivilegeID *string              `json:"privilege_id,omitempty"`
	StartDate   string               `json:"start_date"`
	EndDate     string               `json:"end_date"`
	TotalPrice  string               `json:"total_price"`
	Payed       string               `json:"payed"`
	Debt        string               `json:"debt"`
	Status      entity.BookingStatus `json:"status"`
	CreatedBy   string               `json:"created_by"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type SeatResponse struct {
	RoomID      string          `json:"room_id"`
	PersonCount int             `json:"person_count"`
	Capacity    int             `json:"capacity"`
	FreePlaces  int             `json:"free_places"`
	Booking     BookingResponse `json:"booking"`
}

type CheckoutResponse struct {
	RoomID      string          `json:"room_id"`
	PersonCount int             `json:"person_count"`
	RoomGender  entity.Gender   `json:"room_gender"`
	Booking     BookingResponse `json:"booking"`
}

type RoomOccupancyResponse struct {
	ID          string        `json:"id"`
	Number      string        `json:"number"`
	PersonCount int           `json:"person_count"`
	Capacity    int           `json:"capacity"`
	IsFull      bool          `json:"is_full"`
	Gender      entity.Gender `json:"gender"`
}

type TransferResponse struct {
	ID         string                 `json:"id"`
	BookingID  string                 `json:"booking_id"`
	FromRoomID string                 `json:"from_room_id"`
	ToRoomID   string                 `json:"to_room_id"`
	MovedBy    string                 `json:"moved_by"`
	MovedAt    time.Time              `json:"moved_at"`
	FromRoom   *RoomOccupancyResponse `json:"from_room,omitempty"`
	ToRoom     *RoomOccupancyResponse `json:"to_room,omitempty"`
}

type BookingDetailResponse struct {
	BookingResponse
	Payments  []PaymentResponse  `json:"payments"`
	Transfers []TransferResponse `json:"transfers"`
}

// Helper converters
func BookingToResponse(b *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:         b.ID.String(),
		StudentID:  b.StudentID.String(),
		RoomID:     b.RoomID.String(),
		StartDate:  b.StartDate.Format(utils.DateLayout),
		EndDate:    b.EndDate.Format(utils.DateLayout),
		TotalPrice: b.TotalPrice.StringFixed(2),
		Payed:      b.Payed.StringFixed(2),
		Debt:       b.Debt().StringFixed(2),
		Status:     b.Status,
		CreatedBy:  b.CreatedBy.String(),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
	if b.PrivilegeID != nil {
		id := b.PrivilegeID.String()
		resp.PrivilegeID = &id
	}
	return resp
}

func SeatResultToResponse(res *usecase.SeatResult) SeatResponse {
	return SeatResponse{
		RoomID:      res.RoomID.String(),
		PersonCount: res.PersonCount,
		Capacity:    res.Capacity,
		FreePlaces:  res.FreePlaces,
		Booking:     BookingToResponse(res.Booking),
	}
}

func CheckoutResultToResponse(res *usecase.CheckoutResult) CheckoutResponse {
	return CheckoutResponse{
		RoomID:      res.RoomID.String(),
		PersonCount: res.PersonCount,
		RoomGender:  res.RoomGender,
		Booking:     BookingToResponse(res.Booking),
	}
}

func RoomToOccupancyResponse(r *entity.Room) *RoomOccupancyResponse {
	if r == nil {
		return nil
	}
	return &RoomOccupancyResponse{
		ID:          r.ID.String(),
		Number:      r.Number,
		PersonCount: r.PersonCount,
		Capacity:    r.Capacity,
		IsFull:      r.IsFull,
		Gender:      r.Gender,
	}
}

func TransferToResponse(t *entity.Transfer) TransferResponse {
	return TransferResponse{
		ID:         t.ID.String(),
		BookingID:  t.BookingID.String(),
		FromRoomID: t.FromRoomID.String(),
		ToRoomID:   t.ToRoomID.String(),
		MovedBy:    t.MovedBy.String(),
		MovedAt:    t.MovedAt,
	}
}

func TransferResultToResponse(res *usecase.TransferResult) TransferResponse {
	resp := TransferToResponse(res.Transfer)
	resp.FromRoom = RoomToOccupancyResponse(res.FromRoom)
	resp.ToRoom = RoomToOccupancyResponse(res.ToRoom)
	return resp
}

func BookingDetailToResponse(d *usecase.BookingDetail) BookingDetailResponse {
	resp := BookingDetailResponse{
		BookingResponse: BookingToResponse(d.Booking),
		Payments:        make([]PaymentResponse, 0, len(d.Payments)),
		Transfers:       make([]TransferResponse, 0, len(d.Transfers)),
	}
	for _, p := range d.Payments {
		resp.Payments = append(resp.Payments, PaymentToResponse(p))
	}
	for _, t := range d.Transfers {
		resp.Transfers = append(resp.Transfers, TransferToResponse(t))
	}
	return resp
}
