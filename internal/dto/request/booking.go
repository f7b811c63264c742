package request

type SeatStudentRequest struct {
	StudentID   string  `json:"student_id" validate:"required,uuid"`
	RoomID      string  `json:"room_id" validate:"required,uuid"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	PrivilegeID *string `json:"privilege_id,omitempty" validate:"omitempty,uuid"`
}

type CloseBookingRequest struct {
	EndDate string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type CancelBookingRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type TransferBookingRequest struct {
	RoomID string `json:"room_id" validate:"required,uuid"`
}
