package adaptor

import (
	"encoding/json"
	"net/http"

	"dormitory-backend/internal/dto/request"
	"dormitory-backend/internal/dto/response"
	"dormitory-backend/internal/usecase"
	"dormitory-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service  usecase.BookingService
	payments usecase.PaymentService
	log      *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, payments usecase.PaymentService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service:  service,
		payments: payments,
		log:      log.With(zap.String("handler", "booking")),
	}
}

// SeatStudent handles POST /api/bookings
func (h *BookingHandler) SeatStudent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.SeatStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	// The validator already checked the formats.
	in := usecase.SeatInput{
		StudentID: uuid.MustParse(req.StudentID),
		RoomID:    uuid.MustParse(req.RoomID),
	}
	in.StartDate, _ = utils.ParseDate(req.StartDate)
	if req.PrivilegeID != nil {
		id := uuid.MustParse(*req.PrivilegeID)
		in.PrivilegeID = &id
	}

	result, err := h.service.SeatStudent(r.Context(), actor, in)
	if err != nil {
		handleServiceError(w, h.log, err, "seat student")
		return
	}

	utils.ResponseCreated(w, "success", response.SeatResultToResponse(result))
}

// CloseBooking handles POST /api/bookings/{id}/close
func (h *BookingHandler) CloseBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}

	var req request.CloseBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	endDate, _ := utils.ParseDate(req.EndDate)

	result, err := h.service.CloseBooking(r.Context(), actor, bookingID, endDate)
	if err != nil {
		handleServiceError(w, h.log, err, "close booking")
		return
	}

	utils.ResponseSuccess(w, "success", response.CheckoutResultToResponse(result))
}

// CancelBooking handles POST /api/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}

	var req request.CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	date, _ := utils.ParseDate(req.Date)

	result, err := h.service.CancelBooking(r.Context(), actor, bookingID, date)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", response.CheckoutResultToResponse(result))
}

// TransferStudent handles POST /api/bookings/{id}/transfer
func (h *BookingHandler) TransferStudent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}

	var req request.TransferBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.TransferStudent(r.Context(), actor, bookingID, uuid.MustParse(req.RoomID))
	if err != nil {
		handleServiceError(w, h.log, err, "transfer student")
		return
	}

	utils.ResponseSuccess(w, "success", response.TransferResultToResponse(result))
}

// GetBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}

	detail, err := h.service.GetBooking(r.Context(), actor, bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", response.BookingDetailToResponse(detail))
}

// ListPayments handles GET /api/bookings/{id}/payments
func (h *BookingHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}

	ledger, err := h.payments.ListPayments(r.Context(), actor, bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "list payments")
		return
	}

	utils.ResponseSuccess(w, "success", response.PaymentLedgerToResponse(ledger))
}

func bookingIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return uuid.Nil, false
	}
	return id, true
}
