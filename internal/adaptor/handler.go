package adaptor

import (
	"errors"
	"net/http"

	"dormitory-backend/internal/data/entity"
	"dormitory-backend/internal/usecase"
	"dormitory-backend/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Booking *BookingHandler
	Payment *PaymentHandler
	Report  *ReportHandler
	Staff   *StaffHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking: NewBookingHandler(service.Booking, service.Payment, log),
		Payment: NewPaymentHandler(service.Payment, log),
		Report:  NewReportHandler(service.Report, log),
		Staff:   NewStaffHandler(service.Staff, log),
	}
}

// actorFromRequest reads the identity AuthSession put on the request context.
func actorFromRequest(r *http.Request) (entity.Actor, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return entity.Actor{}, false
	}
	role, ok := utils.GetRoleFromContext(r.Context())
	if !ok {
		return entity.Actor{}, false
	}
	return entity.Actor{UserID: userID, Role: entity.UserRole(role)}, true
}

// handleServiceError maps usecase errors onto HTTP responses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var overpay *usecase.OverpaymentError

	switch {
	case errors.As(err, &overpay):
		log.Warn(operation+" rejected - overpayment",
			zap.String("operation", operation),
			zap.String("excess", overpay.Excess.StringFixed(2)))
		utils.ResponseUnprocessable(w, err.Error(), map[string]string{
			"excess": overpay.Excess.StringFixed(2),
		})

	case errors.Is(err, usecase.ErrRoomFull),
		errors.Is(err, usecase.ErrGenderMismatch),
		errors.Is(err, usecase.ErrDuplicateActiveBooking),
		errors.Is(err, usecase.ErrAlreadyClosed),
		errors.Is(err, usecase.ErrEmailTaken):
		log.Warn(operation+" rejected - conflict",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNonPositiveAmount),
		errors.Is(err, usecase.ErrInvalidAmount),
		errors.Is(err, usecase.ErrInvalidDateRange),
		errors.Is(err, usecase.ErrSameRoom),
		errors.Is(err, usecase.ErrUnknownBillingMode):
		log.Warn(operation+" rejected - invalid input",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseUnprocessable(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrBookingNotFound),
		errors.Is(err, usecase.ErrRoomNotFound),
		errors.Is(err, usecase.ErrStudentNotFound),
		errors.Is(err, usecase.ErrPrivilegeNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidRole):
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrStorageTimeout):
		log.Error(operation+" failed - storage timeout",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseServiceUnavailable(w, "Storage is not responding, try again later")

	default:
		log.Error(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
