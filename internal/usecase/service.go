package usecase

import (
	"dormitory-backend/internal/data/entity"
	"dormitory-backend/pkg/metrics"
	"dormitory-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	Booking BookingService
	Payment PaymentService
	Report  ReportService
	Staff   StaffService
}

func NewService(store Store, config *utils.Config, m *metrics.Metrics, log *zap.Logger) *Service {
	return &Service{
		Booking: NewBookingService(store, config, m, log),
		Payment: NewPaymentService(store, config, m, log),
		Report:  NewReportService(store, config, log),
		Staff:   NewStaffService(store, config, log, CommandantProfileHook),
	}
}

var staffRoles = []entity.UserRole{entity.RoleAdmin, entity.RoleManager, entity.RoleCommandant}

// authorize checks that the actor is an authenticated staff member holding one of roles.
func authorize(actor entity.Actor, roles ...entity.UserRole) error {
	if actor.UserID == uuid.Nil {
		return ErrForbidden
	}
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
