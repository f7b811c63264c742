package wire

import (
	"dormitory-backend/internal/adaptor"
	"dormitory-backend/internal/data/entity"
	"dormitory-backend/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireStaff(r chi.Router, staffHandler *adaptor.StaffHandler, log *zap.Logger) {
	r.Route("/admin/staff", func(r chi.Router) {
		r.Use(middleware.RequireRole(log, entity.RoleAdmin))

		r.Post("/", staffHandler.CreateStaff) // POST /api/admin/staff
	})
}
