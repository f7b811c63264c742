package adaptor

import (
	"encoding/json"
	"net/http"

	"dormitory-backend/internal/data/entity"
	"dormitory-backend/internal/dto/request"
	"dormitory-backend/internal/dto/response"
	"dormitory-backend/internal/usecase"
	"dormitory-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StaffHandler struct {
	service usecase.StaffService
	log     *zap.Logger
}

func NewStaffHandler(service usecase.StaffService, log *zap.Logger) *StaffHandler {
	return &StaffHandler{
		service: service,
		log:     log.With(zap.String("handler", "staff")),
	}
}

// CreateStaff handles POST /api/admin/staff
func (h *StaffHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	in := usecase.StaffInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      entity.UserRole(req.Role),
	}
	if req.BuildingID != nil {
		id := uuid.MustParse(*req.BuildingID)
		in.BuildingID = &id
	}

	user, err := h.service.CreateStaff(r.Context(), actor, in)
	if err != nil {
		handleServiceError(w, h.log, err, "create staff")
		return
	}

	h.log.Info("Staff account created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	utils.ResponseCreated(w, "success", response.UserToStaffResponse(user))
}
