package adaptor

import (
	"encoding/json"
	"net/http"

	"dormitory-backend/internal/dto/request"
	"dormitory-backend/internal/dto/response"
	"dormitory-backend/internal/usecase"
	"dormitory-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// RecordPayment handles POST /api/payments
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"Amount": "Invalid amount"})
		return
	}

	in := usecase.PaymentInput{
		BookingID: uuid.MustParse(req.BookingID),
		Amount:    amount,
		Bill:      req.Bill,
		Comment:   req.Comment,
	}
	if req.PayedAt != nil {
		in.PayedAt, _ = utils.ParseDate(*req.PayedAt)
	}

	payment, err := h.service.RecordPayment(r.Context(), actor, in)
	if err != nil {
		handleServiceError(w, h.log, err, "record payment")
		return
	}

	utils.ResponseCreated(w, "success", response.PaymentToResponse(payment))
}
