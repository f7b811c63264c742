package adaptor

import (
	"net/http"
	"strconv"

	"dormitory-backend/internal/usecase"
	"dormitory-backend/pkg/utils"

	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	service usecase.ReportService
	log     *zap.Logger
}

func NewReportHandler(service usecase.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		log:     log.With(zap.String("handler", "report")),
	}
}

// Debtors handles GET /api/reports/debtors.xlsx
func (h *ReportHandler) Debtors(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	body, err := h.service.DebtorsReport(r.Context(), actor)
	if err != nil {
		handleServiceError(w, h.log, err, "debtors report")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="debtors.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.log.Warn("write debtors report", zap.Error(err))
	}
}
