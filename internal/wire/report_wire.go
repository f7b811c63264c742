package wire

import (
	"dormitory-backend/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReport(r chi.Router, reportHandler *adaptor.ReportHandler) {
	r.Get("/reports/debtors.xlsx", reportHandler.Debtors) // GET /api/reports/debtors.xlsx
}
