package usecase

import (
	"bytes"
	"context"
	"fmt"

	"dormitory-backend/internal/data/entity"
	"dormitory-backend/internal/data/repository"
	"dormitory-backend/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const debtorsSheet = "Debtors"

var debtorsHeader = []interface{}{
	"booking_id",
	"student",
	"building",
	"room",
	"start_date",
	"end_date",
	"status",
	"total_price",
	"payed",
	"debt",
}

type ReportService interface {
	// DebtorsReport renders every non-cancelled booking with an unpaid balance as an xlsx workbook.
	DebtorsReport(ctx context.Context, actor entity.Actor) ([]byte, error)
}

type reportService struct {
	tx  *txRunner
	log *zap.Logger
}

func NewReportService(store Store, config *utils.Config, log *zap.Logger) ReportService {
	log = log.With(zap.String("service", "report"))
	return &reportService{
		tx:  newTxRunner(store, config.Storage, log),
		log: log,
	}
}

func (s *reportService) DebtorsReport(ctx context.Context, actor entity.Actor) ([]byte, error) {
	if err := authorize(actor, staffRoles...); err != nil {
		return nil, err
	}

	var debtors []repository.DebtorRow
	err := s.tx.run(ctx, "debtors_report", func(tx *repository.Repository) error {
		var err error
		debtors, err = tx.Booking.FindDebtors(ctx)
		return err
	})
	if err != nil {
		s.log.Error("Failed to load debtors", zap.Error(err))
		return nil, err
	}

	data, err := renderDebtors(debtors)
	if err != nil {
		s.log.Error("Failed to render debtors report", zap.Error(err))
		return nil, err
	}

	s.log.Info("Debtors report generated",
		zap.Int("rows", len(debtors)),
		zap.String("actor_id", actor.UserID.String()),
	)
	return data, nil
}

func renderDebtors(debtors []repository.DebtorRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), debtorsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(debtorsSheet, "A1", &debtorsHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	total, payed, debt := decimal.Zero, decimal.Zero, decimal.Zero
	row := 2
	for _, d := range debtors {
		excelRow := []interface{}{
			d.BookingID.String(),
			d.Student,
			d.Building,
			d.RoomNumber,
			d.StartDate.Format(utils.DateLayout),
			d.EndDate.Format(utils.DateLayout),
			string(d.Status),
			d.TotalPrice.InexactFloat64(),
			d.Payed.InexactFloat64(),
			d.Debt().InexactFloat64(),
		}
		if err := writeRow(f, row, excelRow); err != nil {
			return nil, err
		}

		total = total.Add(d.TotalPrice)
		payed = payed.Add(d.Payed)
		debt = debt.Add(d.Debt())
		row++
	}

	totals := []interface{}{
		"TOTAL", "", "", "", "", "", "",
		total.InexactFloat64(),
		payed.InexactFloat64(),
		debt.InexactFloat64(),
	}
	if err := writeRow(f, row, totals); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(debtorsSheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
