// Package export builds the downloadable spreadsheet summary of the admin
// dashboard: one sheet per triage bucket.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/TintinDu/BilledApp/internal/domain/entity"
)

var columns = []string{"Email", "Name", "Type", "Date", "Amount", "VAT", "Pct", "Commentary", "Admin comment", "Receipt"}

var sheetOrder = []struct {
	name   string
	status string
}{
	{"Pending", entity.StatusPending},
	{"Accepted", entity.StatusAccepted},
	{"Refused", entity.StatusRefused},
}

// Exporter renders bill collections to xlsx workbooks
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a new Exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// WriteDashboard writes the status-grouped workbook to w.
func (e *Exporter) WriteDashboard(bills []*entity.Bill, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheetOrder {
		if i == 0 {
			// excelize starts every workbook with a default sheet
			if err := f.SetSheetName(f.GetSheetName(0), sheet.name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return fmt.Errorf("failed to add sheet %s: %w", sheet.name, err)
			}
		}

		if err := e.fillSheet(f, sheet.name, sheet.status, bills); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Dashboard export written", zap.Int("bills", len(bills)))
	return nil
}

func (e *Exporter) fillSheet(f *excelize.File, sheetName, status string, bills []*entity.Bill) error {
	for col, header := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell: %w", err)
		}
	}

	row := 2
	for _, bill := range bills {
		if bill == nil || bill.Status != status {
			continue
		}

		fileName := ""
		if bill.FileName != nil {
			fileName = *bill.FileName
		}
		values := []interface{}{
			bill.Email,
			bill.Name,
			bill.Type,
			bill.Date,
			bill.Amount,
			bill.VAT,
			bill.Pct,
			bill.Commentary,
			bill.CommentAdmin,
			fileName,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to set cell: %w", err)
			}
		}
		row++
	}
	return nil
}
