package excel

import (
	"fmt"
	"io"

	"nagapos/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const reportSheet = "Report"

type SalesReport struct {
	Title        string
	Items        []domain.ReportItem
	TotalRevenue decimal.Decimal
}

// WriteSalesReport renders report as a single-sheet workbook: a title row,
// a header row, one row per product and a closing total row.
func WriteSalesReport(w io.Writer, report SalesReport) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", reportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	money, err := file.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("create money style: %w", err)
	}
	boldMoney, err := file.NewStyle(&excelize.Style{NumFmt: 2, Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create total style: %w", err)
	}

	if err := file.SetCellValue(reportSheet, "A1", report.Title); err != nil {
		return fmt.Errorf("write title: %w", err)
	}
	header := []any{"Product", "Quantity", fmt.Sprintf("Revenue (%s)", domain.CurrencySymbol)}
	if err := file.SetSheetRow(reportSheet, "A3", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := 4
	totalQty := 0
	for _, item := range report.Items {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []any{item.ProductName, item.Quantity, item.Revenue.InexactFloat64()}
		if err := file.SetSheetRow(reportSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		totalQty += item.Quantity
		row++
	}

	totalCell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	totals := []any{"Total", totalQty, report.TotalRevenue.InexactFloat64()}
	if err := file.SetSheetRow(reportSheet, totalCell, &totals); err != nil {
		return fmt.Errorf("write total row: %w", err)
	}

	if len(report.Items) > 0 {
		lastRevenue, err := excelize.CoordinatesToCellName(3, row-1)
		if err != nil {
			return err
		}
		if err := file.SetCellStyle(reportSheet, "C4", lastRevenue, money); err != nil {
			return fmt.Errorf("style revenue column: %w", err)
		}
	}
	if err := file.SetCellStyle(reportSheet, "A1", "A1", bold); err != nil {
		return fmt.Errorf("style title: %w", err)
	}
	if err := file.SetCellStyle(reportSheet, "A3", "C3", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	totalQtyCell, err := excelize.CoordinatesToCellName(2, row)
	if err != nil {
		return err
	}
	if err := file.SetCellStyle(reportSheet, totalCell, totalQtyCell, bold); err != nil {
		return fmt.Errorf("style total row: %w", err)
	}
	totalRevenueCell, err := excelize.CoordinatesToCellName(3, row)
	if err != nil {
		return err
	}
	if err := file.SetCellStyle(reportSheet, totalRevenueCell, totalRevenueCell, boldMoney); err != nil {
		return fmt.Errorf("style total revenue: %w", err)
	}
	if err := file.SetColWidth(reportSheet, "A", "A", 36); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := file.SetColWidth(reportSheet, "B", "C", 16); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
