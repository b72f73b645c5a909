package report

import (
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteStockXLSX выгружает сверку остатков в .xlsx (одна строка на деталь).
func WriteStockXLSX(w io.Writer, rep *StockPeriodReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"part_id",
		"part_name",
		"unit",
		"begin_stock",
		"used_during_period",
		"end_stock",
		"current_stock",
		"min_stock",
		"warning",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	row := 2
	for _, r := range rep.Results {
		warn := ""
		if r.IntegrityWarning {
			warn = "журнал неполон"
		}
		excelRow := []interface{}{
			r.PartID,
			r.PartName,
			string(r.Unit),
			r.BeginStock,
			r.UsedDuring,
			r.EndStock,
			r.CurrentStock,
			r.MinStock,
			warn,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return err
		}
		row++
	}

	return f.Write(w)
}

// WriteDebtXLSX выгружает сводку задолженности в .xlsx.
func WriteDebtXLSX(w io.Writer, rep *DebtReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"vehicle_id",
		"plate",
		"owner",
		"orders",
		"payments",
		"total_debt",
		"total_paid",
		"remaining_debt",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	row := 2
	for _, d := range rep.Debts {
		// деньги — всегда с двумя знаками, как NUMERIC(14,2) в базе
		excelRow := []interface{}{
			d.Vehicle.ID,
			d.Vehicle.Plate,
			d.Vehicle.OwnerName,
			len(d.Orders),
			len(d.Payments),
			d.TotalDebt.StringFixed(2),
			d.TotalPaid.StringFixed(2),
			d.RemainingDebt.StringFixed(2),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return err
		}
		row++
	}

	return f.Write(w)
}
