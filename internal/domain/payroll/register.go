package payroll

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

var registerHeaders = []string{
	"Employee ID", "Name", "Department", "Designation",
	"Basic", "HRA", "Special Allowance", "Other Allowances", "Gross",
	"PF", "ESI", "Professional Tax", "TDS", "Total Deductions", "Net",
}

// RenderRegister writes the payroll register of one period as an XLSX
// workbook: a header row, one row per employee and a totals row.
func RenderRegister(period string, rows []RegisterRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Register " + period
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("register sheet: %w", err)
	}

	for i, header := range registerHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	totals := make([]int64, 11)
	for r, row := range rows {
		b := row.Breakdown
		amounts := []int64{
			b.BasicSalary, b.HRA, b.SpecialAllowance, b.OtherAllowances, b.GrossSalary,
			b.PF, b.ESI, b.ProfessionalTax, b.TDS, b.TotalDeductions, b.NetSalary,
		}
		values := []any{row.Employee.ID, row.Employee.FullName(), row.Employee.Department, row.Employee.Designation}
		for i, amount := range amounts {
			totals[i] += amount
			values = append(values, amount)
		}
		if err := writeRow(f, sheet, r+2, values); err != nil {
			return nil, err
		}
	}

	totalRow := []any{"Total", "", "", ""}
	for _, total := range totals {
		totalRow = append(totalRow, total)
	}
	if err := writeRow(f, sheet, len(rows)+2, totalRow); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write register: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
