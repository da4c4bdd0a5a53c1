package payroll

import "errors"

var (
	ErrInvalidSalary    = errors.New("annual salary must be a finite non-negative amount")
	ErrInvalidRegime    = errors.New("invalid statutory regime")
	ErrInvalidPeriod    = errors.New("payroll period must be formatted YYYY-MM")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrSalaryMissing    = errors.New("employee has no annual salary on record")
	ErrPayslipNotFound  = errors.New("payslip not found")
)
