package payroll

import "context"

type StoreAPI interface {
	GetEmployee(ctx context.Context, employeeID string) (EmployeePayrollData, error)
	ListActiveEmployees(ctx context.Context) ([]EmployeePayrollData, error)
	UpsertPayslip(ctx context.Context, employeeID, period string, breakdown Breakdown) (PayslipRecord, error)
	ListPayslips(ctx context.Context, employeeID string) ([]PayslipRecord, error)
	GetPayslip(ctx context.Context, employeeID, period string) (PayslipRecord, error)
	ListRegister(ctx context.Context, period string) ([]RegisterRow, error)
}
