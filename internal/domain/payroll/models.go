package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Breakdown is the monthly gross-to-net result for one annual salary.
// Monetary fields are whole rupees.
type Breakdown struct {
	AnnualSalary     decimal.Decimal `json:"annualSalary"`
	MonthlySalary    int64           `json:"monthlySalary"`
	BasicSalary      int64           `json:"basicSalary"`
	HRA              int64           `json:"hra"`
	SpecialAllowance int64           `json:"specialAllowance"`
	OtherAllowances  int64           `json:"otherAllowances"`
	GrossSalary      int64           `json:"grossSalary"`
	PF               int64           `json:"pf"`
	ESI              int64           `json:"esi"`
	ProfessionalTax  int64           `json:"professionalTax"`
	TDS              int64           `json:"tds"`
	TotalDeductions  int64           `json:"totalDeductions"`
	NetSalary        int64           `json:"netSalary"`
}

type Line struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

func (b Breakdown) Earnings() []Line {
	return []Line{
		{Label: "Basic Salary", Amount: b.BasicSalary},
		{Label: "House Rent Allowance", Amount: b.HRA},
		{Label: "Special Allowance", Amount: b.SpecialAllowance},
		{Label: "Other Allowances", Amount: b.OtherAllowances},
	}
}

func (b Breakdown) Deductions() []Line {
	return []Line{
		{Label: "Provident Fund", Amount: b.PF},
		{Label: "Employee State Insurance", Amount: b.ESI},
		{Label: "Professional Tax", Amount: b.ProfessionalTax},
		{Label: "Income Tax (TDS)", Amount: b.TDS},
	}
}

type Employee struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Designation string `json:"designation"`
	Department  string `json:"department"`
	Status      string `json:"status"`
	BankAccount string `json:"bankAccount,omitempty"`
	PAN         string `json:"pan,omitempty"`
}

func (e Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// EmployeePayrollData is an employee row plus its salary as stored: either
// plain or sealed with the data encryption key.
type EmployeePayrollData struct {
	Employee
	SalaryPlain *decimal.Decimal
	SalaryEnc   []byte
}

type PayslipRecord struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Period     string    `json:"period"`
	Breakdown  Breakdown `json:"breakdown"`
	CreatedAt  time.Time `json:"createdAt"`
}

type RegisterRow struct {
	Employee  Employee
	Breakdown Breakdown
}

type SkippedEmployee struct {
	EmployeeID string `json:"employeeId"`
	Reason     string `json:"reason"`
}

type RunSummary struct {
	Period          string            `json:"period"`
	Processed       int               `json:"processed"`
	TotalGross      int64             `json:"totalGross"`
	TotalDeductions int64             `json:"totalDeductions"`
	TotalNet        int64             `json:"totalNet"`
	Skipped         []SkippedEmployee `json:"skipped"`
}
