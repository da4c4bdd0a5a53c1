package payroll

const (
	EmployeeStatusActive = "active"

	SkipReasonSalaryMissing = "salary_missing"
	SkipReasonInvalidSalary = "invalid_salary"
	SkipReasonDecryptFailed = "salary_decrypt_failed"

	PeriodLayout = "2006-01"

	CurrencyCode = "INR"
)
