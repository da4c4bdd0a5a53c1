package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
    e.id, e.first_name, COALESCE(e.last_name, ''), e.email,
    COALESCE(e.designation, ''), COALESCE(e.department, ''), e.status,
    COALESCE(e.bank_account, ''), COALESCE(e.pan, ''),
    e.annual_salary, e.annual_salary_enc`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (EmployeePayrollData, error) {
	var data EmployeePayrollData
	var salary decimal.NullDecimal
	if err := row.Scan(
		&data.ID, &data.FirstName, &data.LastName, &data.Email,
		&data.Designation, &data.Department, &data.Status,
		&data.BankAccount, &data.PAN,
		&salary, &data.SalaryEnc,
	); err != nil {
		return EmployeePayrollData{}, err
	}
	if salary.Valid {
		value := salary.Decimal
		data.SalaryPlain = &value
	}
	return data, nil
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (EmployeePayrollData, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+employeeColumns+`
    FROM employees e
    WHERE e.id::text = $1
  `, employeeID)
	data, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return EmployeePayrollData{}, ErrEmployeeNotFound
	}
	return data, err
}

func (s *Store) ListActiveEmployees(ctx context.Context) ([]EmployeePayrollData, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+employeeColumns+`
    FROM employees e
    WHERE e.status = $1
    ORDER BY e.last_name, e.first_name
  `, EmployeeStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EmployeePayrollData
	for rows.Next() {
		data, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, rows.Err()
}

func (s *Store) UpsertPayslip(ctx context.Context, employeeID, period string, breakdown Breakdown) (PayslipRecord, error) {
	payload, err := json.Marshal(breakdown)
	if err != nil {
		return PayslipRecord{}, fmt.Errorf("encode breakdown: %w", err)
	}
	record := PayslipRecord{EmployeeID: employeeID, Period: period, Breakdown: breakdown}
	err = s.DB.QueryRow(ctx, `
    INSERT INTO payslips (employee_id, period, breakdown_json, net_salary)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (employee_id, period)
    DO UPDATE SET breakdown_json = EXCLUDED.breakdown_json,
                  net_salary = EXCLUDED.net_salary,
                  created_at = now()
    RETURNING id, created_at
  `, employeeID, period, payload, breakdown.NetSalary).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return PayslipRecord{}, err
	}
	return record, nil
}

func scanPayslip(row rowScanner) (PayslipRecord, error) {
	var record PayslipRecord
	var payload []byte
	if err := row.Scan(&record.ID, &record.EmployeeID, &record.Period, &payload, &record.CreatedAt); err != nil {
		return PayslipRecord{}, err
	}
	if err := json.Unmarshal(payload, &record.Breakdown); err != nil {
		return PayslipRecord{}, fmt.Errorf("decode breakdown: %w", err)
	}
	return record, nil
}

func (s *Store) ListPayslips(ctx context.Context, employeeID string) ([]PayslipRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, period, breakdown_json, created_at
    FROM payslips
    WHERE employee_id::text = $1
    ORDER BY period DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PayslipRecord
	for rows.Next() {
		record, err := scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *Store) GetPayslip(ctx context.Context, employeeID, period string) (PayslipRecord, error) {
	record, err := scanPayslip(s.DB.QueryRow(ctx, `
    SELECT id, employee_id, period, breakdown_json, created_at
    FROM payslips
    WHERE employee_id::text = $1 AND period = $2
  `, employeeID, period))
	if errors.Is(err, pgx.ErrNoRows) {
		return PayslipRecord{}, ErrPayslipNotFound
	}
	return record, err
}

func (s *Store) ListRegister(ctx context.Context, period string) ([]RegisterRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.first_name, COALESCE(e.last_name, ''), e.email,
           COALESCE(e.designation, ''), COALESCE(e.department, ''), e.status,
           p.breakdown_json
    FROM payslips p
    JOIN employees e ON p.employee_id = e.id
    WHERE p.period = $1
    ORDER BY e.last_name, e.first_name
  `, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RegisterRow
	for rows.Next() {
		var row RegisterRow
		var payload []byte
		if err := rows.Scan(&row.Employee.ID, &row.Employee.FirstName, &row.Employee.LastName, &row.Employee.Email,
			&row.Employee.Designation, &row.Employee.Department, &row.Employee.Status, &payload); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &row.Breakdown); err != nil {
			return nil, fmt.Errorf("decode breakdown: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SaveEmployee inserts or updates an employee; the salary is stored sealed
// when salaryEnc is non-empty and plain otherwise.
func (s *Store) SaveEmployee(ctx context.Context, employee Employee, salary *decimal.Decimal, salaryEnc []byte) (string, error) {
	var plain any
	if salary != nil && len(salaryEnc) == 0 {
		plain = salary.String()
	}
	var enc any
	if len(salaryEnc) > 0 {
		enc = salaryEnc
	}
	status := employee.Status
	if status == "" {
		status = EmployeeStatusActive
	}
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, designation, department, status, bank_account, pan, annual_salary, annual_salary_enc)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::numeric,$10)
    ON CONFLICT (email)
    DO UPDATE SET first_name = EXCLUDED.first_name,
                  last_name = EXCLUDED.last_name,
                  designation = EXCLUDED.designation,
                  department = EXCLUDED.department,
                  status = EXCLUDED.status,
                  bank_account = EXCLUDED.bank_account,
                  pan = EXCLUDED.pan,
                  annual_salary = EXCLUDED.annual_salary,
                  annual_salary_enc = EXCLUDED.annual_salary_enc,
                  updated_at = $11
    RETURNING id
  `, employee.FirstName, employee.LastName, employee.Email, employee.Designation, employee.Department,
		status, employee.BankAccount, employee.PAN, plain, enc, time.Now().UTC()).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
