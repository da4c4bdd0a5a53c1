package payroll

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "0001_init.sql"))
	require.NoError(t, err)
	_, err = pool.Exec(context.Background(), string(schema))
	require.NoError(t, err)
	return pool
}

func TestStoreRoundTrip(t *testing.T) {
	pool := testPool(t)
	store := NewStore(pool)
	ctx := context.Background()
	email := "store-" + time.Now().Format("150405.000000") + "@example.com"

	salary := decimal.NewFromInt(600000)
	id, err := store.SaveEmployee(ctx, Employee{FirstName: "Asha", LastName: "Rao", Email: email}, &salary, nil)
	require.NoError(t, err)

	data, err := store.GetEmployee(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, data.SalaryPlain)
	assert.True(t, data.SalaryPlain.Equal(salary))
	assert.Equal(t, EmployeeStatusActive, data.Status)

	sealedID, err := store.SaveEmployee(ctx, Employee{FirstName: "Asha", LastName: "Rao", Email: email}, nil, []byte("sealed"))
	require.NoError(t, err)
	assert.Equal(t, id, sealedID)
	data, err = store.GetEmployee(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, data.SalaryPlain)
	assert.Equal(t, []byte("sealed"), data.SalaryEnc)

	_, err = store.GetEmployee(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	b := ComputePayroll(salary)
	first, err := store.UpsertPayslip(ctx, id, "2026-10", b)
	require.NoError(t, err)
	second, err := store.UpsertPayslip(ctx, id, "2026-10", b)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	record, err := store.GetPayslip(ctx, id, "2026-10")
	require.NoError(t, err)
	assert.Equal(t, b.NetSalary, record.Breakdown.NetSalary)

	records, err := store.ListPayslips(ctx, id)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	rows, err := store.ListRegister(ctx, "2026-10")
	require.NoError(t, err)
	assert.NotEmpty(t, rows)

	_, err = store.GetPayslip(ctx, id, "2026-09")
	assert.ErrorIs(t, err, ErrPayslipNotFound)
}
