package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockBudgetRepository creates a GormBudgetAllocationRepository with a mocked SQL connection
func newMockBudgetRepository(t *testing.T) (*GormBudgetAllocationRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormBudgetAllocationRepository(gormDB), mock, mockDB
}

func TestGormBudgetAllocationRepository_AtomicIncrementCommitted(t *testing.T) {
	t.Run("books the amount when the ceiling covers it", func(t *testing.T) {
		repo, mock, mockDB := newMockBudgetRepository(t)
		defer mockDB.Close()

		amount := decimal.NewFromFloat(1500.00)
		rows := sqlmock.NewRows([]string{"committed_amount"}).AddRow("33500.00")

		mock.ExpectQuery(`UPDATE budget_allocations`).
			WithArgs(amount, "8193", 2026, amount).
			WillReturnRows(rows)

		ok, newTotal, err := repo.AtomicIncrementCommitted(context.Background(), "8193", 2026, amount)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, newTotal.Equal(decimal.NewFromFloat(33500.00)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a guard rejection without error", func(t *testing.T) {
		repo, mock, mockDB := newMockBudgetRepository(t)
		defer mockDB.Close()

		amount := decimal.NewFromFloat(20000.00)

		// The conditional update matches no row when the ceiling would be breached
		mock.ExpectQuery(`UPDATE budget_allocations`).
			WithArgs(amount, "8193", 2026, amount).
			WillReturnRows(sqlmock.NewRows([]string{"committed_amount"}))

		ok, newTotal, err := repo.AtomicIncrementCommitted(context.Background(), "8193", 2026, amount)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.True(t, newTotal.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates infrastructure errors", func(t *testing.T) {
		repo, mock, mockDB := newMockBudgetRepository(t)
		defer mockDB.Close()

		amount := decimal.NewFromFloat(1500.00)

		mock.ExpectQuery(`UPDATE budget_allocations`).
			WithArgs(amount, "8193", 2026, amount).
			WillReturnError(sql.ErrConnDone)

		_, _, err := repo.AtomicIncrementCommitted(context.Background(), "8193", 2026, amount)
		assert.Error(t, err)
	})
}

func TestGormBudgetAllocationRepository_FindByCode(t *testing.T) {
	t.Run("finds existing allocation", func(t *testing.T) {
		repo, mock, mockDB := newMockBudgetRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "version", "code", "fiscal_year", "annual_ceiling", "committed_amount", "description"}).
			AddRow(uuid.New(), 1, "8193", 2026, "50000.00", "32000.00", "Suprimento de fundos")

		mock.ExpectQuery(`SELECT \* FROM "budget_allocations" WHERE code = \$1 AND fiscal_year = \$2 ORDER BY .* LIMIT .*`).
			WithArgs("8193", 2026, 1).
			WillReturnRows(rows)

		allocation, err := repo.FindByCode(context.Background(), "8193", 2026)
		require.NoError(t, err)
		require.NotNil(t, allocation)
		assert.Equal(t, "8193", allocation.Code)
		assert.True(t, allocation.Available().Equal(decimal.NewFromInt(18000)))
	})

	t.Run("returns nil for unknown code", func(t *testing.T) {
		repo, mock, mockDB := newMockBudgetRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "budget_allocations"`).
			WithArgs("9999", 2026, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		allocation, err := repo.FindByCode(context.Background(), "9999", 2026)
		require.NoError(t, err)
		assert.Nil(t, allocation)
	})
}
