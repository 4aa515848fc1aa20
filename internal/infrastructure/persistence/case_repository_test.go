package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockCaseRepository creates a GormCaseRepository with a mocked SQL connection
func newMockCaseRepository(t *testing.T) (*GormCaseRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormCaseRepository(gormDB), mock, mockDB
}

func TestGormCaseRepository_NextProtocolSequence(t *testing.T) {
	t.Run("increments the yearly counter", func(t *testing.T) {
		repo, mock, mockDB := newMockCaseRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"value"}).AddRow(int64(43))

		mock.ExpectQuery(`INSERT INTO protocol_sequences`).
			WithArgs(2026).
			WillReturnRows(rows)

		seq, err := repo.NextProtocolSequence(context.Background(), 2026)
		require.NoError(t, err)
		assert.Equal(t, int64(43), seq)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mock, mockDB := newMockCaseRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO protocol_sequences`).
			WithArgs(2026).
			WillReturnError(sql.ErrConnDone)

		_, err := repo.NextProtocolSequence(context.Background(), 2026)
		assert.Error(t, err)
	})
}

func TestGormCaseRepository_FindByProtocol(t *testing.T) {
	t.Run("finds existing case", func(t *testing.T) {
		repo, mock, mockDB := newMockCaseRepository(t)
		defer mockDB.Close()

		caseID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "version", "protocol_number", "requester_id", "manager_id", "status", "custody"}).
			AddRow(caseID, 1, "SF-2026-00042", uuid.New(), uuid.New(), "OPEN", "REQUESTER")

		mock.ExpectQuery(`SELECT \* FROM "supply_cases" WHERE protocol_number = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("SF-2026-00042", 1).
			WillReturnRows(rows)

		c, err := repo.FindByProtocol(context.Background(), "SF-2026-00042")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, caseID, c.ID)
	})

	t.Run("returns nil for unknown protocol", func(t *testing.T) {
		repo, mock, mockDB := newMockCaseRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "supply_cases"`).
			WithArgs("SF-2026-99999", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		c, err := repo.FindByProtocol(context.Background(), "SF-2026-99999")
		require.NoError(t, err)
		assert.Nil(t, c)
	})
}
