package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestNextContractNumber(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContractRepository(db)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("first of the year", func(t *testing.T) {
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `contracts`").
			WithArgs("RW-2025-%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		number, err := repo.NextContractNumber(now)
		require.NoError(t, err)
		assert.Equal(t, "RW-2025-0001", number)
	})

	t.Run("sequence continues", func(t *testing.T) {
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `contracts`").
			WithArgs("RW-2025-%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))

		number, err := repo.NextContractNumber(now)
		require.NoError(t, err)
		assert.Equal(t, "RW-2025-0042", number)
	})

	t.Run("counter resets per year", func(t *testing.T) {
		next := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `contracts`").
			WithArgs("RW-2026-%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		number, err := repo.NextContractNumber(next)
		require.NoError(t, err)
		assert.Equal(t, "RW-2026-0001", number)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContractRepository(db)

	rows := sqlmock.NewRows([]string{"id", "contract_number", "status", "workflow_status"}).
		AddRow(7, "RW-2025-0007", "draft", "pending_admin_signature")
	mock.ExpectQuery("SELECT \\* FROM `contracts`").WillReturnRows(rows)

	c, err := repo.GetByID(7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), c.ID)
	assert.Equal(t, "RW-2025-0007", c.ContractNumber)
	assert.Equal(t, "draft", c.Status)

	mock.ExpectQuery("SELECT \\* FROM `contracts`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = repo.GetByID(99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContractRepository(db)

	mock.ExpectQuery("SELECT status, COUNT\\(\\*\\) AS n FROM `contracts`").
		WillReturnRows(sqlmock.NewRows([]string{"status", "n"}).
			AddRow("draft", 3).
			AddRow("active", 5).
			AddRow("completed", 2))

	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"draft": 3, "active": 5, "completed": 2}, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAwaitingSignature(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContractRepository(db)
	cutoff := time.Now().Add(-48 * time.Hour)

	mock.ExpectQuery("SELECT \\* FROM `contracts` WHERE status = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "contract_number", "status", "workflow_status"}).
			AddRow(1, "RW-2025-0001", "pending_signature", "pending_client_signature").
			AddRow(2, "RW-2025-0002", "pending_signature", "pending_admin_signature"))

	list, err := repo.ListAwaitingSignature(cutoff)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for i, c := range list {
		assert.Equal(t, "pending_signature", c.Status, fmt.Sprintf("row %d", i))
	}
	require.NoError(t, mock.ExpectationsWereMet())
}
