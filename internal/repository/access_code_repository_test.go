package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/nlcorner/admin-api/internal/models"
)

func newAccessCodeRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAccessCodeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newAccessCodeRepoMock(t)
	defer cleanup()

	repo := NewAccessCodeRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO access_codes")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	code := &models.AccessCode{
		Code:         "NLC-A1B2C3",
		DurationDays: 30,
	}
	require.NoError(t, repo.Create(context.Background(), code))
	require.NotEmpty(t, code.ID)
	require.False(t, code.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessCodeRepositoryListUsedFilter(t *testing.T) {
	db, mock, cleanup := newAccessCodeRepoMock(t)
	defer cleanup()

	repo := NewAccessCodeRepository(db)
	userID := "user-1"
	usedAt := time.Now()
	rows := sqlmock.NewRows([]string{"id", "code", "duration_days", "is_used", "used_by_user_id", "used_at", "created_at"}).
		AddRow("code-1", "NLC-XY12AB", 30, true, userID, usedAt, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, duration_days, is_used, used_by_user_id, used_at, created_at FROM access_codes WHERE 1=1 AND is_used = $1")).
		WithArgs(true).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM access_codes WHERE 1=1 AND is_used = $1")).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	used := true
	codes, total, err := repo.List(context.Background(), models.AccessCodeFilter{Used: &used})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, codes, 1)
	require.Equal(t, "NLC-XY12AB", codes[0].Code)
	require.NotNil(t, codes[0].UsedByUserID)
	require.Equal(t, userID, *codes[0].UsedByUserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessCodeRepositoryExistsUnusedForUser(t *testing.T) {
	db, mock, cleanup := newAccessCodeRepoMock(t)
	defer cleanup()

	repo := NewAccessCodeRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM access_codes WHERE used_by_user_id = $1 AND is_used = FALSE)")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsUnusedForUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessCodeRepositoryCountUsed(t *testing.T) {
	db, mock, cleanup := newAccessCodeRepoMock(t)
	defer cleanup()

	repo := NewAccessCodeRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM access_codes WHERE is_used = TRUE")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	total, err := repo.CountUsed(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
