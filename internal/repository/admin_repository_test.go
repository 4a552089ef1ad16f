package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/nlcorner/admin-api/internal/models"
)

func newAdminRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAdminRepositoryListAndCount(t *testing.T) {
	db, mock, cleanup := newAdminRepoMock(t)
	defer cleanup()

	repo := NewAdminRepository(db)
	rows := sqlmock.NewRows([]string{"id", "user_id", "email", "created_at"}).
		AddRow("adm-1", "user-1", "one@nlc.app", time.Now()).
		AddRow("adm-2", "user-2", "two@nlc.app", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, email, created_at FROM admins ORDER BY created_at ASC")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM admins")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	admins, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, admins, 2)
	require.Equal(t, "user-1", admins[0].UserID)

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryFindByUserIDNotFound(t *testing.T) {
	db, mock, cleanup := newAdminRepoMock(t)
	defer cleanup()

	repo := NewAdminRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, email, created_at FROM admins WHERE user_id = $1 LIMIT 1")).
		WithArgs("user-9").
		WillReturnError(sql.ErrNoRows)

	admin, err := repo.FindByUserID(context.Background(), "user-9")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.Nil(t, admin)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryExistsByUserID(t *testing.T) {
	db, mock, cleanup := newAdminRepoMock(t)
	defer cleanup()

	repo := NewAdminRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM admins WHERE user_id = $1)")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryCreateAndDelete(t *testing.T) {
	db, mock, cleanup := newAdminRepoMock(t)
	defer cleanup()

	repo := NewAdminRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admins")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM admins WHERE id = $1")).
		WithArgs("adm-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	admin := &models.Admin{UserID: "user-3", Email: "three@nlc.app"}
	require.NoError(t, repo.Create(context.Background(), admin))
	require.NotEmpty(t, admin.ID)

	require.NoError(t, repo.Delete(context.Background(), "adm-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
