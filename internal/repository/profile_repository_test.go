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

func newProfileRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func profileRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "full_name", "email", "phone", "year_of_study",
		"program", "verified", "admin_approved", "device_id", "created_at", "updated_at",
	})
	for _, id := range ids {
		rows.AddRow(id, "user-"+id, "Student "+id, id+"@nlc.app", "0970000000",
			"yearone", "RN", true, true, nil, time.Now(), time.Now())
	}
	return rows
}

func TestProfileRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newProfileRepoMock(t)
	defer cleanup()

	repo := NewProfileRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, full_name, email, phone, year_of_study, program, verified, admin_approved, device_id, created_at, updated_at FROM profiles WHERE 1=1 AND LOWER(full_name) LIKE $1 AND year_of_study = $2 AND program = $3")).
		WithArgs("%jane%", "yearone", "RN").
		WillReturnRows(profileRows("p1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM profiles WHERE 1=1 AND LOWER(full_name) LIKE $1 AND year_of_study = $2 AND program = $3")).
		WithArgs("%jane%", "yearone", "RN").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	profiles, total, err := repo.List(context.Background(), models.ProfileFilter{
		Search:      "Jane",
		YearOfStudy: "yearone",
		Program:     "RN",
	})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, profiles, 1)
	require.Equal(t, "p1", profiles[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositorySetAdminApproved(t *testing.T) {
	db, mock, cleanup := newProfileRepoMock(t)
	defer cleanup()

	repo := NewProfileRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE profiles SET admin_approved = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("p1", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetAdminApproved(context.Background(), "p1", false))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryClearDevice(t *testing.T) {
	db, mock, cleanup := newProfileRepoMock(t)
	defer cleanup()

	repo := NewProfileRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE profiles SET device_id = NULL, updated_at = $2 WHERE id = $1")).
		WithArgs("p1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ClearDevice(context.Background(), "p1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryDailyNewCounts(t *testing.T) {
	db, mock, cleanup := newProfileRepoMock(t)
	defer cleanup()

	repo := NewProfileRepository(db)
	since := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"day", "total"}).
		AddRow(time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), 3).
		AddRow(time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC), 1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DATE(created_at) AS day, COUNT(*) AS total FROM profiles WHERE created_at >= $1 GROUP BY DATE(created_at)")).
		WithArgs(since).
		WillReturnRows(rows)

	counts, err := repo.DailyNewCounts(context.Background(), since)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"2026-03-02": 3, "2026-03-04": 1}, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}
