package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nlcorner/admin-api/internal/models"
)

// ProfileRepository provides database access to student profiles.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new instance of ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, user_id, full_name, email, phone, year_of_study, program, verified, admin_approved, device_id, created_at, updated_at`

// List returns profiles matching the filter with a total count, newest first.
func (r *ProfileRepository) List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, int, error) {
	baseQuery := `FROM profiles WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(full_name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.YearOfStudy != "" {
		conditions = append(conditions, fmt.Sprintf("year_of_study = $%d", len(args)+1))
		args = append(args, filter.YearOfStudy)
	}
	if filter.Program != "" {
		conditions = append(conditions, fmt.Sprintf("program = $%d", len(args)+1))
		args = append(args, filter.Program)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", profileColumns, baseQuery, limit, offset)

	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}

	return profiles, total, nil
}

// FindByUserID returns the profile bound to a user identity.
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := fmt.Sprintf("SELECT %s FROM profiles WHERE user_id = $1 LIMIT 1", profileColumns)
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find profile by user id: %w", err)
	}
	return &profile, nil
}

// SetAdminApproved toggles the approval flag on a profile.
func (r *ProfileRepository) SetAdminApproved(ctx context.Context, id string, approved bool) error {
	const query = `UPDATE profiles SET admin_approved = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, approved, time.Now().UTC()); err != nil {
		return fmt.Errorf("set admin approved: %w", err)
	}
	return nil
}

// ClearDevice removes the device binding from a profile.
func (r *ProfileRepository) ClearDevice(ctx context.Context, id string) error {
	const query = `UPDATE profiles SET device_id = NULL, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("clear device binding: %w", err)
	}
	return nil
}

// CountAll returns the total number of profiles.
func (r *ProfileRepository) CountAll(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM profiles`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count all profiles: %w", err)
	}
	return total, nil
}

// Recent returns the newest profiles for the activity feed.
func (r *ProfileRepository) Recent(ctx context.Context, limit int) ([]models.Profile, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf("SELECT %s FROM profiles ORDER BY created_at DESC LIMIT %d", profileColumns, limit)
	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("recent profiles: %w", err)
	}
	return profiles, nil
}

// DailyNewCounts returns per-day registration counts for the trailing window.
func (r *ProfileRepository) DailyNewCounts(ctx context.Context, since time.Time) (map[string]int, error) {
	const query = `SELECT DATE(created_at) AS day, COUNT(*) AS total FROM profiles WHERE created_at >= $1 GROUP BY DATE(created_at)`
	rows := []struct {
		Day   time.Time `db:"day"`
		Total int       `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, since); err != nil {
		return nil, fmt.Errorf("daily new profile counts: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Day.Format("2006-01-02")] = row.Total
	}
	return counts, nil
}
