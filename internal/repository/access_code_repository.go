package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nlcorner/admin-api/internal/models"
)

// AccessCodeRepository provides database access to access codes.
type AccessCodeRepository struct {
	db *sqlx.DB
}

// NewAccessCodeRepository creates a new instance of AccessCodeRepository.
func NewAccessCodeRepository(db *sqlx.DB) *AccessCodeRepository {
	return &AccessCodeRepository{db: db}
}

const accessCodeColumns = `id, code, duration_days, is_used, used_by_user_id, used_at, created_at`

// Create inserts a new access code.
func (r *AccessCodeRepository) Create(ctx context.Context, code *models.AccessCode) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO access_codes (id, code, duration_days, is_used, used_by_user_id, used_at, created_at) VALUES (:id, :code, :duration_days, :is_used, :used_by_user_id, :used_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, code); err != nil {
		return fmt.Errorf("create access code: %w", err)
	}
	return nil
}

// List returns codes matching the filter with a total count, newest first.
func (r *AccessCodeRepository) List(ctx context.Context, filter models.AccessCodeFilter) ([]models.AccessCode, int, error) {
	baseQuery := `FROM access_codes WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Used != nil {
		conditions = append(conditions, fmt.Sprintf("is_used = $%d", len(args)+1))
		args = append(args, *filter.Used)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", accessCodeColumns, baseQuery, limit, offset)

	var codes []models.AccessCode
	if err := r.db.SelectContext(ctx, &codes, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list access codes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count access codes: %w", err)
	}

	return codes, total, nil
}

// ExistsUnusedForUser reports whether a user already holds an unredeemed code.
func (r *AccessCodeRepository) ExistsUnusedForUser(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM access_codes WHERE used_by_user_id = $1 AND is_used = FALSE)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID); err != nil {
		return false, fmt.Errorf("check pending access code: %w", err)
	}
	return exists, nil
}

// CountUsed returns the number of redeemed codes.
func (r *AccessCodeRepository) CountUsed(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM access_codes WHERE is_used = TRUE`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count used access codes: %w", err)
	}
	return total, nil
}
