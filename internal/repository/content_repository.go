package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nlcorner/admin-api/internal/models"
)

// ContentRepository provides database access to content metadata.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository creates a new instance of ContentRepository.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

const contentColumns = `id, title, description, type, year_of_study, program, subject, storage_file_id, created_at, updated_at`

// List returns content records matching the filter, newest first. Type
// filtering is passed through verbatim; combined categories are resolved by
// the service on top of a superset result.
func (r *ContentRepository) List(ctx context.Context, filter models.ContentFilter) ([]models.Content, error) {
	baseQuery := `FROM content WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(title) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, filter.Type)
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
	if limit <= 0 {
		limit = 50
	}

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d", contentColumns, baseQuery, limit)

	var items []models.Content
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return items, nil
}

// FindByID returns a content record by identifier.
func (r *ContentRepository) FindByID(ctx context.Context, id string) (*models.Content, error) {
	query := fmt.Sprintf("SELECT %s FROM content WHERE id = $1 LIMIT 1", contentColumns)
	var item models.Content
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return &item, nil
}

// Create inserts a new content metadata record.
func (r *ContentRepository) Create(ctx context.Context, item *models.Content) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	const query = `INSERT INTO content (id, title, description, type, year_of_study, program, subject, storage_file_id, created_at, updated_at) VALUES (:id, :title, :description, :type, :year_of_study, :program, :subject, :storage_file_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create content: %w", err)
	}
	return nil
}

// Delete removes a content metadata record.
func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM content WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

// CountAll returns the total number of content records.
func (r *ContentRepository) CountAll(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM content`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count content: %w", err)
	}
	return total, nil
}

// Recent returns the newest content records for the activity feed.
func (r *ContentRepository) Recent(ctx context.Context, limit int) ([]models.Content, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf("SELECT %s FROM content ORDER BY created_at DESC LIMIT %d", contentColumns, limit)
	var items []models.Content
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("recent content: %w", err)
	}
	return items, nil
}
