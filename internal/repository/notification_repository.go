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

// NotificationRepository provides database access to dashboard notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, type, title, message, target_url, read, read_at, created_at`

// List returns notifications matching the filter, newest first.
func (r *NotificationRepository) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error) {
	baseQuery := `FROM notifications WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Type != "" && filter.Type != "all" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.UnreadOnly {
		conditions = append(conditions, "read = FALSE")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d", notificationColumns, baseQuery, limit)

	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, listQuery, args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// Create inserts a new notification record.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notifications (id, type, title, message, target_url, read, read_at, created_at) VALUES (:id, :type, :title, :message, :target_url, :read, :read_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// SetRead updates the read flag of a notification and returns the record.
func (r *NotificationRepository) SetRead(ctx context.Context, id string, read bool, readAt time.Time) (*models.Notification, error) {
	const query = `UPDATE notifications SET read = $2, read_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, read, readAt)
	if err != nil {
		return nil, fmt.Errorf("set notification read: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, sql.ErrNoRows
	}

	findQuery := fmt.Sprintf("SELECT %s FROM notifications WHERE id = $1 LIMIT 1", notificationColumns)
	var notification models.Notification
	if err := r.db.GetContext(ctx, &notification, findQuery, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("reload notification: %w", err)
	}
	return &notification, nil
}

// MarkAllRead flags every unread notification and returns how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, readAt time.Time) (int, error) {
	const query = `UPDATE notifications SET read = TRUE, read_at = $1 WHERE read = FALSE`
	res, err := r.db.ExecContext(ctx, query, readAt)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return int(affected), nil
}
