package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/nlcorner/admin-api/internal/models"
)

// SubscriptionRepository provides database access to subscriptions.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository creates a new instance of SubscriptionRepository.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, user_id, status, start_date, end_date, updated_at`

// FindByUserID returns the subscription held by a user.
func (r *SubscriptionRepository) FindByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	query := fmt.Sprintf("SELECT %s FROM subscriptions WHERE user_id = $1 LIMIT 1", subscriptionColumns)
	var sub models.Subscription
	if err := r.db.GetContext(ctx, &sub, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find subscription by user id: %w", err)
	}
	return &sub, nil
}

// FindByUserIDs returns subscriptions held by any of the given users.
func (r *SubscriptionRepository) FindByUserIDs(ctx context.Context, userIDs []string) ([]models.Subscription, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM subscriptions WHERE user_id = ANY($1)", subscriptionColumns)
	var subs []models.Subscription
	if err := r.db.SelectContext(ctx, &subs, query, pq.Array(userIDs)); err != nil {
		return nil, fmt.Errorf("find subscriptions by user ids: %w", err)
	}
	return subs, nil
}

// Create inserts a new subscription record.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.UpdatedAt.IsZero() {
		sub.UpdatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO subscriptions (id, user_id, status, start_date, end_date, updated_at) VALUES (:id, :user_id, :status, :start_date, :end_date, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

// UpdateTerm sets the status and end date of an existing subscription.
func (r *SubscriptionRepository) UpdateTerm(ctx context.Context, id string, status models.SubscriptionStatus, endDate time.Time) error {
	const query = `UPDATE subscriptions SET status = $2, end_date = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, endDate, time.Now().UTC()); err != nil {
		return fmt.Errorf("update subscription term: %w", err)
	}
	return nil
}

// CountByStatus returns the number of subscriptions in the given state.
func (r *SubscriptionRepository) CountByStatus(ctx context.Context, status models.SubscriptionStatus) (int, error) {
	const query = `SELECT COUNT(*) FROM subscriptions WHERE status = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, status); err != nil {
		return 0, fmt.Errorf("count subscriptions by status: %w", err)
	}
	return total, nil
}
