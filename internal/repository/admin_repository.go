package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nlcorner/admin-api/internal/models"
)

// AdminRepository provides database access to the admin membership set.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository creates a new instance of AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// List returns all admin records, oldest first.
func (r *AdminRepository) List(ctx context.Context) ([]models.Admin, error) {
	const query = `SELECT id, user_id, email, created_at FROM admins ORDER BY created_at ASC`
	var admins []models.Admin
	if err := r.db.SelectContext(ctx, &admins, query); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// Count returns the size of the admin set.
func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM admins`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return total, nil
}

// FindByUserID returns the admin record for a user.
func (r *AdminRepository) FindByUserID(ctx context.Context, userID string) (*models.Admin, error) {
	const query = `SELECT id, user_id, email, created_at FROM admins WHERE user_id = $1 LIMIT 1`
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find admin by user id: %w", err)
	}
	return &admin, nil
}

// ExistsByUserID reports whether a user is a member of the admin set.
func (r *AdminRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM admins WHERE user_id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID); err != nil {
		return false, fmt.Errorf("check admin membership: %w", err)
	}
	return exists, nil
}

// Create inserts a new admin membership record.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO admins (id, user_id, email, created_at) VALUES (:id, :user_id, :email, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

// Delete removes an admin membership record.
func (r *AdminRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM admins WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	return nil
}
