package models

import "time"

// Admin is a membership record granting dashboard access. The admin set must
// never become empty; removal is pre-checked in the service layer.
type Admin struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
