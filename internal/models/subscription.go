package models

import "time"

// SubscriptionStatus enumerates subscription lifecycle states.
type SubscriptionStatus string

const (
	SubscriptionStatusActive  SubscriptionStatus = "ACTIVE"
	SubscriptionStatusExpired SubscriptionStatus = "EXPIRED"
)

// Subscription grants a student timed access to content. Business logic
// assumes at most one per user; the store does not enforce it.
type Subscription struct {
	ID        string             `db:"id" json:"id"`
	UserID    string             `db:"user_id" json:"userId"`
	Status    SubscriptionStatus `db:"status" json:"status"`
	StartDate time.Time          `db:"start_date" json:"startDate"`
	EndDate   time.Time          `db:"end_date" json:"endDate"`
	UpdatedAt time.Time          `db:"updated_at" json:"updatedAt"`
}
