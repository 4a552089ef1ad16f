package models

import "time"

// AccessCode is a redeemable token granting a subscription of a fixed
// duration. Redemption happens in an external flow; this side only issues,
// lists and exports codes. State moves one way: unused to used.
type AccessCode struct {
	ID           string     `db:"id" json:"id"`
	Code         string     `db:"code" json:"code"`
	DurationDays int        `db:"duration_days" json:"durationDays"`
	IsUsed       bool       `db:"is_used" json:"isUsed"`
	UsedByUserID *string    `db:"used_by_user_id" json:"usedByUserId,omitempty"`
	UsedAt       *time.Time `db:"used_at" json:"usedAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// AccessCodeFilter captures the code list query parameters.
type AccessCodeFilter struct {
	Used   *bool
	Limit  int
	Offset int
}
