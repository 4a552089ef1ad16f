package models

import "time"

// Profile is a student's enrollment record. It is created by the external
// registration flow; the dashboard only mutates its flags and device binding.
type Profile struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"userId"`
	FullName      string    `db:"full_name" json:"fullName"`
	Email         string    `db:"email" json:"email"`
	Phone         string    `db:"phone" json:"phone"`
	YearOfStudy   string    `db:"year_of_study" json:"yearOfStudy"`
	Program       string    `db:"program" json:"program"`
	Verified      bool      `db:"verified" json:"verified"`
	AdminApproved bool      `db:"admin_approved" json:"adminApproved"`
	DeviceID      *string   `db:"device_id" json:"deviceId,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// ProfileFilter captures the student list query parameters.
type ProfileFilter struct {
	Search      string
	YearOfStudy string
	Program     string
	Limit       int
	Offset      int
}

// StudentDetail is a profile joined with its subscription, when one exists.
type StudentDetail struct {
	Profile
	Subscription *Subscription `json:"subscription"`
}
