package models

import "time"

// ContentType enumerates the kinds of learning material.
type ContentType string

const (
	ContentPDF        ContentType = "PDF"
	ContentAudio      ContentType = "AUDIO"
	ContentPastPaper  ContentType = "PAST_PAPER"
	ContentMarkingKey ContentType = "MARKING_KEY"
)

// ContentFilterMedia is a virtual list filter combining PDF and AUDIO.
// It is resolved by post-filtering a superset result, not by the store.
const ContentFilterMedia = "media"

// Content is a metadata record pointing at an externally stored binary.
type Content struct {
	ID            string      `db:"id" json:"id"`
	Title         string      `db:"title" json:"title"`
	Description   string      `db:"description" json:"description"`
	Type          ContentType `db:"type" json:"type"`
	YearOfStudy   string      `db:"year_of_study" json:"yearOfStudy"`
	Program       string      `db:"program" json:"program"`
	Subject       *string     `db:"subject" json:"subject,omitempty"`
	StorageFileID string      `db:"storage_file_id" json:"storageFileId"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updatedAt"`
}

// ContentFilter captures the content list query parameters.
type ContentFilter struct {
	Search      string
	Type        string
	YearOfStudy string
	Program     string
	Limit       int
}
