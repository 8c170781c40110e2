// Package model defines the Application entity tracking submission
// status for a job.
package model

import "time"

// Status values an Application can hold across its lifecycle.
const (
	StatusDraft            = "draft"
	StatusSubmitted        = "submitted"
	StatusSkippedExternal  = "skipped-external"
	StatusSkippedExtraDocs = "skipped-extra-docs"
	StatusSkippedPrescreen = "skipped-prescreen"
	StatusFailed           = "failed"
)

// Application records one submission attempt for a job.
type Application struct {
	ID                int64     `db:"id"`
	JobID             string    `db:"job_id"`
	CoverLetterID     *int64    `db:"cover_letter_id"`
	Status            string    `db:"status"`
	UploadedDocuments []string  `db:"-"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}
