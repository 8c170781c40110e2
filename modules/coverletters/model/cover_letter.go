// Package model defines the CoverLetter entity: a generated, optionally
// rendered-and-uploaded document tied to one job.
package model

import "time"

// CoverLetter is a generated cover letter for a job application.
type CoverLetter struct {
	ID         int64     `db:"id"`
	JobID      string    `db:"job_id"`
	Body       string    `db:"body"`
	FilePath   *string   `db:"file_path"`
	IsUploaded bool      `db:"is_uploaded"`
	GeneratedAt time.Time `db:"generated_at"`
}
