// Package repository implements ports.CoverLetterRepository against the
// local SQLite store.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mwozniak/jobrank/internal/errs"
	"github.com/mwozniak/jobrank/modules/coverletters/model"
)

// ErrCoverLetterNotFound is returned when no cover letter exists for a
// job.
var ErrCoverLetterNotFound = errors.New("cover letter not found")

// CoverLetterRepository implements ports.CoverLetterRepository.
type CoverLetterRepository struct {
	db *sqlx.DB
}

// NewCoverLetterRepository creates a new cover letter repository.
func NewCoverLetterRepository(db *sqlx.DB) *CoverLetterRepository {
	return &CoverLetterRepository{db: db}
}

// Record inserts a new cover letter row and returns its id.
func (r *CoverLetterRepository) Record(ctx context.Context, cl *model.CoverLetter) (int64, error) {
	cl.GeneratedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO cover_letters (job_id, body, file_path, is_uploaded, generated_at)
		VALUES (?, ?, ?, ?, ?)`,
		cl.JobID, cl.Body, cl.FilePath, cl.IsUploaded, cl.GeneratedAt)
	if err != nil {
		return 0, fmt.Errorf("%w: record cover letter for %s: %v", errs.ErrStore, cl.JobID, err)
	}
	return res.LastInsertId()
}

// MarkUploaded flags a cover letter as uploaded and records its final
// file path.
func (r *CoverLetterRepository) MarkUploaded(ctx context.Context, id int64, filePath string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE cover_letters SET is_uploaded = 1, file_path = ? WHERE id = ?`, filePath, id)
	if err != nil {
		return fmt.Errorf("%w: mark cover letter %d uploaded: %v", errs.ErrStore, id, err)
	}
	return nil
}

// GetForJob retrieves the most recently generated cover letter for a
// job.
func (r *CoverLetterRepository) GetForJob(ctx context.Context, jobID string) (*model.CoverLetter, error) {
	var cl model.CoverLetter
	err := r.db.GetContext(ctx, &cl, `
		SELECT * FROM cover_letters WHERE job_id = ? ORDER BY generated_at DESC LIMIT 1`, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCoverLetterNotFound
		}
		return nil, fmt.Errorf("%w: get cover letter for %s: %v", errs.ErrStore, jobID, err)
	}
	return &cl, nil
}
