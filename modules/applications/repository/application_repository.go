// Package repository implements ports.ApplicationRepository against the
// local SQLite store.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mwozniak/jobrank/internal/errs"
	"github.com/mwozniak/jobrank/modules/applications/model"
)

// ErrApplicationNotFound is returned when no application exists for a
// job.
var ErrApplicationNotFound = errors.New("application not found")

type row struct {
	ID                int64     `db:"id"`
	JobID             string    `db:"job_id"`
	CoverLetterID     *int64    `db:"cover_letter_id"`
	Status            string    `db:"status"`
	UploadedDocuments string    `db:"uploaded_documents"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (r *row) toModel() (*model.Application, error) {
	app := &model.Application{
		ID: r.ID, JobID: r.JobID, CoverLetterID: r.CoverLetterID, Status: r.Status,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(r.UploadedDocuments), &app.UploadedDocuments); err != nil {
		return nil, fmt.Errorf("%w: decode uploaded_documents: %v", errs.ErrStore, err)
	}
	return app, nil
}

// ApplicationRepository implements ports.ApplicationRepository.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository creates a new application repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Record inserts a new application row and returns its id.
func (r *ApplicationRepository) Record(ctx context.Context, app *model.Application) (int64, error) {
	docs, err := json.Marshal(app.UploadedDocuments)
	if err != nil {
		return 0, fmt.Errorf("%w: encode uploaded_documents: %v", errs.ErrStore, err)
	}
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO applications (job_id, cover_letter_id, status, uploaded_documents, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		app.JobID, app.CoverLetterID, app.Status, string(docs), now, now)
	if err != nil {
		return 0, fmt.Errorf("%w: record application for %s: %v", errs.ErrStore, app.JobID, err)
	}
	return res.LastInsertId()
}

// UpdateStatus updates the status of an application.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE applications SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("%w: update application %d status: %v", errs.ErrStore, id, err)
	}
	return nil
}

// GetForJob retrieves the most recent application for a job.
func (r *ApplicationRepository) GetForJob(ctx context.Context, jobID string) (*model.Application, error) {
	var rw row
	err := r.db.GetContext(ctx, &rw, `
		SELECT * FROM applications WHERE job_id = ? ORDER BY created_at DESC LIMIT 1`, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("%w: get application for %s: %v", errs.ErrStore, jobID, err)
	}
	return rw.toModel()
}
