// Package repository implements ports.FolderRepository against the
// local SQLite store.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mwozniak/jobrank/internal/errs"
)

// FolderRepository implements ports.FolderRepository.
type FolderRepository struct {
	db *sqlx.DB
}

// NewFolderRepository creates a new folder repository.
func NewFolderRepository(db *sqlx.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

// Save records a job as a member of folder. Idempotent: saving the
// same (job, folder) pair twice is a no-op.
func (r *FolderRepository) Save(ctx context.Context, jobID, folder string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO saved_folders (job_id, folder_name, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT(job_id, folder_name) DO NOTHING`,
		jobID, folder, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: save job %s to folder %s: %v", errs.ErrStore, jobID, folder, err)
	}
	return nil
}

// ListFolder returns every job_id saved in folder.
func (r *FolderRepository) ListFolder(ctx context.Context, folder string) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids, `
		SELECT job_id FROM saved_folders WHERE folder_name = ? ORDER BY job_id ASC`, folder)
	if err != nil {
		return nil, fmt.Errorf("%w: list folder %s: %v", errs.ErrStore, folder, err)
	}
	return ids, nil
}
