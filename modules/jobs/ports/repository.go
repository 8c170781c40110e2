package ports

import (
	"context"

	"github.com/mwozniak/jobrank/modules/jobs/model"
)

// JobFilter narrows List results; zero value means "all active jobs".
type JobFilter struct {
	IncludeInactive bool
	Location        string
}

// JobRepository defines persistence for Job.
type JobRepository interface {
	// Upsert inserts or updates by job_id; sets updated_at always, and
	// scraped_at only on insert.
	Upsert(ctx context.Context, job *model.Job) error
	// UpsertBatch upserts every job in jobs as a single transaction,
	// committed once after every job in the slice is upserted. This is the batch
	// pipeline's incremental-checkpoint unit: a run interrupted mid-batch
	// loses at most one uncommitted batch of jobs. An empty slice is a
	// no-op.
	UpsertBatch(ctx context.Context, jobs []*model.Job) error
	Get(ctx context.Context, jobID string) (*model.Job, error)
	List(ctx context.Context, filter JobFilter) ([]*model.Job, error)
	// MarkInactive flags jobs no longer enumerated by the portal as
	// inactive rather than deleting them.
	MarkInactive(ctx context.Context, seenJobIDs []string) (int, error)
	Delete(ctx context.Context, jobID string) error
	Stats(ctx context.Context) (int, error)
}
