// Package service wraps ports.JobRepository with the business rules
// the rest of the pipeline depends on.
package service

import (
	"context"
	"fmt"

	"github.com/mwozniak/jobrank/internal/errs"
	"github.com/mwozniak/jobrank/internal/platform/logger"
	"github.com/mwozniak/jobrank/modules/jobs/model"
	"github.com/mwozniak/jobrank/modules/jobs/ports"
)

// JobService coordinates job persistence for the scrape and matching
// stages.
type JobService struct {
	repo ports.JobRepository
	log  *logger.Logger
}

// New creates a JobService.
func New(repo ports.JobRepository, log *logger.Logger) *JobService {
	return &JobService{repo: repo, log: log}
}

// Ingest upserts a single scraped job.
func (s *JobService) Ingest(ctx context.Context, job *model.Job) error {
	if err := s.repo.Upsert(ctx, job); err != nil {
		return fmt.Errorf("ingest job %s: %w", job.JobID, err)
	}
	return nil
}

// IngestBatch upserts jobs as a single checkpoint transaction, the
// batch pipeline's incremental commit unit.
func (s *JobService) IngestBatch(ctx context.Context, jobs []*model.Job) error {
	if err := s.repo.UpsertBatch(ctx, jobs); err != nil {
		return fmt.Errorf("ingest batch of %d jobs: %w", len(jobs), err)
	}
	return nil
}

// ReconcileSeen marks every active job not present in seenJobIDs as
// inactive, the tail step of a full portal enumeration pass.
func (s *JobService) ReconcileSeen(ctx context.Context, seenJobIDs []string) (int, error) {
	n, err := s.repo.MarkInactive(ctx, seenJobIDs)
	if err != nil {
		return 0, err
	}
	s.log.Sugar().Infow("reconciled job lifecycle", "marked_inactive", n)
	return n, nil
}

// Active returns all currently active jobs.
func (s *JobService) Active(ctx context.Context) ([]*model.Job, error) {
	return s.repo.List(ctx, ports.JobFilter{})
}

// All returns active and inactive jobs.
func (s *JobService) All(ctx context.Context) ([]*model.Job, error) {
	return s.repo.List(ctx, ports.JobFilter{IncludeInactive: true})
}

// Get retrieves a job by id, wrapping not-found with the store kind,
// which errs.KindOf classifies as fatal.
func (s *JobService) Get(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := s.repo.Get(ctx, jobID)
	if err != nil {
		if err == model.ErrJobNotFound {
			return nil, fmt.Errorf("%w: %s", errs.ErrStore, err)
		}
		return nil, err
	}
	return job, nil
}

// Count returns the total number of persisted jobs.
func (s *JobService) Count(ctx context.Context) (int, error) {
	return s.repo.Stats(ctx)
}
