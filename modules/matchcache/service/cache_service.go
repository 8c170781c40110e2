// Package service implements the versioned lookup-or-miss match cache
// policy over ports.MatchRepository.
package service

import (
	"context"
	"errors"

	"github.com/mwozniak/jobrank/internal/platform/logger"
	jobmodel "github.com/mwozniak/jobrank/modules/jobs/model"
	"github.com/mwozniak/jobrank/modules/matcher"
	"github.com/mwozniak/jobrank/modules/matchcache"
	"github.com/mwozniak/jobrank/modules/matchcache/ports"
)

// CacheService resolves a job's match result from cache, recomputing
// via the supplied scorer on a miss or version mismatch.
type CacheService struct {
	repo    ports.MatchRepository
	scorer  *matcher.Scorer
	version string
	log     *logger.Logger
}

// New creates a CacheService bound to the current engine version.
func New(repo ports.MatchRepository, scorer *matcher.Scorer, version string, log *logger.Logger) *CacheService {
	return &CacheService{repo: repo, scorer: scorer, version: version, log: log}
}

// Resolve returns the cached result for job if it is current, otherwise
// computes, persists, and returns a fresh one. The bool return reports
// whether the cache was hit.
func (c *CacheService) Resolve(ctx context.Context, job *jobmodel.Job, forceRecompute bool) (*matcher.Result, bool, error) {
	if !forceRecompute {
		cached, err := c.repo.Get(ctx, job.JobID)
		if err == nil && cached.AnalysisVersion == c.version {
			return cached, true, nil
		}
		if err != nil && !errors.Is(err, matchcache.ErrMatchNotFound) {
			return nil, false, err
		}
	}

	result, err := c.scorer.Score(ctx, job)
	if err != nil {
		return nil, false, err
	}
	if err := c.repo.Upsert(ctx, result); err != nil {
		return nil, false, err
	}
	return result, false, nil
}

// Clear removes every cached result, used by the clear-cache
// maintenance command.
func (c *CacheService) Clear(ctx context.Context) (int, error) {
	return c.repo.Clear(ctx)
}
