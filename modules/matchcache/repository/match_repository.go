// Package repository implements ports.MatchRepository against the
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
	"github.com/mwozniak/jobrank/modules/matcher"
	"github.com/mwozniak/jobrank/modules/matchcache"
)

type row struct {
	JobID               string  `db:"job_id"`
	FitScore            float64 `db:"fit_score"`
	KeywordMatch        float64 `db:"keyword_match"`
	SemanticCoverage    float64 `db:"semantic_coverage"`
	SemanticStrength    float64 `db:"semantic_strength"`
	SeniorityAlignment  float64 `db:"seniority_alignment"`
	MatchedTechnologies string  `db:"matched_technologies"`
	MissingTechnologies string  `db:"missing_technologies"`
	Evidence            string  `db:"evidence"`
	AnalysisVersion     string  `db:"analysis_version"`
}

func (r *row) toResult() (*matcher.Result, error) {
	res := &matcher.Result{
		JobID: r.JobID, FitScore: r.FitScore, KeywordMatch: r.KeywordMatch,
		SemanticCoverage: r.SemanticCoverage, SemanticStrength: r.SemanticStrength,
		SeniorityAlignment: r.SeniorityAlignment, AnalysisVersion: r.AnalysisVersion,
	}
	if err := json.Unmarshal([]byte(r.MatchedTechnologies), &res.MatchedTechnologies); err != nil {
		return nil, fmt.Errorf("%w: decode matched_technologies: %v", errs.ErrStore, err)
	}
	if err := json.Unmarshal([]byte(r.MissingTechnologies), &res.MissingTechnologies); err != nil {
		return nil, fmt.Errorf("%w: decode missing_technologies: %v", errs.ErrStore, err)
	}
	if err := json.Unmarshal([]byte(r.Evidence), &res.Evidence); err != nil {
		return nil, fmt.Errorf("%w: decode evidence: %v", errs.ErrStore, err)
	}
	return res, nil
}

// MatchRepository implements ports.MatchRepository.
type MatchRepository struct {
	db *sqlx.DB
}

// NewMatchRepository creates a new match repository.
func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Get retrieves a cached result by job_id.
func (r *MatchRepository) Get(ctx context.Context, jobID string) (*matcher.Result, error) {
	var rw row
	err := r.db.GetContext(ctx, &rw, `
		SELECT job_id, fit_score, keyword_match, semantic_coverage, semantic_strength,
		       seniority_alignment, matched_technologies, missing_technologies, evidence, analysis_version
		FROM job_matches WHERE job_id = ?`, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, matchcache.ErrMatchNotFound
		}
		return nil, fmt.Errorf("%w: get match %s: %v", errs.ErrStore, jobID, err)
	}
	return rw.toResult()
}

// Upsert stores or replaces the cached result for a job.
func (r *MatchRepository) Upsert(ctx context.Context, result *matcher.Result) error {
	matched, err := json.Marshal(result.MatchedTechnologies)
	if err != nil {
		return fmt.Errorf("%w: encode matched_technologies: %v", errs.ErrStore, err)
	}
	missing, err := json.Marshal(result.MissingTechnologies)
	if err != nil {
		return fmt.Errorf("%w: encode missing_technologies: %v", errs.ErrStore, err)
	}
	evidence, err := json.Marshal(result.Evidence)
	if err != nil {
		return fmt.Errorf("%w: encode evidence: %v", errs.ErrStore, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO job_matches (
			job_id, fit_score, keyword_match, semantic_coverage, semantic_strength,
			seniority_alignment, matched_technologies, missing_technologies, evidence,
			analysis_version, analyzed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET
			fit_score = excluded.fit_score,
			keyword_match = excluded.keyword_match,
			semantic_coverage = excluded.semantic_coverage,
			semantic_strength = excluded.semantic_strength,
			seniority_alignment = excluded.seniority_alignment,
			matched_technologies = excluded.matched_technologies,
			missing_technologies = excluded.missing_technologies,
			evidence = excluded.evidence,
			analysis_version = excluded.analysis_version,
			analyzed_at = excluded.analyzed_at
	`,
		result.JobID, result.FitScore, result.KeywordMatch, result.SemanticCoverage,
		result.SemanticStrength, result.SeniorityAlignment, string(matched), string(missing),
		string(evidence), result.AnalysisVersion, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: upsert match %s: %v", errs.ErrStore, result.JobID, err)
	}
	return nil
}

// Delete removes a cached result.
func (r *MatchRepository) Delete(ctx context.Context, jobID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM job_matches WHERE job_id = ?`, jobID)
	if err != nil {
		return fmt.Errorf("%w: delete match %s: %v", errs.ErrStore, jobID, err)
	}
	return nil
}

// Clear removes every cached result, returning the number of rows
// deleted.
func (r *MatchRepository) Clear(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM job_matches`)
	if err != nil {
		return 0, fmt.Errorf("%w: clear matches: %v", errs.ErrStore, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
