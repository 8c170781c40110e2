// Package filter implements the post-score decision engine: which
// scored jobs to keep, drop, or autosave, and how to order a batch.
package filter

import (
	"sort"
	"strings"

	"github.com/mwozniak/jobrank/internal/config"
	jobmodel "github.com/mwozniak/jobrank/modules/jobs/model"
	"github.com/mwozniak/jobrank/modules/matcher"
)

// Decision is the outcome of evaluating one job in streaming mode.
type Decision string

const (
	DecisionKeep     Decision = "keep"
	DecisionDrop     Decision = "drop"
	DecisionAutosave Decision = "autosave_to_folder"
)

// Engine evaluates the configured predicate set against scored jobs.
type Engine struct {
	cfg config.FilterConfig
}

// New creates an Engine.
func New(cfg config.FilterConfig) *Engine {
	return &Engine{cfg: cfg}
}

// DecideRealtime evaluates a single job during streaming mode.
func (e *Engine) DecideRealtime(job *jobmodel.Job, result *matcher.Result) Decision {
	if !e.passes(job, result) {
		return DecisionDrop
	}
	if result.FitScore >= e.cfg.AutoSaveThreshold {
		return DecisionAutosave
	}
	return DecisionKeep
}

// Pair bundles a job with its match result for batch processing.
type Pair struct {
	Job    *jobmodel.Job
	Result *matcher.Result
}

// ApplyBatch filters pairs through the predicate set and returns the
// survivors sorted by fit_score descending, ties broken by job_id
// ascending.
func (e *Engine) ApplyBatch(pairs []Pair) []Pair {
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if e.passes(p.Job, p.Result) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Result.FitScore != out[j].Result.FitScore {
			return out[i].Result.FitScore > out[j].Result.FitScore
		}
		return out[i].Job.JobID < out[j].Job.JobID
	})
	return out
}

func (e *Engine) passes(job *jobmodel.Job, result *matcher.Result) bool {
	if result.FitScore < e.cfg.MinMatchScore {
		return false
	}
	if !matchedLocation(job.Location, e.cfg.PreferredLocations) {
		return false
	}
	if companyAvoided(job.Company, e.cfg.CompaniesToAvoid) {
		return false
	}
	if !matchesKeywords(job.Title, job.Summary, e.cfg.KeywordsToMatch) {
		return false
	}
	return true
}

func matchedLocation(location string, preferred []string) bool {
	if len(preferred) == 0 {
		return true
	}
	lower := strings.ToLower(location)
	for _, p := range preferred {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "remote" {
			for _, tok := range strings.Fields(lower) {
				if tok == "remote" {
					return true
				}
			}
			continue
		}
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func companyAvoided(company string, avoid []string) bool {
	lower := strings.ToLower(company)
	for _, a := range avoid {
		if lower == strings.ToLower(strings.TrimSpace(a)) {
			return true
		}
	}
	return false
}

func matchesKeywords(title, summary string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	haystack := strings.ToLower(title + " " + summary)
	for _, kw := range keywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
