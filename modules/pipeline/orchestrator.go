// Package pipeline drives the scrape → extract → score → filter →
// persist sequence, in batch or streaming mode, with incremental
// checkpointing and cooperative cancellation.
package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mwozniak/jobrank/internal/config"
	"github.com/mwozniak/jobrank/internal/errs"
	"github.com/mwozniak/jobrank/internal/platform/llm"
	"github.com/mwozniak/jobrank/internal/platform/logger"
	"github.com/mwozniak/jobrank/internal/platform/portal"
	"github.com/mwozniak/jobrank/modules/filter"
	jobmodel "github.com/mwozniak/jobrank/modules/jobs/model"
	jobservice "github.com/mwozniak/jobrank/modules/jobs/service"
	cacheservice "github.com/mwozniak/jobrank/modules/matchcache/service"
)

// Summary reports the outcome of one orchestrator run.
type Summary struct {
	JobsEnumerated int
	JobsScored     int
	CacheHits      int
	Kept           int
	Autosaved      int
	Errors         int
}

// Orchestrator wires the portal session, job store, match cache, and
// filter engine into the two run modes.
type Orchestrator struct {
	session portal.Session
	jobs    *jobservice.JobService
	cache   *cacheservice.CacheService
	filter  *filter.Engine
	folders folderSaver
	log     *logger.Logger
	cfg     config.PipelineConfig
	llm     llm.LLM
}

type folderSaver interface {
	AutoSave(ctx context.Context, jobID, folder string)
}

// New creates an Orchestrator. llmClient may be nil, in which case
// postings are ingested with only their raw compensation text and no
// normalized value/currency/period.
func New(
	session portal.Session,
	jobs *jobservice.JobService,
	cache *cacheservice.CacheService,
	flt *filter.Engine,
	folders folderSaver,
	log *logger.Logger,
	cfg config.PipelineConfig,
	llmClient llm.LLM,
) *Orchestrator {
	return &Orchestrator{session: session, jobs: jobs, cache: cache, filter: flt, folders: folders, log: log, cfg: cfg, llm: llmClient}
}

// RunBatch enumerates and scores every job, then applies the batch
// filter and returns the ordered survivors plus a run summary.
func (o *Orchestrator) RunBatch(ctx context.Context) ([]filter.Pair, Summary, error) {
	var summary Summary

	runID := uuid.New().String()
	o.log.Sugar().Infow("starting batch run", "run_id", runID)

	if err := o.session.Login(ctx); err != nil {
		return nil, summary, fmt.Errorf("%w: %v", errs.ErrAuth, err)
	}

	rows, err := o.session.IterateJobs(ctx)
	if err != nil {
		return nil, summary, fmt.Errorf("%w: %v", errs.ErrFetch, err)
	}
	rows = o.capRows(rows)

	checkpointEvery := o.cfg.CheckpointEvery
	if checkpointEvery <= 0 {
		checkpointEvery = 1
	}

	seenIDs := make([]string, 0, len(rows))
	buffer := make([]*jobmodel.Job, 0, checkpointEvery)

	flush := func() error {
		if len(buffer) == 0 {
			return nil
		}
		if err := o.jobs.IngestBatch(ctx, buffer); err != nil {
			return err
		}
		buffer = buffer[:0]
		return nil
	}

	for _, row := range rows {
		select {
		case <-ctx.Done():
			if ferr := flush(); ferr != nil {
				return nil, summary, ferr
			}
			return nil, summary, ctx.Err()
		default:
		}

		job, err := o.buildJob(ctx, row)
		if err != nil {
			if errs.KindOf(err).Fatal() {
				return nil, summary, err
			}
			o.log.Sugar().Warnw("job fetch failed, skipping", "job_id", row.JobID, "error", err)
			summary.Errors++
			continue
		}
		buffer = append(buffer, job)
		seenIDs = append(seenIDs, job.JobID)
		summary.JobsEnumerated++

		if len(buffer) >= checkpointEvery {
			if err := flush(); err != nil {
				return nil, summary, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, summary, err
	}

	if _, err := o.jobs.ReconcileSeen(ctx, seenIDs); err != nil {
		return nil, summary, err
	}

	active, err := o.jobs.Active(ctx)
	if err != nil {
		return nil, summary, err
	}

	pairs := make([]filter.Pair, 0, len(active))
	for _, job := range active {
		select {
		case <-ctx.Done():
			return nil, summary, ctx.Err()
		default:
		}

		result, hit, err := o.cache.Resolve(ctx, job, false)
		if err != nil {
			if errs.KindOf(err).Fatal() {
				return nil, summary, err
			}
			o.log.Sugar().Warnw("scoring failed, skipping", "job_id", job.JobID, "error", err)
			summary.Errors++
			continue
		}
		summary.JobsScored++
		if hit {
			summary.CacheHits++
		}
		pairs = append(pairs, filter.Pair{Job: job, Result: result})
	}

	kept := o.filter.ApplyBatch(pairs)
	summary.Kept = len(kept)

	return kept, summary, nil
}

// RunStream processes each enumerated job as it arrives: score,
// decide, and autosave inline, without building a full in-memory batch.
func (o *Orchestrator) RunStream(ctx context.Context) (Summary, error) {
	var summary Summary

	runID := uuid.New().String()
	o.log.Sugar().Infow("starting stream run", "run_id", runID)

	if err := o.session.Login(ctx); err != nil {
		return summary, fmt.Errorf("%w: %v", errs.ErrAuth, err)
	}

	rows, err := o.session.IterateJobs(ctx)
	if err != nil {
		return summary, fmt.Errorf("%w: %v", errs.ErrFetch, err)
	}
	rows = o.capRows(rows)

	for _, row := range rows {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		job, err := o.fetchAndUpsert(ctx, row)
		if err != nil {
			if errs.KindOf(err).Fatal() {
				return summary, err
			}
			o.log.Sugar().Warnw("job fetch/upsert failed, skipping", "job_id", row.JobID, "error", err)
			summary.Errors++
			continue
		}
		summary.JobsEnumerated++

		result, hit, err := o.cache.Resolve(ctx, job, false)
		if err != nil {
			if errs.KindOf(err).Fatal() {
				return summary, err
			}
			o.log.Sugar().Warnw("scoring failed, skipping", "job_id", job.JobID, "error", err)
			summary.Errors++
			continue
		}
		summary.JobsScored++
		if hit {
			summary.CacheHits++
		}

		switch o.filter.DecideRealtime(job, result) {
		case filter.DecisionAutosave:
			summary.Kept++
			summary.Autosaved++
			o.folders.AutoSave(ctx, job.JobID, o.cfg.PortalFolder)
		case filter.DecisionKeep:
			summary.Kept++
		case filter.DecisionDrop:
		}
	}

	return summary, nil
}

// capRows truncates rows to cfg.MaxItems when the caller requested a cap.
func (o *Orchestrator) capRows(rows []portal.JobRow) []portal.JobRow {
	if o.cfg.MaxItems > 0 && len(rows) > o.cfg.MaxItems {
		return rows[:o.cfg.MaxItems]
	}
	return rows
}

// Close releases the portal session exactly once.
func (o *Orchestrator) Close() error {
	return o.session.Close()
}

// fetchAndUpsert builds a job from its detail fields and ingests it
// immediately, for the streaming pipeline where each job must be
// committed before the next stage (cache resolution) reads it back.
func (o *Orchestrator) fetchAndUpsert(ctx context.Context, row portal.JobRow) (*jobmodel.Job, error) {
	job, err := o.buildJob(ctx, row)
	if err != nil {
		return nil, err
	}
	if err := o.jobs.Ingest(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// buildJob fetches a job's detail fields and assembles the model
// without writing it to the store; the batch pipeline buffers the
// result and ingests a run of them together as one checkpoint.
func (o *Orchestrator) buildJob(ctx context.Context, row portal.JobRow) (*jobmodel.Job, error) {
	fields, err := o.session.FetchDetail(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch detail for %s: %v", errs.ErrFetch, row.JobID, err)
	}

	job := &jobmodel.Job{
		JobID:            row.JobID,
		Title:            fields["title"],
		Company:          fields["company"],
		Location:         fields["location"],
		Summary:          fields["summary"],
		Responsibilities: fields["responsibilities"],
		Skills:           fields["skills"],
		AdditionalInfo:   fields["additional_info"],
	}

	o.populateCompensation(ctx, job, fields["compensation"])

	return job, nil
}

// compensationPattern matches the LLM's normalized "<value> <currency>/<period>"
// line, e.g. "25.00 CAD/hour".
var compensationPattern = regexp.MustCompile(`^([\d,]+(?:\.\d+)?)\s+([A-Za-z]{3})/(\w+)$`)

// populateCompensation stores the raw compensation text on job and, when
// an LLM collaborator is configured, asks it to normalize the text into
// value/currency/period. Extraction failure is isolated: it is logged
// and job keeps its raw text with unparsed structured fields.
func (o *Orchestrator) populateCompensation(ctx context.Context, job *jobmodel.Job, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	job.CompensationRaw = &raw

	if o.llm == nil {
		return
	}
	line, err := o.llm.ExtractCompensation(ctx, raw)
	if err != nil {
		o.log.Sugar().Warnw("compensation extraction failed", "job_id", job.JobID, "error", err)
		return
	}
	job.CompensationValue, job.CompensationCurrency, job.CompensationPeriod = parseCompensationLine(line)
}

// parseCompensationLine parses the LLM's normalized compensation line,
// returning all-nil when the line is "unspecified" or doesn't match the
// expected shape.
func parseCompensationLine(line string) (*float64, *string, *string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.EqualFold(line, "unspecified") {
		return nil, nil, nil
	}
	m := compensationPattern.FindStringSubmatch(line)
	if m == nil {
		return nil, nil, nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return nil, nil, nil
	}
	currency := strings.ToUpper(m[2])
	period := strings.ToLower(m[3])
	return &value, &currency, &period
}
