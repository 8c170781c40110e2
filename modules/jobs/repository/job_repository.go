// Package repository implements ports.JobRepository against the local
// SQLite store: one exported type per aggregate, query strings as
// literals.
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
	"github.com/mwozniak/jobrank/modules/jobs/model"
	"github.com/mwozniak/jobrank/modules/jobs/ports"
)

// row mirrors the jobs table, with array columns as raw JSON text so
// sqlx can scan them directly before we unmarshal into model.Job.
type row struct {
	JobID        string     `db:"job_id"`
	Title        string     `db:"title"`
	Company      string     `db:"company"`
	Division     *string    `db:"division"`
	Location     string     `db:"location"`
	Level        *string    `db:"level"`
	Openings     int        `db:"openings"`
	Applications int        `db:"applications"`
	Deadline     *time.Time `db:"deadline"`

	Summary                       string `db:"summary"`
	Responsibilities              string `db:"responsibilities"`
	Skills                        string `db:"skills"`
	AdditionalInfo                string `db:"additional_info"`
	EmploymentLocationArrangement string `db:"employment_location_arrangement"`
	WorkTermDuration              string `db:"work_term_duration"`

	CompensationValue    *float64 `db:"compensation_value"`
	CompensationCurrency *string  `db:"compensation_currency"`
	CompensationPeriod   *string  `db:"compensation_period"`
	CompensationRaw      *string  `db:"compensation_raw"`

	ApplicationDocumentsRequired string `db:"application_documents_required"`
	TargetedDegreesDisciplines   string `db:"targeted_degrees_disciplines"`

	IsActive  bool      `db:"is_active"`
	ScrapedAt time.Time `db:"scraped_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *row) toModel() (*model.Job, error) {
	j := &model.Job{
		JobID: r.JobID, Title: r.Title, Company: r.Company, Division: r.Division,
		Location: r.Location, Level: r.Level, Openings: r.Openings, Applications: r.Applications,
		Deadline: r.Deadline,
		Summary: r.Summary, Responsibilities: r.Responsibilities, Skills: r.Skills,
		AdditionalInfo: r.AdditionalInfo, EmploymentLocationArrangement: r.EmploymentLocationArrangement,
		WorkTermDuration: r.WorkTermDuration,
		CompensationValue: r.CompensationValue, CompensationCurrency: r.CompensationCurrency,
		CompensationPeriod: r.CompensationPeriod, CompensationRaw: r.CompensationRaw,
		IsActive: r.IsActive, ScrapedAt: r.ScrapedAt, UpdatedAt: r.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(r.ApplicationDocumentsRequired), &j.ApplicationDocumentsRequired); err != nil {
		return nil, fmt.Errorf("%w: decode application_documents_required: %v", errs.ErrStore, err)
	}
	if err := json.Unmarshal([]byte(r.TargetedDegreesDisciplines), &j.TargetedDegreesDisciplines); err != nil {
		return nil, fmt.Errorf("%w: decode targeted_degrees_disciplines: %v", errs.ErrStore, err)
	}
	return j, nil
}

// execer is satisfied by both *sqlx.DB and *sqlx.Tx, so upsertOne can run
// a single upsert against a plain connection or inside an open
// transaction without the repository caring which.
type execer interface {
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// JobRepository implements ports.JobRepository.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository creates a new job repository.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Upsert inserts or updates a job by job_id, committed immediately.
func (r *JobRepository) Upsert(ctx context.Context, job *model.Job) error {
	return upsertOne(ctx, r.db, job)
}

// UpsertBatch upserts every job in jobs inside one transaction, committed
// once at the end; any failure rolls the whole batch back.
func (r *JobRepository) UpsertBatch(ctx context.Context, jobs []*model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin checkpoint transaction: %v", errs.ErrStore, err)
	}

	for _, job := range jobs {
		if err := upsertOne(ctx, tx, job); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit checkpoint transaction of %d jobs: %v", errs.ErrStore, len(jobs), err)
	}
	return nil
}

func upsertOne(ctx context.Context, exec execer, job *model.Job) error {
	if job.JobID == "" {
		return model.ErrJobIDRequired
	}

	docs, err := json.Marshal(job.ApplicationDocumentsRequired)
	if err != nil {
		return fmt.Errorf("%w: encode application_documents_required: %v", errs.ErrStore, err)
	}
	degrees, err := json.Marshal(job.TargetedDegreesDisciplines)
	if err != nil {
		return fmt.Errorf("%w: encode targeted_degrees_disciplines: %v", errs.ErrStore, err)
	}

	now := time.Now().UTC()
	job.UpdatedAt = now

	const query = `
		INSERT INTO jobs (
			job_id, title, company, division, location, level, openings, applications, deadline,
			summary, responsibilities, skills, additional_info, employment_location_arrangement, work_term_duration,
			compensation_value, compensation_currency, compensation_period, compensation_raw,
			application_documents_required, targeted_degrees_disciplines,
			is_active, scraped_at, updated_at
		) VALUES (
			:job_id, :title, :company, :division, :location, :level, :openings, :applications, :deadline,
			:summary, :responsibilities, :skills, :additional_info, :employment_location_arrangement, :work_term_duration,
			:compensation_value, :compensation_currency, :compensation_period, :compensation_raw,
			:application_documents_required, :targeted_degrees_disciplines,
			1, :scraped_at, :updated_at
		)
		ON CONFLICT(job_id) DO UPDATE SET
			title = excluded.title,
			company = excluded.company,
			division = excluded.division,
			location = excluded.location,
			level = excluded.level,
			openings = excluded.openings,
			applications = excluded.applications,
			deadline = excluded.deadline,
			summary = excluded.summary,
			responsibilities = excluded.responsibilities,
			skills = excluded.skills,
			additional_info = excluded.additional_info,
			employment_location_arrangement = excluded.employment_location_arrangement,
			work_term_duration = excluded.work_term_duration,
			compensation_value = excluded.compensation_value,
			compensation_currency = excluded.compensation_currency,
			compensation_period = excluded.compensation_period,
			compensation_raw = excluded.compensation_raw,
			application_documents_required = excluded.application_documents_required,
			targeted_degrees_disciplines = excluded.targeted_degrees_disciplines,
			is_active = 1,
			updated_at = excluded.updated_at
	`

	if job.ScrapedAt.IsZero() {
		job.ScrapedAt = now
	}

	params := map[string]interface{}{
		"job_id": job.JobID, "title": job.Title, "company": job.Company, "division": job.Division,
		"location": job.Location, "level": job.Level, "openings": job.Openings, "applications": job.Applications,
		"deadline": job.Deadline,
		"summary": job.Summary, "responsibilities": job.Responsibilities, "skills": job.Skills,
		"additional_info": job.AdditionalInfo, "employment_location_arrangement": job.EmploymentLocationArrangement,
		"work_term_duration": job.WorkTermDuration,
		"compensation_value": job.CompensationValue, "compensation_currency": job.CompensationCurrency,
		"compensation_period": job.CompensationPeriod, "compensation_raw": job.CompensationRaw,
		"application_documents_required": string(docs), "targeted_degrees_disciplines": string(degrees),
		"scraped_at": job.ScrapedAt, "updated_at": job.UpdatedAt,
	}

	if _, err := exec.NamedExecContext(ctx, query, params); err != nil {
		return fmt.Errorf("%w: upsert job %s: %v", errs.ErrStore, job.JobID, err)
	}
	return nil
}

// Get retrieves a job by job_id.
func (r *JobRepository) Get(ctx context.Context, jobID string) (*model.Job, error) {
	var rw row
	err := r.db.GetContext(ctx, &rw, `SELECT * FROM jobs WHERE job_id = ?`, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrJobNotFound
		}
		return nil, fmt.Errorf("%w: get job %s: %v", errs.ErrStore, jobID, err)
	}
	return rw.toModel()
}

// List retrieves jobs matching filter, ordered by job_id for determinism.
func (r *JobRepository) List(ctx context.Context, filter ports.JobFilter) ([]*model.Job, error) {
	query := `SELECT * FROM jobs WHERE 1=1`
	var args []interface{}
	if !filter.IncludeInactive {
		query += ` AND is_active = 1`
	}
	if filter.Location != "" {
		query += ` AND location LIKE ?`
		args = append(args, "%"+filter.Location+"%")
	}
	query += ` ORDER BY job_id ASC`

	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%w: list jobs: %v", errs.ErrStore, err)
	}

	jobs := make([]*model.Job, 0, len(rows))
	for i := range rows {
		j, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// MarkInactive flags every active job not present in seenJobIDs as
// inactive.
func (r *JobRepository) MarkInactive(ctx context.Context, seenJobIDs []string) (int, error) {
	if len(seenJobIDs) == 0 {
		res, err := r.db.ExecContext(ctx, `UPDATE jobs SET is_active = 0 WHERE is_active = 1`)
		if err != nil {
			return 0, fmt.Errorf("%w: mark inactive: %v", errs.ErrStore, err)
		}
		n, _ := res.RowsAffected()
		return int(n), nil
	}

	query, args, err := sqlx.In(`UPDATE jobs SET is_active = 0 WHERE is_active = 1 AND job_id NOT IN (?)`, seenJobIDs)
	if err != nil {
		return 0, fmt.Errorf("%w: build mark-inactive query: %v", errs.ErrStore, err)
	}
	query = r.db.Rebind(query)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: mark inactive: %v", errs.ErrStore, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Delete removes a job; cascades to matches, cover letters, applications,
// and folder memberships via foreign-key ON DELETE CASCADE.
func (r *JobRepository) Delete(ctx context.Context, jobID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE job_id = ?`, jobID)
	if err != nil {
		return fmt.Errorf("%w: delete job %s: %v", errs.ErrStore, jobID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return model.ErrJobNotFound
	}
	return nil
}

// Stats returns the total job count.
func (r *JobRepository) Stats(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM jobs`); err != nil {
		return 0, fmt.Errorf("%w: count jobs: %v", errs.ErrStore, err)
	}
	return count, nil
}
