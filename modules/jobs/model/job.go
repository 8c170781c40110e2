// Package model defines the Job entity and the errors its
// repository/service layer can return.
package model

import "time"

// Job represents a scraped co-op posting, keyed by job_id.
type Job struct {
	JobID        string `db:"job_id"`
	Title        string `db:"title"`
	Company      string `db:"company"`
	Division     *string `db:"division"`
	Location     string `db:"location"`
	Level        *string `db:"level"`
	Openings     int    `db:"openings"`
	Applications int    `db:"applications"`
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

	ApplicationDocumentsRequired []string `db:"-"`
	TargetedDegreesDisciplines   []string `db:"-"`

	IsActive  bool      `db:"is_active"`
	ScrapedAt time.Time `db:"scraped_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// FreeText concatenates the job's free-text sections in a stable order;
// the scorer runs the technology lexicon over it to build the job's
// tech set.
func (j *Job) FreeText() string {
	return j.Summary + "\n" + j.Responsibilities + "\n" + j.Skills + "\n" +
		j.AdditionalInfo + "\n" + j.EmploymentLocationArrangement + "\n" + j.WorkTermDuration
}
