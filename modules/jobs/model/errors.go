package model

import "errors"

var (
	// ErrJobNotFound is returned when a job is not found.
	ErrJobNotFound = errors.New("job not found")

	// ErrJobIDRequired is returned when a job is persisted without an id.
	ErrJobIDRequired = errors.New("job_id is required")
)
