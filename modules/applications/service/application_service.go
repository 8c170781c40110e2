// Package service submits applications through the portal session and
// records the outcome.
package service

import (
	"context"

	"github.com/mwozniak/jobrank/internal/platform/portal"
	"github.com/mwozniak/jobrank/modules/applications/model"
	"github.com/mwozniak/jobrank/modules/applications/ports"
)

// ApplicationService drives the apply step for a job that cleared the
// filter engine.
type ApplicationService struct {
	repo    ports.ApplicationRepository
	session portal.Session
}

// New creates an ApplicationService.
func New(repo ports.ApplicationRepository, session portal.Session) *ApplicationService {
	return &ApplicationService{repo: repo, session: session}
}

// Submit uploads the given documents then applies to jobID, recording
// the resulting status regardless of outcome.
func (s *ApplicationService) Submit(ctx context.Context, jobID string, coverLetterID *int64, documentPaths []string) (*model.Application, error) {
	status := model.StatusDraft

	for _, doc := range documentPaths {
		if err := s.session.UploadDocument(ctx, jobID, doc); err != nil {
			app := &model.Application{JobID: jobID, CoverLetterID: coverLetterID, Status: model.StatusFailed, UploadedDocuments: documentPaths}
			if _, recErr := s.repo.Record(ctx, app); recErr != nil {
				return nil, recErr
			}
			return app, err
		}
	}

	outcome, applyErr := s.session.Apply(ctx, jobID)
	if applyErr != nil {
		status = model.StatusFailed
	} else {
		status = statusForOutcome(outcome)
	}

	app := &model.Application{JobID: jobID, CoverLetterID: coverLetterID, Status: status, UploadedDocuments: documentPaths}
	id, err := s.repo.Record(ctx, app)
	if err != nil {
		return nil, err
	}
	app.ID = id
	return app, applyErr
}

// statusForOutcome maps the portal's apply outcome to the status an
// application is recorded with.
func statusForOutcome(outcome portal.ApplyOutcome) string {
	switch outcome {
	case portal.ApplyOutcomeSubmitted:
		return model.StatusSubmitted
	case portal.ApplyOutcomeSkippedPrescreen:
		return model.StatusSkippedPrescreen
	case portal.ApplyOutcomeSkippedExtraDocs:
		return model.StatusSkippedExtraDocs
	case portal.ApplyOutcomeSkippedExternal:
		return model.StatusSkippedExternal
	default:
		return model.StatusFailed
	}
}
