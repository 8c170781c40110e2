// Package service generates and persists cover letters for jobs that
// cleared the filter engine.
package service

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mwozniak/jobrank/internal/platform/llm"
	"github.com/mwozniak/jobrank/internal/platform/render"
	"github.com/mwozniak/jobrank/modules/coverletters/model"
	"github.com/mwozniak/jobrank/modules/coverletters/ports"
	jobmodel "github.com/mwozniak/jobrank/modules/jobs/model"
)

// CoverLetterService drafts, renders, and records cover letters.
type CoverLetterService struct {
	repo     ports.CoverLetterRepository
	llm      llm.LLM
	renderer render.Renderer
	outDir   string
	resume   string
}

// New creates a CoverLetterService.
func New(repo ports.CoverLetterRepository, model llm.LLM, renderer render.Renderer, outDir, resumeText string) *CoverLetterService {
	return &CoverLetterService{repo: repo, llm: model, renderer: renderer, outDir: outDir, resume: resumeText}
}

// Generate drafts a cover letter for job, renders it to a .docx file,
// and records it. It returns the persisted row id and output path.
func (s *CoverLetterService) Generate(ctx context.Context, job *jobmodel.Job) (int64, string, error) {
	body, err := s.llm.GenerateCoverLetter(ctx, s.resume, job.Summary, job.Title, job.Company)
	if err != nil {
		return 0, "", err
	}

	outPath := filepath.Join(s.outDir, fmt.Sprintf("%s.docx", job.JobID))
	if err := s.renderer.RenderCoverLetter(body, outPath); err != nil {
		return 0, "", err
	}

	id, err := s.repo.Record(ctx, &model.CoverLetter{JobID: job.JobID, Body: body, FilePath: &outPath})
	if err != nil {
		return 0, "", err
	}
	return id, outPath, nil
}

// MarkUploaded flags a previously generated cover letter as uploaded.
func (s *CoverLetterService) MarkUploaded(ctx context.Context, id int64, filePath string) error {
	return s.repo.MarkUploaded(ctx, id, filePath)
}
