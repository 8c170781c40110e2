// Package service wraps folder membership persistence plus the
// portal-side save call.
package service

import (
	"context"

	"github.com/mwozniak/jobrank/internal/platform/logger"
	"github.com/mwozniak/jobrank/internal/platform/portal"
	"github.com/mwozniak/jobrank/modules/folders/ports"
)

// FolderService autosaves qualifying jobs to a portal folder.
type FolderService struct {
	repo    ports.FolderRepository
	session portal.Session
	log     *logger.Logger
}

// New creates a FolderService.
func New(repo ports.FolderRepository, session portal.Session, log *logger.Logger) *FolderService {
	return &FolderService{repo: repo, session: session, log: log}
}

// AutoSave saves jobID to folder both in the portal and in local
// membership tracking. A portal failure is logged and does not stop
// the caller's loop.
func (s *FolderService) AutoSave(ctx context.Context, jobID, folder string) {
	if err := s.session.SaveToFolder(ctx, jobID, folder); err != nil {
		s.log.Sugar().Warnw("portal save_to_folder failed", "job_id", jobID, "folder", folder, "error", err)
		return
	}
	if err := s.repo.Save(ctx, jobID, folder); err != nil {
		s.log.Sugar().Warnw("local folder membership save failed", "job_id", jobID, "folder", folder, "error", err)
	}
}
