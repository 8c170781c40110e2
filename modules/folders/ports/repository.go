package ports

import "context"

// FolderRepository tracks which jobs were saved into which portal
// folder, independent of the portal's own folder state.
type FolderRepository interface {
	Save(ctx context.Context, jobID, folder string) error
	ListFolder(ctx context.Context, folder string) ([]string, error)
}
