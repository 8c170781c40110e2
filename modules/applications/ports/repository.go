package ports

import (
	"context"

	"github.com/mwozniak/jobrank/modules/applications/model"
)

// ApplicationRepository persists application submission attempts.
type ApplicationRepository interface {
	Record(ctx context.Context, app *model.Application) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	GetForJob(ctx context.Context, jobID string) (*model.Application, error)
}
