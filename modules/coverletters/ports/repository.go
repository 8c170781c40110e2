package ports

import (
	"context"

	"github.com/mwozniak/jobrank/modules/coverletters/model"
)

// CoverLetterRepository persists generated cover letters.
type CoverLetterRepository interface {
	Record(ctx context.Context, cl *model.CoverLetter) (int64, error)
	MarkUploaded(ctx context.Context, id int64, filePath string) error
	GetForJob(ctx context.Context, jobID string) (*model.CoverLetter, error)
}
