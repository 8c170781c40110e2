package ports

import (
	"context"

	"github.com/mwozniak/jobrank/modules/matcher"
)

// MatchRepository persists and retrieves matcher.Result rows keyed by
// job_id.
type MatchRepository interface {
	Get(ctx context.Context, jobID string) (*matcher.Result, error)
	Upsert(ctx context.Context, result *matcher.Result) error
	Delete(ctx context.Context, jobID string) error
	Clear(ctx context.Context) (int, error)
}
