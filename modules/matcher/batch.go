package matcher

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mwozniak/jobrank/modules/jobs/model"
)

// ScoreBatch scores jobs concurrently with a bounded worker pool,
// returning results in the same order as the input jobs. The first
// error encountered cancels the remaining work.
func (s *Scorer) ScoreBatch(ctx context.Context, jobList []*model.Job, concurrency int) ([]*Result, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]*Result, len(jobList))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, job := range jobList {
		i, job := i, job
		g.Go(func() error {
			res, err := s.Score(ctx, job)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
