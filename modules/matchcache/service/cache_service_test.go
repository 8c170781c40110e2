package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwozniak/jobrank/internal/config"
	"github.com/mwozniak/jobrank/internal/platform/logger"
	"github.com/mwozniak/jobrank/modules/embedding"
	jobmodel "github.com/mwozniak/jobrank/modules/jobs/model"
	"github.com/mwozniak/jobrank/modules/lexicon"
	"github.com/mwozniak/jobrank/modules/matcher"
	"github.com/mwozniak/jobrank/modules/matchcache"
	"github.com/mwozniak/jobrank/modules/requirements"
	"github.com/mwozniak/jobrank/modules/resumeindex"
)

type fakeRepo struct {
	rows map[string]*matcher.Result
}

func newFakeRepo() *fakeRepo { return &fakeRepo{rows: map[string]*matcher.Result{}} }

func (f *fakeRepo) Get(ctx context.Context, jobID string) (*matcher.Result, error) {
	r, ok := f.rows[jobID]
	if !ok {
		return nil, matchcache.ErrMatchNotFound
	}
	return r, nil
}

func (f *fakeRepo) Upsert(ctx context.Context, result *matcher.Result) error {
	f.rows[result.JobID] = result
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, jobID string) error {
	delete(f.rows, jobID)
	return nil
}

func (f *fakeRepo) Clear(ctx context.Context) (int, error) {
	n := len(f.rows)
	f.rows = map[string]*matcher.Result{}
	return n, nil
}

const cacheTestLexicon = `
categories:
  - name: languages
    terms:
      - canonical: go
`

func buildTestScorer(t *testing.T, version string) *matcher.Scorer {
	t.Helper()
	lx, err := lexicon.Parse([]byte(cacheTestLexicon))
	require.NoError(t, err)
	skip, err := requirements.ParseSkipList([]byte("phrases: []"))
	require.NoError(t, err)
	provider := embedding.NewHashProvider()
	index, err := resumeindex.Build(context.Background(), provider, "Built systems in Go.", embedding.ModelID)
	require.NoError(t, err)
	cfg := config.MatcherConfig{
		SimilarityThreshold: 0.30,
		TopK:                8,
		Weights: config.Weights{
			KeywordMatch: 0.35, SemanticCoverage: 0.40, SemanticStrength: 0.10, SeniorityAlignment: 0.15,
		},
	}
	return matcher.NewScorer(lx, skip, provider, index, "Built systems in Go.", cfg, version)
}

func TestResolve_CacheMissThenHit(t *testing.T) {
	repo := newFakeRepo()
	scorer := buildTestScorer(t, "v1")
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	svc := New(repo, scorer, "v1", log)

	job := &jobmodel.Job{JobID: "job-1", Title: "Developer", Responsibilities: "Build services in Go."}

	_, hit, err := svc.Resolve(context.Background(), job, false)
	require.NoError(t, err)
	assert.False(t, hit)

	_, hit, err = svc.Resolve(context.Background(), job, false)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestResolve_VersionBumpForcesRecompute(t *testing.T) {
	repo := newFakeRepo()
	scorerV1 := buildTestScorer(t, "v1")
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	svcV1 := New(repo, scorerV1, "v1", log)

	job := &jobmodel.Job{JobID: "job-2", Title: "Developer", Responsibilities: "Build services in Go."}
	_, hit, err := svcV1.Resolve(context.Background(), job, false)
	require.NoError(t, err)
	assert.False(t, hit)

	scorerV2 := buildTestScorer(t, "v2")
	svcV2 := New(repo, scorerV2, "v2", log)

	res, hit, err := svcV2.Resolve(context.Background(), job, false)
	require.NoError(t, err)
	assert.False(t, hit, "stale analysis_version must be treated as a miss")
	assert.Equal(t, "v2", res.AnalysisVersion)

	_, hit, err = svcV2.Resolve(context.Background(), job, false)
	require.NoError(t, err)
	assert.True(t, hit)
}
