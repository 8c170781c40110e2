package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwozniak/jobrank/internal/config"
	"github.com/mwozniak/jobrank/internal/platform/logger"
	"github.com/mwozniak/jobrank/internal/platform/portal"
	"github.com/mwozniak/jobrank/modules/embedding"
	"github.com/mwozniak/jobrank/modules/filter"
	jobmodel "github.com/mwozniak/jobrank/modules/jobs/model"
	jobports "github.com/mwozniak/jobrank/modules/jobs/ports"
	jobservice "github.com/mwozniak/jobrank/modules/jobs/service"
	"github.com/mwozniak/jobrank/modules/lexicon"
	"github.com/mwozniak/jobrank/modules/matcher"
	"github.com/mwozniak/jobrank/modules/matchcache"
	cacheservice "github.com/mwozniak/jobrank/modules/matchcache/service"
	"github.com/mwozniak/jobrank/modules/requirements"
	"github.com/mwozniak/jobrank/modules/resumeindex"
)

type fakeSession struct {
	rows     []portal.JobRow
	details  map[string]map[string]string
	saved    []string
	loggedIn bool
	closed   bool
}

func (f *fakeSession) Login(ctx context.Context) error { f.loggedIn = true; return nil }
func (f *fakeSession) IterateJobs(ctx context.Context) ([]portal.JobRow, error) {
	return f.rows, nil
}
func (f *fakeSession) FetchDetail(ctx context.Context, row portal.JobRow) (map[string]string, error) {
	return f.details[row.JobID], nil
}
func (f *fakeSession) SaveToFolder(ctx context.Context, jobID, folder string) error {
	f.saved = append(f.saved, jobID)
	return nil
}
func (f *fakeSession) Apply(ctx context.Context, jobID string) (portal.ApplyOutcome, error) {
	return portal.ApplyOutcomeSubmitted, nil
}
func (f *fakeSession) UploadDocument(ctx context.Context, jobID, path string) error { return nil }
func (f *fakeSession) Close() error                                              { f.closed = true; return nil }

type fakeJobRepo struct {
	rows map[string]*jobmodel.Job
}

func newFakeJobRepo() *fakeJobRepo { return &fakeJobRepo{rows: map[string]*jobmodel.Job{}} }

func (r *fakeJobRepo) Upsert(ctx context.Context, job *jobmodel.Job) error {
	job.IsActive = true
	r.rows[job.JobID] = job
	return nil
}
func (r *fakeJobRepo) UpsertBatch(ctx context.Context, jobs []*jobmodel.Job) error {
	for _, j := range jobs {
		if err := r.Upsert(ctx, j); err != nil {
			return err
		}
	}
	return nil
}
func (r *fakeJobRepo) Get(ctx context.Context, jobID string) (*jobmodel.Job, error) {
	j, ok := r.rows[jobID]
	if !ok {
		return nil, jobmodel.ErrJobNotFound
	}
	return j, nil
}
func (r *fakeJobRepo) List(ctx context.Context, filterOpt jobports.JobFilter) ([]*jobmodel.Job, error) {
	var out []*jobmodel.Job
	for _, j := range r.rows {
		if !filterOpt.IncludeInactive && !j.IsActive {
			continue
		}
		out = append(out, j)
	}
	return out, nil
}
func (r *fakeJobRepo) MarkInactive(ctx context.Context, seen []string) (int, error) {
	seenSet := map[string]struct{}{}
	for _, id := range seen {
		seenSet[id] = struct{}{}
	}
	n := 0
	for id, j := range r.rows {
		if _, ok := seenSet[id]; !ok && j.IsActive {
			j.IsActive = false
			n++
		}
	}
	return n, nil
}
func (r *fakeJobRepo) Delete(ctx context.Context, jobID string) error {
	delete(r.rows, jobID)
	return nil
}
func (r *fakeJobRepo) Stats(ctx context.Context) (int, error) { return len(r.rows), nil }

type fakeMatchRepo struct {
	rows map[string]*matcher.Result
}

func newFakeMatchRepo() *fakeMatchRepo { return &fakeMatchRepo{rows: map[string]*matcher.Result{}} }
func (r *fakeMatchRepo) Get(ctx context.Context, jobID string) (*matcher.Result, error) {
	v, ok := r.rows[jobID]
	if !ok {
		return nil, matchcache.ErrMatchNotFound
	}
	return v, nil
}
func (r *fakeMatchRepo) Upsert(ctx context.Context, res *matcher.Result) error {
	r.rows[res.JobID] = res
	return nil
}
func (r *fakeMatchRepo) Delete(ctx context.Context, jobID string) error { delete(r.rows, jobID); return nil }
func (r *fakeMatchRepo) Clear(ctx context.Context) (int, error) {
	n := len(r.rows)
	r.rows = map[string]*matcher.Result{}
	return n, nil
}

type fakeFolders struct{ saved []string }

func (f *fakeFolders) AutoSave(ctx context.Context, jobID, folder string) {
	f.saved = append(f.saved, jobID)
}

const pipelineLexiconYAML = `
categories:
  - name: languages
    terms:
      - canonical: go
`

func buildOrchestrator(t *testing.T, session *fakeSession, minScore, autosaveThreshold float64) (*Orchestrator, *fakeFolders) {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	jobRepo := newFakeJobRepo()
	jobSvc := jobservice.New(jobRepo, log)

	lx, err := lexicon.Parse([]byte(pipelineLexiconYAML))
	require.NoError(t, err)
	skip, err := requirements.ParseSkipList([]byte("phrases: []"))
	require.NoError(t, err)
	provider := embedding.NewHashProvider()
	index, err := resumeindex.Build(context.Background(), provider, "Built systems in Go.", embedding.ModelID)
	require.NoError(t, err)
	matcherCfg := config.MatcherConfig{
		SimilarityThreshold: 0.30,
		TopK:                8,
		Weights: config.Weights{
			KeywordMatch: 0.35, SemanticCoverage: 0.40, SemanticStrength: 0.10, SeniorityAlignment: 0.15,
		},
	}
	scorer := matcher.NewScorer(lx, skip, provider, index, "Built systems in Go.", matcherCfg, "v1")

	matchRepo := newFakeMatchRepo()
	cache := cacheservice.New(matchRepo, scorer, "v1", log)

	flt := filter.New(config.FilterConfig{MinMatchScore: minScore, AutoSaveThreshold: autosaveThreshold})
	folders := &fakeFolders{}

	orch := New(session, jobSvc, cache, flt, folders, log, config.PipelineConfig{CheckpointEvery: 5, PortalFolder: "top"}, nil)
	return orch, folders
}

func TestRunStream_AutosaveAboveThreshold(t *testing.T) {
	session := &fakeSession{
		rows: []portal.JobRow{{JobID: "job-1", URL: "http://portal/job-1"}},
		details: map[string]map[string]string{
			"job-1": {"title": "Developer", "responsibilities": "Design REST APIs using Go."},
		},
	}
	orch, folders := buildOrchestrator(t, session, 0, 0)
	summary, err := orch.RunStream(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.JobsEnumerated)
	assert.Equal(t, 1, summary.Autosaved)
	assert.Contains(t, folders.saved, "job-1")
}

func TestRunStream_DropBelowMinScore(t *testing.T) {
	session := &fakeSession{
		rows: []portal.JobRow{{JobID: "job-2", URL: "http://portal/job-2"}},
		details: map[string]map[string]string{
			"job-2": {"title": "Musician", "responsibilities": "Play music at local venues and events."},
		},
	}
	orch, folders := buildOrchestrator(t, session, 60, 75)
	summary, err := orch.RunStream(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Kept)
	assert.Empty(t, folders.saved)
}

func TestParseCompensationLine(t *testing.T) {
	v, cur, per := parseCompensationLine("25.00 CAD/hour")
	require.NotNil(t, v)
	assert.Equal(t, 25.00, *v)
	require.NotNil(t, cur)
	assert.Equal(t, "CAD", *cur)
	require.NotNil(t, per)
	assert.Equal(t, "hour", *per)

	v, cur, per = parseCompensationLine("unspecified")
	assert.Nil(t, v)
	assert.Nil(t, cur)
	assert.Nil(t, per)

	v, cur, per = parseCompensationLine("not a compensation line")
	assert.Nil(t, v)
	assert.Nil(t, cur)
	assert.Nil(t, per)
}

func TestRunBatch_ReturnsSortedSurvivors(t *testing.T) {
	session := &fakeSession{
		rows: []portal.JobRow{
			{JobID: "job-a", URL: "http://portal/job-a"},
			{JobID: "job-b", URL: "http://portal/job-b"},
		},
		details: map[string]map[string]string{
			"job-a": {"title": "Developer", "responsibilities": "Design REST APIs using Go."},
			"job-b": {"title": "Musician", "responsibilities": "Play music at local venues."},
		},
	}
	orch, _ := buildOrchestrator(t, session, 0, 1000)
	kept, summary, err := orch.RunBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.JobsEnumerated)
	assert.Equal(t, 2, summary.JobsScored)
	require.Len(t, kept, 2)
	assert.GreaterOrEqual(t, kept[0].Result.FitScore, kept[1].Result.FitScore)
}
