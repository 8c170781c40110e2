package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mwozniak/jobrank/internal/config"
	jobmodel "github.com/mwozniak/jobrank/modules/jobs/model"
	"github.com/mwozniak/jobrank/modules/matcher"
)

func baseCfg() config.FilterConfig {
	return config.FilterConfig{MinMatchScore: 60, AutoSaveThreshold: 75}
}

func TestDecideRealtime_Autosave(t *testing.T) {
	e := New(config.FilterConfig{MinMatchScore: 60, AutoSaveThreshold: 50})
	job := &jobmodel.Job{Location: "Remote"}
	result := &matcher.Result{FitScore: 73.1}
	assert.Equal(t, DecisionAutosave, e.DecideRealtime(job, result))
}

func TestDecideRealtime_KeepBelowAutosave(t *testing.T) {
	e := New(config.FilterConfig{MinMatchScore: 40, AutoSaveThreshold: 50})
	job := &jobmodel.Job{}
	result := &matcher.Result{FitScore: 49.9}
	assert.Equal(t, DecisionKeep, e.DecideRealtime(job, result))
}

func TestDecideRealtime_DropBelowMin(t *testing.T) {
	e := New(baseCfg())
	job := &jobmodel.Job{}
	result := &matcher.Result{FitScore: 59.9}
	assert.Equal(t, DecisionDrop, e.DecideRealtime(job, result))
}

func TestPasses_CompanyAvoidance(t *testing.T) {
	cfg := baseCfg()
	cfg.CompaniesToAvoid = []string{"Acme Corp"}
	e := New(cfg)
	job := &jobmodel.Job{Company: "acme corp"}
	result := &matcher.Result{FitScore: 90}
	assert.Equal(t, DecisionDrop, e.DecideRealtime(job, result))
}

func TestPasses_KeywordRequirement(t *testing.T) {
	cfg := baseCfg()
	cfg.KeywordsToMatch = []string{"backend"}
	e := New(cfg)
	job := &jobmodel.Job{Title: "Frontend Developer", Summary: "UI work"}
	result := &matcher.Result{FitScore: 90}
	assert.Equal(t, DecisionDrop, e.DecideRealtime(job, result))
}

func TestApplyBatch_SortedByFitScoreThenJobID(t *testing.T) {
	e := New(baseCfg())
	pairs := []Pair{
		{Job: &jobmodel.Job{JobID: "b"}, Result: &matcher.Result{FitScore: 80}},
		{Job: &jobmodel.Job{JobID: "a"}, Result: &matcher.Result{FitScore: 80}},
		{Job: &jobmodel.Job{JobID: "c"}, Result: &matcher.Result{FitScore: 90}},
		{Job: &jobmodel.Job{JobID: "d"}, Result: &matcher.Result{FitScore: 10}},
	}
	out := e.ApplyBatch(pairs)
	require := []string{"c", "a", "b"}
	assert.Len(t, out, 3)
	for i, jobID := range require {
		assert.Equal(t, jobID, out[i].Job.JobID)
	}
}
