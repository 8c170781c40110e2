package matcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwozniak/jobrank/internal/config"
	"github.com/mwozniak/jobrank/modules/embedding"
	jobmodel "github.com/mwozniak/jobrank/modules/jobs/model"
	"github.com/mwozniak/jobrank/modules/lexicon"
	"github.com/mwozniak/jobrank/modules/requirements"
	"github.com/mwozniak/jobrank/modules/resumeindex"
)

const scorerLexiconYAML = `
categories:
  - name: languages
    terms:
      - canonical: python
  - name: frameworks
    terms:
      - canonical: "rest api"
        aliases: ["rest apis"]
  - name: databases
    terms:
      - canonical: postgresql
        aliases: [postgres]
  - name: cloud_infra
    terms:
      - canonical: docker
      - canonical: kubernetes
        aliases: [k8s]
`

const scorerSkipYAML = `
phrases:
  - "strong communication"
  - "team player"
`

func defaultWeights() config.Weights {
	return config.Weights{
		KeywordMatch:       0.35,
		SemanticCoverage:   0.40,
		SemanticStrength:   0.10,
		SeniorityAlignment: 0.15,
	}
}

func buildScorer(t *testing.T, resumeText string) *Scorer {
	t.Helper()
	lx, err := lexicon.Parse([]byte(scorerLexiconYAML))
	require.NoError(t, err)
	skip, err := requirements.ParseSkipList([]byte(scorerSkipYAML))
	require.NoError(t, err)

	provider := embedding.NewHashProvider()
	index, err := resumeindex.Build(context.Background(), provider, resumeText, embedding.ModelID)
	require.NoError(t, err)

	cfg := config.MatcherConfig{
		SimilarityThreshold: 0.30,
		TopK:                8,
		Weights:             defaultWeights(),
	}
	return NewScorer(lx, skip, provider, index, resumeText, cfg, "v1")
}

func TestScore_ExactTechCoverage(t *testing.T) {
	resumeText := "Built a Python REST API with PostgreSQL."
	s := buildScorer(t, resumeText)

	job := &jobmodel.Job{
		JobID:   "job-1",
		Title:   "Software Developer Co-op",
		Summary: "Join our backend team.",
		Responsibilities: "Experience with Python.\nDesign REST APIs.\nWork with PostgreSQL databases.",
		Skills:  "",
	}

	res, err := s.Score(context.Background(), job)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"python", "rest api", "postgresql"}, res.MatchedTechnologies)
	assert.Empty(t, res.MissingTechnologies)
	assert.Equal(t, 1.0, res.KeywordMatch)
	assert.Equal(t, 1.0, res.SemanticCoverage)
	assert.Equal(t, 0.80, res.SeniorityAlignment)
}

func TestScore_FluffFilter(t *testing.T) {
	s := buildScorer(t, "Worked on Docker and Kubernetes deployments.")

	job := &jobmodel.Job{
		JobID: "job-2",
		Title: "Developer",
		Responsibilities: "Required Skills:\nStrong communication skills.\nTeam player.\n" +
			"Experience with Docker and Kubernetes.\nWrite unit tests.",
	}

	res, err := s.Score(context.Background(), job)
	require.NoError(t, err)

	require.Len(t, res.Evidence, 2)
	assert.Equal(t, "Experience with Docker and Kubernetes", res.Evidence[0].Text)
	assert.Equal(t, "Write unit tests", res.Evidence[1].Text)
}

func TestScore_SeniorityOverride(t *testing.T) {
	resumeText := "Built a Python REST API with PostgreSQL for internal tooling."
	s := buildScorer(t, resumeText)

	baseJob := &jobmodel.Job{
		JobID:   "job-3",
		Title:   "Software Developer Co-op",
		Summary: "Join our backend team.",
		Responsibilities: "Experience with Python.\nDesign REST APIs.\nWork with PostgreSQL databases.",
	}
	seniorJob := &jobmodel.Job{
		JobID:   "job-4",
		Title:   "Senior Software Engineer",
		Summary: "Join our backend team.",
		Responsibilities: baseJob.Responsibilities,
	}

	baseRes, err := s.Score(context.Background(), baseJob)
	require.NoError(t, err)
	seniorRes, err := s.Score(context.Background(), seniorJob)
	require.NoError(t, err)

	assert.Equal(t, 0.30, seniorRes.SeniorityAlignment)
	assert.InDelta(t, baseRes.FitScore-7.5, seniorRes.FitScore, 0.2)
}

func TestScore_EmptyResumeIndex_AllSimilaritiesZero(t *testing.T) {
	s := buildScorer(t, "x")
	s.index.Bullets = nil
	s.index.Vectors = nil

	job := &jobmodel.Job{
		JobID:            "job-5",
		Title:            "Developer",
		Responsibilities: "Design REST APIs using Go.",
	}
	res, err := s.Score(context.Background(), job)
	require.NoError(t, err)
	for _, e := range res.Evidence {
		assert.Equal(t, 0.0, e.Similarity)
		assert.False(t, e.Covered)
	}
}

func TestScore_EmptyRequirements_CoverageAndStrengthZero(t *testing.T) {
	s := buildScorer(t, "Built a Python REST API.")
	job := &jobmodel.Job{JobID: "job-6", Title: "Developer"}
	res, err := s.Score(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.SemanticCoverage)
	assert.Equal(t, 0.0, res.SemanticStrength)
}

func TestScoreBatch_PreservesOrder(t *testing.T) {
	s := buildScorer(t, "Built a Python REST API with PostgreSQL.")
	jobs := []*jobmodel.Job{
		{JobID: "a", Title: "Dev", Responsibilities: "Design REST APIs."},
		{JobID: "b", Title: "Dev", Responsibilities: "Work with PostgreSQL databases."},
		{JobID: "c", Title: "Dev", Responsibilities: "Experience with Python."},
	}
	results, err := s.ScoreBatch(context.Background(), jobs, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, jobs[i].JobID, r.JobID)
	}
}
