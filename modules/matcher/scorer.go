package matcher

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mwozniak/jobrank/internal/config"
	"github.com/mwozniak/jobrank/internal/errs"
	"github.com/mwozniak/jobrank/modules/embedding"
	"github.com/mwozniak/jobrank/modules/jobs/model"
	"github.com/mwozniak/jobrank/modules/lexicon"
	"github.com/mwozniak/jobrank/modules/requirements"
	"github.com/mwozniak/jobrank/modules/resumeindex"
)

// seniorityKeywords is scanned in precedence order; the first matching
// group wins.
var seniorityKeywords = []struct {
	terms []string
	score float64
}{
	{[]string{"intern", "co-op", "coop"}, 0.80},
	{[]string{"junior", "entry", "new grad"}, 0.50},
	{[]string{"senior", "staff", "principal", "lead"}, 0.30},
}

const seniorityUnspecified = 0.70

// Scorer computes MatchResult for a job against a résumé index.
type Scorer struct {
	lexicon       *lexicon.Lexicon
	skipList      *requirements.SkipList
	embedder      embedding.Provider
	index         *resumeindex.Index
	resumeTechSet map[string]struct{}
	cfg           config.MatcherConfig
	version       string
}

// NewScorer builds a Scorer bound to a loaded lexicon, skip list,
// embedding provider, résumé index, and the analysis version string
// under which results it produces should be cached.
func NewScorer(
	lx *lexicon.Lexicon,
	skip *requirements.SkipList,
	embedder embedding.Provider,
	index *resumeindex.Index,
	resumeText string,
	cfg config.MatcherConfig,
	version string,
) *Scorer {
	return &Scorer{
		lexicon:       lx,
		skipList:      skip,
		embedder:      embedder,
		index:         index,
		resumeTechSet: lx.Extract(resumeText),
		cfg:           cfg,
		version:       version,
	}
}

// Score computes the full MatchResult for a single job.
func (s *Scorer) Score(ctx context.Context, job *model.Job) (*Result, error) {
	reqs := requirements.Extract(job.Responsibilities, job.Skills, job.Title, s.lexicon, s.skipList)

	jobTechSet := s.lexicon.Extract(job.FreeText())
	matched, missing := diffTechSets(jobTechSet, s.resumeTechSet)

	keywordMatch := 0.0
	if len(jobTechSet) > 0 {
		keywordMatch = float64(len(matched)) / float64(len(jobTechSet))
	}

	evidence, coverage, strength, err := s.scoreRequirements(ctx, reqs)
	if err != nil {
		return nil, err
	}

	seniority := seniorityAlignment(job.Title + " " + job.Summary)

	w := s.cfg.Weights
	raw := (w.KeywordMatch*keywordMatch +
		w.SemanticCoverage*coverage +
		w.SemanticStrength*strength +
		w.SeniorityAlignment*seniority) * 100
	fitScore := math.Round(raw*10) / 10

	return &Result{
		JobID:               job.JobID,
		FitScore:            fitScore,
		KeywordMatch:        keywordMatch,
		SemanticCoverage:    coverage,
		SemanticStrength:    strength,
		SeniorityAlignment:  seniority,
		MatchedTechnologies: matched,
		MissingTechnologies: missing,
		Evidence:            evidence,
		AnalysisVersion:     s.version,
	}, nil
}

func (s *Scorer) scoreRequirements(ctx context.Context, reqs []string) ([]Evidence, float64, float64, error) {
	if len(reqs) == 0 {
		return nil, 0, 0, nil
	}
	if len(s.index.Bullets) == 0 {
		evidence := make([]Evidence, len(reqs))
		for i, r := range reqs {
			evidence[i] = Evidence{Text: r, BestIndex: -1, Similarity: 0, Covered: false}
		}
		return evidence, 0, 0, nil
	}

	vectors, err := s.embedder.Encode(ctx, reqs)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: embed requirements: %v", errs.ErrMatcher, err)
	}

	evidence := make([]Evidence, len(reqs))
	var coveredCount int
	var strengthSum float64

	for i, req := range reqs {
		top := s.index.Query(vectors[i], s.cfg.TopK)
		best := 0.0
		bestIndex := -1
		if len(top) > 0 {
			best = top[0].Similarity
			bestIndex = top[0].Bullet.Index
		}
		if math.IsNaN(best) || math.IsInf(best, 0) { // non-finite similarities are an internal error
			return nil, 0, 0, fmt.Errorf("%w: non-finite similarity for requirement %q", errs.ErrMatcher, req)
		}
		covered := best >= s.cfg.SimilarityThreshold
		if covered {
			coveredCount++
			clamped := best
			if clamped < 0 {
				clamped = 0
			}
			if clamped > 1 {
				clamped = 1
			}
			strengthSum += clamped
		}
		evidence[i] = Evidence{Text: req, BestIndex: bestIndex, Similarity: best, Covered: covered}
	}

	coverage := float64(coveredCount) / float64(len(reqs))
	strength := 0.0
	if coveredCount > 0 {
		strength = strengthSum / float64(coveredCount)
	}
	return evidence, coverage, strength, nil
}

func seniorityAlignment(text string) float64 {
	lower := strings.ToLower(text)
	for _, group := range seniorityKeywords {
		for _, term := range group.terms {
			if strings.Contains(lower, term) {
				return group.score
			}
		}
	}
	return seniorityUnspecified
}

func diffTechSets(jobSet, resumeSet map[string]struct{}) (matched, missing []string) {
	for term := range jobSet {
		if _, ok := resumeSet[term]; ok {
			matched = append(matched, term)
		} else {
			missing = append(missing, term)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)
	return matched, missing
}
