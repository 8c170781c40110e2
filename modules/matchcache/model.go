// Package matchcache memoizes matcher.Result keyed by job_id, backed by
// the relational store, invalidated whenever the computed engine
// version changes.
package matchcache

import (
	"errors"
	"fmt"

	"github.com/mwozniak/jobrank/internal/config"
	"github.com/mwozniak/jobrank/internal/hashutil"
)

// ErrMatchNotFound is returned when no cached result exists for a job.
var ErrMatchNotFound = errors.New("match not found")

// AlgorithmRevision is bumped whenever the scoring algorithm itself
// changes in a way that is not already captured by weights, threshold,
// lexicon, or skip-list content.
const AlgorithmRevision = "v1"

// EngineVersion folds every input that affects scoring determinism into
// one stable string. Changing any of these advances the version and
// invalidates all prior matches on next read.
func EngineVersion(weights config.Weights, threshold float64, lexiconHash, skipListHash, modelID string) string {
	return hashutil.Fold(
		fmt.Sprintf("%.6f", weights.KeywordMatch),
		fmt.Sprintf("%.6f", weights.SemanticCoverage),
		fmt.Sprintf("%.6f", weights.SemanticStrength),
		fmt.Sprintf("%.6f", weights.SeniorityAlignment),
		fmt.Sprintf("%.6f", threshold),
		lexiconHash,
		skipListHash,
		modelID,
		AlgorithmRevision,
	)
}
