// Package embedding provides deterministic text embeddings used by the
// résumé index and the matcher's semantic-similarity scoring.
//
// There is no neural embedding model available offline in this
// environment, so the provider here builds a deterministic, reproducible
// vector from hashed n-gram features instead of calling out to a model
// server. It is deliberately NOT a general-purpose semantic model: its
// only contract is that the same input text always yields the same
// vector, and that textually similar inputs (shared tokens) yield
// vectors with higher cosine/inner-product similarity than unrelated
// ones, which is the property the matcher's coverage/strength scoring
// depends on.
package embedding

import "fmt"

// Dimension is the fixed length of every embedding vector.
const Dimension = 384

// Vector is an L2-normalized float32 embedding.
type Vector []float32

// ModelID identifies the embedding algorithm + dimension combination in
// effect, used to key cache invalidation when it changes.
const ModelID = "jobrank-hash-embed-v1"

// ErrEmptyText is returned when Encode is asked to embed an empty
// string.
var ErrEmptyText = fmt.Errorf("embedding: cannot encode empty text")
