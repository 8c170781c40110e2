package embedding

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/mwozniak/jobrank/internal/errs"
)

// Provider turns text into fixed-dimension vectors.
type Provider interface {
	Encode(ctx context.Context, texts []string) ([]Vector, error)
}

// HashProvider is the deterministic, offline Provider implementation.
type HashProvider struct{}

// NewHashProvider constructs the default embedding provider.
func NewHashProvider() *HashProvider {
	return &HashProvider{}
}

// Encode embeds each text independently. Order is preserved.
func (p *HashProvider) Encode(ctx context.Context, texts []string) ([]Vector, error) {
	out := make([]Vector, len(texts))
	for i, t := range texts {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		v, err := encodeOne(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrEncode, err)
		}
		out[i] = v
	}
	return out, nil
}

// encodeOne hashes every whitespace token of the lowercased text, and
// every trigram shingle of that whole text (spaces written as "_"),
// into one of Dimension buckets, accumulates signed
// weights, then L2-normalizes. Two texts sharing more tokens land closer
// together in inner-product space; this is the property the matcher's
// semantic scoring relies on.
func encodeOne(text string) (Vector, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	vec := make([]float64, Dimension)
	lower := strings.ToLower(text)
	tokens := strings.Fields(lower)

	for _, tok := range tokens {
		accumulate(vec, tok)
	}
	for _, shingle := range trigramShingles(lower) {
		accumulate(vec, shingle)
	}

	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		norm = 1
	}

	out := make(Vector, Dimension)
	for i, x := range vec {
		out[i] = float32(x / norm)
	}
	return out, nil
}

func accumulate(vec []float64, feature string) {
	sum := blake2b.Sum256([]byte(feature))
	bucket := int(sum[0])<<8 | int(sum[1])
	bucket %= Dimension
	sign := 1.0
	if sum[2]&1 == 1 {
		sign = -1.0
	}
	vec[bucket] += sign
}

func trigramShingles(s string) []string {
	s = strings.ReplaceAll(s, " ", "_")
	if len(s) < 3 {
		return nil
	}
	out := make([]string, 0, len(s)-2)
	for i := 0; i+3 <= len(s); i++ {
		out = append(out, s[i:i+3])
	}
	return out
}

// Similarity is the inner product of two equal-length, L2-normalized
// vectors (cosine similarity, since both are unit-norm).
func Similarity(a, b Vector) float64 {
	var sum float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
