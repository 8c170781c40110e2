package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Deterministic(t *testing.T) {
	p := NewHashProvider()
	ctx := context.Background()

	v1, err := p.Encode(ctx, []string{"Built scalable APIs in Go"})
	require.NoError(t, err)
	v2, err := p.Encode(ctx, []string{"Built scalable APIs in Go"})
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
}

func TestEncode_Dimension(t *testing.T) {
	p := NewHashProvider()
	v, err := p.Encode(context.Background(), []string{"hello world"})
	require.NoError(t, err)
	require.Len(t, v, 1)
	assert.Len(t, v[0], Dimension)
}

func TestEncode_L2Normalized(t *testing.T) {
	p := NewHashProvider()
	v, err := p.Encode(context.Background(), []string{"distributed systems engineer"})
	require.NoError(t, err)

	var sumSquares float64
	for _, x := range v[0] {
		sumSquares += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, sumSquares, 1e-4)
}

func TestEncode_EmptyText(t *testing.T) {
	p := NewHashProvider()
	_, err := p.Encode(context.Background(), []string{""})
	assert.Error(t, err)
}

func TestSimilarity_SimilarTextHigherThanUnrelated(t *testing.T) {
	p := NewHashProvider()
	vecs, err := p.Encode(context.Background(), []string{
		"Designed REST APIs using Go and PostgreSQL",
		"Designed REST APIs using Go and MySQL",
		"Played guitar at a local cafe on weekends",
	})
	require.NoError(t, err)

	related := Similarity(vecs[0], vecs[1])
	unrelated := Similarity(vecs[0], vecs[2])
	assert.Greater(t, related, unrelated)
}
