package resumeindex

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwozniak/jobrank/internal/hashutil"
	"github.com/mwozniak/jobrank/modules/embedding"
)

func hashSourceForTest(s string) string {
	return hashutil.SumString(s)
}

const sampleResume = `
John Doe
Software Engineer

- Built and deployed REST APIs using Go and PostgreSQL for a payments platform
- Led migration of legacy services to Kubernetes, cutting deploy time in half
- Wrote unit and integration tests with testify to raise coverage above 85%
Education
- BASc
`

func TestSegment_DropsShortLines(t *testing.T) {
	bullets := Segment(sampleResume)
	for _, b := range bullets {
		assert.GreaterOrEqual(t, len(b.Text), minBulletLength)
	}
	assert.Less(t, len(bullets), 6)
}

func TestSegment_PreservesOrder(t *testing.T) {
	bullets := Segment(sampleResume)
	require.True(t, len(bullets) >= 2)
	for i, b := range bullets {
		assert.Equal(t, i, b.Index)
	}
}

func TestBuildAndQuery_TopKOrderedBySimilarity(t *testing.T) {
	provider := embedding.NewHashProvider()
	ix, err := Build(context.Background(), provider, sampleResume, embedding.ModelID)
	require.NoError(t, err)
	require.NotEmpty(t, ix.Bullets)

	queryVec, err := provider.Encode(context.Background(), []string{"experience with Go and Kubernetes"})
	require.NoError(t, err)

	top := ix.Query(queryVec[0], 2)
	require.Len(t, top, 2)
	assert.GreaterOrEqual(t, top[0].Similarity, top[1].Similarity)
}

func TestNeedsRebuild_DetectsSourceChange(t *testing.T) {
	m := Manifest{SourceHash: "stale", ModelID: embedding.ModelID, BulletSplitVersion: BulletSplitVersion}
	assert.True(t, NeedsRebuild(m, "new resume text", embedding.ModelID))
}

func TestNeedsRebuild_FalseWhenUnchanged(t *testing.T) {
	current := Manifest{
		SourceHash:         hashSourceForTest(sampleResume),
		ModelID:            embedding.ModelID,
		BulletSplitVersion: BulletSplitVersion,
	}
	assert.False(t, NeedsRebuild(current, sampleResume, embedding.ModelID))
}

func TestSaveAndLoad_RoundTrips(t *testing.T) {
	provider := embedding.NewHashProvider()
	ix, err := Build(context.Background(), provider, sampleResume, embedding.ModelID)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, ix.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ix.Manifest, loaded.Manifest)
	assert.Len(t, loaded.Bullets, len(ix.Bullets))
}
