package resumeindex

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/mwozniak/jobrank/internal/hashutil"
	"github.com/mwozniak/jobrank/modules/embedding"
)

// persisted is the on-disk representation of an Index; vectors are
// stored alongside the manifest so a rebuild can be skipped entirely
// when nothing relevant changed.
type persisted struct {
	Manifest Manifest           `json:"manifest"`
	Bullets  []Bullet           `json:"bullets"`
	Vectors  [][]float32        `json:"vectors"`
}

// Build segments sourceText, embeds every bullet, and returns a
// ready-to-query Index.
func Build(ctx context.Context, provider embedding.Provider, sourceText string, modelID string) (*Index, error) {
	bullets := Segment(sourceText)
	texts := make([]string, len(bullets))
	for i, b := range bullets {
		texts[i] = b.Text
	}

	var vectors []embedding.Vector
	if len(texts) > 0 {
		var err error
		vectors, err = provider.Encode(ctx, texts)
		if err != nil {
			return nil, err
		}
	}

	manifest := Manifest{
		SourceHash:         hashutil.SumString(sourceText),
		ModelID:            modelID,
		BulletSplitVersion: BulletSplitVersion,
		BulletCount:        len(bullets),
	}

	return &Index{Manifest: manifest, Bullets: bullets, Vectors: vectors}, nil
}

// NeedsRebuild reports whether a persisted manifest no longer matches
// the current source text, model, and segmentation version.
func NeedsRebuild(existing Manifest, sourceText, modelID string) bool {
	current := Manifest{
		SourceHash:         hashutil.SumString(sourceText),
		ModelID:            modelID,
		BulletSplitVersion: BulletSplitVersion,
	}
	return existing.Key() != current.Key()
}

// Load reads a persisted index manifest and vectors from path. It
// returns os.ErrNotExist (wrapped) when no index has been built yet.
func Load(path string) (*Index, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p persisted
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode resume index at %s: %w", path, err)
	}
	vectors := make([]embedding.Vector, len(p.Vectors))
	for i, v := range p.Vectors {
		vectors[i] = v
	}
	return &Index{Manifest: p.Manifest, Bullets: p.Bullets, Vectors: vectors}, nil
}

// Save persists the index manifest, bullets, and vectors to path.
func (ix *Index) Save(path string) error {
	vectors := make([][]float32, len(ix.Vectors))
	for i, v := range ix.Vectors {
		vectors[i] = v
	}
	p := persisted{Manifest: ix.Manifest, Bullets: ix.Bullets, Vectors: vectors}
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode resume index: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}

// Query returns the topK bullets with the highest inner-product
// similarity to queryVec. Ties break on ascending bullet index, giving
// a fully deterministic ranking regardless of map/slice iteration
// order.
func (ix *Index) Query(queryVec embedding.Vector, topK int) []Match {
	matches := make([]Match, len(ix.Bullets))
	for i, b := range ix.Bullets {
		matches[i] = Match{Bullet: b, Similarity: embedding.Similarity(queryVec, ix.Vectors[i])}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Bullet.Index < matches[j].Bullet.Index
	})

	if topK > len(matches) {
		topK = len(matches)
	}
	return matches[:topK]
}

// BestSimilarity returns the highest similarity value in the index
// against queryVec, or 0 when the index has no bullets.
func (ix *Index) BestSimilarity(queryVec embedding.Vector) float64 {
	top := ix.Query(queryVec, 1)
	if len(top) == 0 {
		return 0
	}
	return top[0].Similarity
}
