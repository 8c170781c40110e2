// Package resumeindex builds and queries a vector index over a
// candidate's résumé bullets, used by the matcher to estimate semantic
// coverage and strength against a job posting's requirements.
package resumeindex

import (
	"github.com/mwozniak/jobrank/modules/embedding"
)

// Bullet is one segmented, embeddable unit of résumé text.
type Bullet struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Manifest describes the state an Index was built from, used to decide
// whether a rebuild is necessary.
type Manifest struct {
	SourceHash        string `json:"source_hash"`
	ModelID           string `json:"model_id"`
	BulletSplitVersion string `json:"bullet_split_version"`
	BulletCount       int    `json:"bullet_count"`
}

// BulletSplitVersion is bumped whenever the segmentation rules change,
// so a stale index is detected even if the source résumé text is
// unchanged.
const BulletSplitVersion = "v1"

// Key returns the composite identity this manifest represents; two
// manifests with equal keys were built from equivalent inputs and
// settings.
func (m Manifest) Key() string {
	return m.SourceHash + "|" + m.ModelID + "|" + m.BulletSplitVersion
}

// Index is a built, queryable set of bullet embeddings.
type Index struct {
	Manifest Manifest
	Bullets  []Bullet
	Vectors  []embedding.Vector
}

// Match is one top-k query result.
type Match struct {
	Bullet     Bullet
	Similarity float64
}
