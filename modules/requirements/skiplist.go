// Package requirements extracts candidate requirement strings out of a
// job posting's free-text sections.
package requirements

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mwozniak/jobrank/internal/hashutil"
)

type skipListFile struct {
	Phrases []string `yaml:"phrases"`
}

// SkipList is the configured set of filler phrases the noise filter
// rejects, plus its content hash for cache-version folding.
type SkipList struct {
	phrases []string
	raw     []byte
}

// LoadSkipList reads the noise skip-list YAML artifact from path.
func LoadSkipList(path string) (*SkipList, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSkipList(raw)
}

// ParseSkipList parses skip-list YAML content.
func ParseSkipList(raw []byte) (*SkipList, error) {
	var f skipListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return &SkipList{phrases: f.Phrases, raw: raw}, nil
}

// Hash returns a stable digest of the skip-list content.
func (s *SkipList) Hash() string {
	return hashutil.Sum(s.raw)
}

// Phrases returns the configured skip phrases.
func (s *SkipList) Phrases() []string {
	return s.phrases
}
