package lexicon

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mwozniak/jobrank/internal/hashutil"
)

// Lexicon is an immutable, ordered set of canonical terms with a
// compiled word-boundary matcher per surface form (canonical + aliases).
type Lexicon struct {
	terms    []Term
	matchers []compiledSurface
	raw      []byte
}

type compiledSurface struct {
	canonical string
	re        *regexp.Regexp
}

// Load reads a lexicon YAML artifact from path, so the term list can be
// updated without a code change.
func Load(path string) (*Lexicon, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse builds a Lexicon from raw YAML bytes.
func Parse(raw []byte) (*Lexicon, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("lexicon: parse: %w", err)
	}

	lx := &Lexicon{raw: raw}
	for _, cat := range f.Categories {
		for _, t := range cat.Terms {
			lx.terms = append(lx.terms, t)
			surfaces := append([]string{t.Canonical}, t.Aliases...)
			for _, s := range surfaces {
				re, err := compileSurface(s)
				if err != nil {
					return nil, fmt.Errorf("lexicon: compile %q: %w", s, err)
				}
				lx.matchers = append(lx.matchers, compiledSurface{canonical: t.Canonical, re: re})
			}
		}
	}
	return lx, nil
}

// compileSurface builds a case-insensitive, word-boundary regex for a
// surface form. Every surface is bounded by surrounding non-alphanumeric
// characters rather than \b, since Go's \b is a word-character boundary
// that doesn't fire around symbols in surfaces like c++, .net, ci/cd.
func compileSurface(surface string) (*regexp.Regexp, error) {
	escaped := regexp.QuoteMeta(strings.ToLower(surface))
	pattern := `(?:^|[^a-z0-9])` + escaped + `(?:$|[^a-z0-9])`
	return regexp.Compile(pattern)
}

// Extract returns the set of canonical terms present in text.
func (lx *Lexicon) Extract(text string) map[string]struct{} {
	// Pad so a match at the very start/end of text still has a boundary
	// character on both sides for the lookaround-free regex above.
	padded := " " + strings.ToLower(text) + " "
	found := make(map[string]struct{})
	for _, m := range lx.matchers {
		if m.re.MatchString(padded) {
			found[m.canonical] = struct{}{}
		}
	}
	return found
}

// CanonicalTerms returns the ordered list of canonical terms (for
// deterministic iteration / testing).
func (lx *Lexicon) CanonicalTerms() []string {
	out := make([]string, 0, len(lx.terms))
	seen := make(map[string]struct{}, len(lx.terms))
	for _, t := range lx.terms {
		if _, ok := seen[t.Canonical]; ok {
			continue
		}
		seen[t.Canonical] = struct{}{}
		out = append(out, t.Canonical)
	}
	return out
}

// Hash returns a stable digest of the raw lexicon content, folded into
// the engine version.
func (lx *Lexicon) Hash() string {
	return hashutil.Sum(lx.raw)
}

// SortedSet renders a term set as a sorted slice, used for deterministic
// output of matched/missing technology sets (invariant: sets don't carry
// order, but any serialized form of them must be stable).
func SortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
