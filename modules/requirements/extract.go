package requirements

import (
	"regexp"
	"strings"

	"github.com/mwozniak/jobrank/modules/lexicon"
)

// minLength is the shortest a candidate requirement may be before the
// noise filter drops it as too fragmentary to carry a claim.
const minLength = 15

// actionVerbs are the signal words that, on their own, justify keeping
// a candidate even when it has no technology-lexicon hit.
var actionVerbs = []string{
	"develop", "build", "design", "implement", "architect", "deploy",
	"debug", "test", "optimize", "integrate", "maintain", "analyze",
	"evaluate", "document",
}

var splitPattern = regexp.MustCompile(`\r?\n|[.!?]\s+`)

// Extract splits a job's responsibilities and skills sections into
// ordered, deduplicated candidate requirement strings, filtering out
// filler language and keeping only lines carrying a recognizable
// signal (a lexicon hit or an action verb).
func Extract(responsibilities, skills, postingTitle string, lx *lexicon.Lexicon, skip *SkipList) []string {
	combined := responsibilities + "\n" + skills
	candidates := splitPattern.Split(combined, -1)

	seen := make(map[string]struct{})
	out := make([]string, 0, len(candidates))

	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if isNoise(c, postingTitle, skip) {
			continue
		}
		if !hasSignal(c, lx) {
			continue
		}
		key := strings.ToLower(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

var jobTitleRolePattern = regexp.MustCompile(`(?i)^experience in (.+) role\b`)

func isNoise(candidate, postingTitle string, skip *SkipList) bool {
	if len(candidate) < minLength {
		return true
	}
	if strings.HasSuffix(candidate, ":") {
		return true
	}
	lower := strings.ToLower(candidate)
	for _, phrase := range skip.Phrases() {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	if m := jobTitleRolePattern.FindStringSubmatch(candidate); m != nil {
		if strings.Contains(strings.ToLower(postingTitle), strings.ToLower(m[1])) {
			return true
		}
	}
	return false
}

func hasSignal(candidate string, lx *lexicon.Lexicon) bool {
	if len(lx.Extract(candidate)) > 0 {
		return true
	}
	lower := strings.ToLower(candidate)
	for _, verb := range actionVerbs {
		if containsWord(lower, verb) {
			return true
		}
	}
	return false
}

// containsWord reports whether word occurs in text at the start of a
// word; inflected forms such as "tests" or "designing" also match.
func containsWord(text, word string) bool {
	idx := 0
	for {
		pos := strings.Index(text[idx:], word)
		if pos < 0 {
			return false
		}
		pos += idx
		before := byte(' ')
		if pos > 0 {
			before = text[pos-1]
		}
		if !isWordChar(before) {
			return true
		}
		idx = pos + len(word)
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
