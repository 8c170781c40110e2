package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
categories:
  - name: languages
    terms:
      - canonical: python
      - canonical: javascript
        aliases: [js]
  - name: frameworks
    terms:
      - canonical: "rest api"
        aliases: ["rest apis", "rest"]
      - canonical: kubernetes
        aliases: [k8s]
`

func TestExtract_CaseInsensitiveWholeWord(t *testing.T) {
	lx, err := Parse([]byte(testYAML))
	require.NoError(t, err)

	set := lx.Extract("Built a PYTHON REST API; not a Pythonic app.")
	_, hasPython := set["python"]
	_, hasRest := set["rest api"]
	assert.True(t, hasPython)
	assert.True(t, hasRest)
	assert.Len(t, set, 2, "Pythonic must not match the python term (word boundary)")
}

func TestExtract_AliasMatchesCanonical(t *testing.T) {
	lx, err := Parse([]byte(testYAML))
	require.NoError(t, err)

	set := lx.Extract("Experience with k8s and js required.")
	assert.Contains(t, set, "kubernetes")
	assert.Contains(t, set, "javascript")
}

func TestExtract_NoFalsePositiveOnSubstring(t *testing.T) {
	lx, err := Parse([]byte(testYAML))
	require.NoError(t, err)

	set := lx.Extract("javascripting is not a word but testing substrings.")
	assert.NotContains(t, set, "javascript")
}

func TestHash_Deterministic(t *testing.T) {
	lx1, err := Parse([]byte(testYAML))
	require.NoError(t, err)
	lx2, err := Parse([]byte(testYAML))
	require.NoError(t, err)
	assert.Equal(t, lx1.Hash(), lx2.Hash())
}

func TestCanonicalTerms_Order(t *testing.T) {
	lx, err := Parse([]byte(testYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "javascript", "rest api", "kubernetes"}, lx.CanonicalTerms())
}
