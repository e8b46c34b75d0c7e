package requirements

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_DelimiterSplitting(t *testing.T) {
	reqs := Extract("Python, Docker; Kubernetes\nPostgreSQL")

	assert.Contains(t, reqs, "Python")
	assert.Contains(t, reqs, "Docker")
	assert.Contains(t, reqs, "Kubernetes")
	assert.Contains(t, reqs, "PostgreSQL")
}

func TestExtract_AndSeparator(t *testing.T) {
	reqs := Extract("React and Node")

	assert.Contains(t, reqs, "React")
	assert.Contains(t, reqs, "Node")
}

func TestExtract_TechKeywordsFromProse(t *testing.T) {
	reqs := Extract("We need someone comfortable shipping terraform modules on aws infrastructure")

	assert.Contains(t, reqs, "Terraform")
	assert.Contains(t, reqs, "Aws")
}

func TestExtract_DeduplicatesCaseInsensitively(t *testing.T) {
	reqs := Extract("Python, python, PYTHON")

	count := 0
	for _, r := range reqs {
		if strings.EqualFold(r, "python") {
			count++
		}
	}
	assert.Equal(t, 1, count)
	// First-seen casing wins.
	assert.Contains(t, reqs, "Python")
}

func TestExtract_LengthBounds(t *testing.T) {
	// Fragments of 2 chars or fewer, or 30 or more, are ignored.
	long := strings.Repeat("x", 35)
	reqs := Extract("ab, " + long + ", Docker")

	assert.NotContains(t, reqs, "ab")
	assert.NotContains(t, reqs, long)
	assert.Contains(t, reqs, "Docker")
}

func TestExtract_Cap(t *testing.T) {
	parts := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		parts = append(parts, "skill"+strings.Repeat("x", i%5)+string(rune('a'+i%26)))
	}
	reqs := Extract(strings.Join(parts, ", "))

	assert.LessOrEqual(t, len(reqs), MaxRequirements)
}

func TestExtract_KeywordDisplayCasing(t *testing.T) {
	// Keywords capitalize after any non-letter, not just after spaces.
	reqs := Extract("Build ci/cd pipelines in c++ with machine learning tooling")

	assert.Contains(t, reqs, "Ci/Cd")
	assert.Contains(t, reqs, "C++")
	assert.Contains(t, reqs, "Machine Learning")
}

func TestExtract_Empty(t *testing.T) {
	assert.Empty(t, Extract(""))
	assert.Empty(t, Extract("   \n  "))
}

func TestExtract_Deterministic(t *testing.T) {
	desc := "Senior backend engineer: Go, Docker and Kubernetes, postgresql experience, CI/CD pipelines"
	first := Extract(desc)
	second := Extract(desc)
	assert.Equal(t, first, second)
}
