package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"plain text", "We need a Python developer", false},
		{"comparison operators", "salary < 100k and > 50k", false},
		{"paragraph", "<p>Backend role</p>", true},
		{"self closing", "line one<br/>line two", true},
		{"with attributes", `<div class="job">Go</div>`, true},
		{"stray closing tag", "Go developer</p>", true},
		{"generics", "Map<String> and List<Integer>", false},
		{"placeholder", "Dear <Name>, thanks for applying", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LooksLikeHTML(tt.input))
		})
	}
}

func TestPlainText_PlainInputUnchanged(t *testing.T) {
	input := "We need a  Python developer\n(remote)"
	assert.Equal(t, input, PlainText(input))
}

func TestPlainText_GenericsUnchanged(t *testing.T) {
	input := "Senior Java dev: Map<String> and List<Integer> generics; must know Spring"
	assert.Equal(t, input, PlainText(input))
}

func TestPlainText_StripsTags(t *testing.T) {
	input := "<h2>Senior Engineer</h2><p>Build <strong>Go</strong> services.</p>"
	assert.Equal(t, "Senior Engineer Build Go services.", PlainText(input))
}

func TestPlainText_SeparatesListItems(t *testing.T) {
	input := "<ul><li>Go</li><li>PostgreSQL</li><li>Kubernetes</li></ul>"
	result := PlainText(input)

	assert.Contains(t, result, "Go PostgreSQL Kubernetes")
	assert.NotContains(t, result, "GoPostgreSQL")
}

func TestPlainText_RemovesScriptAndStyle(t *testing.T) {
	input := `<style>.x{color:red}</style><p>Accessibility specialist</p><script>track()</script>`
	result := PlainText(input)

	assert.Equal(t, "Accessibility specialist", result)
}

func TestPlainText_DecodesEntities(t *testing.T) {
	input := "<p>R&amp;D engineer</p>"
	assert.Equal(t, "R&D engineer", PlainText(input))
}
