package scaffold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microsoft/skillcheck/internal/criteria"
	"github.com/microsoft/skillcheck/internal/evaluate"
	"github.com/microsoft/skillcheck/internal/models"
	"github.com/microsoft/skillcheck/internal/validation"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		errMsg  string
	}{
		{"valid kebab-case", "my-skill", false, ""},
		{"valid simple", "skill", false, ""},
		{"valid with digits", "s3-upload", false, ""},
		{"empty", "", true, "must not be empty"},
		{"uppercase", "My-Skill", true, "kebab-case"},
		{"underscore", "my_skill", true, "kebab-case"},
		{"space", "my skill", true, "kebab-case"},
		{"leading hyphen", "-skill", true, "kebab-case"},
		{"trailing hyphen", "skill-", true, "kebab-case"},
		{"double hyphen", "a--b", true, "kebab-case"},
		{"path traversal dots", "../evil", true, "kebab-case"},
		{"forward slash", "a/b", true, "kebab-case"},
		{"backslash", "a\\b", true, "kebab-case"},
		{"dot only", ".", true, "kebab-case"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateName(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				if tc.errMsg != "" {
					assert.Contains(t, err.Error(), tc.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"my-skill", "My Skill"},
		{"code-analyzer", "Code Analyzer"},
		{"skill", "Skill"},
		{"a-b-c", "A B C"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, TitleCase(tc.input))
		})
	}
}

func TestScenariosYAML(t *testing.T) {
	content := ScenariosYAML("payments", "python", nil)

	assert.Contains(t, content, "config:")
	assert.Contains(t, content, "language: python")
	assert.Contains(t, content, "name: basic_usage")
	assert.Contains(t, content, `prompt: "Write a basic example using the payments SDK"`)
	assert.Contains(t, content, "name: authentication")
	assert.Contains(t, content, `prompt: "Show how to authenticate with payments"`)
	assert.Contains(t, content, `- "basic"`)
	assert.Contains(t, content, `- "auth"`)
	assert.Contains(t, content, "mock_response: |")
}

func TestScenariosYAML_ExtraTags(t *testing.T) {
	content := ScenariosYAML("payments", "python", []string{"api", "billing"})

	assert.Contains(t, content, `- "api"`)
	assert.Contains(t, content, `- "billing"`)

	suite, err := models.ParseScenarioSuite([]byte(content), "payments")
	require.NoError(t, err)
	for _, sc := range suite.Scenarios {
		assert.True(t, sc.HasTag("api"), "scenario %s missing wizard tag", sc.Name)
	}
}

// A freshly scaffolded suite must load cleanly and pass in mock mode, so the
// template output is checked against the same schema, suite validation, and
// syntax gate a real run applies.
func TestScenariosYAML_IsRunnableSuite(t *testing.T) {
	for _, language := range []string{"python", "go", "javascript", "none"} {
		t.Run(language, func(t *testing.T) {
			content := ScenariosYAML("my-skill", language, nil)

			violations := validation.ValidateScenarioBytes([]byte(content))
			assert.Empty(t, violations)

			suite, err := models.ParseScenarioSuite([]byte(content), "my-skill")
			require.NoError(t, err)
			require.Len(t, suite.Scenarios, 2)
			assert.Equal(t, language, suite.Config.Language)

			for _, sc := range suite.Scenarios {
				assert.NoError(t, evaluate.CheckSyntax(sc.MockResponse, language),
					"starter mock for %s does not parse", sc.Name)
			}
		})
	}
}

func TestScenariosYAML_EmptyLanguageDefaults(t *testing.T) {
	content := ScenariosYAML("my-skill", "", nil)
	assert.Contains(t, content, "language: "+models.DefaultLanguage)
}

func TestCriteriaMD(t *testing.T) {
	content := CriteriaMD("payments-gateway", "Handles payment API usage.", "python")

	assert.Contains(t, content, "# Payments Gateway")
	assert.Contains(t, content, "Handles payment API usage.")
	assert.Contains(t, content, "## Error Handling")
	assert.Contains(t, content, "✅ CORRECT:")
	assert.Contains(t, content, "❌ INCORRECT:")
	assert.Contains(t, content, "```python")
}

func TestCriteriaMD_EmptyDescriptionPlaceholder(t *testing.T) {
	content := CriteriaMD("my-skill", "", "python")
	assert.Contains(t, content, "Describe what correct usage of my-skill looks like.")
}

func TestCriteriaMD_LanguageExamples(t *testing.T) {
	tests := []struct {
		language string
		fence    string
		snippet  string
	}{
		{"python", "```python", "except ApiError as err:"},
		{"go", "```go", "resp, err := client.Do(req)"},
		{"javascript", "```javascript", "await client.send(request);"},
	}

	for _, tc := range tests {
		t.Run(tc.language, func(t *testing.T) {
			content := CriteriaMD("my-skill", "", tc.language)
			assert.Contains(t, content, tc.fence)
			assert.Contains(t, content, tc.snippet)
		})
	}
}

// The starter document must survive the real parser: one correct and one
// incorrect pattern under Error Handling, and no skipped constructs.
func TestCriteriaMD_ParsesIntoPatterns(t *testing.T) {
	content := CriteriaMD("payments", "Payment SDK usage rules.", "python")

	patterns, skipped := criteria.Parse([]byte(content))
	assert.Empty(t, skipped)
	require.Len(t, patterns, 2)

	assert.Equal(t, models.KindCorrect, patterns[0].Kind)
	assert.Contains(t, patterns[0].Text, "client.send(request)")
	assert.Equal(t, "Error Handling", patterns[0].Section)

	assert.Equal(t, models.KindIncorrect, patterns[1].Kind)
	assert.Equal(t, "Error Handling", patterns[1].Section)
}
