package reporting

import (
	"testing"

	"github.com/microsoft/skillcheck/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatMarkdown_FailedRun(t *testing.T) {
	stubTime(t)
	out := FormatMarkdown(newTestSummary())

	assert.Contains(t, out, "# ❌ Skill Evaluation Report: retries")
	assert.Contains(t, out, "**Generated:** 2025-06-15 12:00:00")
	assert.Contains(t, out, "**Status:** 🔴 FAILED")
	assert.Contains(t, out, "**Assessment:** Good (70-89)")
	assert.Contains(t, out, "| Total Scenarios | 3 |")
	assert.Contains(t, out, "| Pass Rate | 66.7% |")
	assert.Contains(t, out, "| Average Score | 86.7 |")
	assert.Contains(t, out, "| Duration | 245ms |")

	assert.Contains(t, out, "## Scenario Results")
	assert.Contains(t, out, "| basic_usage | ✅ Pass | 100.0 | 0 | 0 |")
	assert.Contains(t, out, "| shell_unsafe | ❌ Fail | 65.0 | 2 | 1 |")

	assert.Contains(t, out, "## Detailed Findings")
	assert.Contains(t, out, "### shell_unsafe")
	assert.Contains(t, out, "**Score:** 65.0")
	assert.Contains(t, out, "- 🔴 **scenario:shell_unsafe**: Forbidden pattern found: os.system")
	assert.Contains(t, out, "- 🟡 **scenario:shell_unsafe**: Expected pattern not found: subprocess.run")
	assert.Contains(t, out, "  - 💡 *Suggestion:* Follow the correct examples")
	assert.Contains(t, out, "#### Incorrect Patterns Detected")
	assert.Contains(t, out, "- `os.popen(\"sleep 1\")`")

	assert.Contains(t, out, reportFooter)
}

func TestFormatMarkdown_AllPassed(t *testing.T) {
	stubTime(t)
	out := FormatMarkdown(newPassingSummary())

	assert.Contains(t, out, "# ✅ Skill Evaluation Report: logging")
	assert.Contains(t, out, "**Status:** 🟢 PASSED")
	assert.Contains(t, out, "| Pass Rate | 100.0% |")
	assert.NotContains(t, out, "## Detailed Findings")
}

func TestFormatMarkdown_CorrectPatternsListed(t *testing.T) {
	stubTime(t)

	r := models.EvaluationResult{
		ScenarioName: "partial_credit",
		Score:        85,
		Findings: []models.Finding{{
			Severity: models.SeverityError,
			Rule:     "scenario:partial_credit",
			Message:  "Forbidden pattern found: eval(",
		}},
		MatchedCorrect:   []string{"time.sleep(2 ** attempt)"},
		MatchedIncorrect: []string{"eval("},
	}
	r.CountFindings()
	s := models.NewSkillSummary("retries", []models.EvaluationResult{r}, 50,
		models.RunMetadata{Mode: models.ModeMock})

	out := FormatMarkdown(s)

	assert.Contains(t, out, "#### Correct Patterns Found")
	assert.Contains(t, out, "- `time.sleep(2 ** attempt)`")
	assert.Contains(t, out, "#### Incorrect Patterns Detected")
	assert.Contains(t, out, "- `eval(`")
}

func TestFormatMultiSkillMarkdown(t *testing.T) {
	stubTime(t)
	out := FormatMultiSkillMarkdown([]*models.SkillSummary{newPassingSummary(), newTestSummary()})

	assert.Contains(t, out, "# Skill Evaluation Report")
	assert.Contains(t, out, "**Skills Evaluated:** 2")

	assert.Contains(t, out, "## Overview")
	assert.Contains(t, out, "| logging | ✅ | 100.0% | 97.5 |")
	assert.Contains(t, out, "| retries | ❌ | 66.7% | 86.7 |")

	assert.Contains(t, out, "## Overall Statistics")
	assert.Contains(t, out, "- **Total Scenarios:** 5")
	assert.Contains(t, out, "- **Total Passed:** 4")
	assert.Contains(t, out, "- **Overall Pass Rate:** 80.0%")
	assert.Contains(t, out, "- **Assessment:** Most scenarios passed (80%)")

	// Only failing skills get a detail section.
	assert.Contains(t, out, "## retries")
	assert.NotContains(t, out, "## logging")
	assert.Contains(t, out, "### shell_unsafe")

	assert.Contains(t, out, reportFooter)
}
