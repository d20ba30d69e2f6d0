package reporting

import (
	"fmt"
	"strings"

	"github.com/microsoft/skillcheck/internal/models"
)

const reportFooter = "*Report generated by Skill Evaluation Harness*"

// FormatMarkdown renders one skill's summary as a standalone markdown report.
func FormatMarkdown(s *models.SkillSummary) string {
	var b strings.Builder

	statusEmoji := "✅"
	if s.Failed > 0 {
		statusEmoji = "❌"
	}
	fmt.Fprintf(&b, "# %s Skill Evaluation Report: %s\n\n", statusEmoji, s.SkillName)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", timeNow().Format("2006-01-02 15:04:05"))

	writeSummarySection(&b, s)
	writeResultsTable(&b, s)
	if s.Failed > 0 {
		writeDetailedFindings(&b, s)
	}

	b.WriteString("---\n\n")
	b.WriteString(reportFooter + "\n")
	return b.String()
}

// FormatMultiSkillMarkdown renders a combined report for several skills:
// an overview table, overall statistics, and detail sections for skills
// with failures.
func FormatMultiSkillMarkdown(summaries []*models.SkillSummary) string {
	var b strings.Builder

	b.WriteString("# Skill Evaluation Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n", timeNow().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Skills Evaluated:** %d\n\n", len(summaries))

	b.WriteString("## Overview\n\n")
	b.WriteString("| Skill | Status | Pass Rate | Avg Score |\n")
	b.WriteString("|-------|--------|-----------|-----------|\n")

	totalPassed := 0
	totalScenarios := 0
	for _, s := range summaries {
		status := "✅"
		if s.Failed > 0 {
			status = "❌"
		}
		fmt.Fprintf(&b, "| %s | %s | %.1f%% | %.1f |\n", s.SkillName, status, s.PassRate*100, s.AvgScore)
		totalPassed += s.Passed
		totalScenarios += s.TotalScenarios
	}
	b.WriteString("\n")

	overallRate := 0.0
	if totalScenarios > 0 {
		overallRate = float64(totalPassed) / float64(totalScenarios)
	}
	b.WriteString("## Overall Statistics\n\n")
	fmt.Fprintf(&b, "- **Total Scenarios:** %d\n", totalScenarios)
	fmt.Fprintf(&b, "- **Total Passed:** %d\n", totalPassed)
	fmt.Fprintf(&b, "- **Overall Pass Rate:** %.1f%%\n", overallRate*100)
	fmt.Fprintf(&b, "- **Assessment:** %s\n\n", InterpretPassRate(overallRate))

	for _, s := range summaries {
		if s.Failed > 0 {
			fmt.Fprintf(&b, "## %s\n\n", s.SkillName)
			writeSummaryBody(&b, s)
			writeDetailedFindings(&b, s)
		}
	}

	b.WriteString("---\n\n")
	b.WriteString(reportFooter + "\n")
	return b.String()
}

func writeSummarySection(b *strings.Builder, s *models.SkillSummary) {
	b.WriteString("## Summary\n\n")
	writeSummaryBody(b, s)
}

func writeSummaryBody(b *strings.Builder, s *models.SkillSummary) {
	status := "🟢 PASSED"
	if s.Failed > 0 {
		status = "🔴 FAILED"
	}
	fmt.Fprintf(b, "**Status:** %s\n", status)
	fmt.Fprintf(b, "**Assessment:** %s\n\n", InterpretScore(s.AvgScore))

	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Total Scenarios | %d |\n", s.TotalScenarios)
	fmt.Fprintf(b, "| Passed | %d |\n", s.Passed)
	fmt.Fprintf(b, "| Failed | %d |\n", s.Failed)
	fmt.Fprintf(b, "| Pass Rate | %.1f%% |\n", s.PassRate*100)
	fmt.Fprintf(b, "| Average Score | %.1f |\n", s.AvgScore)
	fmt.Fprintf(b, "| Duration | %.0fms |\n\n", s.DurationMs)
}

func writeResultsTable(b *strings.Builder, s *models.SkillSummary) {
	b.WriteString("## Scenario Results\n\n")
	b.WriteString("| Scenario | Status | Score | Errors | Warnings |\n")
	b.WriteString("|----------|--------|-------|--------|----------|\n")

	for _, r := range s.Results {
		status := "✅ Pass"
		if !r.Passed {
			status = "❌ Fail"
		}
		fmt.Fprintf(b, "| %s | %s | %.1f | %d | %d |\n",
			r.ScenarioName, status, r.Score, r.ErrorCount, r.WarningCount)
	}
	b.WriteString("\n")
}

func writeDetailedFindings(b *strings.Builder, s *models.SkillSummary) {
	b.WriteString("## Detailed Findings\n\n")

	for _, r := range s.Results {
		if r.Passed {
			continue
		}
		fmt.Fprintf(b, "### %s\n\n", r.ScenarioName)
		fmt.Fprintf(b, "**Score:** %.1f\n\n", r.Score)

		if len(r.Findings) > 0 {
			b.WriteString("#### Findings\n\n")
			for _, f := range r.Findings {
				fmt.Fprintf(b, "- %s **%s**: %s\n", severityEmoji(f.Severity), f.Rule, f.Message)
				if f.Suggestion != "" {
					fmt.Fprintf(b, "  - 💡 *Suggestion:* %s\n", f.Suggestion)
				}
			}
			b.WriteString("\n")
		}

		if len(r.MatchedIncorrect) > 0 {
			b.WriteString("#### Incorrect Patterns Detected\n\n")
			for _, p := range r.MatchedIncorrect {
				fmt.Fprintf(b, "- `%s`\n", p)
			}
			b.WriteString("\n")
		}

		if len(r.MatchedCorrect) > 0 {
			b.WriteString("#### Correct Patterns Found\n\n")
			for _, p := range r.MatchedCorrect {
				fmt.Fprintf(b, "- `%s`\n", p)
			}
			b.WriteString("\n")
		}
	}
}

func severityEmoji(sev models.Severity) string {
	switch sev {
	case models.SeverityError:
		return "🔴"
	case models.SeverityWarning:
		return "🟡"
	case models.SeverityInfo:
		return "🔵"
	default:
		return "⚪"
	}
}
