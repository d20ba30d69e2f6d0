// Package reporting renders SkillSummary values as text, markdown, JSON, and
// JUnit XML. Formatters are pure functions; the CLI owns stdout and file
// routing, except for WriteJUnitXML and the publish helper.
package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/microsoft/skillcheck/internal/models"
)

// timeNow is swapped out in tests so report timestamps are stable.
var timeNow = time.Now

// FormatText renders the plain-text summary. Failed scenarios always include
// their findings; verbose adds passing scenarios too.
func FormatText(s *models.SkillSummary, verbose bool) string {
	var b strings.Builder

	rule := strings.Repeat("=", 60)
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Evaluation Summary: %s\n", s.SkillName)
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Scenarios: %d\n", s.TotalScenarios)
	fmt.Fprintf(&b, "Passed: %d\n", s.Passed)
	fmt.Fprintf(&b, "Failed: %d\n", s.Failed)
	fmt.Fprintf(&b, "Pass Rate: %.1f%%\n", s.PassRate*100)
	fmt.Fprintf(&b, "Average Score: %.1f\n", s.AvgScore)
	fmt.Fprintf(&b, "Duration: %.0fms\n", s.DurationMs)

	if s.Failed > 0 && !verbose {
		b.WriteString("\nFailed Scenarios:\n")
		for _, r := range s.Results {
			if !r.Passed {
				writeResultText(&b, r)
			}
		}
	}
	if verbose {
		b.WriteString("\nScenarios:\n")
		for _, r := range s.Results {
			writeResultText(&b, r)
		}
	}

	return b.String()
}

func writeResultText(b *strings.Builder, r models.EvaluationResult) {
	status := "PASS"
	if !r.Passed {
		status = "FAIL"
	}
	fmt.Fprintf(b, "\n  [%s] %s (score: %.1f)\n", status, r.ScenarioName, r.Score)

	for _, f := range r.Findings {
		fmt.Fprintf(b, "    [%s] %s: %s\n", strings.ToUpper(string(f.Severity)), f.Rule, f.Message)
		if f.Suggestion != "" {
			fmt.Fprintf(b, "      Suggestion: %s\n", f.Suggestion)
		}
	}
}
