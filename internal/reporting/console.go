package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/microsoft/skillcheck/internal/models"
)

// ColorMode represents different color output modes.
type ColorMode int

const (
	// ColorAuto lets the color package detect terminal capabilities.
	ColorAuto ColorMode = iota
	// ColorAlways forces colored output.
	ColorAlways
	// ColorNever disables colored output.
	ColorNever
)

// DetectColorMode determines the color mode from the environment.
// NO_COLOR always wins; SKILLCHECK_COLOR=always|never overrides detection.
func DetectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}
	switch os.Getenv("SKILLCHECK_COLOR") {
	case "always", "force":
		return ColorAlways
	case "never", "off":
		return ColorNever
	default:
		return ColorAuto
	}
}

// Console renders evaluation summaries as an aligned, optionally colored
// table. Alignment uses terminal display width so emoji and wide runes in
// scenario names don't break columns.
type Console struct {
	out     io.Writer
	verbose bool
}

// NewConsole creates a console reporter writing to out. The color mode is
// applied process-wide, matching how the color package works.
func NewConsole(out io.Writer, mode ColorMode, verbose bool) *Console {
	switch mode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	}
	return &Console{out: out, verbose: verbose}
}

var (
	passColor    = color.New(color.FgGreen)
	failColor    = color.New(color.FgRed)
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	infoColor    = color.New(color.FgBlue)
)

// PrintSummary writes the summary banner, the per-scenario table, and details
// for failed scenarios (all scenarios when verbose).
func (c *Console) PrintSummary(s *models.SkillSummary) {
	const maxNameWidth = 30
	const minNameWidth = 10

	// Compute dynamic column width from the longest scenario name.
	nameWidth := len("Scenario")
	for _, r := range s.Results {
		if runeLen := utf8.RuneCountInString(r.ScenarioName); runeLen > nameWidth {
			nameWidth = runeLen
		}
	}
	if nameWidth > maxNameWidth {
		nameWidth = maxNameWidth
	}
	if nameWidth < minNameWidth {
		nameWidth = minNameWidth
	}

	const colStatus = 6
	const colScore = 6
	const colErrors = 6
	const colWarnings = 8
	totalWidth := nameWidth + colStatus + colScore + colErrors + colWarnings + 8 // 8 = 4 gaps × 2 spaces

	fmt.Fprintf(c.out, "\n%s\n", strings.Repeat("═", totalWidth))
	fmt.Fprintf(c.out, " EVALUATION SUMMARY: %s\n", s.SkillName)
	fmt.Fprintf(c.out, "%s\n\n", strings.Repeat("═", totalWidth))

	fmt.Fprintf(c.out, "%s  %s  %s  %s  %s\n",
		padRight("Scenario", nameWidth),
		padRight("Status", colStatus),
		padRight("Score", colScore),
		padRight("Errors", colErrors),
		"Warnings")
	fmt.Fprintf(c.out, "%s\n", strings.Repeat("─", totalWidth))

	for _, r := range s.Results {
		status := passColor.Sprint(padRight("PASS", colStatus))
		if !r.Passed {
			status = failColor.Sprint(padRight("FAIL", colStatus))
		}
		fmt.Fprintf(c.out, "%s  %s  %s  %s  %d\n",
			padRight(truncateName(r.ScenarioName, nameWidth), nameWidth),
			status,
			padRight(fmt.Sprintf("%.1f", r.Score), colScore),
			padRight(fmt.Sprintf("%d", r.ErrorCount), colErrors),
			r.WarningCount)
	}

	fmt.Fprintf(c.out, "%s\n", strings.Repeat("─", totalWidth))
	fmt.Fprintf(c.out, "%d/%d passed (%.1f%%), avg score %.1f, %.0fms\n",
		s.Passed, s.TotalScenarios, s.PassRate*100, s.AvgScore, s.DurationMs)
	if s.Metadata.CacheHits > 0 {
		fmt.Fprintf(c.out, "cache hits: %d\n", s.Metadata.CacheHits)
	}

	for _, r := range s.Results {
		if !r.Passed || c.verbose {
			c.printResult(r)
		}
	}
}

func (c *Console) printResult(r models.EvaluationResult) {
	status := passColor.Sprint("PASS")
	if !r.Passed {
		status = failColor.Sprint("FAIL")
	}
	fmt.Fprintf(c.out, "\n  [%s] %s (score: %.1f)\n", status, r.ScenarioName, r.Score)

	for _, f := range r.Findings {
		tag := fmt.Sprintf("[%s]", strings.ToUpper(string(f.Severity)))
		switch f.Severity {
		case models.SeverityError:
			tag = errorColor.Sprint(tag)
		case models.SeverityWarning:
			tag = warnColor.Sprint(tag)
		default:
			tag = infoColor.Sprint(tag)
		}
		fmt.Fprintf(c.out, "    %s %s: %s\n", tag, f.Rule, f.Message)
		if f.Suggestion != "" {
			fmt.Fprintf(c.out, "      Suggestion: %s\n", f.Suggestion)
		}
	}
}

// Error writes an error line to the console.
func (c *Console) Error(msg string) {
	errorColor.Fprintf(c.out, "[ERROR] %s\n", msg)
}

// Warning writes a warning line to the console.
func (c *Console) Warning(msg string) {
	warnColor.Fprintf(c.out, "⚠ %s\n", msg)
}

// Success writes a success line to the console.
func (c *Console) Success(msg string) {
	successColor.Fprintf(c.out, "✓ %s\n", msg)
}

// truncateName shortens a name to maxLen runes, replacing the last rune with "…" if needed.
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
