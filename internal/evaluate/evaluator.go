// Package evaluate scores generated code against a skill's acceptance
// criteria and a scenario's expected/forbidden pattern lists.
package evaluate

import (
	"fmt"
	"strings"

	"github.com/microsoft/skillcheck/internal/models"
)

// Scoring weights. The step order in Evaluate and these constants together
// define what "passing" means for every consumer of the harness, so they
// live in one place.
const (
	scoreBase              = 100.0
	forbiddenPenalty       = 15.0
	missingExpectedPenalty = 5.0
	correctBonus           = 5.0
)

// Evaluator scores generated code. It is stateless apart from configuration
// and safe for concurrent use.
type Evaluator struct {
	language string
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLanguage sets the language used by the syntax gate. LanguageNone
// disables the gate.
func WithLanguage(language string) Option {
	return func(e *Evaluator) { e.language = language }
}

// New returns an Evaluator gating on models.DefaultLanguage unless
// configured otherwise.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{language: models.DefaultLanguage}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate scores code for one scenario:
//
//  1. Syntax gate: code that does not parse scores 0 with a single Error
//     finding, and no other checks run.
//  2. Each forbidden pattern (scenario list or Incorrect criterion) present
//     in the code adds an Error finding and subtracts 15 from a base of 100.
//  3. Each expected pattern missing from the code adds a Warning finding and
//     subtracts 5. Correct criteria carry no penalty when missing and add 5
//     when matched, capped at 100.
//  4. The final score is clamped to [0, 100].
//
// Passed is true iff no Error finding was emitted; warnings alone never fail
// a scenario.
func (e *Evaluator) Evaluate(code string, criteria []models.CriterionPattern, scenario models.Scenario) models.EvaluationResult {
	result := models.EvaluationResult{ScenarioName: scenario.Name}

	if err := CheckSyntax(code, e.language); err != nil {
		result.Findings = []models.Finding{{
			Severity: models.SeverityError,
			Rule:     "syntax:" + e.language,
			Message:  fmt.Sprintf("Generated code has a syntax error: %v", err),
		}}
		result.CountFindings()
		return result
	}

	score := scoreBase
	scenarioRule := "scenario:" + scenario.Name

	for _, pattern := range scenario.ForbiddenPatterns {
		if !containsPattern(code, pattern) {
			continue
		}
		result.Findings = append(result.Findings, models.Finding{
			Severity:       models.SeverityError,
			Rule:           scenarioRule,
			Message:        fmt.Sprintf("Forbidden pattern found: %s", pattern),
			MatchedPattern: pattern,
		})
		score -= forbiddenPenalty
	}

	for _, c := range criteria {
		if c.Kind != models.KindIncorrect || !containsPattern(code, c.Text) {
			continue
		}
		result.Findings = append(result.Findings, models.Finding{
			Severity:       models.SeverityError,
			Rule:           "criteria:" + c.Section,
			Message:        fmt.Sprintf("Forbidden pattern found: %s", patternLabel(c.Text)),
			MatchedPattern: c.Text,
			Suggestion:     fmt.Sprintf("Follow the correct examples under %q in the acceptance criteria", c.Section),
		})
		result.MatchedIncorrect = append(result.MatchedIncorrect, c.Text)
		score -= forbiddenPenalty
	}

	for _, pattern := range scenario.ExpectedPatterns {
		if containsPattern(code, pattern) {
			continue
		}
		result.Findings = append(result.Findings, models.Finding{
			Severity: models.SeverityWarning,
			Rule:     scenarioRule,
			Message:  fmt.Sprintf("Expected pattern not found: %s", pattern),
		})
		score -= missingExpectedPenalty
	}

	for _, c := range criteria {
		if c.Kind != models.KindCorrect || !containsPattern(code, c.Text) {
			continue
		}
		result.MatchedCorrect = append(result.MatchedCorrect, c.Text)
		if score += correctBonus; score > scoreBase {
			score = scoreBase
		}
	}

	if score < 0 {
		score = 0
	}
	result.Score = score
	result.CountFindings()
	return result
}

// patternLabel renders a criterion text on one line for finding messages.
func patternLabel(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i] + " ..."
	}
	return text
}
