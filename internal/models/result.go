package models

// Severity grades a finding. Error findings fail the scenario; warnings and
// informational findings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// RunMode identifies which generation backend produced a run's code.
type RunMode string

const (
	ModeMock    RunMode = "mock"
	ModeCopilot RunMode = "copilot"
)

// RuleGeneration is the rule name on findings produced when code generation
// itself failed, as opposed to the generated code failing evaluation.
const RuleGeneration = "generation"

// Finding is one observation the evaluator made about generated code.
type Finding struct {
	Severity       Severity `json:"severity"`
	Rule           string   `json:"rule"`
	Message        string   `json:"message"`
	MatchedPattern string   `json:"matched_pattern,omitempty"`
	Suggestion     string   `json:"suggestion,omitempty"`
}

// EvaluationResult is the scored outcome for one scenario.
// Passed is true iff no finding has severity error.
type EvaluationResult struct {
	ScenarioName     string    `json:"scenario"`
	Passed           bool      `json:"passed"`
	Score            float64   `json:"score"`
	Findings         []Finding `json:"findings"`
	ErrorCount       int       `json:"error_count"`
	WarningCount     int       `json:"warning_count"`
	MatchedCorrect   []string  `json:"matched_correct,omitempty"`
	MatchedIncorrect []string  `json:"matched_incorrect,omitempty"`
}

// CountFindings tallies ErrorCount and WarningCount and recomputes Passed
// from the findings list.
func (r *EvaluationResult) CountFindings() {
	r.ErrorCount, r.WarningCount = 0, 0
	for _, f := range r.Findings {
		switch f.Severity {
		case SeverityError:
			r.ErrorCount++
		case SeverityWarning:
			r.WarningCount++
		}
	}
	r.Passed = r.ErrorCount == 0
}

// RunMetadata records how a run was executed so reports can flag degraded
// (mock fallback) runs explicitly.
type RunMetadata struct {
	Mode           RunMode `json:"mode"`
	Degraded       bool    `json:"degraded,omitempty"`
	DegradedReason string  `json:"degraded_reason,omitempty"`
	Model          string  `json:"model,omitempty"`
	CacheHits      int     `json:"cache_hits,omitempty"`
}

// SkillSummary aggregates one skill's evaluation results for a single run.
type SkillSummary struct {
	SkillName      string             `json:"skill_name"`
	TotalScenarios int                `json:"total_scenarios"`
	Passed         int                `json:"passed"`
	Failed         int                `json:"failed"`
	PassRate       float64            `json:"pass_rate"`
	AvgScore       float64            `json:"avg_score"`
	DurationMs     float64            `json:"duration_ms"`
	Results        []EvaluationResult `json:"results"`
	Metadata       RunMetadata        `json:"metadata"`
}

// NewSkillSummary aggregates results into a summary. Results keep their
// given order; pass rate and average score are zero for an empty run.
func NewSkillSummary(skillName string, results []EvaluationResult, durationMs float64, meta RunMetadata) *SkillSummary {
	s := &SkillSummary{
		SkillName:      skillName,
		TotalScenarios: len(results),
		Results:        results,
		DurationMs:     durationMs,
		Metadata:       meta,
	}
	var scoreSum float64
	for _, r := range results {
		if r.Passed {
			s.Passed++
		}
		scoreSum += r.Score
	}
	s.Failed = s.TotalScenarios - s.Passed
	if s.TotalScenarios > 0 {
		s.PassRate = float64(s.Passed) / float64(s.TotalScenarios)
		s.AvgScore = scoreSum / float64(s.TotalScenarios)
	}
	return s
}

// AllPassed reports whether every scenario in the run passed.
func (s *SkillSummary) AllPassed() bool {
	return s.Failed == 0
}
