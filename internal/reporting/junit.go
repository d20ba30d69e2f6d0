package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/microsoft/skillcheck/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one skill's evaluation run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one scenario.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
}

// JUnitFailure represents a scenario whose generated code failed evaluation.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitError represents a scenario whose code generation itself failed.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts skill summaries to JUnit XML format: one testsuite
// per skill, one testcase per scenario. Pattern failures become <failure>
// elements; generation failures become <error> elements.
func ConvertToJUnit(summaries []*models.SkillSummary) *JUnitTestSuites {
	out := &JUnitTestSuites{}

	for _, s := range summaries {
		durationSec := s.DurationMs / 1000.0

		suite := JUnitTestSuite{
			Name:      s.SkillName,
			Tests:     s.TotalScenarios,
			Time:      durationSec,
			Timestamp: timeNow().Format(time.RFC3339),
			Properties: []JUnitProperty{
				{Name: "skill", Value: s.SkillName},
				{Name: "model", Value: s.Metadata.Model},
				{Name: "mode", Value: string(s.Metadata.Mode)},
				{Name: "avg_score", Value: fmt.Sprintf("%.2f", s.AvgScore)},
			},
		}

		for _, r := range s.Results {
			tc := convertResult(s.SkillName, r)
			if tc.Error != nil {
				suite.Errors++
			} else if tc.Failure != nil {
				suite.Failures++
			}
			suite.TestCases = append(suite.TestCases, tc)
		}

		out.Tests += suite.Tests
		out.Failures += suite.Failures
		out.Errors += suite.Errors
		out.Time += suite.Time
		out.TestSuites = append(out.TestSuites, suite)
	}

	return out
}

func convertResult(skill string, r models.EvaluationResult) JUnitTestCase {
	tc := JUnitTestCase{
		Name:      r.ScenarioName,
		Classname: skill,
	}
	if r.Passed {
		return tc
	}

	if msg, ok := generationError(r); ok {
		tc.Error = &JUnitError{
			Message: msg,
			Type:    "GenerationError",
		}
		return tc
	}

	tc.Failure = &JUnitFailure{
		Message: fmt.Sprintf("%s: score=%.1f", r.ScenarioName, r.Score),
		Type:    "PatternFailure",
		Body:    formatErrorFindings(r),
	}
	return tc
}

// generationError reports whether the result failed because generation itself
// errored, and returns the error message if so.
func generationError(r models.EvaluationResult) (string, bool) {
	for _, f := range r.Findings {
		if f.Rule == models.RuleGeneration {
			return f.Message, true
		}
	}
	return "", false
}

func formatErrorFindings(r models.EvaluationResult) string {
	var b strings.Builder
	for _, f := range r.Findings {
		if f.Severity != models.SeverityError {
			continue
		}
		fmt.Fprintf(&b, "[ERROR] %s: %s\n", f.Rule, f.Message)
	}
	return b.String()
}

// WriteJUnitXML writes JUnit XML for the summaries to the specified file path.
func WriteJUnitXML(summaries []*models.SkillSummary, path string) error {
	suites := ConvertToJUnit(summaries)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	return os.WriteFile(path, output, 0644)
}
