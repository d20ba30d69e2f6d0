package reporting

import "fmt"

// InterpretScore returns a plain-language label for a score (0–100).
func InterpretScore(score float64) string {
	switch {
	case score >= 90:
		return "Excellent (90-100)"
	case score >= 70:
		return "Good (70-89)"
	case score >= 50:
		return "Needs Work (50-69)"
	default:
		return "Poor (<50)"
	}
}

// InterpretPassRate returns a human-readable explanation of a pass rate (0–1).
func InterpretPassRate(rate float64) string {
	pct := rate * 100
	switch {
	case pct >= 100:
		return fmt.Sprintf("All scenarios passed (%.0f%%)", pct)
	case pct >= 80:
		return fmt.Sprintf("Most scenarios passed (%.0f%%)", pct)
	case pct >= 50:
		return fmt.Sprintf("About half the scenarios passed (%.0f%%)", pct)
	default:
		return fmt.Sprintf("Few scenarios passed (%.0f%%)", pct)
	}
}
