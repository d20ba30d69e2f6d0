package orchestration

import (
	"strings"

	"github.com/microsoft/skillcheck/internal/models"
)

// FilterScenarios returns the subset of scenarios whose name equals the
// filter or whose tags contain it, case-insensitively. An empty filter
// returns all scenarios unchanged.
func FilterScenarios(scenarios []models.Scenario, filter string) []models.Scenario {
	if filter == "" {
		return scenarios
	}

	matched := make([]models.Scenario, 0, len(scenarios))
	for _, s := range scenarios {
		if matchesFilter(s, filter) {
			matched = append(matched, s)
		}
	}
	return matched
}

// matchesFilter reports whether a scenario's name or one of its tags equals
// the filter, ignoring case.
func matchesFilter(s models.Scenario, filter string) bool {
	return strings.EqualFold(s.Name, filter) || s.HasTag(filter)
}
