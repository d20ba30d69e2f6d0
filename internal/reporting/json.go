package reporting

import (
	"encoding/json"
	"fmt"

	"github.com/microsoft/skillcheck/internal/models"
)

// FormatJSON renders one summary as indented JSON.
func FormatJSON(s *models.SkillSummary) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling summary: %w", err)
	}
	return string(data), nil
}

// FormatJSONAll renders several summaries as one indented JSON array.
func FormatJSONAll(summaries []*models.SkillSummary) (string, error) {
	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling summaries: %w", err)
	}
	return string(data), nil
}
