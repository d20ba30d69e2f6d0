package reporting

import (
	"encoding/json"
	"testing"

	"github.com/microsoft/skillcheck/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatJSON(t *testing.T) {
	out, err := FormatJSON(newTestSummary())
	require.NoError(t, err)

	assert.Contains(t, out, `"skill_name": "retries"`)
	assert.Contains(t, out, `"pass_rate"`)

	var parsed models.SkillSummary
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "retries", parsed.SkillName)
	assert.Equal(t, 3, parsed.TotalScenarios)
	assert.Equal(t, 1, parsed.Failed)
	assert.InDelta(t, 86.7, parsed.AvgScore, 0.1)
	assert.Equal(t, models.ModeMock, parsed.Metadata.Mode)
	require.Len(t, parsed.Results, 3)
	assert.Equal(t, "shell_unsafe", parsed.Results[2].ScenarioName)
	assert.Equal(t, 2, parsed.Results[2].ErrorCount)
}

func TestFormatJSONAll(t *testing.T) {
	out, err := FormatJSONAll([]*models.SkillSummary{newPassingSummary(), newTestSummary()})
	require.NoError(t, err)

	var parsed []models.SkillSummary
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	require.Len(t, parsed, 2)
	assert.Equal(t, "logging", parsed[0].SkillName)
	assert.Equal(t, "retries", parsed[1].SkillName)
}
