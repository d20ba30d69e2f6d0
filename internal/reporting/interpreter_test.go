package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpretScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"excellent high", 98, "Excellent (90-100)"},
		{"excellent boundary", 90, "Excellent (90-100)"},
		{"good high", 89.9, "Good (70-89)"},
		{"good low", 70, "Good (70-89)"},
		{"needs work high", 69.9, "Needs Work (50-69)"},
		{"needs work low", 50, "Needs Work (50-69)"},
		{"poor high", 49.9, "Poor (<50)"},
		{"poor zero", 0, "Poor (<50)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterpretScore(tt.score))
		})
	}
}

func TestInterpretPassRate(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		want string
	}{
		{"all passed", 1.0, "All scenarios passed (100%)"},
		{"most passed", 0.85, "Most scenarios passed (85%)"},
		{"about half", 0.60, "About half the scenarios passed (60%)"},
		{"few passed", 0.30, "Few scenarios passed (30%)"},
		{"none passed", 0.0, "Few scenarios passed (0%)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterpretPassRate(tt.rate))
		})
	}
}
