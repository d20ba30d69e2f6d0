package models

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Default generation settings applied when scenarios.yaml has no config block.
const (
	DefaultModel       = "gpt-4"
	DefaultMaxTokens   = 2000
	DefaultTemperature = 0.3
	DefaultLanguage    = "python"
)

// Scenario is one test case for a skill: a prompt plus the patterns the
// generated code must and must not contain.
type Scenario struct {
	Name              string   `yaml:"name" json:"name"`
	Prompt            string   `yaml:"prompt" json:"prompt"`
	ExpectedPatterns  []string `yaml:"expected_patterns,omitempty" json:"expected_patterns,omitempty"`
	ForbiddenPatterns []string `yaml:"forbidden_patterns,omitempty" json:"forbidden_patterns,omitempty"`
	Tags              []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	MockResponse      string   `yaml:"mock_response" json:"mock_response"`
}

// GenerationConfig controls how code is generated for a suite's scenarios.
type GenerationConfig struct {
	Model               string  `mapstructure:"model" json:"model"`
	MaxTokens           int     `mapstructure:"max_tokens" json:"max_tokens"`
	Temperature         float64 `mapstructure:"temperature" json:"temperature"`
	Language            string  `mapstructure:"language" json:"language"`
	IncludeSkillContext bool    `mapstructure:"include_skill_context" json:"include_skill_context"`
}

// DefaultGenerationConfig returns the config used when scenarios.yaml carries
// no config block.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Model:               DefaultModel,
		MaxTokens:           DefaultMaxTokens,
		Temperature:         DefaultTemperature,
		Language:            DefaultLanguage,
		IncludeSkillContext: true,
	}
}

// ScenarioSuite is one skill's scenarios.yaml: the scenario list plus shared
// generation settings.
type ScenarioSuite struct {
	SkillName string           `json:"skill_name"`
	Scenarios []Scenario       `json:"scenarios"`
	Config    GenerationConfig `json:"config"`
}

// scenarioFile mirrors the on-disk layout. The config block is decoded as a
// free-form map first so unset keys keep their defaults.
type scenarioFile struct {
	Scenarios []Scenario     `yaml:"scenarios"`
	Config    map[string]any `yaml:"config,omitempty"`
}

// LoadScenarioSuite loads and validates a scenarios.yaml file.
func LoadScenarioSuite(path, skillName string) (*ScenarioSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenarioSuite(data, skillName)
}

// ParseScenarioSuite parses scenarios.yaml content into a validated suite.
func ParseScenarioSuite(data []byte, skillName string) (*ScenarioSuite, error) {
	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing scenarios for %s: %w", skillName, err)
	}

	cfg := DefaultGenerationConfig()
	if len(file.Config) > 0 {
		if err := mapstructure.Decode(file.Config, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config block for %s: %w", skillName, err)
		}
	}

	suite := &ScenarioSuite{
		SkillName: skillName,
		Scenarios: file.Scenarios,
		Config:    cfg,
	}
	if err := suite.Validate(); err != nil {
		return nil, err
	}
	return suite, nil
}

// Validate checks the suite invariants: every scenario needs a name, a prompt,
// and a mock response usable in mock mode.
func (s *ScenarioSuite) Validate() error {
	if len(s.Scenarios) == 0 {
		return fmt.Errorf("suite %s has no scenarios", s.SkillName)
	}
	seen := make(map[string]bool, len(s.Scenarios))
	for i, sc := range s.Scenarios {
		if sc.Name == "" {
			return fmt.Errorf("scenario %d has no name", i)
		}
		if sc.Prompt == "" {
			return fmt.Errorf("scenario %q has no prompt", sc.Name)
		}
		if sc.MockResponse == "" {
			return fmt.Errorf("scenario %q has no mock_response", sc.Name)
		}
		if seen[sc.Name] {
			return fmt.Errorf("duplicate scenario name %q", sc.Name)
		}
		seen[sc.Name] = true
	}
	return nil
}

// HasTag reports whether the scenario carries the given tag, ignoring case.
func (sc *Scenario) HasTag(tag string) bool {
	for _, t := range sc.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
