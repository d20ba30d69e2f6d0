// Package projectconfig provides the ProjectConfig struct and loader for
// .skillcheck.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/microsoft/skillcheck/internal/models"
)

// Default values for project configuration. These are the single source of
// truth — New() references them and no other code should duplicate them.
// Relative paths are interpreted against the working directory.
const (
	DefaultSkillsDir    = ".github/skills"
	DefaultScenariosDir = "tests/scenarios"
	DefaultReportsDir   = "tests/reports"

	DefaultTimeoutSeconds = 120
	DefaultWorkers        = 1

	DefaultCacheDir = ".skillcheck-cache"
)

// PathsConfig holds directory paths for skills, scenarios, and reports.
type PathsConfig struct {
	Skills    string `yaml:"skills,omitempty"`
	Scenarios string `yaml:"scenarios,omitempty"`
	Reports   string `yaml:"reports,omitempty"`
}

// DefaultsConfig holds default execution parameters.
type DefaultsConfig struct {
	Model    string `yaml:"model,omitempty"`
	Language string `yaml:"language,omitempty"`
	Timeout  int    `yaml:"timeout,omitempty"`
	Workers  int    `yaml:"workers,omitempty"`
	Mock     *bool  `yaml:"mock,omitempty"`
	Verbose  *bool  `yaml:"verbose,omitempty"`
}

// CacheConfig holds generation cache settings.
type CacheConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// PublishConfig holds report publishing settings.
type PublishConfig struct {
	ContainerURL string `yaml:"container_url,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .skillcheck.yaml.
type ProjectConfig struct {
	Paths    PathsConfig    `yaml:"paths,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
	Cache    CacheConfig    `yaml:"cache,omitempty"`
	Publish  PublishConfig  `yaml:"publish,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Skills:    DefaultSkillsDir,
			Scenarios: DefaultScenariosDir,
			Reports:   DefaultReportsDir,
		},
		Defaults: DefaultsConfig{
			Model:    models.DefaultModel,
			Language: models.DefaultLanguage,
			Timeout:  DefaultTimeoutSeconds,
			Workers:  DefaultWorkers,
			Mock:     boolPtr(false),
			Verbose:  boolPtr(false),
		},
		Cache: CacheConfig{
			Enabled: boolPtr(false),
			Dir:     DefaultCacheDir,
		},
	}
}

// Load finds .skillcheck.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading .skillcheck.yaml: %w", err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing .skillcheck.yaml: %w", err)
	}

	// Merge file values onto defaults.
	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .skillcheck.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates real
// I/O errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ".skillcheck.yaml")
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Paths
	if src.Paths.Skills != "" {
		dst.Paths.Skills = src.Paths.Skills
	}
	if src.Paths.Scenarios != "" {
		dst.Paths.Scenarios = src.Paths.Scenarios
	}
	if src.Paths.Reports != "" {
		dst.Paths.Reports = src.Paths.Reports
	}

	// Defaults
	if src.Defaults.Model != "" {
		dst.Defaults.Model = src.Defaults.Model
	}
	if src.Defaults.Language != "" {
		dst.Defaults.Language = src.Defaults.Language
	}
	if src.Defaults.Timeout != 0 {
		dst.Defaults.Timeout = src.Defaults.Timeout
	}
	if src.Defaults.Workers != 0 {
		dst.Defaults.Workers = src.Defaults.Workers
	}
	if src.Defaults.Mock != nil {
		dst.Defaults.Mock = src.Defaults.Mock
	}
	if src.Defaults.Verbose != nil {
		dst.Defaults.Verbose = src.Defaults.Verbose
	}

	// Cache
	if src.Cache.Enabled != nil {
		dst.Cache.Enabled = src.Cache.Enabled
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}

	// Publish
	if src.Publish.ContainerURL != "" {
		dst.Publish.ContainerURL = src.Publish.ContainerURL
	}
}

func boolPtr(b bool) *bool {
	return &b
}
