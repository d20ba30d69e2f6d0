package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/microsoft/skillcheck/internal/criteria"
)

// ContextLoader assembles a skill's documentation into one context string
// for prompt assembly: SKILL.md first, then every references/*.md except the
// acceptance criteria (those describe the test, not the skill). Loaded
// contexts are cached; the loader is safe for concurrent use.
type ContextLoader struct {
	skillsDir string

	mu    sync.Mutex
	cache map[string]string
}

// NewContextLoader returns a ContextLoader rooted at skillsDir.
func NewContextLoader(skillsDir string) *ContextLoader {
	return &ContextLoader{
		skillsDir: skillsDir,
		cache:     map[string]string{},
	}
}

// Load returns the documentation context for a skill. A missing skill
// directory is an error; a skill without SKILL.md is tolerated.
func (l *ContextLoader) Load(skillName string) (string, error) {
	l.mu.Lock()
	cached, ok := l.cache[skillName]
	l.mu.Unlock()
	if ok {
		return cached, nil
	}

	skillDir := filepath.Join(l.skillsDir, skillName)
	if info, err := os.Stat(skillDir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("skill not found: %s", skillName)
	}

	var parts []string

	if data, err := os.ReadFile(filepath.Join(skillDir, "SKILL.md")); err == nil {
		parts = append(parts, fmt.Sprintf("# Skill: %s\n\n", skillName), string(data))
	}

	refsDir := filepath.Join(skillDir, "references")
	if entries, err := os.ReadDir(refsDir); err == nil {
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".md") || name == criteria.CriteriaFileName {
				continue
			}
			data, err := os.ReadFile(filepath.Join(refsDir, name))
			if err != nil {
				return "", fmt.Errorf("reading reference %s: %w", name, err)
			}
			stem := strings.TrimSuffix(name, ".md")
			parts = append(parts, fmt.Sprintf("\n\n# Reference: %s\n\n", stem), string(data))
		}
	}

	context := strings.Join(parts, "\n")

	l.mu.Lock()
	l.cache[skillName] = context
	l.mu.Unlock()
	return context, nil
}
