// Package skills discovers skills on disk and loads their documentation as
// generation context.
package skills

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/microsoft/skillcheck/internal/criteria"
)

// ScenariosFileName is the per-skill scenario suite file.
const ScenariosFileName = "scenarios.yaml"

// DiscoveredSkill is a skill that can actually be evaluated: it has both an
// acceptance-criteria document and a scenario suite.
type DiscoveredSkill struct {
	Name          string // skill name, relative to the skills directory
	Dir           string // absolute path to the skill directory
	CriteriaPath  string // absolute path to the criteria document
	ScenariosPath string // path to the skill's scenarios.yaml
}

// Discover walks skillsDir for acceptance-criteria documents and pairs each
// with its scenarios.yaml under scenariosDir. Skills missing either file are
// not listed. Hidden directories, node_modules and vendor are skipped.
// Results are sorted by name.
func Discover(skillsDir, scenariosDir string) ([]DiscoveredSkill, error) {
	absSkills, err := filepath.Abs(skillsDir)
	if err != nil {
		return nil, fmt.Errorf("resolving skills path: %w", err)
	}
	if _, err := os.Stat(absSkills); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("skills path: %w", err)
	}

	var skills []DiscoveredSkill
	seen := map[string]bool{}

	err = filepath.WalkDir(absSkills, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if path == absSkills {
			return nil
		}
		if d.IsDir() && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules" || d.Name() == "vendor") {
			return fs.SkipDir
		}
		if d.IsDir() || d.Name() != criteria.CriteriaFileName {
			return nil
		}

		dir := filepath.Dir(path)
		if filepath.Base(dir) == "references" {
			dir = filepath.Dir(dir)
		}
		rel, err := filepath.Rel(absSkills, dir)
		if err != nil || rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)
		if seen[name] {
			return nil
		}

		scenariosPath := filepath.Join(scenariosDir, rel, ScenariosFileName)
		if !fileExists(scenariosPath) {
			return nil
		}

		seen[name] = true
		skills = append(skills, DiscoveredSkill{
			Name:          name,
			Dir:           dir,
			CriteriaPath:  path,
			ScenariosPath: scenariosPath,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking skills directory %s: %w", absSkills, err)
	}

	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills, nil
}

// Names returns just the skill names, in discovery order.
func Names(skills []DiscoveredSkill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}

// fileExists checks if a path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
