// Package criteria parses acceptance-criteria Markdown documents into the
// pattern rules the evaluator matches generated code against.
package criteria

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/microsoft/skillcheck/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CriteriaFileName is the acceptance criteria document each skill provides.
const CriteriaFileName = "acceptance-criteria.md"

// sectionFallback labels patterns that appear before any heading.
const sectionFallback = "(document)"

// NotFoundError reports a skill with no acceptance criteria document.
type NotFoundError struct {
	Skill string
	Dir   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found for skill %q under %s", CriteriaFileName, e.Skill, e.Dir)
}

// Loader reads acceptance-criteria documents from a skills directory laid out
// as <dir>/<skill>/references/acceptance-criteria.md, with the skill root as
// a fallback location.
type Loader struct {
	skillsDir string
}

// NewLoader returns a Loader rooted at skillsDir.
func NewLoader(skillsDir string) *Loader {
	return &Loader{skillsDir: skillsDir}
}

// Load parses the skill's criteria document. The result is a pure function of
// the file content: loading the same file twice yields identical patterns.
// Returns *NotFoundError when the skill has no criteria document.
func (l *Loader) Load(skillName string) ([]models.CriterionPattern, []string, error) {
	path, err := l.criteriaPath(skillName)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	patterns, skipped := Parse(data)
	return patterns, skipped, nil
}

// criteriaPath resolves the criteria document for a skill, preferring the
// references/ location over the skill root.
func (l *Loader) criteriaPath(skillName string) (string, error) {
	candidates := []string{
		filepath.Join(l.skillsDir, skillName, "references", CriteriaFileName),
		filepath.Join(l.skillsDir, skillName, CriteriaFileName),
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", &NotFoundError{Skill: skillName, Dir: l.skillsDir}
}

// ListSkills returns the sorted names of skills that have a criteria document.
func (l *Loader) ListSkills() ([]string, error) {
	entries, err := os.ReadDir(l.skillsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading skills directory %s: %w", l.skillsDir, err)
	}

	var skills []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if _, err := l.criteriaPath(entry.Name()); err == nil {
			skills = append(skills, entry.Name())
		}
	}
	sort.Strings(skills)
	return skills, nil
}

// Incorrect markers are checked first: the word CORRECT is a substring of
// INCORRECT, so the order is load-bearing.
var (
	incorrectMarkers = []string{"✗", "✘", "❌", "INCORRECT"}
	correctMarkers   = []string{"✓", "✔", "✅", "CORRECT"}
)

// Parse scans a criteria document top-down. Headings delimit sections; a
// fenced code block becomes one CriterionPattern when the nearest preceding
// paragraph in the same section is a correct/incorrect marker line. All other
// Markdown content is ignored. Malformed constructs (a marker with no
// following block, an empty fenced block) are skipped and described in the
// second return value so callers can log them; they never abort the parse.
func Parse(source []byte) ([]models.CriterionPattern, []string) {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	var (
		patterns []models.CriterionPattern
		skipped  []string

		section = sectionFallback
		pending models.CriterionKind
		hasMark bool
	)

	dropPending := func(reason string) {
		if hasMark {
			skipped = append(skipped, fmt.Sprintf("%s marker in section %q %s", pending, section, reason))
			hasMark = false
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			dropPending("has no code block before the next heading")
			if title := strings.TrimSpace(nodeText(v, source)); title != "" {
				section = title
			}
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph:
			kind, ok := classifyMarker(nodeText(v, source))
			if ok {
				dropPending("is followed by another marker")
				pending, hasMark = kind, true
			} else {
				dropPending("is followed by prose instead of a code block")
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			if !hasMark {
				return ast.WalkContinue, nil
			}
			hasMark = false
			code := strings.TrimSpace(blockText(v, source))
			if code == "" {
				skipped = append(skipped, fmt.Sprintf("empty %s code block in section %q", pending, section))
				return ast.WalkContinue, nil
			}
			patterns = append(patterns, models.CriterionPattern{
				Text:    code,
				Kind:    pending,
				Section: section,
			})
		}
		return ast.WalkContinue, nil
	})

	if hasMark {
		skipped = append(skipped, fmt.Sprintf("%s marker in section %q has no code block before end of document", pending, section))
	}
	return patterns, skipped
}

// classifyMarker decides whether a paragraph is a correct/incorrect marker
// line. Matching is case-sensitive: the uppercase words are author
// conventions, and lowercase prose must not classify blocks.
func classifyMarker(s string) (models.CriterionKind, bool) {
	for _, m := range incorrectMarkers {
		if strings.Contains(s, m) {
			return models.KindIncorrect, true
		}
	}
	for _, m := range correctMarkers {
		if strings.Contains(s, m) {
			return models.KindCorrect, true
		}
	}
	return "", false
}

// nodeText concatenates the literal text of an inline container node.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	var walk func(ast.Node)
	walk = func(node ast.Node) {
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				sb.Write(t.Segment.Value(source))
			case *ast.String:
				sb.Write(t.Value)
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return sb.String()
}

// blockText returns the raw content of a fenced code block.
func blockText(n *ast.FencedCodeBlock, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(source))
	}
	return sb.String()
}
