// Package scaffold provides the starter-file templates behind skillcheck init:
// a scenario suite and an acceptance-criteria document for a new skill.
package scaffold

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/microsoft/skillcheck/internal/models"
)

// skillNameRE matches kebab-case names: lowercase segments joined by single
// hyphens. Names become directory components, so nothing else is allowed.
var skillNameRE = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateName rejects empty or non-kebab-case skill names.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("skill name must not be empty")
	}
	if !skillNameRE.MatchString(name) {
		return fmt.Errorf("skill name %q must be kebab-case (lowercase letters, digits, and hyphens)", name)
	}
	return nil
}

// TitleCase converts a kebab-case name to Title Case.
func TitleCase(s string) string {
	words := strings.Split(s, "-")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// starterScenario is one entry in the generated scenarios.yaml.
type starterScenario struct {
	name   string
	prompt string
	tags   []string
	mock   string
}

// ScenariosYAML returns a starter scenarios.yaml for a new skill. The two
// scenarios cover the prompts most skills are evaluated on first: plain usage
// and authentication. Extra tags from the wizard are added to both scenarios.
// Mock responses are valid code in the chosen language, so a freshly
// scaffolded skill passes `skillcheck <name> --mock` before any editing.
func ScenariosYAML(name, language string, tags []string) string {
	if language == "" {
		language = models.DefaultLanguage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Evaluation scenarios for the %s skill.\n", name)
	b.WriteString("#\n")
	b.WriteString("# Each prompt is sent to the model (or answered by mock_response under\n")
	b.WriteString("# --mock); the generated code is scored against the acceptance criteria\n")
	b.WriteString("# plus the patterns listed per scenario.\n\n")

	b.WriteString("config:\n")
	fmt.Fprintf(&b, "  language: %s\n\n", language)

	b.WriteString("scenarios:\n")
	writeScenario(&b, starterScenario{
		name:   "basic_usage",
		prompt: fmt.Sprintf("Write a basic example using the %s SDK", name),
		tags:   append([]string{"basic"}, tags...),
		mock:   starterSnippet(language),
	})
	b.WriteString("\n")
	writeScenario(&b, starterScenario{
		name:   "authentication",
		prompt: fmt.Sprintf("Show how to authenticate with %s", name),
		tags:   append([]string{"auth"}, tags...),
		mock:   starterSnippet(language),
	})

	return b.String()
}

func writeScenario(b *strings.Builder, sc starterScenario) {
	fmt.Fprintf(b, "  - name: %s\n", sc.name)
	fmt.Fprintf(b, "    prompt: %q\n", sc.prompt)
	b.WriteString("    tags:\n")
	for _, t := range sc.tags {
		fmt.Fprintf(b, "      - %q\n", t)
	}
	b.WriteString("    # Substrings the generated code should contain (warning when missing).\n")
	b.WriteString("    expected_patterns: []\n")
	b.WriteString("    # Substrings that fail the scenario when present.\n")
	b.WriteString("    forbidden_patterns: []\n")
	b.WriteString("    mock_response: |\n")
	for _, line := range strings.Split(strings.TrimRight(sc.mock, "\n"), "\n") {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(b, "      %s\n", line)
	}
}

// starterSnippet returns a mock completion that parses in the given language.
func starterSnippet(language string) string {
	switch language {
	case "go", "golang":
		return "// Replace with the completion you expect for this prompt.\npackage main\n\nfunc main() {}\n"
	case "javascript", "js":
		return "// Replace with the completion you expect for this prompt.\nfunction example() {}\n"
	default:
		return "# Replace with the completion you expect for this prompt.\ndef example():\n    pass\n"
	}
}

// examplePair holds the fenced code examples for one criteria section.
type examplePair struct {
	fence     string
	correct   string
	incorrect string
}

// CriteriaMD returns a starter acceptance-criteria document. The Error
// Handling section demonstrates the marker convention the parser consumes:
// a CORRECT or INCORRECT paragraph directly followed by a fenced code block.
func CriteriaMD(name, description, language string) string {
	if description == "" {
		description = fmt.Sprintf("Describe what correct usage of %s looks like.", name)
	}
	ex := criteriaExamples(language)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", TitleCase(name))
	b.WriteString(description + "\n\n")
	b.WriteString("Headings group related rules and show up as the section name in findings.\n")
	b.WriteString("A fenced code block is only scored when the paragraph right before it is a\n")
	b.WriteString("marker line:\n\n")
	b.WriteString("- `✅ CORRECT:` examples add a bonus when the generated code matches.\n")
	b.WriteString("- `❌ INCORRECT:` examples fail the scenario when the generated code matches.\n\n")

	b.WriteString("## Error Handling\n\n")
	b.WriteString("✅ CORRECT:\n\n")
	fmt.Fprintf(&b, "```%s\n%s```\n\n", ex.fence, ex.correct)
	b.WriteString("❌ INCORRECT:\n\n")
	fmt.Fprintf(&b, "```%s\n%s```\n", ex.fence, ex.incorrect)
	return b.String()
}

func criteriaExamples(language string) examplePair {
	switch language {
	case "go", "golang":
		return examplePair{
			fence:     "go",
			correct:   "resp, err := client.Do(req)\nif err != nil {\n\treturn fmt.Errorf(\"sending request: %w\", err)\n}\n",
			incorrect: "resp, _ := client.Do(req)\n",
		}
	case "javascript", "js":
		return examplePair{
			fence:     "javascript",
			correct:   "try {\n  await client.send(request);\n} catch (err) {\n  console.error(\"request failed\", err);\n}\n",
			incorrect: "client.send(request); // rejection never handled\n",
		}
	default:
		return examplePair{
			fence:     "python",
			correct:   "try:\n    client.send(request)\nexcept ApiError as err:\n    logging.warning(\"request failed: %s\", err)\n",
			incorrect: "client.send(request)  # errors are silently dropped\n",
		}
	}
}
