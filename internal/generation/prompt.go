package generation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/microsoft/skillcheck/internal/models"
)

const promptTemplate = `You are an expert %s developer. Use the following skill documentation as reference for correct SDK usage patterns.

<skill-context>
%s
</skill-context>

<task>
%s
</task>

Generate only %s code. Follow the patterns from the skill documentation exactly.
`

// buildPrompt wraps the task and skill documentation for the generation
// backend. Language names the kind of code the backend is told to produce.
func buildPrompt(task, skillContext, language string) string {
	if language == "" {
		language = models.DefaultLanguage
	}
	return fmt.Sprintf(promptTemplate, language, skillContext, task, language)
}

var fencedBlockRE = regexp.MustCompile("(?s)```[a-zA-Z0-9_+-]*\n(.*?)```")

// extractCode pulls code out of a model response. Fenced blocks win and are
// joined by blank lines; without fences a line heuristic keeps
// import/def/class and indented lines; when that finds nothing the raw
// response is returned unchanged.
func extractCode(response string) string {
	matches := fencedBlockRE.FindAllStringSubmatch(response, -1)
	if len(matches) > 0 {
		blocks := make([]string, 0, len(matches))
		for _, m := range matches {
			blocks = append(blocks, strings.TrimSpace(m[1]))
		}
		return strings.Join(blocks, "\n\n")
	}

	var codeLines []string
	inCode := false
	for _, line := range strings.Split(response, "\n") {
		switch {
		case strings.HasPrefix(line, "import ") ||
			strings.HasPrefix(line, "from ") ||
			strings.HasPrefix(line, "def ") ||
			strings.HasPrefix(line, "class ") ||
			strings.HasPrefix(line, "    ") ||
			strings.HasPrefix(line, "\t"):
			inCode = true
			codeLines = append(codeLines, line)

		case inCode && strings.TrimSpace(line) == "":
			codeLines = append(codeLines, line)

		case inCode && !strings.HasPrefix(line, "#") && strings.TrimSpace(line) != "":
			// Prose usually starts with a letter; anything else is
			// likely still code (closing brackets, decorators).
			if r := firstRune(line); r != 0 && !unicode.IsLetter(r) {
				codeLines = append(codeLines, line)
			}
		}
	}

	if code := strings.TrimSpace(strings.Join(codeLines, "\n")); code != "" {
		return code
	}
	return response
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

// estimateTokens approximates token usage when the backend reports none.
func estimateTokens(prompt, response string) int {
	return (len(prompt) + len(response)) / 4
}
