// Package wizard collects skill metadata interactively before scaffolding.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/microsoft/skillcheck/internal/models"
)

// Spec holds the answers collected by the init wizard.
type Spec struct {
	Description string
	Language    string
	Tags        []string
}

// DefaultSpec returns the answers used when the wizard is skipped, either by
// --yes or because input is not a terminal.
func DefaultSpec() *Spec {
	return &Spec{Language: models.DefaultLanguage}
}

// Run collects a Spec through a huh form.
func Run(in io.Reader, out io.Writer) (*Spec, error) {
	var (
		description string
		language    = models.DefaultLanguage
		tagsRaw     string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Description("One line on what this skill teaches the model").
				Placeholder("Generate API clients with retry support").
				Value(&description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Language").
				Description("Language the generated code is syntax-checked against").
				Options(
					huh.NewOption("python", "python"),
					huh.NewOption("go", "go"),
					huh.NewOption("javascript", "javascript"),
					huh.NewOption("none (skip syntax checking)", "none"),
				).
				Value(&language),
			huh.NewInput().
				Title("Tags").
				Description("Comma-separated tags, selectable later with --filter").
				Placeholder("api, retries").
				Value(&tagsRaw),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return &Spec{
		Description: strings.TrimSpace(description),
		Language:    language,
		Tags:        splitAndTrim(tagsRaw),
	}, nil
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
