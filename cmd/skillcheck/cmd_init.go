package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/microsoft/skillcheck/internal/criteria"
	"github.com/microsoft/skillcheck/internal/projectconfig"
	"github.com/microsoft/skillcheck/internal/scaffold"
	"github.com/microsoft/skillcheck/internal/skills"
	"github.com/microsoft/skillcheck/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "init <skill>",
		Short: "Scaffold evaluation fixtures for a new skill",
		Long: `Create the starter files for evaluating a new skill:

  <scenarios-dir>/<skill>/scenarios.yaml
  <skills-dir>/<skill>/references/acceptance-criteria.md

The scenario suite ships with two runnable starter scenarios (basic_usage and
authentication) including mock responses, so "skillcheck <skill> --mock"
passes before any real content is written.

When running in a terminal (TTY), an interactive form collects the skill's
description, language, and tags. In non-interactive environments (CI, pipes)
or with --yes, defaults are used. Existing files are never overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args[0], yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the interactive form and use defaults")

	return cmd
}

func initCommandE(cmd *cobra.Command, skillName string, yes bool) error {
	if err := scaffold.ValidateName(skillName); err != nil {
		return err
	}

	cfg, err := projectconfig.Load(".")
	if err != nil {
		return err
	}

	// Check TTY from the command's input stream, not os.Stdin directly.
	inReader := cmd.InOrStdin()
	isTTY := false
	if f, ok := inReader.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}

	spec := wizard.DefaultSpec()
	if isTTY && !yes {
		spec, err = wizard.Run(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
	} else {
		spec.Language = cfg.Defaults.Language
	}

	scenarioDir := filepath.Join(cfg.Paths.Scenarios, skillName)
	referencesDir := filepath.Join(cfg.Paths.Skills, skillName, "references")

	for _, d := range []string{scenarioDir, referencesDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}

	files := []fileEntry{
		{filepath.Join(scenarioDir, skills.ScenariosFileName), scaffold.ScenariosYAML(skillName, spec.Language, spec.Tags)},
		{filepath.Join(referencesDir, criteria.CriteriaFileName), scaffold.CriteriaMD(skillName, spec.Description, spec.Language)},
	}

	if err := writeFiles(cmd, files); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nNext: run \"skillcheck %s --mock\" to evaluate the starter suite.\n", skillName) //nolint:errcheck
	return nil
}

// fileEntry pairs a path with its content for batch writing.
type fileEntry struct {
	path    string
	content string
}

// writeFiles writes each file, skipping any that already exist.
func writeFiles(cmd *cobra.Command, files []fileEntry) error {
	fmt.Fprintln(cmd.OutOrStdout(), "Scaffolding skill:") //nolint:errcheck

	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "  skip %s (already exists)\n", f.path) //nolint:errcheck
			continue
		}

		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  create %s\n", f.path) //nolint:errcheck
	}

	return nil
}
