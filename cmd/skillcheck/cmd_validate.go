package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/microsoft/skillcheck/internal/models"
	"github.com/microsoft/skillcheck/internal/projectconfig"
	"github.com/microsoft/skillcheck/internal/reporting"
	"github.com/microsoft/skillcheck/internal/skills"
	"github.com/microsoft/skillcheck/internal/validation"
)

func newValidateCommand() *cobra.Command {
	var scenariosDir string

	cmd := &cobra.Command{
		Use:   "validate <skill>",
		Short: "Validate a skill's scenario suite against the schema",
		Long: `Check <scenarios-dir>/<skill>/scenarios.yaml against the scenario schema
and decode it, reporting every violation found.

This is the same check the evaluator runs before a skill is evaluated, exposed
standalone so suites can be linted in CI without running any generation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateCommandE(cmd, args[0], scenariosDir)
		},
	}

	cmd.Flags().StringVar(&scenariosDir, "scenarios-dir", "", "Directory containing scenario suites (default: from .skillcheck.yaml)")

	return cmd
}

func validateCommandE(cmd *cobra.Command, skillName, scenariosDir string) error {
	if scenariosDir == "" {
		cfg, err := projectconfig.Load(".")
		if err != nil {
			return err
		}
		scenariosDir = cfg.Paths.Scenarios
	}

	path := filepath.Join(scenariosDir, filepath.FromSlash(skillName), skills.ScenariosFileName)

	violations, err := validation.ValidateScenariosFile(path)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d violation(s)\n", path, len(violations)) //nolint:errcheck
		for _, v := range violations {
			fmt.Fprintf(out, "  - %s\n", v) //nolint:errcheck
		}
		return fmt.Errorf("scenario validation failed for %s", skillName)
	}

	// Schema-valid files can still fail decode-level checks (duplicate
	// names, empty suite), so decode too before declaring success.
	suite, err := models.LoadScenarioSuite(path, skillName)
	if err != nil {
		return err
	}

	console := reporting.NewConsole(cmd.OutOrStdout(), reporting.DetectColorMode(), false)
	console.Success(fmt.Sprintf("%s: %d scenario(s) valid", path, len(suite.Scenarios)))
	return nil
}
