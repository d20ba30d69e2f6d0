package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/microsoft/skillcheck/internal/generation"
	"github.com/microsoft/skillcheck/internal/models"
	"github.com/microsoft/skillcheck/internal/orchestration"
	"github.com/microsoft/skillcheck/internal/projectconfig"
	"github.com/microsoft/skillcheck/internal/reporting"
	"github.com/microsoft/skillcheck/internal/skills"
)

// combinedReportName is the multi-skill report file written alongside the
// per-skill reports.
const combinedReportName = "evaluation-report.md"

func newReportCommand() *cobra.Command {
	var (
		mock       bool
		reportsDir string
	)

	cmd := &cobra.Command{
		Use:   "report [skills...]",
		Short: "Write Markdown evaluation reports",
		Long: `Evaluate skills and write a Markdown report per skill into the reports
directory, plus a combined evaluation-report.md when more than one skill is
evaluated. With no arguments, every discovered skill is evaluated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportCommandE(cmd, args, mock, reportsDir)
		},
	}

	cmd.Flags().BoolVar(&mock, "mock", false, "Use mock responses instead of the Copilot backend")
	cmd.Flags().StringVar(&reportsDir, "reports-dir", "", "Directory to write reports into (default: from .skillcheck.yaml)")

	return cmd
}

func reportCommandE(cmd *cobra.Command, args []string, mock bool, reportsDir string) error {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return err
	}
	if reportsDir == "" {
		reportsDir = cfg.Paths.Reports
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	contextLoader := skills.NewContextLoader(cfg.Paths.Skills)

	client, degradation := generation.NewClient(ctx, generation.Options{
		Mock:    mock,
		Model:   cfg.Defaults.Model,
		Timeout: time.Duration(cfg.Defaults.Timeout) * time.Second,
		Context: contextLoader,
	})
	defer client.Close() //nolint:errcheck

	console := reporting.NewConsole(cmd.OutOrStdout(), reporting.DetectColorMode(), false)
	if degradation != nil {
		console.Warning(fmt.Sprintf("Copilot backend unavailable, using mock responses: %s", degradation.Reason))
	}

	runnerOpts := []orchestration.RunnerOption{
		orchestration.WithGenerationClient(client),
		orchestration.WithContextProvider(contextLoader),
	}
	if degradation != nil {
		runnerOpts = append(runnerOpts, orchestration.WithDegradation(degradation))
	}
	runner := orchestration.NewRunner(cfg.Paths.Skills, cfg.Paths.Scenarios, runnerOpts...)

	skillNames := args
	if len(skillNames) == 0 {
		skillNames, err = runner.ListSkills()
		if err != nil {
			return err
		}
		if len(skillNames) == 0 {
			return fmt.Errorf("no skills with both acceptance criteria and scenarios found under %s", cfg.Paths.Skills)
		}
	}

	if err := os.MkdirAll(reportsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create reports directory %s: %w", reportsDir, err)
	}

	out := cmd.OutOrStdout()
	var summaries []*models.SkillSummary
	failed := 0

	for _, name := range skillNames {
		summary, err := runner.Run(ctx, name)
		if err != nil {
			return err
		}
		summaries = append(summaries, summary)
		failed += summary.Failed

		path := filepath.Join(reportsDir, pathSafeName(name)+"-report.md")
		if err := os.WriteFile(path, []byte(reporting.FormatMarkdown(summary)), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(out, "Report written: %s\n", path) //nolint:errcheck
	}

	if len(summaries) > 1 {
		combined := filepath.Join(reportsDir, combinedReportName)
		if err := os.WriteFile(combined, []byte(reporting.FormatMultiSkillMarkdown(summaries)), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", combined, err)
		}
		fmt.Fprintf(out, "Combined report written: %s\n", combined) //nolint:errcheck
	}

	if failed > 0 {
		return &TestFailureError{
			Message: fmt.Sprintf("%d scenario(s) failed across %d skill(s)", failed, len(summaries)),
		}
	}
	return nil
}
