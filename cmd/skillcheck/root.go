package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/microsoft/skillcheck/internal/projectconfig"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	opts := &evalOptions{}

	cmd := &cobra.Command{
		Use:   "skillcheck [skill]",
		Short: "Skillcheck - evaluate AI skills against acceptance criteria",
		Long: `Skillcheck evaluates AI skills: for every scenario of a skill it generates
a code completion (or replays the scenario's mock response) and scores the
output against the skill's acceptance criteria.

Skill documents live under the skills directory; each skill's scenarios live
in <scenarios-dir>/<skill>/scenarios.yaml. Defaults for paths and execution
come from an optional .skillcheck.yaml found by walking up from the working
directory; flags always win.`,
		Example: `  skillcheck --list
  skillcheck azure-storage-blob --mock
  skillcheck azure-storage-blob --filter auth --output json
  skillcheck init my-new-skill`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return evaluateE(cmd, args, opts)
		},
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.Flags().BoolVar(&opts.list, "list", false, "List skills that have both acceptance criteria and scenarios")
	cmd.Flags().BoolVar(&opts.mock, "mock", false, "Use mock responses instead of the Copilot backend")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output with per-scenario progress")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Run only scenarios matching this name or tag")
	cmd.Flags().StringVar(&opts.output, "output", formatText, "Output format: text, json, markdown")
	cmd.Flags().StringVar(&opts.outputFile, "output-file", "", "Write results to a file instead of stdout")
	cmd.Flags().StringVar(&opts.skillsDir, "skills-dir", projectconfig.DefaultSkillsDir, "Directory containing skill documents")
	cmd.Flags().StringVar(&opts.scenariosDir, "scenarios-dir", projectconfig.DefaultScenariosDir, "Directory containing scenario suites")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model override for generation (default: per-suite config)")
	cmd.Flags().IntVar(&opts.timeout, "timeout", projectconfig.DefaultTimeoutSeconds, "Per-scenario generation timeout in seconds")
	cmd.Flags().IntVar(&opts.workers, "workers", projectconfig.DefaultWorkers, "Number of scenarios to evaluate concurrently")
	cmd.Flags().BoolVar(&opts.useCache, "cache", false, "Cache real generation results between runs")
	cmd.Flags().StringVar(&opts.junitFile, "junit-file", "", "Write a JUnit XML report to this path")
	cmd.Flags().StringVar(&opts.publishURL, "publish", "", "Publish the Markdown report to this Azure Blob container URL")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	// Add subcommands
	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newReportCommand())
	cmd.AddCommand(newCacheCommand())
	cmd.AddCommand(newMetadataCommand(cmd))

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
