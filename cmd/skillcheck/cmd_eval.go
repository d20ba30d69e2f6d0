package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/microsoft/skillcheck/internal/cache"
	"github.com/microsoft/skillcheck/internal/criteria"
	"github.com/microsoft/skillcheck/internal/generation"
	"github.com/microsoft/skillcheck/internal/models"
	"github.com/microsoft/skillcheck/internal/orchestration"
	"github.com/microsoft/skillcheck/internal/projectconfig"
	"github.com/microsoft/skillcheck/internal/reporting"
	"github.com/microsoft/skillcheck/internal/skills"
	"github.com/microsoft/skillcheck/internal/spinner"
)

// Output formats for the root command.
const (
	formatText     = "text"
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

// evalOptions holds the root command's flag values.
type evalOptions struct {
	list         bool
	mock         bool
	verbose      bool
	filter       string
	output       string
	outputFile   string
	skillsDir    string
	scenariosDir string
	model        string
	timeout      int
	workers      int
	useCache     bool
	junitFile    string
	publishURL   string
	noColor      bool
}

func evaluateE(cmd *cobra.Command, args []string, opts *evalOptions) error {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return err
	}
	applyProjectConfig(cmd.Flags(), opts, cfg)

	switch opts.output {
	case formatText, formatJSON, formatMarkdown:
	default:
		return fmt.Errorf("unknown output format: %s (supported: text, json, markdown)", opts.output)
	}

	if opts.list {
		return listSkillsE(cmd, opts)
	}

	if len(args) == 0 {
		cmd.Usage() //nolint:errcheck
		return fmt.Errorf("missing skill name (use --list to see available skills)")
	}

	return runSkillE(cmd, opts, cfg, args[0])
}

// applyProjectConfig fills in options the user did not set explicitly from
// .skillcheck.yaml. Flags always win over file config.
func applyProjectConfig(flags *pflag.FlagSet, opts *evalOptions, cfg *projectconfig.ProjectConfig) {
	if !flags.Changed("skills-dir") {
		opts.skillsDir = cfg.Paths.Skills
	}
	if !flags.Changed("scenarios-dir") {
		opts.scenariosDir = cfg.Paths.Scenarios
	}
	if !flags.Changed("timeout") {
		opts.timeout = cfg.Defaults.Timeout
	}
	if !flags.Changed("workers") {
		opts.workers = cfg.Defaults.Workers
	}
	if !flags.Changed("mock") && cfg.Defaults.Mock != nil {
		opts.mock = *cfg.Defaults.Mock
	}
	if !flags.Changed("verbose") && cfg.Defaults.Verbose != nil {
		opts.verbose = *cfg.Defaults.Verbose
	}
	if !flags.Changed("cache") && cfg.Cache.Enabled != nil {
		opts.useCache = *cfg.Cache.Enabled
	}
	if !flags.Changed("publish") {
		opts.publishURL = cfg.Publish.ContainerURL
	}
}

func listSkillsE(cmd *cobra.Command, opts *evalOptions) error {
	out := cmd.OutOrStdout()

	runner := orchestration.NewRunner(opts.skillsDir, opts.scenariosDir)
	names, err := runner.ListSkills()
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Fprintln(out, "No skills with both acceptance criteria and test scenarios found.")
		withCriteria, err := criteria.NewLoader(opts.skillsDir).ListSkills()
		if err != nil || len(withCriteria) == 0 {
			return nil
		}
		fmt.Fprintln(out, "\nSkills with criteria only:")
		for _, name := range withCriteria {
			fmt.Fprintf(out, "  - %s\n", name)
		}
		return nil
	}

	fmt.Fprintf(out, "Available skills (%d):\n", len(names))
	for _, name := range names {
		fmt.Fprintf(out, "  - %s\n", name)
	}
	return nil
}

// runSkillE evaluates one skill and routes the summary to the requested
// output. Scenario failures surface as a TestFailureError so main can exit 1
// instead of 2.
func runSkillE(cmd *cobra.Command, opts *evalOptions, cfg *projectconfig.ProjectConfig, skillName string) error {
	// Ctrl-C cancels the run context; in-flight scenarios finish, the rest
	// are skipped and the partial summary is still reported.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// When a machine format goes to stdout, progress chatter moves to stderr
	// so the output stays parseable.
	human := opts.output == formatText && opts.outputFile == ""
	progress := cmd.OutOrStdout()
	if !human {
		progress = cmd.ErrOrStderr()
	}

	colorMode := reporting.DetectColorMode()
	if opts.noColor {
		colorMode = reporting.ColorNever
	}
	console := reporting.NewConsole(progress, colorMode, opts.verbose)

	contextLoader := skills.NewContextLoader(opts.skillsDir)

	client, degradation := generation.NewClient(ctx, generation.Options{
		Mock:    opts.mock,
		Model:   effectiveModel(cmd.Flags(), opts, cfg),
		Timeout: time.Duration(opts.timeout) * time.Second,
		Context: contextLoader,
	})
	defer client.Close() //nolint:errcheck

	if degradation != nil {
		console.Warning(fmt.Sprintf("Copilot backend unavailable, using mock responses: %s", degradation.Reason))
	}

	fmt.Fprintf(progress, "Evaluating skill: %s\n", skillName)
	fmt.Fprintf(progress, "Mode: %s\n", client.Mode())
	fmt.Fprintln(progress, strings.Repeat("-", 50))

	runnerOpts := []orchestration.RunnerOption{
		orchestration.WithGenerationClient(client),
		orchestration.WithContextProvider(contextLoader),
		orchestration.WithVerbose(opts.verbose),
	}
	if opts.filter != "" {
		runnerOpts = append(runnerOpts, orchestration.WithFilter(opts.filter))
	}
	if opts.workers > 1 {
		runnerOpts = append(runnerOpts, orchestration.WithWorkers(opts.workers))
	}
	if cmd.Flags().Changed("model") {
		runnerOpts = append(runnerOpts, orchestration.WithModelOverride(opts.model))
	}
	if degradation != nil {
		runnerOpts = append(runnerOpts, orchestration.WithDegradation(degradation))
	}

	if opts.useCache {
		absCacheDir, err := filepath.Abs(cfg.Cache.Dir)
		if err != nil {
			return fmt.Errorf("resolving cache directory: %w", err)
		}
		runnerOpts = append(runnerOpts, orchestration.WithCache(cache.New(absCacheDir)))
		if opts.verbose {
			fmt.Fprintf(progress, "Cache enabled: %s\n", absCacheDir)
		}
	}

	var spin *spinner.Spinner
	if opts.verbose {
		runnerOpts = append(runnerOpts, orchestration.WithProgressListener(progressPrinter(progress)))
	} else if f, ok := cmd.ErrOrStderr().(*os.File); ok && term.IsTerminal(int(f.Fd())) && client.Mode() != models.ModeMock {
		spin = spinner.Start(cmd.ErrOrStderr(), fmt.Sprintf("Evaluating %s...", skillName))
		runnerOpts = append(runnerOpts, orchestration.WithProgressListener(spinnerListener(spin)))
	}

	runner := orchestration.NewRunner(opts.skillsDir, opts.scenariosDir, runnerOpts...)

	summary, err := runner.Run(ctx, skillName)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	switch {
	case opts.outputFile != "":
		rendered, err := renderSummary(summary, opts.output, opts.verbose)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.outputFile, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.outputFile, err)
		}
		fmt.Fprintf(progress, "Results written to: %s\n", opts.outputFile)
	case human:
		console.PrintSummary(summary)
	default:
		rendered, err := renderSummary(summary, opts.output, opts.verbose)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
	}

	if opts.junitFile != "" {
		if err := reporting.WriteJUnitXML([]*models.SkillSummary{summary}, opts.junitFile); err != nil {
			return fmt.Errorf("failed to write JUnit report: %w", err)
		}
		fmt.Fprintf(progress, "JUnit report written to: %s\n", opts.junitFile)
	}

	// Publishing is best effort: a failed upload warns but never changes the
	// exit code.
	if opts.publishURL != "" {
		blobName := fmt.Sprintf("%s-%s.md", pathSafeName(skillName), time.Now().UTC().Format("20060102-150405"))
		reportURL, err := reporting.PublishReport(ctx, opts.publishURL, blobName, []byte(reporting.FormatMarkdown(summary)))
		if err != nil {
			console.Warning(fmt.Sprintf("Report publish failed: %v", err))
		} else {
			fmt.Fprintf(progress, "Report published to: %s\n", reportURL)
		}
	}

	if summary.Failed > 0 {
		return &TestFailureError{
			Message: fmt.Sprintf("evaluation completed with %d of %d scenarios failed", summary.Failed, summary.TotalScenarios),
		}
	}

	return nil
}

// effectiveModel picks the default model for the generation client. The
// per-suite config in scenarios.yaml stays authoritative unless --model is
// given; this value only covers requests without one.
func effectiveModel(flags *pflag.FlagSet, opts *evalOptions, cfg *projectconfig.ProjectConfig) string {
	if flags.Changed("model") {
		return opts.model
	}
	return cfg.Defaults.Model
}

func renderSummary(s *models.SkillSummary, format string, verbose bool) (string, error) {
	switch format {
	case formatText:
		return reporting.FormatText(s, verbose), nil
	case formatJSON:
		return reporting.FormatJSON(s)
	case formatMarkdown:
		return reporting.FormatMarkdown(s), nil
	default:
		return "", fmt.Errorf("unknown output format: %s (supported: text, json, markdown)", format)
	}
}

// progressPrinter returns a listener that prints one line per scenario event.
func progressPrinter(w io.Writer) orchestration.ProgressListener {
	return func(event orchestration.ProgressEvent) {
		switch event.EventType {
		case orchestration.EventRunStart:
			fmt.Fprintf(w, "Running %d scenario(s)...\n\n", event.Total)
		case orchestration.EventScenarioStart:
			fmt.Fprintf(w, "[%d/%d] Running scenario: %s\n", event.ScenarioNum, event.Total, event.Scenario)
		case orchestration.EventScenarioCached:
			fmt.Fprintf(w, "[%d/%d] Scenario %s: score %.0f [cached]\n", event.ScenarioNum, event.Total, event.Scenario, event.Score)
		case orchestration.EventScenarioComplete:
			status := "passed"
			if !event.Passed {
				status = "failed"
			}
			duration := time.Duration(event.DurationMs) * time.Millisecond
			fmt.Fprintf(w, "  Scenario %s: %s (score %.0f, %v)\n", event.Scenario, status, event.Score, duration)
			if event.Err != "" {
				fmt.Fprintf(w, "  [ERROR] %s\n", event.Err)
			}
		case orchestration.EventRunComplete:
			duration := time.Duration(event.DurationMs) * time.Millisecond
			fmt.Fprintf(w, "\nCompleted in %v\n\n", duration)
		}
	}
}

// spinnerListener keeps the spinner message in step with the current scenario.
func spinnerListener(spin *spinner.Spinner) orchestration.ProgressListener {
	return func(event orchestration.ProgressEvent) {
		if event.EventType == orchestration.EventScenarioStart {
			spin.Update(fmt.Sprintf("[%d/%d] %s", event.ScenarioNum, event.Total, event.Scenario))
		}
	}
}

// pathSafeName replaces characters that are invalid in file names.
func pathSafeName(name string) string {
	r := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-")
	return r.Replace(name)
}
