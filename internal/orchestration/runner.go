// Package orchestration runs a skill's scenarios end to end: generate code
// for each prompt, evaluate it against the skill's acceptance criteria, and
// aggregate the results into a summary.
package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/microsoft/skillcheck/internal/cache"
	"github.com/microsoft/skillcheck/internal/criteria"
	"github.com/microsoft/skillcheck/internal/evaluate"
	"github.com/microsoft/skillcheck/internal/generation"
	"github.com/microsoft/skillcheck/internal/models"
	"github.com/microsoft/skillcheck/internal/skills"
	"github.com/microsoft/skillcheck/internal/validation"
)

// Runner evaluates one skill at a time: it loads the skill's scenarios and
// criteria, generates code for each scenario in scope, and scores it.
type Runner struct {
	skillsDir    string
	scenariosDir string
	loader       *criteria.Loader

	client          generation.Client
	contextProvider generation.ContextProvider
	cache           *cache.Cache
	degradation     *generation.Degradation

	filter        string
	modelOverride string
	workers       int
	verbose       bool

	// Progress tracking
	progressMu sync.Mutex
	listeners  []ProgressListener
}

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

// EventType constants
const (
	EventRunStart         EventType = "run_start"
	EventRunComplete      EventType = "run_complete"
	EventScenarioStart    EventType = "scenario_start"
	EventScenarioComplete EventType = "scenario_complete"
	EventScenarioCached   EventType = "scenario_cached"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType   EventType
	Skill       string
	Scenario    string
	ScenarioNum int
	Total       int
	Passed      bool
	Score       float64
	DurationMs  float64
	Err         string
}

// ScenarioNotFoundError indicates a skill has no scenarios file.
type ScenarioNotFoundError struct {
	Skill string
	Path  string
}

func (e *ScenarioNotFoundError) Error() string {
	return fmt.Sprintf("no scenarios found for skill %q (expected %s)", e.Skill, e.Path)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithFilter narrows a run to scenarios whose name equals the filter or
// whose tags contain it, case-insensitively.
func WithFilter(filter string) RunnerOption {
	return func(r *Runner) {
		r.filter = filter
	}
}

// WithGenerationClient sets the backend that generates code for prompts.
// The default is the mock client.
func WithGenerationClient(client generation.Client) RunnerOption {
	return func(r *Runner) {
		r.client = client
	}
}

// WithWorkers sets how many scenarios may generate concurrently.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithCache enables generation result caching. Mock runs are never cached.
func WithCache(c *cache.Cache) RunnerOption {
	return func(r *Runner) {
		r.cache = c
	}
}

// WithContextProvider supplies skill documentation for cache keys, so doc
// edits invalidate cached generations.
func WithContextProvider(p generation.ContextProvider) RunnerOption {
	return func(r *Runner) {
		r.contextProvider = p
	}
}

// WithProgressListener registers a listener for run progress events.
// Listeners may be called concurrently when workers > 1.
func WithProgressListener(listener ProgressListener) RunnerOption {
	return func(r *Runner) {
		r.listeners = append(r.listeners, listener)
	}
}

// WithVerbose delegates per-scenario error output to progress listeners.
func WithVerbose(verbose bool) RunnerOption {
	return func(r *Runner) {
		r.verbose = verbose
	}
}

// WithModelOverride forces a model regardless of what scenarios.yaml asks for.
func WithModelOverride(model string) RunnerOption {
	return func(r *Runner) {
		r.modelOverride = model
	}
}

// WithDegradation records that the real backend was unavailable and the run
// fell back to mock mode, so reports flag it.
func WithDegradation(d *generation.Degradation) RunnerOption {
	return func(r *Runner) {
		r.degradation = d
	}
}

// NewRunner creates a runner rooted at the given skills and scenarios
// directories.
func NewRunner(skillsDir, scenariosDir string, opts ...RunnerOption) *Runner {
	r := &Runner{
		skillsDir:    skillsDir,
		scenariosDir: scenariosDir,
		loader:       criteria.NewLoader(skillsDir),
		workers:      1,
		listeners:    []ProgressListener{},
	}
	for _, o := range opts {
		o(r)
	}
	if r.client == nil {
		r.client = generation.NewMockClient()
	}
	return r
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Run evaluates every in-scope scenario for a skill and aggregates the
// results. A single scenario's generation failure is recorded as a failing
// result and never aborts the batch; missing files are structural errors and
// propagate.
func (r *Runner) Run(ctx context.Context, skillName string) (*models.SkillSummary, error) {
	startTime := time.Now()

	suite, err := r.loadSuite(skillName)
	if err != nil {
		return nil, err
	}

	patterns, skipped, err := r.loader.Load(skillName)
	if err != nil {
		return nil, err
	}
	for _, msg := range skipped {
		slog.Warn("skipping malformed criteria entry", "skill", skillName, "detail", msg)
	}

	scenarios := FilterScenarios(suite.Scenarios, r.filter)
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios match filter %q for skill %s", r.filter, skillName)
	}

	config := suite.Config
	if r.modelOverride != "" {
		config.Model = r.modelOverride
	}

	evaluator := evaluate.New(evaluate.WithLanguage(config.Language))

	r.notifyProgress(ProgressEvent{
		EventType: EventRunStart,
		Skill:     skillName,
		Total:     len(scenarios),
	})

	var results []models.EvaluationResult
	var cacheHits int
	if r.workers > 1 {
		results, cacheHits = r.runConcurrent(ctx, skillName, scenarios, patterns, config, evaluator)
	} else {
		results, cacheHits = r.runSequential(ctx, skillName, scenarios, patterns, config, evaluator)
	}

	meta := models.RunMetadata{
		Mode:      r.client.Mode(),
		Model:     config.Model,
		CacheHits: cacheHits,
	}
	if r.degradation != nil {
		meta.Degraded = true
		meta.DegradedReason = r.degradation.Reason
	}

	durationMs := float64(time.Since(startTime).Microseconds()) / 1000.0
	summary := models.NewSkillSummary(skillName, results, durationMs, meta)

	r.notifyProgress(ProgressEvent{
		EventType:  EventRunComplete,
		Skill:      skillName,
		Total:      len(scenarios),
		Passed:     summary.AllPassed(),
		Score:      summary.AvgScore,
		DurationMs: summary.DurationMs,
	})

	return summary, nil
}

// ListSkills returns the sorted names of skills that have both a criteria
// document and a scenarios file.
func (r *Runner) ListSkills() ([]string, error) {
	discovered, err := skills.Discover(r.skillsDir, r.scenariosDir)
	if err != nil {
		return nil, err
	}
	return skills.Names(discovered), nil
}

func (r *Runner) loadSuite(skillName string) (*models.ScenarioSuite, error) {
	path := filepath.Join(r.scenariosDir, filepath.FromSlash(skillName), skills.ScenariosFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ScenarioNotFoundError{Skill: skillName, Path: path}
		}
		return nil, fmt.Errorf("loading scenarios for %s: %w", skillName, err)
	}

	// Schema-check before decoding so typos fail the run instead of being
	// silently dropped by the YAML decoder.
	if violations := validation.ValidateScenarioBytes(data); len(violations) > 0 {
		return nil, fmt.Errorf("invalid scenarios file %s:\n  %s", path, strings.Join(violations, "\n  "))
	}

	suite, err := models.ParseScenarioSuite(data, skillName)
	if err != nil {
		return nil, fmt.Errorf("loading scenarios for %s: %w", skillName, err)
	}
	return suite, nil
}

func (r *Runner) runSequential(ctx context.Context, skillName string, scenarios []models.Scenario, patterns []models.CriterionPattern, config models.GenerationConfig, evaluator *evaluate.Evaluator) ([]models.EvaluationResult, int) {
	results := make([]models.EvaluationResult, 0, len(scenarios))
	cacheHits := 0

	for i, scenario := range scenarios {
		// Cancellation stops scheduling; completed results are kept.
		if ctx.Err() != nil {
			break
		}

		r.notifyProgress(ProgressEvent{
			EventType:   EventScenarioStart,
			Skill:       skillName,
			Scenario:    scenario.Name,
			ScenarioNum: i + 1,
			Total:       len(scenarios),
		})

		start := time.Now()
		result, fromCache := r.runScenario(ctx, skillName, scenario, patterns, config, evaluator)
		if fromCache {
			cacheHits++
		}
		results = append(results, result)

		r.notifyProgress(scenarioDoneEvent(skillName, scenario.Name, i+1, len(scenarios), result, fromCache, start))
	}

	return results, cacheHits
}

func (r *Runner) runConcurrent(ctx context.Context, skillName string, scenarios []models.Scenario, patterns []models.CriterionPattern, config models.GenerationConfig, evaluator *evaluate.Evaluator) ([]models.EvaluationResult, int) {
	// Results are written into position-indexed slices so report order always
	// matches scenario file order regardless of completion order.
	results := make([]models.EvaluationResult, len(scenarios))
	fromCache := make([]bool, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, scenario := range scenarios {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			r.notifyProgress(ProgressEvent{
				EventType:   EventScenarioStart,
				Skill:       skillName,
				Scenario:    scenario.Name,
				ScenarioNum: i + 1,
				Total:       len(scenarios),
			})

			start := time.Now()
			result, cached := r.runScenario(gctx, skillName, scenario, patterns, config, evaluator)
			results[i] = result
			fromCache[i] = cached

			r.notifyProgress(scenarioDoneEvent(skillName, scenario.Name, i+1, len(scenarios), result, cached, start))
			return nil
		})
	}

	// Workers record failures as results and never return errors.
	_ = g.Wait()

	cacheHits := 0
	for _, hit := range fromCache {
		if hit {
			cacheHits++
		}
	}
	return results, cacheHits
}

// runScenario produces the scored result for one scenario. The bool return
// reports whether the generated code came from the cache.
func (r *Runner) runScenario(ctx context.Context, skillName string, scenario models.Scenario, patterns []models.CriterionPattern, config models.GenerationConfig, evaluator *evaluate.Evaluator) (models.EvaluationResult, bool) {
	genResult, fromCache, err := r.generate(ctx, skillName, scenario, config)
	if err != nil {
		// Surface errors even in non-verbose mode because they're critical
		// for understanding failures; verbose runs see them via listeners.
		if !r.verbose {
			fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		}
		return generationFailure(scenario, err), false
	}

	result := evaluator.Evaluate(genResult.Code, patterns, scenario)

	slog.Debug("scenario evaluated",
		"skill", skillName,
		"scenario", scenario.Name,
		"score", result.Score,
		"passed", result.Passed,
		"cached", fromCache)

	return result, fromCache
}

// generate fetches code for a scenario, consulting the cache when one is
// configured. Mock generations are deterministic and never cached.
func (r *Runner) generate(ctx context.Context, skillName string, scenario models.Scenario, config models.GenerationConfig) (*generation.GenerationResult, bool, error) {
	var cacheKey string
	if r.cache != nil && r.client.Mode() != models.ModeMock {
		key, err := cache.Key(skillName, scenario, config, r.skillContext(skillName))
		if err == nil {
			cacheKey = key
			if cached, found := r.cache.Get(key); found {
				return cached, true, nil
			}
		}
	}

	genResult, err := r.client.Generate(ctx, &generation.Request{
		SkillName: skillName,
		Prompt:    scenario.Prompt,
		Scenario:  scenario,
		Config:    config,
	})
	if err != nil {
		return nil, false, err
	}

	if cacheKey != "" {
		if err := r.cache.Put(cacheKey, genResult); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to write cache for scenario %q: %v\n", scenario.Name, err)
		}
	}

	return genResult, false, nil
}

// skillContext loads the skill documentation that participates in cache
// keys. A load failure degrades to an empty context; the generation call
// will surface the real error.
func (r *Runner) skillContext(skillName string) string {
	if r.contextProvider == nil {
		return ""
	}
	content, err := r.contextProvider.Load(skillName)
	if err != nil {
		return ""
	}
	return content
}

// generationFailure encodes a generation error as a failing result so one
// scenario's failure never aborts the batch.
func generationFailure(scenario models.Scenario, err error) models.EvaluationResult {
	result := models.EvaluationResult{
		ScenarioName: scenario.Name,
		Score:        0,
		Findings: []models.Finding{{
			Severity: models.SeverityError,
			Rule:     models.RuleGeneration,
			Message:  err.Error(),
		}},
	}
	result.CountFindings()
	return result
}

func scenarioDoneEvent(skillName, scenarioName string, num, total int, result models.EvaluationResult, fromCache bool, start time.Time) ProgressEvent {
	eventType := EventScenarioComplete
	if fromCache {
		eventType = EventScenarioCached
	}
	event := ProgressEvent{
		EventType:   eventType,
		Skill:       skillName,
		Scenario:    scenarioName,
		ScenarioNum: num,
		Total:       total,
		Passed:      result.Passed,
		Score:       result.Score,
		DurationMs:  float64(time.Since(start).Microseconds()) / 1000.0,
	}
	for _, f := range result.Findings {
		if f.Rule == models.RuleGeneration {
			event.Err = f.Message
			break
		}
	}
	return event
}
