// Package generation produces code completions for scenario prompts, either
// through the GitHub Copilot SDK or a deterministic mock backend.
package generation

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/microsoft/skillcheck/internal/models"
)

// Client generates code for scenario prompts.
type Client interface {
	// Generate produces code for one scenario. Failures come back as a
	// *GenerationError so the runner can fail the scenario without
	// aborting the batch.
	Generate(ctx context.Context, req *Request) (*GenerationResult, error)

	// Mode reports which backend this client is.
	Mode() models.RunMode

	// Close releases backend resources. Safe to call once after all
	// Generate calls have returned.
	Close() error
}

// Request carries everything a backend needs for one generation call.
type Request struct {
	SkillName string
	Prompt    string
	Scenario  models.Scenario
	Config    models.GenerationConfig
}

// GenerationResult is the outcome of one generation call. It is stored in
// the cache as JSON, so field names are part of the cache format.
type GenerationResult struct {
	Code        string  `json:"code"`
	Prompt      string  `json:"prompt"`
	SkillName   string  `json:"skill_name"`
	Model       string  `json:"model"`
	TokensUsed  int     `json:"tokens_used"`
	DurationMs  float64 `json:"duration_ms"`
	RawResponse string  `json:"raw_response,omitempty"`
	FromCache   bool    `json:"from_cache,omitempty"`
}

// GenerationError wraps a failure to produce code for one scenario.
type GenerationError struct {
	Scenario string
	Mode     models.RunMode
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating code for scenario %q (%s): %v", e.Scenario, e.Mode, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ContextProvider supplies a skill's documentation text for prompt assembly.
type ContextProvider interface {
	Load(skillName string) (string, error)
}

// Options configures NewClient.
type Options struct {
	// Mock forces the mock backend.
	Mock bool

	// Model is the default model for the real backend.
	Model string

	// Timeout bounds each real generation call.
	Timeout time.Duration

	// Context supplies skill documentation when scenarios ask for it.
	Context ContextProvider
}

// Degradation describes a fallback from the real backend to mock mode, so
// callers can warn and reports can flag the run.
type Degradation struct {
	Reason string
}

// copilotProbeTimeout bounds the copilot CLI availability check.
const copilotProbeTimeout = 5 * time.Second

// copilotAvailable is swapped out by tests.
var copilotAvailable = checkCopilotAvailable

// NewClient selects a backend. Mock mode returns a MockClient directly.
// Otherwise the copilot CLI is probed; when it is unavailable the client
// degrades to mock and the returned Degradation carries the reason.
func NewClient(ctx context.Context, opts Options) (Client, *Degradation) {
	if opts.Mock {
		return NewMockClient(), nil
	}
	if err := copilotAvailable(ctx); err != nil {
		return NewMockClient(), &Degradation{Reason: err.Error()}
	}
	client := NewCopilotClientBuilder(opts.Model, nil).
		WithTimeout(opts.Timeout).
		WithContextProvider(opts.Context).
		Build()
	return client, nil
}

// checkCopilotAvailable reports whether the copilot CLI answers --version
// within copilotProbeTimeout.
func checkCopilotAvailable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, copilotProbeTimeout)
	defer cancel()

	if err := exec.CommandContext(ctx, "copilot", "--version").Run(); err != nil {
		return fmt.Errorf("copilot CLI unavailable: %w", err)
	}
	return nil
}
