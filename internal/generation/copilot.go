package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	copilot "github.com/github/copilot-sdk/go"
	"github.com/microsoft/skillcheck/internal/models"
)

// DefaultTimeout bounds a generation call when the caller does not set one.
const DefaultTimeout = 120 * time.Second

// CopilotClient generates code through the GitHub Copilot SDK. Each Generate
// call runs in its own session; the underlying SDK client is started once on
// first use and stopped by Close.
type CopilotClient struct {
	defaultModel    string
	timeout         time.Duration
	contextProvider ContextProvider

	client copilotClient

	startOnce sync.Once
}

// CopilotClientBuilder builds a CopilotClient with options.
type CopilotClientBuilder struct {
	client *CopilotClient
}

type CopilotClientBuilderOptions struct {
	NewCopilotClient func(clientOptions *copilot.ClientOptions) copilotClient
}

// NewCopilotClientBuilder creates a builder for CopilotClient.
//   - defaultModel - used if scenarios do not configure a model. Can be
//     blank, which means the copilot CLI will choose its own fallback model.
func NewCopilotClientBuilder(defaultModel string, options *CopilotClientBuilderOptions) *CopilotClientBuilder {
	copilotOptions := &copilot.ClientOptions{
		LogLevel: "error",
		// NOTE: autostart runs into issues when it races from separate
		// goroutines, so the client is started explicitly instead.
		AutoStart: copilot.Bool(false),
	}

	var client copilotClient
	if options == nil || options.NewCopilotClient == nil {
		client = newCopilotClient(copilotOptions)
	} else {
		client = options.NewCopilotClient(copilotOptions)
	}

	builder := &CopilotClientBuilder{
		client: &CopilotClient{
			defaultModel: defaultModel,
			timeout:      DefaultTimeout,
		},
	}
	builder.client.client = client
	return builder
}

// WithTimeout sets the per-call timeout. Non-positive values keep the
// default.
func (b *CopilotClientBuilder) WithTimeout(d time.Duration) *CopilotClientBuilder {
	if d > 0 {
		b.client.timeout = d
	}
	return b
}

// WithContextProvider sets the source of skill documentation for prompts.
func (b *CopilotClientBuilder) WithContextProvider(p ContextProvider) *CopilotClientBuilder {
	b.client.contextProvider = p
	return b
}

func (b *CopilotClientBuilder) Build() *CopilotClient {
	return b.client
}

// Generate sends the scenario prompt, wrapped with skill documentation when
// the suite asks for it, and extracts code from the assistant's reply.
func (c *CopilotClient) Generate(ctx context.Context, req *Request) (*GenerationResult, error) {
	if req == nil {
		return nil, fmt.Errorf("nil req was passed to CopilotClient.Generate")
	}

	var startErr error
	c.startOnce.Do(func() {
		startErr = c.client.Start(ctx)
	})
	if startErr != nil {
		return nil, c.wrapErr(req, fmt.Errorf("copilot failed to start: %w", startErr))
	}

	fullPrompt := req.Prompt
	if req.Config.IncludeSkillContext && c.contextProvider != nil {
		skillContext, err := c.contextProvider.Load(req.SkillName)
		if err != nil {
			return nil, c.wrapErr(req, fmt.Errorf("loading skill context: %w", err))
		}
		fullPrompt = buildPrompt(req.Prompt, skillContext, req.Config.Language)
	}

	model := req.Config.Model
	if model == "" {
		model = c.defaultModel
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	session, err := c.client.CreateSession(ctx, &copilot.SessionConfig{
		Model:               model,
		OnPermissionRequest: approveAllTools,
	})
	if err != nil {
		return nil, c.wrapErr(req, fmt.Errorf("failed to create session: %w", err))
	}

	slog.Debug("copilot session created",
		"session_id", session.SessionID(),
		"scenario", req.Scenario.Name,
		"model", model)

	collector := &responseCollector{}
	unsubscribe := session.On(collector.On)
	defer unsubscribe()

	unsubscribeLog := session.On(sessionEventToSlog)
	defer unsubscribeLog()

	if _, err := session.SendAndWait(ctx, copilot.MessageOptions{Prompt: fullPrompt}); err != nil {
		return nil, c.wrapErr(req, err)
	}

	raw := collector.Text()
	return &GenerationResult{
		Code:        extractCode(raw),
		Prompt:      fullPrompt,
		SkillName:   req.SkillName,
		Model:       model,
		TokensUsed:  estimateTokens(fullPrompt, raw),
		DurationMs:  float64(time.Since(start).Microseconds()) / 1000.0,
		RawResponse: raw,
	}, nil
}

// Mode returns models.ModeCopilot.
func (c *CopilotClient) Mode() models.RunMode { return models.ModeCopilot }

// Close stops the SDK client.
func (c *CopilotClient) Close() error {
	if err := c.client.Stop(); err != nil {
		return fmt.Errorf("failed to stop copilot client: %w", err)
	}
	return nil
}

func (c *CopilotClient) wrapErr(req *Request, err error) error {
	return &GenerationError{Scenario: req.Scenario.Name, Mode: models.ModeCopilot, Err: err}
}

// responseCollector accumulates assistant message text from session events.
// Events for a single session are delivered sequentially, so no locking.
type responseCollector struct {
	parts []string
}

// On is a callback for [copilot.Session.On].
func (rc *responseCollector) On(event copilot.SessionEvent) {
	switch event.Type {
	case copilot.AssistantMessage, copilot.AssistantMessageDelta:
		if event.Data.Content != nil {
			rc.parts = append(rc.parts, *event.Data.Content)
		}
	}
}

// Text returns the concatenated assistant output.
func (rc *responseCollector) Text() string {
	var builder strings.Builder
	for _, p := range rc.parts {
		builder.WriteString(p)
	}
	return builder.String()
}

func approveAllTools(request copilot.PermissionRequest, invocation copilot.PermissionInvocation) (copilot.PermissionRequestResult, error) {
	// Generation prompts should not need tools, but an unanswered
	// permission request would stall the session.
	return copilot.PermissionRequestResult{Kind: "approved"}, nil
}

// sessionEventToSlog mirrors session traffic to the debug log.
func sessionEventToSlog(event copilot.SessionEvent) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{"type", event.Type}
	attrs = addIf(attrs, "content", event.Data.Content)
	attrs = addIf(attrs, "deltaContent", event.Data.DeltaContent)
	attrs = addIf(attrs, "toolName", event.Data.ToolName)
	attrs = addIf(attrs, "reasoningText", event.Data.ReasoningText)

	slog.Debug("session event", attrs...)
}

func addIf[T any](attrs []any, name string, v *T) []any {
	if v != nil {
		attrs = append(attrs, name, *v)
	}
	return attrs
}
