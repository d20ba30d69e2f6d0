package generation

import (
	"context"
	"strings"
	"sync"

	"github.com/microsoft/skillcheck/internal/models"
)

// defaultMockResponse is returned when a scenario has no mock_response and
// no registration matches its prompt.
const defaultMockResponse = "# No mock response configured for this prompt\npass"

// MockClient is the deterministic backend: no I/O, never fails. A scenario's
// mock_response is returned verbatim; registered responses match prompts by
// case-insensitive containment in registration order.
type MockClient struct {
	mu        sync.Mutex
	responses []mockResponse
}

type mockResponse struct {
	promptContains string
	response       string
}

// NewMockClient returns an empty MockClient.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// AddResponse registers a response for prompts containing promptContains,
// compared case-insensitively.
func (c *MockClient) AddResponse(promptContains, response string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = append(c.responses, mockResponse{
		promptContains: strings.ToLower(promptContains),
		response:       response,
	})
}

// Generate returns the scenario's mock_response, or the first registered
// response whose key the prompt contains, or a placeholder.
func (c *MockClient) Generate(ctx context.Context, req *Request) (*GenerationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, &GenerationError{Scenario: req.Scenario.Name, Mode: models.ModeMock, Err: err}
	}

	result := &GenerationResult{
		Prompt:    req.Prompt,
		SkillName: req.SkillName,
		Model:     "mock",
	}

	if req.Scenario.MockResponse != "" {
		result.Code = req.Scenario.MockResponse
		return result, nil
	}

	prompt := strings.ToLower(req.Prompt)
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.responses {
		if strings.Contains(prompt, r.promptContains) {
			result.Code = r.response
			return result, nil
		}
	}

	result.Code = defaultMockResponse
	return result, nil
}

// Mode returns models.ModeMock.
func (c *MockClient) Mode() models.RunMode { return models.ModeMock }

// Close is a no-op; the mock holds no resources.
func (c *MockClient) Close() error { return nil }
