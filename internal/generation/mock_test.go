package generation

import (
	"context"
	"testing"

	"github.com/microsoft/skillcheck/internal/models"
	"github.com/stretchr/testify/require"
)

func TestMockClientScenarioResponse(t *testing.T) {
	client := NewMockClient()

	result, err := client.Generate(context.Background(), &Request{
		SkillName: "error-handling",
		Prompt:    "Write a function that retries",
		Scenario: models.Scenario{
			Name:         "retry",
			MockResponse: "def retry():\n    pass\n",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "def retry():\n    pass\n", result.Code)
	require.Equal(t, "Write a function that retries", result.Prompt)
	require.Equal(t, "error-handling", result.SkillName)
	require.Equal(t, "mock", result.Model)
}

func TestMockClientRegisteredResponses(t *testing.T) {
	client := NewMockClient()
	client.AddResponse("Retry Logic", "first()")
	client.AddResponse("retry", "second()")

	t.Run("MatchesCaseInsensitively", func(t *testing.T) {
		result, err := client.Generate(context.Background(), &Request{
			Prompt:   "show me some RETRY LOGIC please",
			Scenario: models.Scenario{Name: "no-mock-response"},
		})
		require.NoError(t, err)
		require.Equal(t, "first()", result.Code)
	})

	t.Run("FirstRegistrationWins", func(t *testing.T) {
		// Both keys match; registration order decides.
		result, err := client.Generate(context.Background(), &Request{
			Prompt:   "retry logic",
			Scenario: models.Scenario{Name: "no-mock-response"},
		})
		require.NoError(t, err)
		require.Equal(t, "first()", result.Code)
	})

	t.Run("ScenarioResponseWinsOverRegistration", func(t *testing.T) {
		result, err := client.Generate(context.Background(), &Request{
			Prompt: "retry logic",
			Scenario: models.Scenario{
				Name:         "with-mock-response",
				MockResponse: "scenario()",
			},
		})
		require.NoError(t, err)
		require.Equal(t, "scenario()", result.Code)
	})
}

func TestMockClientDefaultResponse(t *testing.T) {
	client := NewMockClient()

	result, err := client.Generate(context.Background(), &Request{
		Prompt:   "anything",
		Scenario: models.Scenario{Name: "bare"},
	})
	require.NoError(t, err)
	require.Equal(t, defaultMockResponse, result.Code)
}

func TestMockClientIsDeterministic(t *testing.T) {
	client := NewMockClient()
	req := &Request{
		Prompt:   "prompt",
		Scenario: models.Scenario{Name: "s", MockResponse: "x = 1"},
	}

	first, err := client.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := client.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestMockClientCancelledContext(t *testing.T) {
	client := NewMockClient()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Generate(ctx, &Request{Scenario: models.Scenario{Name: "s"}})
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	require.Equal(t, "s", genErr.Scenario)
	require.Equal(t, models.ModeMock, genErr.Mode)
}

func TestMockClientMode(t *testing.T) {
	client := NewMockClient()
	require.Equal(t, models.ModeMock, client.Mode())
	require.NoError(t, client.Close())
}
