package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/goccy/go-json"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-1.5-flash"

var errEmptyResponse = errors.New("no content generated")

// GeminiClient generates wingman content. Calls go through a circuit
// breaker so an unavailable API fails fast and callers use their fallback.
type GeminiClient struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string, log zerolog.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if modelName == "" {
		modelName = DefaultModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)

	return &GeminiClient{
		client:  client,
		model:   model,
		breaker: newBreaker("gemini", log),
		log:     log,
	}, nil
}

func newBreaker(name string, log zerolog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func (c *GeminiClient) GenerateMatchExplanation(ctx context.Context, a, b *domain.PublicProfile) (string, error) {
	prompt := fmt.Sprintf(`
		Analyze the compatibility of two dating app users who just matched.
		User 1: %s
		User 2: %s

		Task: Write a short, engaging explanation (1-2 sentences) of why they are a good match.
		Address both users. Do not invent facts that are not in the profiles.
		Output: Just the explanation text.
	`, describe(a), describe(b))

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate explanation: %w", err)
	}
	return text, nil
}

func (c *GeminiClient) GenerateIcebreakers(ctx context.Context, a, b *domain.PublicProfile) ([]string, error) {
	prompt := fmt.Sprintf(`
		Generate 3 creative icebreaker messages for a dating app match.
		User 1: %s
		User 2: %s

		Task: Create 3 distinct opening lines that User 1 could send to User 2.
		Output: JSON array of strings. Example: ["Hi...", "Hello..."]
	`, describe(a), describe(b))

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate icebreakers: %w", err)
	}
	return parseIcebreakers(text)
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return nil, err
		}
		return responseText(resp)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}

// parseIcebreakers accepts a JSON array, optionally inside a markdown code
// fence, and falls back to one icebreaker per non-empty line.
func parseIcebreakers(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	// Clean up markdown code blocks if present
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var icebreakers []string
	err := json.Unmarshal([]byte(text), &icebreakers)
	if err == nil && len(icebreakers) > 0 {
		return icebreakers, nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "[" || line == "]" || line == "[]" {
			continue
		}
		line = strings.Trim(line, `",`)
		if line != "" {
			icebreakers = append(icebreakers, line)
		}
	}
	if len(icebreakers) == 0 {
		if err == nil {
			err = errEmptyResponse
		}
		return nil, fmt.Errorf("failed to parse icebreakers: %w", err)
	}
	return icebreakers, nil
}

func describe(p *domain.PublicProfile) string {
	parts := []string{"name: " + p.FullName}
	if p.Age > 0 {
		parts = append(parts, fmt.Sprintf("age: %d", p.Age))
	}
	if p.Gender != "" {
		parts = append(parts, "gender: "+string(p.Gender))
	}
	if p.Bio != "" {
		parts = append(parts, "bio: "+p.Bio)
	}
	return strings.Join(parts, "; ")
}
