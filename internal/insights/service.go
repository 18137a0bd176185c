// Package insights generates plain-language explanations of current air
// quality using an OpenAI-compatible chat model, with deterministic
// fallback content when no model is configured or the call fails.
package insights

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// Request carries the conditions the narrative should explain.
type Request struct {
	Location       string
	AQI            int
	Category       string
	Pollutants     map[string]float64
	WeatherSummary string
	BreathScore    int
}

// Insights is the structured narrative returned to clients.
type Insights struct {
	Summary               string    `json:"summary"`
	HealthRecommendations []string  `json:"health_recommendations"`
	ContextualInsights    []string  `json:"contextual_insights"`
	ActionableTips        []string  `json:"actionable_tips"`
	Source                string    `json:"source"`
	GeneratedAt           time.Time `json:"generated_at"`
}

// ChatClient is the slice of the OpenAI client the service needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ServiceConfig holds configuration for the insights service.
type ServiceConfig struct {
	// Client is the chat completion client. When nil the service always
	// returns fallback content.
	Client ChatClient

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// Logger for service operations.
	Logger zerolog.Logger
}

// NewChatClient builds an OpenAI-compatible client. BaseURL may point at
// any compatible endpoint.
func NewChatClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// Service produces air quality narratives.
type Service struct {
	client ChatClient
	model  string
	logger zerolog.Logger
}

// NewService creates an insights service.
func NewService(cfg ServiceConfig) *Service {
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Service{
		client: cfg.Client,
		model:  model,
		logger: cfg.Logger.With().Str("component", "insights").Logger(),
	}
}

const systemPrompt = "You are an air quality advisor. You explain pollution " +
	"data to non-experts in clear, calm language and give practical advice. " +
	"Answer using exactly the four section headers you are asked for."

// Generate returns insights for the request. Model failures degrade to the
// deterministic fallback rather than an error.
func (s *Service) Generate(ctx context.Context, req Request) (*Insights, error) {
	if s.client == nil {
		return s.fallback(req), nil
	}

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		MaxTokens:   700,
		Temperature: 0.6,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("insights generation failed, using fallback")
		return s.fallback(req), nil
	}
	if len(resp.Choices) == 0 {
		s.logger.Warn().Msg("insights response had no choices, using fallback")
		return s.fallback(req), nil
	}

	insights := parseResponse(resp.Choices[0].Message.Content)
	if insights.Summary == "" && len(insights.HealthRecommendations) == 0 {
		s.logger.Warn().Msg("insights response unparseable, using fallback")
		return s.fallback(req), nil
	}

	insights.Source = "model"
	insights.GeneratedAt = time.Now().UTC()
	return insights, nil
}

func (s *Service) fallback(req Request) *Insights {
	insights := fallbackForAQI(req.AQI)
	insights.Source = "fallback"
	insights.GeneratedAt = time.Now().UTC()
	return insights
}

// buildPrompt renders the conditions into the model prompt.
func buildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Location: %s\n", req.Location)
	fmt.Fprintf(&b, "Air Quality Index: %d (%s)\n", req.AQI, req.Category)
	fmt.Fprintf(&b, "Breathability score: %d/100\n", req.BreathScore)

	if len(req.Pollutants) > 0 {
		names := make([]string, 0, len(req.Pollutants))
		for name := range req.Pollutants {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString("Measured pollutants:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "  - %s: %.1f\n", name, req.Pollutants[name])
		}
	}
	if req.WeatherSummary != "" {
		fmt.Fprintf(&b, "Weather: %s\n", req.WeatherSummary)
	}

	b.WriteString("\nRespond with exactly these four sections:\n")
	b.WriteString("Simple Explanation: two or three sentences on what this air quality means.\n")
	b.WriteString("Health Recommendations: bullet points for the general population and sensitive groups.\n")
	b.WriteString("Contextual Insights: bullet points connecting the pollutants and weather to the conditions.\n")
	b.WriteString("Actionable Tips: bullet points people can act on today.\n")

	return b.String()
}
