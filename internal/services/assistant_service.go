package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"fundpulse/internal/config"
	"fundpulse/pkg/contracts/domain"
)

// assistantContextDays is how many recent metrics rows are fed to the model.
const assistantContextDays = 5

// AssistantService answers questions about the fund using Gemini, grounding
// each conversation in the most recent stored metrics and positions.
type AssistantService struct {
	client    *genai.Client
	model     string
	metrics   MetricsStore
	positions PositionsStore
	logger    *slog.Logger
}

// NewAssistantService creates an assistant service and its Gemini client.
func NewAssistantService(ctx context.Context, cfg config.GeminiConfig, metrics MetricsStore, positions PositionsStore, logger *slog.Logger) (*AssistantService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &AssistantService{
		client:    client,
		model:     cfg.Model,
		metrics:   metrics,
		positions: positions,
		logger:    logger,
	}, nil
}

// Chat completes a conversation and returns the assistant's reply. The full
// message history is forwarded so the model keeps multi-turn context.
func (s *AssistantService) Chat(ctx context.Context, messages []domain.ChatMessage) (domain.ChatMessage, error) {
	contents, err := conversationContents(messages)
	if err != nil {
		assistantRequests.WithLabelValues("error").Inc()
		return domain.ChatMessage{}, err
	}

	systemPrompt, err := s.buildSystemPrompt(ctx)
	if err != nil {
		assistantRequests.WithLabelValues("error").Inc()
		return domain.ChatMessage{}, err
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.2)),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model, contents, cfg)
	if err != nil {
		assistantRequests.WithLabelValues("error").Inc()
		return domain.ChatMessage{}, fmt.Errorf("gemini generation failed: %w", err)
	}

	assistantRequests.WithLabelValues("success").Inc()
	return domain.ChatMessage{Role: "assistant", Content: result.Text()}, nil
}

// conversationContents maps chat history to GenAI contents. Assistant turns
// use the API's "model" role.
func conversationContents(messages []domain.ChatMessage) ([]*genai.Content, error) {
	var contents []*genai.Content
	hasUser := false
	for _, m := range messages {
		role := genai.RoleUser
		if m.Role == "assistant" {
			role = genai.RoleModel
		} else {
			hasUser = true
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	if !hasUser {
		return nil, ErrNoUserMessage
	}
	return contents, nil
}

// buildSystemPrompt assembles the grounding context from stored data. Missing
// data is noted rather than treated as an error so the assistant stays usable
// before the first report lands.
func (s *AssistantService) buildSystemPrompt(ctx context.Context) (string, error) {
	var b strings.Builder
	b.WriteString("You are the data assistant for a fund reporting service. ")
	b.WriteString("Answer questions using only the data below. ")
	b.WriteString("Dates use YYYY-MM-DD. Say so when the data cannot answer a question.\n\n")

	metrics, err := s.metrics.Latest(ctx, assistantContextDays)
	if err != nil {
		return "", fmt.Errorf("failed to load metrics for assistant: %w", err)
	}
	if len(metrics) == 0 {
		b.WriteString("No daily metrics stored yet.\n")
	} else {
		data, err := json.Marshal(metrics)
		if err != nil {
			return "", fmt.Errorf("failed to encode metrics: %w", err)
		}
		fmt.Fprintf(&b, "Daily metrics, most recent first:\n%s\n", data)
	}

	latestDate, err := s.positions.LatestDate(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load latest position date: %w", err)
	}
	if latestDate == "" {
		b.WriteString("\nNo swap positions stored yet.\n")
		return b.String(), nil
	}

	positions, err := s.positions.ForDate(ctx, latestDate)
	if err != nil {
		return "", fmt.Errorf("failed to load positions for assistant: %w", err)
	}
	data, err := json.Marshal(positions)
	if err != nil {
		return "", fmt.Errorf("failed to encode positions: %w", err)
	}
	fmt.Fprintf(&b, "\nSwap positions for %s:\n%s\n", latestDate, data)
	return b.String(), nil
}
