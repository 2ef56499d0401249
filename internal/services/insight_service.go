package services

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pashupehchan/herdwatch/internal/domain/alert"
	"github.com/pashupehchan/herdwatch/internal/domain/herd"
	"github.com/pashupehchan/herdwatch/internal/pkg/logger"
)

// InsightService produces short care advice for serious health alerts.
// Advice is strictly best-effort: any failure returns an empty string and the
// alert goes out without it.
type InsightService struct {
	client *openai.Client
	model  string
	logger *logger.Logger
}

// NewInsightService creates the insight service. Returns nil when no API key
// is configured; callers treat a nil service as advice disabled.
func NewInsightService(apiKey string, log *logger.Logger) *InsightService {
	if apiKey == "" {
		return nil
	}
	return &InsightService{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
		logger: log,
	}
}

// CareAdvice asks for two or three sentences of practical guidance a farmhand
// can act on before the vet arrives
func (s *InsightService) CareAdvice(ctx context.Context, a *alert.Alert, animal *herd.Animal) string {
	prompt := fmt.Sprintf(
		"A farm animal named %s (species: %s) triggered a health alert: %q. "+
			"Give 2-3 short sentences of practical care advice the caretaker can "+
			"follow before a veterinarian arrives. Plain text, no markdown.",
		animal.Name, animal.Species, a.Message,
	)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		MaxTokens: 200,
	})
	if err != nil || len(resp.Choices) == 0 {
		s.logger.WithFields(map[string]interface{}{
			"alert_id": a.ID,
		}).Warn("Care advice unavailable, sending alert without it")
		return ""
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content)
}
