package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/opencampus/beacon/internal/config"
	riskdomain "github.com/opencampus/beacon/internal/risk/domain"
	studentdomain "github.com/opencampus/beacon/internal/student/domain"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// chatClient is the slice of the go-openai client the provider needs;
// narrowed so tests can substitute a stub.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider talks to an OpenAI-compatible chat-completions endpoint.
// A custom BaseURL points it at gateway deployments.
type OpenAIProvider struct {
	client  chatClient
	log     *zap.Logger
	model   string
	timeout time.Duration
}

func NewOpenAIProvider(cfg config.AIConfig, log *zap.Logger) (*OpenAIProvider, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("ai API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientCfg),
		log:     log.Named("providers.ai"),
		model:   cfg.Model,
		timeout: timeout,
	}, nil
}

func (p *OpenAIProvider) PredictRisk(ctx context.Context, snapshot studentdomain.FeatureSnapshot) (riskdomain.Prediction, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: renderPrompt(snapshot)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		p.log.Warn("model request failed", zap.Error(err))
		return riskdomain.Prediction{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		p.log.Warn("model returned no choices")
		return riskdomain.Prediction{}, fmt.Errorf("%w: empty response", ErrUnavailable)
	}

	prediction, err := decodePrediction(resp.Choices[0].Message.Content)
	if err != nil {
		p.log.Warn("model reply unusable", zap.Error(err))
		return riskdomain.Prediction{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return prediction, nil
}
