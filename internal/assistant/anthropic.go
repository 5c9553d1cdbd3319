package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"nur/internal/core"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

type AnthropicClient struct {
	model  string
	logger *zap.Logger
	client *anthropic.Client
}

func NewAnthropicClient(config core.AssistantConfig, logger *zap.Logger) (*AnthropicClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	client := anthropic.NewClient(opts...)

	model := config.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	return &AnthropicClient{
		model:  model,
		logger: logger,
		client: &client,
	}, nil
}

func (a *AnthropicClient) Complete(ctx context.Context, system, question string) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: maxAnswerTokens,
		System: []anthropic.TextBlockParam{{
			Text: system,
		}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(question)),
		},
		Temperature: anthropic.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var answer strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			answer.WriteString(block.Text)
		}
	}

	a.logger.Debug("Anthropic response received",
		zap.String("model", a.model),
		zap.String("stop_reason", string(message.StopReason)))

	return answer.String(), nil
}
