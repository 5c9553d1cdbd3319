package assistant

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"

	"nur/internal/core"
)

const defaultOpenAIModel = "gpt-4o-mini"

type OpenAIClient struct {
	model  string
	logger *zap.Logger
	client *openai.Client
}

func NewOpenAIClient(config core.AssistantConfig, logger *zap.Logger) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	client := openai.NewClient(opts...)

	model := config.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIClient{
		model:  model,
		logger: logger,
		client: &client,
	}, nil
}

func (o *OpenAIClient) Complete(ctx context.Context, system, question string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(question),
		},
		Model:       shared.ChatModel(o.model),
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxAnswerTokens),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyAnswer
	}

	o.logger.Debug("OpenAI response received",
		zap.String("model", o.model),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)))

	return resp.Choices[0].Message.Content, nil
}
