// Package assistant answers free-form questions about Islam through a hosted
// language model. Every call is independent; no conversation is kept.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"nur/internal/core"
	"nur/internal/flood"
	"nur/internal/metrics"
)

// SystemInstruction frames every question sent to the model.
const SystemInstruction = `You are the Islamic assistant of the Nur companion app.
Give accurate, balanced and respectful answers about Islam, the Quran, Hadith and Fiqh.

Guidelines:
- Keep a calm and respectful tone.
- For Fiqh questions, note where the Hanafi, Shafi'i, Maliki and Hanbali schools differ.
- Cite Surah and Ayah numbers or the Hadith collection and number where you can.
- For sensitive matters or a personal ruling, advise consulting a local scholar.
- Use short paragraphs and bullet points.`

const (
	maxQuestionRunes = 2000
	maxAnswerTokens  = 1024
	temperature      = 0.3
)

var (
	ErrNotConfigured = errors.New("assistant provider not configured")
	ErrEmptyQuestion = errors.New("question is empty")
	ErrTooLong       = fmt.Errorf("question exceeds %d characters", maxQuestionRunes)
	ErrEmptyAnswer   = errors.New("assistant returned no answer")
)

// RateLimitError is returned when an owner asks too often.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many questions, retry in %s", e.RetryAfter.Round(time.Second))
}

// completer sends one system instruction and one user question to a model.
type completer interface {
	Complete(ctx context.Context, system, question string) (string, error)
}

// Provider is the configured assistant backend.
type Provider struct {
	name    string
	client  completer
	gate    *flood.Floodgate
	logger  *zap.Logger
	metrics *metrics.Metrics
}

var _ core.Assistant = (*Provider)(nil)

func NewProvider(config core.AssistantConfig, logger *zap.Logger, m *metrics.Metrics) (*Provider, error) {
	var client completer
	var err error

	switch config.Provider {
	case "anthropic":
		client, err = NewAnthropicClient(config, logger)
	case "openai":
		client, err = NewOpenAIClient(config, logger)
	case "none", "":
		client = noOpClient{}
	default:
		return nil, fmt.Errorf("unsupported assistant provider: %s", config.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", config.Provider, err)
	}

	name := config.Provider
	if name == "" {
		name = "none"
	}

	return &Provider{
		name:    name,
		client:  client,
		gate:    flood.New(config.LimitPerMinute),
		logger:  logger,
		metrics: m,
	}, nil
}

// Name returns the configured provider name.
func (p *Provider) Name() string {
	return p.name
}

// Ask sends question to the model without any per-owner limit.
func (p *Provider) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	switch {
	case question == "":
		return "", ErrEmptyQuestion
	case utf8.RuneCountInString(question) > maxQuestionRunes:
		return "", ErrTooLong
	}

	start := time.Now()
	answer, err := p.client.Complete(ctx, SystemInstruction, question)
	if err == nil && strings.TrimSpace(answer) == "" {
		err = ErrEmptyAnswer
	}
	if err != nil {
		p.metrics.RecordAssistantCall(p.name, "error")
		p.logger.Error("Assistant call failed",
			zap.String("provider", p.name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", err
	}

	p.metrics.RecordAssistantCall(p.name, "ok")
	p.logger.Debug("Assistant answered",
		zap.String("provider", p.name),
		zap.Int("question_len", len(question)),
		zap.Int("answer_len", len(answer)),
		zap.Duration("elapsed", time.Since(start)))
	return answer, nil
}

// AskFor is Ask guarded by the per-owner rate limit.
func (p *Provider) AskFor(ctx context.Context, ownerID, question string) (string, error) {
	if ok, retryAfter := p.gate.Allow(ownerID); !ok {
		p.metrics.RecordAssistantCall(p.name, "limited")
		p.logger.Info("Assistant rate limit hit",
			zap.String("owner", ownerID),
			zap.Duration("retry_after", retryAfter))
		return "", &RateLimitError{RetryAfter: retryAfter}
	}
	return p.Ask(ctx, question)
}

// Close stops the rate limiter.
func (p *Provider) Close() {
	p.gate.Stop()
}

type noOpClient struct{}

func (noOpClient) Complete(context.Context, string, string) (string, error) {
	return "", ErrNotConfigured
}
