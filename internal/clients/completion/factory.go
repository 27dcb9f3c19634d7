package completion

import (
	"context"
	"errors"
	"fmt"

	"github.com/Keshavr57/SmartStock/internal/common"
	"github.com/Keshavr57/SmartStock/internal/interfaces"
)

var (
	// ErrUnknownProvider is returned for a provider name the factory cannot build
	ErrUnknownProvider = errors.New("unknown completion provider")

	// ErrNoCredential is returned when no API key is configured for the provider
	ErrNoCredential = errors.New("no completion credential configured")
)

// New builds the client for the configured provider.
func New(ctx context.Context, cfg *common.Config, logger *common.Logger) (interfaces.CompletionClient, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	provider := cfg.Advisor.Provider
	cc, ok := cfg.Completion()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	apiKey, err := common.ResolveAPIKey(provider+"_api_key", cc.APIKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoCredential, err)
	}

	opts := []Option{
		WithModel(cc.Model),
		WithRateLimit(cc.RateLimit),
		WithTemperature(cfg.Advisor.Temperature),
		WithTimeout(cfg.Advisor.GetTimeout()),
		WithLogger(logger),
	}
	if cc.BaseURL != "" {
		opts = append(opts, WithBaseURL(cc.BaseURL))
	}

	var client interfaces.CompletionClient
	switch provider {
	case common.ProviderGroq:
		client = NewGroqClient(apiKey, opts...)
	case common.ProviderOpenAI:
		client = NewOpenAIClient(apiKey, opts...)
	case common.ProviderGemini:
		gc, err := NewGeminiClient(ctx, apiKey, opts...)
		if err != nil {
			return nil, err
		}
		client = gc
	case common.ProviderClaude:
		client = NewClaudeClient(apiKey, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	logger.Info().Str("provider", provider).Str("model", cc.Model).Msg("Completion client ready")
	return client, nil
}
