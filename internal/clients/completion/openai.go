package completion

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/Keshavr57/SmartStock/internal/common"
	"github.com/Keshavr57/SmartStock/internal/interfaces"
)

const (
	DefaultGroqModel   = "llama-3.1-8b-instant"
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
// Groq is served by the same client with its own base URL.
type OpenAIClient struct {
	client   *openai.Client
	provider string
	opts     options
	limiter  *rate.Limiter
}

// NewOpenAIClient creates a client for OpenAI
func NewOpenAIClient(apiKey string, opts ...Option) *OpenAIClient {
	return newOpenAICompatible(common.ProviderOpenAI, apiKey, DefaultOpenAIModel, "", opts)
}

// NewGroqClient creates a client for Groq's OpenAI-compatible API
func NewGroqClient(apiKey string, opts ...Option) *OpenAIClient {
	return newOpenAICompatible(common.ProviderGroq, apiKey, DefaultGroqModel, DefaultGroqBaseURL, opts)
}

func newOpenAICompatible(provider, apiKey, defaultModel, defaultBaseURL string, opts []Option) *OpenAIClient {
	o := buildOptions(defaultModel, opts)
	if o.baseURL == "" {
		o.baseURL = defaultBaseURL
	}

	cfg := openai.DefaultConfig(apiKey)
	if o.baseURL != "" {
		cfg.BaseURL = strings.TrimRight(o.baseURL, "/")
	}

	return &OpenAIClient{
		client:   openai.NewClientWithConfig(cfg),
		provider: provider,
		opts:     o,
		limiter:  newLimiter(o.rateLimit),
	}
}

// Provider names the backing service
func (c *OpenAIClient) Provider() string {
	return c.provider
}

// Complete sends the system and user prompts as a two-message chat
func (c *OpenAIClient) Complete(ctx context.Context, req interfaces.CompletionRequest) (string, error) {
	if err := admit(c.provider, c.limiter); err != nil {
		return "", err
	}

	ctx, cancel := withTimeout(ctx, req, c.opts.timeout)
	defer cancel()

	c.opts.logger.Debug().Str("provider", c.provider).Str("model", c.opts.model).Msg("Requesting completion")

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.opts.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		MaxTokens:   maxTokens(req.MaxOutputTokens),
		Temperature: float32(c.opts.temperature),
	})
	elapsed := time.Since(start)
	if err != nil {
		classified := classify(ctx, c.provider, statusOf(err), err)
		c.opts.logger.Warn().Err(classified).Str("provider", c.provider).Dur("elapsed", elapsed).Msg("Completion failed")
		return "", classified
	}

	if len(resp.Choices) == 0 {
		return "", emptyResponse(c.provider)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", emptyResponse(c.provider)
	}

	c.opts.logger.Debug().Str("provider", c.provider).Int("chars", len(text)).Dur("elapsed", elapsed).Msg("Completion received")
	return text, nil
}

// statusOf extracts the HTTP status from go-openai error types
func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// Ensure OpenAIClient implements CompletionClient
var _ interfaces.CompletionClient = (*OpenAIClient)(nil)
