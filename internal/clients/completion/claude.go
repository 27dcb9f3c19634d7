package completion

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"

	"github.com/Keshavr57/SmartStock/internal/common"
	"github.com/Keshavr57/SmartStock/internal/interfaces"
)

const DefaultClaudeModel = "claude-3-5-haiku-latest"

// ClaudeClient implements CompletionClient using the Anthropic Messages API
type ClaudeClient struct {
	client  anthropic.Client
	opts    options
	limiter *rate.Limiter
}

// NewClaudeClient creates a new Claude client
func NewClaudeClient(apiKey string, opts ...Option) *ClaudeClient {
	o := buildOptions(DefaultClaudeModel, opts)

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}

	return &ClaudeClient{
		client:  anthropic.NewClient(reqOpts...),
		opts:    o,
		limiter: newLimiter(o.rateLimit),
	}
}

// Provider names the backing service
func (c *ClaudeClient) Provider() string {
	return common.ProviderClaude
}

// Complete sends one user message with the persona as the system block
func (c *ClaudeClient) Complete(ctx context.Context, req interfaces.CompletionRequest) (string, error) {
	if err := admit(common.ProviderClaude, c.limiter); err != nil {
		return "", err
	}

	ctx, cancel := withTimeout(ctx, req, c.opts.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.opts.model),
		MaxTokens: int64(maxTokens(req.MaxOutputTokens)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
		Temperature: anthropic.Float(c.opts.temperature),
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}

	c.opts.logger.Debug().Str("model", c.opts.model).Msg("Requesting Claude completion")

	start := time.Now()
	resp, err := c.client.Messages.New(ctx, params)
	elapsed := time.Since(start)
	if err != nil {
		status := 0
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		classified := classify(ctx, common.ProviderClaude, status, err)
		c.opts.logger.Warn().Err(classified).Dur("elapsed", elapsed).Msg("Claude completion failed")
		return "", classified
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", emptyResponse(common.ProviderClaude)
	}

	c.opts.logger.Debug().Int("chars", len(text)).Dur("elapsed", elapsed).Msg("Claude completion received")
	return text, nil
}

// Ensure ClaudeClient implements CompletionClient
var _ interfaces.CompletionClient = (*ClaudeClient)(nil)
