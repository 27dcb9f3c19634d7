package completion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/Keshavr57/SmartStock/internal/common"
	"github.com/Keshavr57/SmartStock/internal/interfaces"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiClient implements CompletionClient using the Google Gemini API
type GeminiClient struct {
	client  *genai.Client
	opts    options
	limiter *rate.Limiter
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, apiKey string, opts ...Option) (*GeminiClient, error) {
	o := buildOptions(DefaultGeminiModel, opts)

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if o.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: o.baseURL}
	}

	genaiClient, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:  genaiClient,
		opts:    o,
		limiter: newLimiter(o.rateLimit),
	}, nil
}

// Provider names the backing service
func (c *GeminiClient) Provider() string {
	return common.ProviderGemini
}

// Complete generates content with the persona as system instruction
func (c *GeminiClient) Complete(ctx context.Context, req interfaces.CompletionRequest) (string, error) {
	if err := admit(common.ProviderGemini, c.limiter); err != nil {
		return "", err
	}

	ctx, cancel := withTimeout(ctx, req, c.opts.timeout)
	defer cancel()

	c.opts.logger.Debug().Str("model", c.opts.model).Msg("Generating content")

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemPrompt, genai.RoleUser),
		MaxOutputTokens:   int32(maxTokens(req.MaxOutputTokens)),
		Temperature:       genai.Ptr(float32(c.opts.temperature)),
	}

	start := time.Now()
	result, err := c.client.Models.GenerateContent(ctx, c.opts.model, genai.Text(req.UserPrompt), config)
	elapsed := time.Since(start)
	if err != nil {
		classified := classify(ctx, common.ProviderGemini, 0, err)
		c.opts.logger.Warn().Err(classified).Dur("elapsed", elapsed).Msg("Gemini completion failed")
		return "", classified
	}

	text := strings.TrimSpace(extractText(result))
	if text == "" {
		return "", emptyResponse(common.ProviderGemini)
	}

	c.opts.logger.Debug().Int("chars", len(text)).Dur("elapsed", elapsed).Msg("Gemini completion received")
	return text, nil
}

// extractText joins the text parts of the first candidate
func extractText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// Ensure GeminiClient implements CompletionClient
var _ interfaces.CompletionClient = (*GeminiClient)(nil)
