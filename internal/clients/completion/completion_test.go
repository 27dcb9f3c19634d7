package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keshavr57/SmartStock/internal/common"
	"github.com/Keshavr57/SmartStock/internal/interfaces"
)

type chatRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatReply(content string) string {
	return fmt.Sprintf(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":%q},"finish_reason":"stop"}]}`, content)
}

func fakeEndpoint(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func request() interfaces.CompletionRequest {
	return interfaces.CompletionRequest{
		SystemPrompt:    "persona",
		UserPrompt:      "What is a P/E ratio?",
		MaxOutputTokens: 500,
		Timeout:         2 * time.Second,
	}
}

func TestOpenAIClient_Success(t *testing.T) {
	var got chatRequest
	var path string
	srv, _ := fakeEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chatReply("  P/E compares price with earnings.  "))
	})

	c := NewGroqClient("test-key", WithBaseURL(srv.URL))
	text, err := c.Complete(context.Background(), request())

	require.NoError(t, err)
	assert.Equal(t, "P/E compares price with earnings.", text)
	assert.Equal(t, "/chat/completions", path)
	assert.Equal(t, DefaultGroqModel, got.Model)
	assert.Equal(t, 500, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "persona", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "groq", c.Provider())
}

func TestOpenAIClient_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, interfaces.ErrCompletionRateLimited},
		{"unauthorized", http.StatusUnauthorized, interfaces.ErrCompletionAuth},
		{"forbidden", http.StatusForbidden, interfaces.ErrCompletionAuth},
		{"server error", http.StatusInternalServerError, interfaces.ErrCompletionUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := fakeEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"error":{"message":"nope","type":"invalid_request_error"}}`)
			})

			c := NewOpenAIClient("test-key", WithBaseURL(srv.URL))
			_, err := c.Complete(context.Background(), request())
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestOpenAIClient_EmptyReply(t *testing.T) {
	for _, body := range []string{
		`{"choices":[]}`,
		chatReply("   "),
	} {
		srv, _ := fakeEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, body)
		})

		c := NewOpenAIClient("test-key", WithBaseURL(srv.URL))
		_, err := c.Complete(context.Background(), request())
		assert.ErrorIs(t, err, interfaces.ErrCompletionEmpty)
	}
}

func TestOpenAIClient_Timeout(t *testing.T) {
	srv, _ := fakeEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	})

	c := NewOpenAIClient("test-key", WithBaseURL(srv.URL))
	req := request()
	req.Timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := c.Complete(context.Background(), req)
	assert.ErrorIs(t, err, interfaces.ErrCompletionTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestOpenAIClient_LocalRateLimit(t *testing.T) {
	srv, calls := fakeEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chatReply("ok"))
	})

	c := NewOpenAIClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1))

	_, err := c.Complete(context.Background(), request())
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), request())
	assert.ErrorIs(t, err, interfaces.ErrCompletionRateLimited)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls), "second call must not reach the provider")
}

func TestSentinelFor_Messages(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		msg  string
		want error
	}{
		{"Error 429, Message: Resource has been exhausted, Status: RESOURCE_EXHAUSTED", interfaces.ErrCompletionRateLimited},
		{"You exceeded your current quota", interfaces.ErrCompletionRateLimited},
		{"Error 400, Message: API key not valid. Please pass a valid API key.", interfaces.ErrCompletionAuth},
		{"Error 403, Status: PERMISSION_DENIED", interfaces.ErrCompletionAuth},
		{"connection reset by peer", interfaces.ErrCompletionUnavailable},
	}
	for _, tt := range tests {
		if got := sentinelFor(ctx, 0, errors.New(tt.msg)); got != tt.want {
			t.Errorf("sentinelFor(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestClassify_DeadlineWins(t *testing.T) {
	err := classify(context.Background(), "gemini", http.StatusTooManyRequests, fmt.Errorf("wrapped: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, err, interfaces.ErrCompletionTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "gemini")
}

func TestNew_Factory(t *testing.T) {
	for _, name := range []string{"GROQ_API_KEY", "SMARTSTOCK_GROQ_API_KEY", "ANTHROPIC_API_KEY", "SMARTSTOCK_CLAUDE_API_KEY"} {
		t.Setenv(name, "")
	}

	t.Run("missing credential", func(t *testing.T) {
		cfg := common.NewDefaultConfig()
		_, err := New(context.Background(), cfg, nil)
		assert.ErrorIs(t, err, ErrNoCredential)
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := common.NewDefaultConfig()
		cfg.Advisor.Provider = "mystery"
		_, err := New(context.Background(), cfg, nil)
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("groq from config key", func(t *testing.T) {
		cfg := common.NewDefaultConfig()
		cfg.Clients.Groq.APIKey = "from-config"
		c, err := New(context.Background(), cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, common.ProviderGroq, c.Provider())
	})

	t.Run("claude from environment", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "from-env")
		cfg := common.NewDefaultConfig()
		cfg.Advisor.Provider = common.ProviderClaude
		c, err := New(context.Background(), cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, common.ProviderClaude, c.Provider())
	})
}
