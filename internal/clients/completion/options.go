// Package completion provides CompletionClient implementations for the hosted
// model providers SmartStock can talk to.
package completion

import (
	"time"

	"github.com/Keshavr57/SmartStock/internal/common"
)

const (
	DefaultTimeout     = 15 * time.Second
	DefaultMaxTokens   = 700
	DefaultTemperature = 0.2
)

// options are shared by every provider client
type options struct {
	model       string
	baseURL     string
	rateLimit   int // requests per minute
	temperature float64
	timeout     time.Duration
	logger      *common.Logger
}

// Option configures a provider client
type Option func(*options)

// WithModel sets the model to use
func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// WithBaseURL points the client at a compatible endpoint
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithRateLimit sets the local request budget per minute. Zero disables it.
func WithRateLimit(perMinute int) Option {
	return func(o *options) {
		o.rateLimit = perMinute
	}
}

// WithTemperature sets the sampling temperature
func WithTemperature(t float64) Option {
	return func(o *options) {
		o.temperature = t
	}
}

// WithTimeout sets the timeout used when a request carries none
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(defaultModel string, opts []Option) options {
	o := options{
		model:       defaultModel,
		temperature: DefaultTemperature,
		timeout:     DefaultTimeout,
		logger:      common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func maxTokens(n int) int {
	if n <= 0 {
		return DefaultMaxTokens
	}
	return n
}
