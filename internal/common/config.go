// Package common provides shared utilities for SmartStock
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Completion providers understood by the advisor.
const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
)

// Config holds all configuration for SmartStock
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Advisor     AdvisorConfig `toml:"advisor"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// AdvisorConfig controls prompt assembly and the completion call.
type AdvisorConfig struct {
	Provider        string  `toml:"provider"`
	Timeout         string  `toml:"timeout"`
	MaxOutputTokens int     `toml:"max_output_tokens"`
	ContextLimit    int     `toml:"context_limit"` // characters of context before the user text
	Temperature     float64 `toml:"temperature"`
}

// GetTimeout parses and returns the completion timeout
func (c *AdvisorConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Groq        CompletionConfig  `toml:"groq"`
	OpenAI      CompletionConfig  `toml:"openai"`
	Gemini      CompletionConfig  `toml:"gemini"`
	Claude      CompletionConfig  `toml:"claude"`
	Yahoo       YahooConfig       `toml:"yahoo"`
	IPOCalendar IPOCalendarConfig `toml:"ipocalendar"`
}

// CompletionConfig holds credentials and model selection for one completion provider.
type CompletionConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"` // requests per minute
}

// YahooConfig holds quote feed configuration
type YahooConfig struct {
	ExchangeSuffix string `toml:"exchange_suffix"`
	RateLimit      int    `toml:"rate_limit"`
	Timeout        string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 8 * time.Second
	}
	return d
}

// IPOCalendarConfig holds IPO listing scraper configuration
type IPOCalendarConfig struct {
	URL     string `toml:"url"`
	Timeout string `toml:"timeout"`
	MaxRows int    `toml:"max_rows"`
}

// GetTimeout parses and returns the timeout duration
func (c *IPOCalendarConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Advisor: AdvisorConfig{
			Provider:        ProviderGroq,
			Timeout:         "15s",
			MaxOutputTokens: 700,
			ContextLimit:    2000,
			Temperature:     0.2,
		},
		Clients: ClientsConfig{
			Groq: CompletionConfig{
				Model:     "llama-3.1-8b-instant",
				BaseURL:   "https://api.groq.com/openai/v1",
				RateLimit: 30,
			},
			OpenAI: CompletionConfig{
				Model:     "gpt-4o-mini",
				RateLimit: 60,
			},
			Gemini: CompletionConfig{
				Model:     "gemini-2.0-flash",
				RateLimit: 15,
			},
			Claude: CompletionConfig{
				Model:     "claude-3-5-haiku-latest",
				RateLimit: 50,
			},
			Yahoo: YahooConfig{
				ExchangeSuffix: ".NS",
				RateLimit:      5,
				Timeout:        "8s",
			},
			IPOCalendar: IPOCalendarConfig{
				URL:     "https://www.chittorgarh.com/report/ipo-in-india-list-main-board-sme/82/",
				Timeout: "10s",
				MaxRows: 7,
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			Outputs:    []string{"console"},
			FilePath:   "./logs/smartstock.log",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// A .env file in the working directory is loaded first when present.
func LoadConfig(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SMARTSTOCK_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("SMARTSTOCK_HOST"); host != "" {
		config.Server.Host = host
	}

	// PORT is honoured for PaaS deployments; SMARTSTOCK_PORT wins when both are set
	for _, name := range []string{"PORT", "SMARTSTOCK_PORT"} {
		if port := os.Getenv(name); port != "" {
			if p, err := strconv.Atoi(port); err == nil {
				config.Server.Port = p
			}
		}
	}

	if level := os.Getenv("SMARTSTOCK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if provider := os.Getenv("SMARTSTOCK_PROVIDER"); provider != "" {
		config.Advisor.Provider = strings.ToLower(strings.TrimSpace(provider))
	}

	if timeout := os.Getenv("SMARTSTOCK_TIMEOUT"); timeout != "" {
		config.Advisor.Timeout = timeout
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// Completion returns the client configuration for the selected provider.
func (c *Config) Completion() (CompletionConfig, bool) {
	switch c.Advisor.Provider {
	case ProviderGroq:
		return c.Clients.Groq, true
	case ProviderOpenAI:
		return c.Clients.OpenAI, true
	case ProviderGemini:
		return c.Clients.Gemini, true
	case ProviderClaude:
		return c.Clients.Claude, true
	}
	return CompletionConfig{}, false
}

// apiKeyEnv maps key names to the environment variables that may carry them.
var apiKeyEnv = map[string][]string{
	"groq_api_key":   {"GROQ_API_KEY", "SMARTSTOCK_GROQ_API_KEY"},
	"openai_api_key": {"OPENAI_API_KEY", "SMARTSTOCK_OPENAI_API_KEY"},
	"gemini_api_key": {"GEMINI_API_KEY", "SMARTSTOCK_GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"claude_api_key": {"ANTHROPIC_API_KEY", "SMARTSTOCK_CLAUDE_API_KEY"},
}

// ResolveAPIKey resolves an API key from the environment, falling back to the config value.
func ResolveAPIKey(name string, fallback string) (string, error) {
	if envVarNames, ok := apiKeyEnv[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := strings.TrimSpace(os.Getenv(envVarName)); envValue != "" {
				return envValue, nil
			}
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}
