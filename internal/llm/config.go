// Package llm provides the language model client used for CV suggestions.
package llm

import "time"

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 30 * time.Second

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       DefaultModel,
		Temperature: 0.7,
		Timeout:     DefaultTimeout,
	}
}

// WithModel returns a copy of the config using model. An empty model keeps the current one.
func (c *Config) WithModel(model string) *Config {
	next := *c
	if model != "" {
		next.Model = model
	}
	return &next
}

// WithTimeout returns a copy of the config using timeout. Non-positive values keep the current one.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	next := *c
	if timeout > 0 {
		next.Timeout = timeout
	}
	return &next
}
