// Package generate turns an article brief into article text through a
// configurable language-model backend.
package generate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cognicore/seoscope/internal/llm"
	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
)

// ErrGeneration wraps every backend failure.
var ErrGeneration = errors.New("article generation failed")

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts a function to Generator.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Generate(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

// Backend names.
const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
	BackendLocal  = "local"
)

var defaults = map[string]struct{ baseURL, model string }{
	BackendOpenAI: {"https://api.openai.com/v1/chat/completions", "gpt-4o-mini"},
	BackendGemini: {"https://generativelanguage.googleapis.com/v1beta/openai/chat/completions", "gemini-2.0-flash"},
	BackendLocal:  {"", ""},
}

// Config selects and configures a backend.
type Config struct {
	Backend     string        `mapstructure:"backend" yaml:"backend"`
	BaseURL     string        `mapstructure:"base_url" yaml:"base_url"`
	Model       string        `mapstructure:"model" yaml:"model"`
	APIKey      string        `mapstructure:"api_key" yaml:"api_key"`
	System      string        `mapstructure:"system" yaml:"system"`
	Temperature float64       `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// withDefaults fills backend defaults and reports missing settings.
func (c Config) withDefaults() (Config, error) {
	backend := strings.ToLower(strings.TrimSpace(c.Backend))
	if backend == "" {
		backend = BackendOpenAI
	}
	d, ok := defaults[backend]
	if !ok {
		return c, fmt.Errorf("%w: unknown generator backend %q", internalerr.ErrInvalidConfig, c.Backend)
	}
	c.Backend = backend
	if c.BaseURL == "" {
		c.BaseURL = d.baseURL
	}
	if c.Model == "" {
		c.Model = d.model
	}
	if c.BaseURL == "" || c.Model == "" {
		return c, fmt.Errorf("%w: %s backend needs base_url and model", internalerr.ErrInvalidConfig, backend)
	}
	if backend != BackendLocal && c.APIKey == "" {
		return c, fmt.Errorf("%w: %s backend needs an API key", internalerr.ErrInvalidConfig, backend)
	}
	if c.Timeout <= 0 {
		c.Timeout = llm.DefaultTimeout
	}
	return c, nil
}

// Validate reports whether cfg can build a generator.
func (c Config) Validate() error {
	_, err := c.withDefaults()
	return err
}

// ChatGenerator generates through a chat-completions endpoint.
type ChatGenerator struct {
	backend string
	system  string
	client  *llm.Client
}

// New builds the generator cfg selects.
func New(cfg Config) (*ChatGenerator, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	return &ChatGenerator{
		backend: cfg.Backend,
		system:  cfg.System,
		client: &llm.Client{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			HTTPClient:  &http.Client{Timeout: cfg.Timeout},
		},
	}, nil
}

// Backend returns the selected backend name.
func (g *ChatGenerator) Backend() string { return g.backend }

// Generate returns the generated article text.
func (g *ChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: empty prompt", ErrGeneration)
	}
	out, err := g.client.Chat(ctx, g.system, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrGeneration, g.backend, err)
	}
	if out == "" {
		return "", fmt.Errorf("%w: %s returned no text", ErrGeneration, g.backend)
	}
	return out, nil
}
