package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cognicore/seoscope/internal/fetch"
	"github.com/cognicore/seoscope/internal/logging"
	"github.com/cognicore/seoscope/internal/server"
	"github.com/cognicore/seoscope/pkg/seoscope/embed"
	"github.com/cognicore/seoscope/pkg/seoscope/generate"
	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
)

// Settings are the process settings read from the config file, SEOSCOPE_*
// environment variables and flags.
type Settings struct {
	Log logging.Config `mapstructure:"log"`
	// DB is the SQLite path; empty keeps results in memory.
	DB string `mapstructure:"db"`

	Stoplist       string `mapstructure:"stoplist"`
	Lexicon        string `mapstructure:"lexicon"`
	Segmenter      string `mapstructure:"segmenter"`
	PromptTemplate string `mapstructure:"prompt_template"`

	// Language is the expected page language (ISO 639-1).
	Language       string `mapstructure:"language"`
	DetectLanguage bool   `mapstructure:"detect_language"`

	Embedding embed.Config    `mapstructure:"embedding"`
	Fetch     fetch.Config    `mapstructure:"fetch"`
	Generator generate.Config `mapstructure:"generator"`
	Server    server.Config   `mapstructure:"server"`
}

// Validate reports unusable settings as internalerr.ErrInvalidConfig.
func (s Settings) Validate() error {
	switch s.Segmenter {
	case "", "kagome", "unicode":
	default:
		return fmt.Errorf("%w: unknown segmenter %q", internalerr.ErrInvalidConfig, s.Segmenter)
	}
	// 0 trains with one worker per available CPU.
	if s.Embedding.Workers < 0 {
		return fmt.Errorf("%w: embedding workers must not be negative", internalerr.ErrInvalidConfig)
	}
	if err := s.Embedding.Validate(); err != nil {
		return err
	}
	switch strings.ToLower(s.Generator.Backend) {
	case "", generate.BackendOpenAI, generate.BackendGemini, generate.BackendLocal:
	default:
		return fmt.Errorf("%w: unknown generator backend %q", internalerr.ErrInvalidConfig, s.Generator.Backend)
	}
	if s.Fetch.Concurrency < 0 || s.Fetch.RatePerHost < 0 || s.Fetch.Timeout < 0 {
		return fmt.Errorf("%w: fetch settings must not be negative", internalerr.ErrInvalidConfig)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("log.output_paths", []string{"stderr"})

	v.SetDefault("db", "")
	v.SetDefault("stoplist", "")
	v.SetDefault("lexicon", "")
	v.SetDefault("segmenter", "kagome")
	v.SetDefault("prompt_template", "")
	v.SetDefault("language", "ja")
	v.SetDefault("detect_language", false)

	emb := embed.DefaultConfig()
	v.SetDefault("embedding.dim", emb.Dim)
	v.SetDefault("embedding.window", emb.Window)
	v.SetDefault("embedding.min_count", emb.MinCount)
	v.SetDefault("embedding.workers", emb.Workers)
	v.SetDefault("embedding.epochs", emb.Epochs)
	v.SetDefault("embedding.negative", emb.Negative)
	v.SetDefault("embedding.alpha", emb.Alpha)
	v.SetDefault("embedding.min_alpha", emb.MinAlpha)
	v.SetDefault("embedding.sample", emb.Sample)
	v.SetDefault("embedding.seed", emb.Seed)

	v.SetDefault("fetch.user_agent", fetch.DefaultUserAgent)
	v.SetDefault("fetch.timeout", fetch.DefaultTimeout)
	v.SetDefault("fetch.concurrency", fetch.DefaultConcurrency)
	v.SetDefault("fetch.rate_per_host", 1.0)
	v.SetDefault("fetch.respect_robots", false)

	v.SetDefault("generator.backend", generate.BackendOpenAI)
	v.SetDefault("generator.base_url", "")
	v.SetDefault("generator.model", "")
	v.SetDefault("generator.api_key", "")
	v.SetDefault("generator.system", "")
	v.SetDefault("generator.temperature", 0.7)
	v.SetDefault("generator.max_tokens", 0)
	v.SetDefault("generator.timeout", "2m")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.debug", false)
	v.SetDefault("server.max_body_bytes", 32<<20)
}

// loadSettings reads cfgFile (or seoscope.yaml from the working directory
// when empty), overlays the environment and validates the result.
func loadSettings(v *viper.Viper, cfgFile string) (Settings, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("seoscope")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("seoscope")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.BindEnv("generator.api_key", "SEOSCOPE_GENERATOR_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return Settings{}, fmt.Errorf("bind generator api key: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("%w: read config: %v", internalerr.ErrInvalidConfig, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("%w: decode settings: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
