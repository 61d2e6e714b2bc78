// Package embed trains small skip-gram word embeddings over a page corpus and
// answers nearest-neighbour queries against them.
package embed

import (
	"fmt"
	"runtime"

	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
)

const (
	// DefaultDim is the vector dimensionality.
	DefaultDim = 100
	// DefaultWindow is the maximum distance between a token and its context.
	DefaultWindow = 5
	// DefaultMinCount drops tokens seen fewer times from the vocabulary.
	DefaultMinCount = 2
	// DefaultWorkers bounds training parallelism.
	DefaultWorkers = 4
)

// Config holds training hyperparameters.
type Config struct {
	Dim      int `mapstructure:"dim" yaml:"dim"`
	Window   int `mapstructure:"window" yaml:"window"`
	MinCount int `mapstructure:"min_count" yaml:"min_count"`
	// Workers <= 0 means one per available CPU.
	Workers  int `mapstructure:"workers" yaml:"workers"`
	Epochs   int `mapstructure:"epochs" yaml:"epochs"`
	Negative int `mapstructure:"negative" yaml:"negative"`

	Alpha    float64 `mapstructure:"alpha" yaml:"alpha"`
	MinAlpha float64 `mapstructure:"min_alpha" yaml:"min_alpha"`
	// Sample is the frequent-token downsampling threshold; 0 disables it.
	Sample float64 `mapstructure:"sample" yaml:"sample"`

	// Seed fixes initialisation; 0 draws a random seed.
	Seed uint64 `mapstructure:"seed" yaml:"seed"`
}

// DefaultConfig returns the hyperparameters used for every analysis run.
func DefaultConfig() Config {
	return Config{
		Dim:      DefaultDim,
		Window:   DefaultWindow,
		MinCount: DefaultMinCount,
		Workers:  DefaultWorkers,
		Epochs:   5,
		Negative: 5,
		Alpha:    0.025,
		MinAlpha: 0.0001,
		Sample:   1e-3,
	}
}

// Validate rejects unusable settings.
func (c Config) Validate() error {
	switch {
	case c.Dim < 1:
		return fmt.Errorf("%w: embedding dim must be positive", internalerr.ErrInvalidConfig)
	case c.Window < 1:
		return fmt.Errorf("%w: embedding window must be positive", internalerr.ErrInvalidConfig)
	case c.MinCount < 1:
		return fmt.Errorf("%w: embedding min_count must be positive", internalerr.ErrInvalidConfig)
	case c.Epochs < 1:
		return fmt.Errorf("%w: embedding epochs must be positive", internalerr.ErrInvalidConfig)
	case c.Negative < 1:
		return fmt.Errorf("%w: embedding negative must be positive", internalerr.ErrInvalidConfig)
	case c.Alpha <= 0 || c.MinAlpha < 0 || c.MinAlpha > c.Alpha:
		return fmt.Errorf("%w: embedding learning rates out of range", internalerr.ErrInvalidConfig)
	case c.Sample < 0:
		return fmt.Errorf("%w: embedding sample must not be negative", internalerr.ErrInvalidConfig)
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}
