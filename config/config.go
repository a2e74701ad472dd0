package config

import (
	"errors"
	"fmt"
)

// Config is the effective configuration of one run. Every field holds a
// concrete value once it is returned by Resolve.
type Config struct {
	Simulations     int     `yaml:"simulations"`
	Depth           int     `yaml:"depth"`
	Lambda          float64 `yaml:"lambda_arg"`
	Trials          int     `yaml:"trials"`
	Iterations      int     `yaml:"iterations"`
	CollisionReward float64 `yaml:"collision"`
	LossReward      float64 `yaml:"loss"`
	Plotting        bool    `yaml:"plotting"`
}

// Layer is one source of configuration values. A nil field means the source
// does not specify that parameter and the lower precedence layer wins.
type Layer struct {
	Simulations     *int
	Depth           *int
	Lambda          *float64
	Trials          *int
	Iterations      *int
	CollisionReward *float64
	LossReward      *float64
	Plotting        *bool
}

// ConfigError reports a parameter that could not be resolved or parsed.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var ErrUnresolved = errors.New("no value after merging defaults, file and command line")

// Defaults returns the built-in MCTS defaults. Each call builds a new Layer,
// so callers may modify the result without affecting other runs.
func Defaults() Layer {
	return Layer{
		Lambda:          Value(0.8),
		CollisionReward: Value(-2.0),
		LossReward:      Value(-2.0),
		Depth:           Value(10),
		Simulations:     Value(500),
		Plotting:        Value(false),
		Trials:          Value(100),
		Iterations:      Value(500),
	}
}

// Value returns a pointer to a copy of v, for building layers inline.
func Value[T any](v T) *T {
	return &v
}

// Resolve merges the layers with precedence cli > file > defaults and returns
// a new Config. None of the input layers are modified.
func Resolve(defaults, file, cli Layer) (Config, error) {
	layers := []Layer{cli, file, defaults}
	var cfg Config
	var err error

	if cfg.Simulations, err = pick("simulations", layers, func(l Layer) *int { return l.Simulations }); err != nil {
		return Config{}, err
	}
	if cfg.Depth, err = pick("depth", layers, func(l Layer) *int { return l.Depth }); err != nil {
		return Config{}, err
	}
	if cfg.Lambda, err = pick("lambda_arg", layers, func(l Layer) *float64 { return l.Lambda }); err != nil {
		return Config{}, err
	}
	if cfg.Trials, err = pick("trials", layers, func(l Layer) *int { return l.Trials }); err != nil {
		return Config{}, err
	}
	if cfg.Iterations, err = pick("iterations", layers, func(l Layer) *int { return l.Iterations }); err != nil {
		return Config{}, err
	}
	if cfg.CollisionReward, err = pick("collision", layers, func(l Layer) *float64 { return l.CollisionReward }); err != nil {
		return Config{}, err
	}
	if cfg.LossReward, err = pick("loss", layers, func(l Layer) *float64 { return l.LossReward }); err != nil {
		return Config{}, err
	}
	if cfg.Plotting, err = pick("plotting", layers, func(l Layer) *bool { return l.Plotting }); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// pick returns the first value set in layers, ordered from highest precedence.
func pick[T any](field string, layers []Layer, get func(Layer) *T) (T, error) {
	for _, layer := range layers {
		if v := get(layer); v != nil {
			return *v, nil
		}
	}
	var zero T
	return zero, &ConfigError{Field: field, Err: ErrUnresolved}
}

// Validate rejects counts that would leave the trial loop with nothing to do.
func (c Config) Validate() error {
	positive := []struct {
		field string
		value int
	}{
		{"trials", c.Trials},
		{"iterations", c.Iterations},
		{"simulations", c.Simulations},
		{"depth", c.Depth},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return &ConfigError{Field: p.field, Err: fmt.Errorf("must be positive, got %d", p.value)}
		}
	}
	return nil
}
