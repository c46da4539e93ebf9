// Package config loads a tgp run configuration with three-tier precedence:
// a YAML file, overridden by TYPEDGP_-prefixed environment variables,
// overridden by CLI flags set directly on the loaded Config.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// RunConfig is the complete configuration for one `tgp run` invocation.
type RunConfig struct {
	Grammar       string  `yaml:"grammar" koanf:"grammar" validate:"required"`
	RootType      string  `yaml:"root_type" koanf:"root_type" validate:"required"`
	Population    int     `yaml:"population" koanf:"population" validate:"gt=0"`
	Generations   int     `yaml:"generations" koanf:"generations" validate:"gt=0"`
	MaxDepth      int     `yaml:"max_depth" koanf:"max_depth" validate:"gt=0"`
	MutationRate  float64 `yaml:"mutation_rate" koanf:"mutation_rate" validate:"gte=0,lte=1"`
	CrossoverRate float64 `yaml:"crossover_rate" koanf:"crossover_rate" validate:"gte=0,lte=1"`
	Seed          int64   `yaml:"seed" koanf:"seed"`
	Dataset       string  `yaml:"dataset" koanf:"dataset"`
}

// Validate checks cross-field invariants the struct tags can't express.
func (c *RunConfig) Validate() error {
	if c.MutationRate+c.CrossoverRate > 1 {
		return fmt.Errorf("mutation_rate (%v) + crossover_rate (%v) must not exceed 1", c.MutationRate, c.CrossoverRate)
	}
	return nil
}

// Load loads a RunConfig with precedence built-in defaults < file <
// environment. The CLI flags, the last and highest-precedence tier, are
// applied by the caller on the returned struct. configPath may be empty, in which case only environment variables and
// defaults apply.
func Load(configPath string) (*RunConfig, error) {
	k := koanf.New(".")

	cfg := RunConfig{
		Population:  100,
		Generations: 50,
		MaxDepth:    6,
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: loading file %s: %w", configPath, err)
		}
	}

	// TYPEDGP_MUTATION_RATE -> mutation_rate, TYPEDGP_GRAMMAR -> grammar.
	if err := k.Load(env.Provider("TYPEDGP_", ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("config: loading environment: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	v := validator.New()
	if err := v.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation: %w", err)
	}

	return &cfg, nil
}

// envToKey maps TYPEDGP_MUTATION_RATE -> mutation_rate.
func envToKey(s string) string {
	s = strings.TrimPrefix(s, "TYPEDGP_")
	return strings.ToLower(s)
}
