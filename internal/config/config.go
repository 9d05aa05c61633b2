// Package config provides configuration loading for the test harness.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/common"
)

// NLPConfig locates the classifier service and tunes its client.
type NLPConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	AdminURL   string        `mapstructure:"admin_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// RunnerConfig tunes the bulk corpus runner.
type RunnerConfig struct {
	Workers  int  `mapstructure:"workers"`
	Progress bool `mapstructure:"progress"`
}

// SearchConfig holds the immutable parameters of one optimization run.
type SearchConfig struct {
	PopulationSize  int     `mapstructure:"population_size"`
	Generations     int     `mapstructure:"generations"`
	MutationRate    float64 `mapstructure:"mutation_rate"`
	CrossoverRate   float64 `mapstructure:"crossover_rate"`
	EliteFraction   float64 `mapstructure:"elite_fraction"`
	MinImprovement  float64 `mapstructure:"min_improvement"`
	TargetLatencyMS float64 `mapstructure:"target_latency_ms"`
	PlateauWindow   int     `mapstructure:"plateau_window"`
	Seed            int64   `mapstructure:"seed"`
	// Original production ensemble configuration, reinstated after every
	// weight-search run.
	OriginalMode       string  `mapstructure:"original_mode"`
	OriginalDepression float64 `mapstructure:"original_depression_weight"`
	OriginalSentiment  float64 `mapstructure:"original_sentiment_weight"`
	OriginalDistress   float64 `mapstructure:"original_distress_weight"`
}

// Config is the full application configuration.
type Config struct {
	NLP      NLPConfig    `mapstructure:"nlp"`
	Runner   RunnerConfig `mapstructure:"runner"`
	Search   SearchConfig `mapstructure:"search"`
	Dataset  string       `mapstructure:"dataset"`
	Database string       `mapstructure:"database"`
}

// SetDefaults registers default values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("nlp.base_url", "http://localhost:8881")
	v.SetDefault("nlp.admin_url", "http://localhost:8881")
	v.SetDefault("nlp.timeout", 30*time.Second)
	v.SetDefault("nlp.max_retries", 3)
	v.SetDefault("nlp.retry_delay", 2*time.Second)

	v.SetDefault("runner.workers", 4)
	v.SetDefault("runner.progress", true)

	v.SetDefault("search.population_size", 12)
	v.SetDefault("search.generations", 10)
	v.SetDefault("search.mutation_rate", 0.3)
	v.SetDefault("search.crossover_rate", 0.7)
	v.SetDefault("search.elite_fraction", 0.2)
	v.SetDefault("search.min_improvement", 2.0)
	v.SetDefault("search.target_latency_ms", 500.0)
	v.SetDefault("search.plateau_window", 5)
	v.SetDefault("search.seed", 0)
	v.SetDefault("search.original_mode", "weighted_average")
	v.SetDefault("search.original_depression_weight", 0.5)
	v.SetDefault("search.original_sentiment_weight", 0.2)
	v.SetDefault("search.original_distress_weight", 0.3)

	v.SetDefault("dataset", "")
	v.SetDefault("database", DatabasePath())
}

// Load unmarshals the viper state into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	if cfg.NLP.BaseURL == "" {
		return nil, fmt.Errorf("%w: nlp.base_url is required", common.ErrMissingConfig)
	}
	if cfg.NLP.AdminURL == "" {
		cfg.NLP.AdminURL = cfg.NLP.BaseURL
	}
	if cfg.Runner.Workers < 1 {
		cfg.Runner.Workers = 1
	}
	if err := validateSearch(cfg.Search); err != nil {
		return nil, err
	}

	cfg.Dataset = ExpandPath(cfg.Dataset)
	cfg.Database = ExpandPath(cfg.Database)
	return &cfg, nil
}

func validateSearch(s SearchConfig) error {
	if s.PopulationSize < 2 {
		return fmt.Errorf("%w: search.population_size must be at least 2, got %d", common.ErrInvalidConfig, s.PopulationSize)
	}
	if s.Generations < 1 {
		return fmt.Errorf("%w: search.generations must be at least 1, got %d", common.ErrInvalidConfig, s.Generations)
	}
	if s.MutationRate < 0 || s.MutationRate > 1 {
		return fmt.Errorf("%w: search.mutation_rate must be in [0,1], got %.2f", common.ErrInvalidConfig, s.MutationRate)
	}
	if s.CrossoverRate < 0 || s.CrossoverRate > 1 {
		return fmt.Errorf("%w: search.crossover_rate must be in [0,1], got %.2f", common.ErrInvalidConfig, s.CrossoverRate)
	}
	if s.EliteFraction < 0 || s.EliteFraction >= 1 {
		return fmt.Errorf("%w: search.elite_fraction must be in [0,1), got %.2f", common.ErrInvalidConfig, s.EliteFraction)
	}
	return nil
}
