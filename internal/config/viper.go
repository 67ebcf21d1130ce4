package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
		DateFormat string `mapstructure:"date_format" yaml:"date_format"`
	} `mapstructure:"csv" yaml:"csv"`

	Matching struct {
		AmountTolerancePct float64 `mapstructure:"amount_tolerance_pct" yaml:"amount_tolerance_pct"`
		DateWindowDays     int     `mapstructure:"date_window_days" yaml:"date_window_days"`
	} `mapstructure:"matching" yaml:"matching"`

	Categorization struct {
		ConfidenceThreshold   float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
		UseHistoricalPatterns bool    `mapstructure:"use_historical_patterns" yaml:"use_historical_patterns"`
	} `mapstructure:"categorization" yaml:"categorization"`

	Data struct {
		Directory    string `mapstructure:"directory" yaml:"directory"`
		PatternsFile string `mapstructure:"patterns_file" yaml:"patterns_file"`
		ChartFile    string `mapstructure:"chart_file" yaml:"chart_file"`
	} `mapstructure:"data" yaml:"data"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then LEDGERMATCH_* environment
// variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.ledgermatch")
	v.AddConfigPath(".ledgermatch")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEDGERMATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail, defaults and env vars still apply.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.date_format", "2006-01-02")

	v.SetDefault("matching.amount_tolerance_pct", 0.5)
	v.SetDefault("matching.date_window_days", 3)

	v.SetDefault("categorization.confidence_threshold", 0.7)
	v.SetDefault("categorization.use_historical_patterns", true)

	v.SetDefault("data.directory", "")
	v.SetDefault("data.patterns_file", "patterns.yaml")
	v.SetDefault("data.chart_file", "chart.yaml")
}

// validateConfig validates the configuration values.
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Matching.AmountTolerancePct <= 0 {
		return fmt.Errorf("matching.amount_tolerance_pct must be positive, got: %f", config.Matching.AmountTolerancePct)
	}

	if config.Matching.DateWindowDays < 1 {
		return fmt.Errorf("matching.date_window_days must be at least 1, got: %d", config.Matching.DateWindowDays)
	}

	if config.Categorization.ConfidenceThreshold < 0.0 || config.Categorization.ConfidenceThreshold > 1.0 {
		return fmt.Errorf("categorization.confidence_threshold must be between 0.0 and 1.0, got: %f", config.Categorization.ConfidenceThreshold)
	}

	if config.Data.PatternsFile == "" {
		return fmt.Errorf("data.patterns_file must not be empty")
	}

	return nil
}
