package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvVars = []string{
	"LEDGERMATCH_LOG_LEVEL",
	"LEDGERMATCH_LOG_FORMAT",
	"LEDGERMATCH_CSV_DELIMITER",
	"LEDGERMATCH_MATCHING_AMOUNT_TOLERANCE_PCT",
	"LEDGERMATCH_MATCHING_DATE_WINDOW_DAYS",
	"LEDGERMATCH_CATEGORIZATION_CONFIDENCE_THRESHOLD",
	"LEDGERMATCH_CATEGORIZATION_USE_HISTORICAL_PATTERNS",
	"LEDGERMATCH_DATA_PATTERNS_FILE",
}

func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range testEnvVars {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, "2006-01-02", config.CSV.DateFormat)
	assert.Equal(t, 0.5, config.Matching.AmountTolerancePct)
	assert.Equal(t, 3, config.Matching.DateWindowDays)
	assert.Equal(t, 0.7, config.Categorization.ConfidenceThreshold)
	assert.True(t, config.Categorization.UseHistoricalPatterns)
	assert.Equal(t, "patterns.yaml", config.Data.PatternsFile)
	assert.Equal(t, "chart.yaml", config.Data.ChartFile)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)

	t.Setenv("LEDGERMATCH_LOG_LEVEL", "debug")
	t.Setenv("LEDGERMATCH_LOG_FORMAT", "json")
	t.Setenv("LEDGERMATCH_MATCHING_AMOUNT_TOLERANCE_PCT", "1.0")
	t.Setenv("LEDGERMATCH_MATCHING_DATE_WINDOW_DAYS", "7")
	t.Setenv("LEDGERMATCH_CATEGORIZATION_CONFIDENCE_THRESHOLD", "0.9")
	t.Setenv("LEDGERMATCH_CATEGORIZATION_USE_HISTORICAL_PATTERNS", "false")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, 1.0, config.Matching.AmountTolerancePct)
	assert.Equal(t, 7, config.Matching.DateWindowDays)
	assert.Equal(t, 0.9, config.Categorization.ConfidenceThreshold)
	assert.False(t, config.Categorization.UseHistoricalPatterns)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)

	tempDir := t.TempDir()
	configContent := `
log:
  level: "warn"
matching:
  amount_tolerance_pct: 2.5
  date_window_days: 5
categorization:
  confidence_threshold: 0.8
data:
  patterns_file: "learned.yaml"
`
	err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644)
	require.NoError(t, err)

	originalDir, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, os.Chdir(originalDir))
	}()
	require.NoError(t, os.Chdir(tempDir))

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, 2.5, config.Matching.AmountTolerancePct)
	assert.Equal(t, 5, config.Matching.DateWindowDays)
	assert.Equal(t, 0.8, config.Categorization.ConfidenceThreshold)
	assert.Equal(t, "learned.yaml", config.Data.PatternsFile)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)

	tempDir := t.TempDir()
	configContent := `
log:
  level: "warn"
matching:
  date_window_days: 5
`
	err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("LEDGERMATCH_LOG_LEVEL", "error")

	originalDir, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, os.Chdir(originalDir))
	}()
	require.NoError(t, os.Chdir(tempDir))

	config, err := InitializeConfig()
	require.NoError(t, err)

	// Environment variables override the config file; untouched keys keep
	// the file's values.
	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, 5, config.Matching.DateWindowDays)
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "invalid" },
			expectError:  "invalid log format",
		},
		{
			name:         "invalid CSV delimiter",
			modifyConfig: func(c *Config) { c.CSV.Delimiter = "abc" },
			expectError:  "CSV delimiter must be a single character",
		},
		{
			name:         "non-positive amount tolerance",
			modifyConfig: func(c *Config) { c.Matching.AmountTolerancePct = 0 },
			expectError:  "matching.amount_tolerance_pct must be positive",
		},
		{
			name:         "zero date window",
			modifyConfig: func(c *Config) { c.Matching.DateWindowDays = 0 },
			expectError:  "matching.date_window_days must be at least 1",
		},
		{
			name:         "confidence threshold above one",
			modifyConfig: func(c *Config) { c.Categorization.ConfidenceThreshold = 1.5 },
			expectError:  "categorization.confidence_threshold must be between 0.0 and 1.0",
		},
		{
			name:         "empty patterns file",
			modifyConfig: func(c *Config) { c.Data.PatternsFile = "" },
			expectError:  "data.patterns_file must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTestEnvVars(t)
			config, err := InitializeConfig()
			require.NoError(t, err)

			tt.modifyConfig(config)
			err = validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	clearTestEnvVars(t)
	config, err := InitializeConfig()
	require.NoError(t, err)

	config.Log.Level = "debug"
	logger := ConfigureLoggingFromConfig(config)
	assert.Equal(t, "debug", logger.GetLevel().String())

	config.Log.Level = "not-a-level"
	logger = ConfigureLoggingFromConfig(config)
	assert.Equal(t, "info", logger.GetLevel().String())
}
