package container

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finback/ledgermatch/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.CSV.Delimiter = ","
	cfg.CSV.DateFormat = "2006-01-02"
	cfg.Matching.AmountTolerancePct = 0.5
	cfg.Matching.DateWindowDays = 3
	cfg.Categorization.ConfidenceThreshold = 0.7
	cfg.Categorization.UseHistoricalPatterns = true
	cfg.Data.Directory = t.TempDir()
	cfg.Data.PatternsFile = "patterns.yaml"
	cfg.Data.ChartFile = "chart.yaml"
	return cfg
}

func TestNewContainer(t *testing.T) {
	c, err := NewContainer(testConfig(t))
	require.NoError(t, err)

	assert.NotNil(t, c.GetLogger())
	assert.NotNil(t, c.GetConfig())
	assert.NotNil(t, c.GetPatternStore())
	assert.NotNil(t, c.GetCSVLoader())
	assert.NotNil(t, c.GetChartLoader())
	assert.NotNil(t, c.GetReportWriter())
	assert.NotNil(t, c.GetEngine())
}

func TestNewContainerNilConfigFails(t *testing.T) {
	_, err := NewContainer(nil)
	assert.Error(t, err)
}

func TestContainerEngineRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	c, err := NewContainer(cfg)
	require.NoError(t, err)

	// A correction recorded through the engine lands in the configured
	// pattern file.
	require.NoError(t, c.GetEngine().RecordCorrection("Acme Corp", "6100"))

	patterns, err := c.GetPatternStore().Load()
	require.NoError(t, err)
	require.Equal(t, 1, patterns.Len())
	assert.Equal(t, "acme", patterns.Entries()[0].VendorKey)

	assert.FileExists(t, filepath.Join(cfg.Data.Directory, "patterns.yaml"))
}
