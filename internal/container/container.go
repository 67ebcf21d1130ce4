// Package container provides dependency injection for the application. It
// centralizes the creation and wiring of all dependencies, making them
// explicit and testable.
package container

import (
	"fmt"
	"path/filepath"

	"finback/ledgermatch/internal/classifier"
	"finback/ledgermatch/internal/config"
	"finback/ledgermatch/internal/loader"
	"finback/ledgermatch/internal/logging"
	"finback/ledgermatch/internal/matcher"
	"finback/ledgermatch/internal/report"
	"finback/ledgermatch/internal/store"
	"finback/ledgermatch/pkg/engine"
)

// Container holds all application dependencies. It is immutable after
// creation; dependencies are reached through getter methods only.
type Container struct {
	logger       logging.Logger
	config       *config.Config
	patternStore store.PatternStore
	csvLoader    *loader.CSVLoader
	chartLoader  *loader.ChartLoader
	reportWriter *report.Writer
	engine       *engine.Engine
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Logger first, everything else wants one.
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	patternsPath := cfg.Data.PatternsFile
	if cfg.Data.Directory != "" {
		patternsPath = filepath.Join(cfg.Data.Directory, cfg.Data.PatternsFile)
	}
	patternStore := store.NewYAMLPatternStore(patternsPath, logger)

	delimiter := []rune(cfg.CSV.Delimiter)[0]
	csvLoader := loader.NewCSVLoader(cfg.CSV.DateFormat, delimiter, logger)
	chartLoader := loader.NewChartLoader(logger)
	reportWriter := report.NewWriter(delimiter, logger)

	eng := engine.New(patternStore,
		engine.WithLogger(logger),
		engine.WithMatcherConfig(matcher.Config{
			AmountTolerancePct: cfg.Matching.AmountTolerancePct,
			DateWindowDays:     cfg.Matching.DateWindowDays,
		}),
		engine.WithClassifierConfig(classifier.Config{
			ConfidenceThreshold:   cfg.Categorization.ConfidenceThreshold,
			UseHistoricalPatterns: cfg.Categorization.UseHistoricalPatterns,
		}),
	)

	logger.Info("Container initialized",
		logging.Field{Key: "patterns_file", Value: patternsPath},
		logging.Field{Key: "amount_tolerance_pct", Value: cfg.Matching.AmountTolerancePct},
		logging.Field{Key: "date_window_days", Value: cfg.Matching.DateWindowDays})

	return &Container{
		logger:       logger,
		config:       cfg,
		patternStore: patternStore,
		csvLoader:    csvLoader,
		chartLoader:  chartLoader,
		reportWriter: reportWriter,
		engine:       eng,
	}, nil
}

// GetLogger returns the application logger.
func (c *Container) GetLogger() logging.Logger { return c.logger }

// GetConfig returns the application configuration.
func (c *Container) GetConfig() *config.Config { return c.config }

// GetPatternStore returns the learned-pattern store.
func (c *Container) GetPatternStore() store.PatternStore { return c.patternStore }

// GetCSVLoader returns the transaction CSV loader.
func (c *Container) GetCSVLoader() *loader.CSVLoader { return c.csvLoader }

// GetChartLoader returns the GL chart loader.
func (c *Container) GetChartLoader() *loader.ChartLoader { return c.chartLoader }

// GetReportWriter returns the CSV report writer.
func (c *Container) GetReportWriter() *report.Writer { return c.reportWriter }

// GetEngine returns the matching and classification engine.
func (c *Container) GetEngine() *engine.Engine { return c.engine }
