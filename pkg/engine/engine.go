// Package engine is the public facade of the matching and classification
// engine. It wires the matcher, classifier, and pattern store behind three
// operations: Reconcile, Categorize, and RecordCorrection.
package engine

import (
	"finback/ledgermatch/internal/classifier"
	"finback/ledgermatch/internal/logging"
	"finback/ledgermatch/internal/matcher"
	"finback/ledgermatch/internal/models"
	"finback/ledgermatch/internal/reasoner"
	"finback/ledgermatch/internal/store"
)

// Engine bundles the matching and classification services over a shared
// pattern store. It holds no per-run state; the pattern snapshot is read
// fresh at the start of every categorization run.
type Engine struct {
	matchCfg    matcher.Config
	classifyCfg classifier.Config
	patterns    store.PatternStore
	enricher    reasoner.Enricher
	logger      logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMatcherConfig overrides the reconciliation tolerances.
func WithMatcherConfig(cfg matcher.Config) Option {
	return func(e *Engine) { e.matchCfg = cfg }
}

// WithClassifierConfig overrides the categorization options.
func WithClassifierConfig(cfg classifier.Config) Option {
	return func(e *Engine) { e.classifyCfg = cfg }
}

// WithEnricher attaches an optional external explanation service used to
// augment exception reasoning. The engine works fully without one.
func WithEnricher(enricher reasoner.Enricher) Option {
	return func(e *Engine) { e.enricher = enricher }
}

// WithLogger sets the logger shared by all engine components.
func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an Engine over the given pattern store. A nil store runs the
// classifier without learned patterns and makes RecordCorrection a no-op on
// an in-memory store.
func New(patterns store.PatternStore, opts ...Option) *Engine {
	e := &Engine{
		matchCfg:    matcher.DefaultConfig(),
		classifyCfg: classifier.DefaultConfig(),
		patterns:    patterns,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.patterns == nil {
		e.patterns = store.NewMemoryPatternStore()
	}
	if e.logger == nil {
		e.logger = logging.NewLogrusAdapter("info", "text")
	}
	return e
}

// Reconcile matches transactions from the payment gateway, the bank, and
// the internal ledger.
func (e *Engine) Reconcile(gateway, bank, internal []models.Transaction) (*matcher.Result, error) {
	m := matcher.New(e.matchCfg, e.logger)
	if e.enricher != nil {
		m = m.WithEnricher(e.enricher)
	}
	return m.Reconcile(gateway, bank, internal)
}

// Categorize scores transactions against the GL chart. The pattern store is
// read once per run; a failed read degrades to a cold start with a warning
// rather than failing the run.
func (e *Engine) Categorize(txns []models.Transaction, accounts []models.GLAccount, history []models.CategoryResult) (*classifier.Result, error) {
	snapshot, err := e.patterns.Load()
	if err != nil {
		e.logger.WithError(err).Warn("Pattern store unavailable, categorizing without learned patterns")
		snapshot = nil
	}

	c := classifier.New(snapshot, e.classifyCfg, e.logger)
	return c.Categorize(txns, accounts, history)
}

// RecordCorrection persists a user correction mapping a vendor to a GL
// account. This is the only write path into the pattern store.
func (e *Engine) RecordCorrection(vendorName, accountCode string) error {
	if err := e.patterns.Record(vendorName, accountCode); err != nil {
		e.logger.WithError(err).Error("Failed to record correction",
			logging.Field{Key: "vendor", Value: vendorName},
			logging.Field{Key: "account", Value: accountCode})
		return err
	}
	e.logger.Info("Recorded correction",
		logging.Field{Key: "vendor", Value: vendorName},
		logging.Field{Key: "account", Value: accountCode})
	return nil
}
