package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"finback/ledgermatch/internal/engineerror"
	"finback/ledgermatch/internal/logging"
	"finback/ledgermatch/internal/models"
	"finback/ledgermatch/internal/textutil"
)

// PatternStore is the learned-pattern persistence boundary. It is injected
// into the engine rather than accessed as a singleton, so the learning loop
// stays testable and the scoring pass stays pure given a snapshot.
//
// Record is a read-then-upsert and is not atomic across concurrent callers;
// the caller serializes corrections.
type PatternStore interface {
	// Load reads a stable snapshot of all learned patterns.
	Load() (*Patterns, error)

	// Record upserts a correction: the vendor name is normalized and the
	// observation count for (key, target) is incremented, inserting with
	// count 1 when the pair is new.
	Record(vendorName, target string) error

	// Reset removes all learned patterns.
	Reset() error
}

// YAMLPatternStore persists learned patterns to a YAML file.
type YAMLPatternStore struct {
	Path   string
	logger logging.Logger
}

// NewYAMLPatternStore creates a store backed by the given YAML file.
func NewYAMLPatternStore(path string, logger logging.Logger) *YAMLPatternStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &YAMLPatternStore{
		Path:   path,
		logger: logger,
	}
}

// Load reads the pattern file. A missing file is a cold start, not an
// error: an empty snapshot is returned and a warning logged.
func (s *YAMLPatternStore) Load() (*Patterns, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WithField("path", s.Path).Warn("Pattern file not found, starting with empty store")
			return NewPatterns(nil), nil
		}
		return nil, &engineerror.StoreError{Op: "read", Path: s.Path, Err: err}
	}

	var cfg models.PatternsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &engineerror.StoreError{Op: "parse", Path: s.Path, Err: err}
	}

	s.logger.WithFields(
		logging.Field{Key: "path", Value: s.Path},
		logging.Field{Key: "count", Value: len(cfg.Patterns)},
	).Debug("Loaded learned patterns")

	return NewPatterns(cfg.Patterns), nil
}

// Record upserts a single correction and writes the file back.
func (s *YAMLPatternStore) Record(vendorName, target string) error {
	key := textutil.NormalizeVendorKey(vendorName)
	if key == "" {
		return engineerror.NewInputError("vendor", "name normalizes to an empty key")
	}
	if target == "" {
		return engineerror.NewInputError("target", "must not be empty")
	}

	snapshot, err := s.Load()
	if err != nil {
		return err
	}

	entries := upsert(snapshot.Entries(), key, target)
	return s.save(entries)
}

// Reset removes the pattern file entirely.
func (s *YAMLPatternStore) Reset() error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return &engineerror.StoreError{Op: "reset", Path: s.Path, Err: err}
	}
	return nil
}

func (s *YAMLPatternStore) save(entries []models.LearnedPattern) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &engineerror.StoreError{Op: "write", Path: s.Path, Err: fmt.Errorf("creating directory: %w", err)}
	}

	data, err := yaml.Marshal(models.PatternsConfig{Patterns: entries})
	if err != nil {
		return &engineerror.StoreError{Op: "write", Path: s.Path, Err: err}
	}

	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return &engineerror.StoreError{Op: "write", Path: s.Path, Err: err}
	}

	s.logger.WithFields(
		logging.Field{Key: "path", Value: s.Path},
		logging.Field{Key: "count", Value: len(entries)},
	).Debug("Saved learned patterns")
	return nil
}

// upsert increments the observation count for an existing (key, target)
// pair or appends a new entry with count 1.
func upsert(entries []models.LearnedPattern, key, target string) []models.LearnedPattern {
	for i := range entries {
		if entries[i].VendorKey == key && entries[i].Target == target {
			entries[i].Observations++
			return entries
		}
	}
	return append(entries, models.LearnedPattern{
		VendorKey:    key,
		Target:       target,
		Observations: 1,
	})
}
