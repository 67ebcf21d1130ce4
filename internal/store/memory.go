package store

import (
	"finback/ledgermatch/internal/engineerror"
	"finback/ledgermatch/internal/models"
	"finback/ledgermatch/internal/textutil"
)

// MemoryPatternStore keeps learned patterns in memory. It is used in tests
// and by embedders that manage persistence themselves.
type MemoryPatternStore struct {
	entries []models.LearnedPattern

	// LoadErr, when set, is returned by Load. Tests use it to exercise
	// the cold-start degradation path.
	LoadErr error
}

// NewMemoryPatternStore creates an empty in-memory store.
func NewMemoryPatternStore() *MemoryPatternStore {
	return &MemoryPatternStore{}
}

// Load returns a snapshot of the current entries.
func (s *MemoryPatternStore) Load() (*Patterns, error) {
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return NewPatterns(s.entries), nil
}

// Record upserts a correction in memory.
func (s *MemoryPatternStore) Record(vendorName, target string) error {
	key := textutil.NormalizeVendorKey(vendorName)
	if key == "" {
		return engineerror.NewInputError("vendor", "name normalizes to an empty key")
	}
	if target == "" {
		return engineerror.NewInputError("target", "must not be empty")
	}
	s.entries = upsert(s.entries, key, target)
	return nil
}

// Reset drops all entries.
func (s *MemoryPatternStore) Reset() error {
	s.entries = nil
	return nil
}
