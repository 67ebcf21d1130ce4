package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finback/ledgermatch/internal/logging"
	"finback/ledgermatch/internal/models"
)

func TestYAMLPatternStoreColdStart(t *testing.T) {
	mockLog := &logging.MockLogger{}
	s := NewYAMLPatternStore(filepath.Join(t.TempDir(), "patterns.yaml"), mockLog)

	patterns, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, patterns.Len())
	assert.True(t, mockLog.HasEntry("WARN", "Pattern file not found, starting with empty store"))
}

func TestYAMLPatternStoreRecordAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	s := NewYAMLPatternStore(path, &logging.MockLogger{})

	require.NoError(t, s.Record("Acme Inc", "6100"))
	require.NoError(t, s.Record("Acme, LLC", "6100")) // same normalized key
	require.NoError(t, s.Record("Globex Corp", "4000"))

	patterns, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, 2, patterns.Len())

	acme := patterns.FindExact("acme", "6100")
	require.NotNil(t, acme)
	assert.Equal(t, 2, acme.Observations)

	globex := patterns.FindExact("globex", "4000")
	require.NotNil(t, globex)
	assert.Equal(t, 1, globex.Observations)
}

func TestYAMLPatternStoreRejectsEmptyInputs(t *testing.T) {
	s := NewYAMLPatternStore(filepath.Join(t.TempDir(), "patterns.yaml"), &logging.MockLogger{})

	assert.Error(t, s.Record("   ", "6100"))
	assert.Error(t, s.Record("Acme", ""))
}

func TestYAMLPatternStoreReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	s := NewYAMLPatternStore(path, &logging.MockLogger{})

	require.NoError(t, s.Record("Acme", "6100"))
	require.NoError(t, s.Reset())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Resetting an already empty store is fine.
	assert.NoError(t, s.Reset())
}

func TestYAMLPatternStoreMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0644))

	s := NewYAMLPatternStore(path, &logging.MockLogger{})
	_, err := s.Load()
	assert.Error(t, err)
}

func TestMemoryPatternStoreRecord(t *testing.T) {
	s := NewMemoryPatternStore()

	require.NoError(t, s.Record("Acme Inc", "6100"))
	require.NoError(t, s.Record("Acme Inc", "6100"))

	patterns, err := s.Load()
	require.NoError(t, err)
	p := patterns.FindExact("acme", "6100")
	require.NotNil(t, p)
	assert.Equal(t, 2, p.Observations)
}

func TestPatternsFindExactConstraint(t *testing.T) {
	patterns := NewPatterns([]models.LearnedPattern{
		{VendorKey: "acme", Target: "6100", Observations: 3},
		{VendorKey: "acme", Target: "6200", Observations: 1},
	})

	// Constrained lookup honors the target.
	p := patterns.FindExact("acme", "6200")
	require.NotNil(t, p)
	assert.Equal(t, "6200", p.Target)

	// Unconstrained lookup returns the first-encountered entry.
	p = patterns.FindExact("acme", "")
	require.NotNil(t, p)
	assert.Equal(t, "6100", p.Target)

	assert.Nil(t, patterns.FindExact("globex", ""))
	assert.Nil(t, patterns.FindExact("", "6100"))
}

func TestPatternsFindFuzzy(t *testing.T) {
	patterns := NewPatterns([]models.LearnedPattern{
		{VendorKey: "starbucks", Target: "6300", Observations: 5},
		{VendorKey: "stripepayments", Target: "6400", Observations: 2},
	})

	// Close key finds the pattern.
	p := patterns.FindFuzzy("starbcks", "6300", 0.75)
	require.NotNil(t, p)
	assert.Equal(t, "starbucks", p.VendorKey)

	// Below the similarity floor nothing matches.
	assert.Nil(t, patterns.FindFuzzy("walmart", "6300", 0.75))

	// Constraint filters candidates before scoring.
	assert.Nil(t, patterns.FindFuzzy("starbcks", "6400", 0.75))
}

func TestPatternsFindFuzzyTieKeepsFirst(t *testing.T) {
	// Both keys are the same distance from the probe; the snapshot's
	// stable order decides the winner.
	patterns := NewPatterns([]models.LearnedPattern{
		{VendorKey: "vendora", Target: "6100", Observations: 1},
		{VendorKey: "vendorb", Target: "6100", Observations: 9},
	})

	p := patterns.FindFuzzy("vendorc", "6100", 0.5)
	require.NotNil(t, p)
	assert.Equal(t, "vendora", p.VendorKey)
}

func TestPatternsDuplicateEntriesKeepFirst(t *testing.T) {
	patterns := NewPatterns([]models.LearnedPattern{
		{VendorKey: "acme", Target: "6100", Observations: 3},
		{VendorKey: "acme", Target: "6100", Observations: 7},
	})

	require.Equal(t, 1, patterns.Len())
	p := patterns.FindExact("acme", "6100")
	require.NotNil(t, p)
	assert.Equal(t, 3, p.Observations)
}
