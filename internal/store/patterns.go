// Package store provides the learned-pattern store consulted by the scoring
// passes and written only through the explicit correction path.
package store

import (
	"finback/ledgermatch/internal/models"
	"finback/ledgermatch/internal/textutil"
)

// Patterns is an immutable snapshot of the learned-pattern store, read once
// at the start of a run. The entry order is the stable iteration order used
// for first-encountered tie-breaking in fuzzy lookups.
type Patterns struct {
	entries []models.LearnedPattern
	index   map[string]int
}

func patternKey(vendorKey, target string) string {
	return vendorKey + "\x00" + target
}

// NewPatterns builds a snapshot from the given entries, preserving order.
// Duplicate (vendor, target) pairs keep the first occurrence.
func NewPatterns(entries []models.LearnedPattern) *Patterns {
	p := &Patterns{
		entries: make([]models.LearnedPattern, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		key := patternKey(e.VendorKey, e.Target)
		if _, exists := p.index[key]; exists {
			continue
		}
		p.index[key] = len(p.entries)
		p.entries = append(p.entries, e)
	}
	return p
}

// Len returns the number of patterns in the snapshot.
func (p *Patterns) Len() int {
	return len(p.entries)
}

// Entries returns a copy of the snapshot's entries in stable order.
func (p *Patterns) Entries() []models.LearnedPattern {
	out := make([]models.LearnedPattern, len(p.entries))
	copy(out, p.entries)
	return out
}

// FindExact returns the pattern for the given normalized vendor key,
// constrained to the given target when target is non-empty. With an empty
// target the first-encountered pattern for the key wins.
func (p *Patterns) FindExact(vendorKey, target string) *models.LearnedPattern {
	if vendorKey == "" {
		return nil
	}
	if target != "" {
		if i, ok := p.index[patternKey(vendorKey, target)]; ok {
			match := p.entries[i]
			return &match
		}
		return nil
	}
	for i := range p.entries {
		if p.entries[i].VendorKey == vendorKey {
			match := p.entries[i]
			return &match
		}
	}
	return nil
}

// FindFuzzy scans the patterns matching the target constraint and returns
// the one most similar to the given vendor key, provided the similarity is
// at or above minSimilarity. Ties keep the first-encountered pattern.
func (p *Patterns) FindFuzzy(vendorKey, target string, minSimilarity float64) *models.LearnedPattern {
	if vendorKey == "" {
		return nil
	}

	var best *models.LearnedPattern
	bestScore := 0.0

	for i := range p.entries {
		if target != "" && p.entries[i].Target != target {
			continue
		}
		score := textutil.Similarity(vendorKey, p.entries[i].VendorKey)
		if score < minSimilarity {
			continue
		}
		if best == nil || score > bestScore {
			match := p.entries[i]
			best = &match
			bestScore = score
		}
	}
	return best
}
