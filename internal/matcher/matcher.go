// Package matcher reconciles transactions arriving from the payment
// gateway, the bank, and the internal ledger into matched groups. Matching
// is phased: full 3-way groups are formed first, then 2-way fallbacks per
// side, and whatever remains becomes an exception with near-miss reasoning.
package matcher

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finback/ledgermatch/internal/engineerror"
	"finback/ledgermatch/internal/logging"
	"finback/ledgermatch/internal/models"
	"finback/ledgermatch/internal/reasoner"
)

// Config carries the reconciliation tolerances. AmountTolerancePct is a
// percentage (0.5 means 0.5%).
type Config struct {
	AmountTolerancePct float64
	DateWindowDays     int
}

// DefaultConfig returns the tolerances used when the caller supplies none.
func DefaultConfig() Config {
	return Config{
		AmountTolerancePct: 0.5,
		DateWindowDays:     3,
	}
}

// Result is the complete outcome of one reconciliation run.
type Result struct {
	Summary    models.ReconciliationSummary
	Groups     []models.MatchGroup
	Exceptions []models.Exception
}

// Matcher performs cross-source reconciliation. Each Reconcile call works
// on its own consumed-set, so a Matcher may be shared across sequential
// runs.
type Matcher struct {
	cfg      Config
	logger   logging.Logger
	enricher reasoner.Enricher
}

// New creates a Matcher with the given tolerances.
func New(cfg Config, logger logging.Logger) *Matcher {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Matcher{
		cfg:    cfg,
		logger: logger.WithField("component", "matcher"),
	}
}

// WithEnricher attaches an optional external explanation service whose
// output augments exception reasoning.
func (m *Matcher) WithEnricher(e reasoner.Enricher) *Matcher {
	m.enricher = e
	return m
}

func (m *Matcher) validate() error {
	if m.cfg.AmountTolerancePct <= 0 {
		return engineerror.NewInputError("amount_tolerance_pct", "must be greater than zero")
	}
	if m.cfg.DateWindowDays <= 0 {
		return engineerror.NewInputError("date_window_days", "must be greater than zero")
	}
	return nil
}

// Reconcile matches the three transaction collections. The only error it
// can return is a malformed configuration; business-data anomalies degrade
// into exceptions or reduced scores, never failures.
func (m *Matcher) Reconcile(gateway, bank, internal []models.Transaction) (*Result, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}

	gatewayPool := normalizePool(gateway, models.SourceGateway)
	bankPool := normalizePool(bank, models.SourceBank)
	internalPool := normalizePool(internal, models.SourceInternal)

	m.logger.WithFields(
		logging.Field{Key: "gateway", Value: len(gatewayPool)},
		logging.Field{Key: "bank", Value: len(bankPool)},
		logging.Field{Key: "internal", Value: len(internalPool)},
	).Debug("Starting reconciliation run")

	consumed := make(map[string]bool)
	var groups []models.MatchGroup

	// Phase 1: full 3-way groups take priority over any 2-way fallback.
	for i := range gatewayPool {
		anchor := gatewayPool[i]
		if consumed[anchor.Key()] {
			continue
		}
		bankIdx, bankScore, bankOK := bestCandidate(anchor, bankPool, consumed, m.cfg.AmountTolerancePct, m.cfg.DateWindowDays)
		internalIdx, internalScore, internalOK := bestCandidate(anchor, internalPool, consumed, m.cfg.AmountTolerancePct, m.cfg.DateWindowDays)
		if !bankOK || !internalOK {
			continue
		}

		group := models.MatchGroup{
			ID:   uuid.NewString(),
			Type: models.MatchThreeWay,
			Members: map[models.Source]string{
				models.SourceGateway:  anchor.ID,
				models.SourceBank:     bankPool[bankIdx].ID,
				models.SourceInternal: internalPool[internalIdx].ID,
			},
			Amount:     anchor.Amount,
			Date:       anchor.Date,
			Confidence: (bankScore.Combined + internalScore.Combined) / 2,
			Reasoning: []string{
				describePair("bank", bankPool[bankIdx].ID, bankScore),
				describePair("internal", internalPool[internalIdx].ID, internalScore),
			},
		}
		groups = append(groups, group)
		consumed[anchor.Key()] = true
		consumed[bankPool[bankIdx].Key()] = true
		consumed[internalPool[internalIdx].Key()] = true
	}

	// Phase 2: remaining gateway transactions against the bank only.
	groups = m.twoWayPass(gatewayPool, bankPool, consumed, models.MatchGatewayBank, models.SourceBank, "bank", groups)

	// Phase 3: remaining gateway transactions against the ledger only.
	groups = m.twoWayPass(gatewayPool, internalPool, consumed, models.MatchGatewayInternal, models.SourceInternal, "internal", groups)

	// Phase 4: everything still unconsumed, in source-then-input order,
	// becomes an exception with a widened near-miss search.
	var exceptions []models.Exception
	pools := map[models.Source][]models.Transaction{
		models.SourceGateway:  gatewayPool,
		models.SourceBank:     bankPool,
		models.SourceInternal: internalPool,
	}
	for _, source := range []models.Source{models.SourceGateway, models.SourceBank, models.SourceInternal} {
		for _, tx := range pools[source] {
			if consumed[tx.Key()] {
				continue
			}
			exceptions = append(exceptions, m.buildException(tx, pools))
		}
	}

	result := &Result{
		Summary:    m.summarize(pools, groups, consumed, len(exceptions)),
		Groups:     groups,
		Exceptions: exceptions,
	}

	m.logger.WithFields(
		logging.Field{Key: "groups", Value: len(groups)},
		logging.Field{Key: "exceptions", Value: len(exceptions)},
	).Info("Reconciliation run complete")

	return result, nil
}

// twoWayPass matches still-unconsumed gateway transactions against a single
// counterpart pool. The consumed-set is checked before every candidate scan
// so earlier groups are never re-used.
func (m *Matcher) twoWayPass(
	gatewayPool, pool []models.Transaction,
	consumed map[string]bool,
	matchType models.MatchType,
	source models.Source,
	label string,
	groups []models.MatchGroup,
) []models.MatchGroup {
	for i := range gatewayPool {
		anchor := gatewayPool[i]
		if consumed[anchor.Key()] {
			continue
		}
		idx, score, ok := bestCandidate(anchor, pool, consumed, m.cfg.AmountTolerancePct, m.cfg.DateWindowDays)
		if !ok {
			continue
		}

		groups = append(groups, models.MatchGroup{
			ID:   uuid.NewString(),
			Type: matchType,
			Members: map[models.Source]string{
				models.SourceGateway: anchor.ID,
				source:               pool[idx].ID,
			},
			Amount:     anchor.Amount,
			Date:       anchor.Date,
			Confidence: score.Combined,
			Reasoning:  []string{describePair(label, pool[idx].ID, score)},
		})
		consumed[anchor.Key()] = true
		consumed[pool[idx].Key()] = true
	}
	return groups
}

// buildException searches the union of the other two sources with widened
// tolerances and feeds the ranked near matches to the reasoner.
func (m *Matcher) buildException(tx models.Transaction, pools map[models.Source][]models.Transaction) models.Exception {
	var nearMatches []models.NearMatch

	widenedTolerance := m.cfg.AmountTolerancePct * nearMissAmountFactor
	widenedWindow := m.cfg.DateWindowDays * nearMissDateFactor

	for _, source := range []models.Source{models.SourceGateway, models.SourceBank, models.SourceInternal} {
		if source == tx.Source {
			continue
		}
		for _, candidate := range pools[source] {
			score, ok := pairScore(tx, candidate, widenedTolerance, widenedWindow)
			if !ok {
				continue
			}
			nearMatches = append(nearMatches, models.NearMatch{
				Transaction:  candidate,
				AmountScore:  score.AmountScore,
				DateScore:    score.DateScore,
				AmountWithin: amountWithin(tx.Amount, candidate.Amount, m.cfg.AmountTolerancePct),
				DateWithin:   dateWithin(tx, candidate, m.cfg.DateWindowDays),
			})
		}
	}

	sort.SliceStable(nearMatches, func(i, j int) bool {
		return nearMatches[i].AmountScore+nearMatches[i].DateScore >
			nearMatches[j].AmountScore+nearMatches[j].DateScore
	})
	if len(nearMatches) > maxNearMatches {
		nearMatches = nearMatches[:maxNearMatches]
	}

	explanation := reasoner.ExplainWith(m.enricher, tx, nearMatches, reasoner.Tolerances{
		AmountTolerancePct: m.cfg.AmountTolerancePct,
		DateWindowDays:     m.cfg.DateWindowDays,
	})

	return models.Exception{
		ID:              uuid.NewString(),
		Transaction:     tx,
		Kind:            models.ExceptionKindNoMatch,
		NearMatches:     nearMatches,
		Reasoning:       explanation.Reasoning,
		SuggestedAction: explanation.SuggestedAction,
	}
}

func (m *Matcher) summarize(pools map[models.Source][]models.Transaction, groups []models.MatchGroup, consumed map[string]bool, exceptionCount int) models.ReconciliationSummary {
	summary := models.ReconciliationSummary{
		CountBySource:  make(map[models.Source]int, len(pools)),
		VolumeBySource: make(map[models.Source]decimal.Decimal, len(pools)),
		MatchedVolume:  decimal.Zero,
		GroupsByType:   make(map[models.MatchType]int),
		ExceptionCount: exceptionCount,
	}

	total := 0
	matched := 0
	for source, pool := range pools {
		volume := decimal.Zero
		for _, tx := range pool {
			volume = volume.Add(tx.Amount)
			total++
			if consumed[tx.Key()] {
				matched++
			}
		}
		summary.CountBySource[source] = len(pool)
		summary.VolumeBySource[source] = volume
	}

	for _, group := range groups {
		summary.GroupsByType[group.Type]++
		summary.MatchedVolume = summary.MatchedVolume.Add(group.Amount)
	}

	if total > 0 {
		summary.MatchRate = float64(matched) / float64(total) * 100.0
	}
	return summary
}

func describePair(label, id string, score models.MatchCandidateScore) string {
	return fmt.Sprintf("%s %s: combined %.2f (amount %.2f, date %.2f, reference %.0f)",
		label, id, score.Combined, score.AmountScore, score.DateScore, score.ReferenceScore)
}
