package matcher

import (
	"strings"

	"github.com/shopspring/decimal"

	"finback/ledgermatch/internal/models"
)

// Score weights. Amount agreement dominates, date proximity refines, and a
// shared reference acts as a confirmation signal.
const (
	weightAmount    = 0.5
	weightDate      = 0.3
	weightReference = 0.2
)

// Near-miss searches widen the hard filters so exceptions can explain what
// almost matched.
const (
	nearMissAmountFactor = 3.0
	nearMissDateFactor   = 2.0
	maxNearMatches       = 3
)

var oneHundred = decimal.NewFromInt(100)

// normalizePool prepares one source's transactions for matching: amounts are
// coerced to magnitude, references lower-cased and trimmed, and the source
// label forced onto every record. Records with a zero amount are dropped
// entirely; they are treated as not-a-transaction rather than flagged.
func normalizePool(txns []models.Transaction, source models.Source) []models.Transaction {
	pool := make([]models.Transaction, 0, len(txns))
	for _, tx := range txns {
		if tx.Amount.IsZero() {
			continue
		}
		tx.Amount = tx.Amount.Abs()
		tx.Reference = strings.ToLower(strings.TrimSpace(tx.Reference))
		tx.Source = source
		pool = append(pool, tx)
	}
	return pool
}

// amountDistance returns |a−b| relative to the larger magnitude.
func amountDistance(a, b decimal.Decimal) decimal.Decimal {
	maxAmt := a
	if b.GreaterThan(maxAmt) {
		maxAmt = b
	}
	return a.Sub(b).Abs().Div(maxAmt)
}

// amountWithin reports whether the relative amount difference is inside the
// tolerance, expressed in percent. The boundary itself is inside.
func amountWithin(a, b decimal.Decimal, tolerancePct float64) bool {
	tolFrac := decimal.NewFromFloat(tolerancePct).Div(oneHundred)
	return !amountDistance(a, b).GreaterThan(tolFrac)
}

// daysBetween returns the absolute distance between two dates in days.
func daysBetween(a, b models.Transaction) float64 {
	d := a.Date.Sub(b.Date).Hours() / 24
	if d < 0 {
		d = -d
	}
	return d
}

// dateWithin reports whether the candidate's date falls inside the window.
// A missing date on either side cannot violate the window; it simply
// contributes no date score.
func dateWithin(anchor, candidate models.Transaction, windowDays int) bool {
	if !anchor.HasDate() || !candidate.HasDate() {
		return true
	}
	return daysBetween(anchor, candidate) <= float64(windowDays)
}

// pairScore computes the candidate-versus-anchor score under the given
// tolerances. The second return value is false when the candidate fails a
// hard filter and must be excluded rather than scored low.
func pairScore(anchor, candidate models.Transaction, tolerancePct float64, windowDays int) (models.MatchCandidateScore, bool) {
	if !amountWithin(anchor.Amount, candidate.Amount, tolerancePct) {
		return models.MatchCandidateScore{}, false
	}
	if !dateWithin(anchor, candidate, windowDays) {
		return models.MatchCandidateScore{}, false
	}

	tolFrac := tolerancePct / 100
	relDiff, _ := amountDistance(anchor.Amount, candidate.Amount).Float64()
	amountScore := 1 - relDiff/tolFrac
	if amountScore < 0 {
		amountScore = 0
	}

	dateScore := 0.0
	if anchor.HasDate() && candidate.HasDate() {
		dateScore = 1 - daysBetween(anchor, candidate)/float64(windowDays)
		if dateScore < 0 {
			dateScore = 0
		}
	}

	referenceScore := 0.0
	if anchor.Reference != "" && anchor.Reference == candidate.Reference {
		referenceScore = 1.0
	}

	return models.MatchCandidateScore{
		AmountScore:    amountScore,
		DateScore:      dateScore,
		ReferenceScore: referenceScore,
		Combined:       weightAmount*amountScore + weightDate*dateScore + weightReference*referenceScore,
	}, true
}

// bestCandidate scans a pool in input order for the unconsumed candidate
// with the highest combined score. Ties keep the first-seen candidate; this
// is the documented tie-break policy, not an accident of iteration order.
func bestCandidate(anchor models.Transaction, pool []models.Transaction, consumed map[string]bool, tolerancePct float64, windowDays int) (int, models.MatchCandidateScore, bool) {
	bestIdx := -1
	var bestScore models.MatchCandidateScore

	for i := range pool {
		if consumed[pool[i].Key()] {
			continue
		}
		score, ok := pairScore(anchor, pool[i], tolerancePct, windowDays)
		if !ok {
			continue
		}
		if bestIdx < 0 || score.Combined > bestScore.Combined {
			bestIdx = i
			bestScore = score
		}
	}

	return bestIdx, bestScore, bestIdx >= 0
}
