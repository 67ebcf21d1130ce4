package matcher

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finback/ledgermatch/internal/logging"
	"finback/ledgermatch/internal/models"
)

func tx(id string, amount string, date string, reference string) models.Transaction {
	var d time.Time
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			panic(err)
		}
		d = parsed
	}
	return models.Transaction{
		ID:        id,
		Amount:    decimal.RequireFromString(amount),
		Date:      d,
		Reference: reference,
	}
}

func newMatcher(t *testing.T) *Matcher {
	t.Helper()
	return New(DefaultConfig(), &logging.MockLogger{})
}

func TestReconcileThreeWayScenario(t *testing.T) {
	// 1255 vs 1250 is a 0.398% relative difference, inside the 0.5%
	// tolerance, so all three records form a single 3-way group.
	m := newMatcher(t)
	result, err := m.Reconcile(
		[]models.Transaction{tx("G1", "1250.00", "2025-01-05", "INV-1")},
		[]models.Transaction{tx("B1", "1250.00", "2025-01-06", "")},
		[]models.Transaction{tx("I1", "1255.00", "2025-01-05", "INV-1")},
	)
	require.NoError(t, err)

	require.Len(t, result.Groups, 1)
	require.Empty(t, result.Exceptions)

	group := result.Groups[0]
	assert.Equal(t, models.MatchThreeWay, group.Type)
	assert.Equal(t, "G1", group.Members[models.SourceGateway])
	assert.Equal(t, "B1", group.Members[models.SourceBank])
	assert.Equal(t, "I1", group.Members[models.SourceInternal])

	// Bank pair: amount 1.0, date 1-1/3, reference empty.
	bankCombined := 0.5 + 0.3*(1-1.0/3.0)
	// Internal pair: amount 1-(5/1255)/0.005, date 1.0, reference hit.
	internalCombined := 0.5*(1-(5.0/1255.0)/0.005) + 0.3 + 0.2
	assert.InDelta(t, (bankCombined+internalCombined)/2, group.Confidence, 1e-9)
	assert.Len(t, group.Reasoning, 2)
}

func TestReconcileExclusivity(t *testing.T) {
	m := newMatcher(t)
	result, err := m.Reconcile(
		[]models.Transaction{
			tx("G1", "100.00", "2025-02-01", "A"),
			tx("G2", "100.00", "2025-02-01", "A"),
			tx("G3", "250.00", "2025-02-10", ""),
		},
		[]models.Transaction{
			tx("B1", "100.00", "2025-02-01", "A"),
			tx("B2", "100.00", "2025-02-02", ""),
		},
		[]models.Transaction{
			tx("I1", "100.00", "2025-02-01", "A"),
		},
	)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, group := range result.Groups {
		for source, id := range group.Members {
			seen[string(source)+":"+id]++
		}
	}
	for _, exception := range result.Exceptions {
		seen[exception.Transaction.Key()]++
	}

	for key, count := range seen {
		assert.Equal(t, 1, count, "transaction %s consumed more than once", key)
	}
	// Every input transaction is accounted for exactly once.
	assert.Len(t, seen, 6)
}

func TestReconcileToleranceBoundary(t *testing.T) {
	m := newMatcher(t)

	// Exactly at the 0.5% boundary: 995 vs 1000 is a 0.5% difference.
	// The candidate is includable with an amount score of zero.
	result, err := m.Reconcile(
		[]models.Transaction{tx("G1", "1000.00", "2025-03-01", "R")},
		[]models.Transaction{tx("B1", "995.00", "2025-03-01", "R")},
		nil,
	)
	require.NoError(t, err)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, models.MatchGatewayBank, result.Groups[0].Type)
	// Combined = 0.3 (date) + 0.2 (reference): amount contributes zero.
	assert.InDelta(t, 0.5, result.Groups[0].Confidence, 1e-9)

	// Just beyond the boundary the candidate is excluded, not scored low.
	result, err = m.Reconcile(
		[]models.Transaction{tx("G1", "1000.00", "2025-03-01", "R")},
		[]models.Transaction{tx("B1", "994.99", "2025-03-01", "R")},
		nil,
	)
	require.NoError(t, err)
	assert.Empty(t, result.Groups)
	assert.Len(t, result.Exceptions, 2)
}

func TestReconcileDateWindowBoundary(t *testing.T) {
	m := newMatcher(t)

	// Three days apart is inside the window with a date score of zero.
	result, err := m.Reconcile(
		[]models.Transaction{tx("G1", "100.00", "2025-03-01", "")},
		[]models.Transaction{tx("B1", "100.00", "2025-03-04", "")},
		nil,
	)
	require.NoError(t, err)
	require.Len(t, result.Groups, 1)
	assert.InDelta(t, 0.5, result.Groups[0].Confidence, 1e-9)

	// Four days apart is excluded.
	result, err = m.Reconcile(
		[]models.Transaction{tx("G1", "100.00", "2025-03-01", "")},
		[]models.Transaction{tx("B1", "100.00", "2025-03-05", "")},
		nil,
	)
	require.NoError(t, err)
	assert.Empty(t, result.Groups)
}

func TestReconcilePhasePriority(t *testing.T) {
	// A gateway transaction with valid candidates on both sides must form
	// one 3-way group, never two separate 2-way groups.
	m := newMatcher(t)
	result, err := m.Reconcile(
		[]models.Transaction{tx("G1", "500.00", "2025-04-01", "X")},
		[]models.Transaction{tx("B1", "500.00", "2025-04-02", "X")},
		[]models.Transaction{tx("I1", "500.00", "2025-04-01", "X")},
	)
	require.NoError(t, err)

	require.Len(t, result.Groups, 1)
	assert.Equal(t, models.MatchThreeWay, result.Groups[0].Type)
	assert.Equal(t, 1, result.Summary.GroupsByType[models.MatchThreeWay])
	assert.Equal(t, 0, result.Summary.GroupsByType[models.MatchGatewayBank])
}

func TestScoreMonotonicity(t *testing.T) {
	anchor := tx("G1", "1000.00", "2025-05-01", "")
	cfg := DefaultConfig()

	// Decreasing amount difference must not decrease the combined score.
	prev := -1.0
	for _, amount := range []string{"996.00", "997.00", "998.00", "999.00", "1000.00"} {
		score, ok := pairScore(anchor, tx("B", amount, "2025-05-01", ""), cfg.AmountTolerancePct, cfg.DateWindowDays)
		require.True(t, ok, "amount %s should pass the hard filter", amount)
		assert.GreaterOrEqual(t, score.Combined, prev)
		prev = score.Combined
	}

	// Decreasing date difference must not decrease the combined score.
	prev = -1.0
	for _, date := range []string{"2025-05-04", "2025-05-03", "2025-05-02", "2025-05-01"} {
		score, ok := pairScore(anchor, tx("B", "1000.00", date, ""), cfg.AmountTolerancePct, cfg.DateWindowDays)
		require.True(t, ok)
		assert.GreaterOrEqual(t, score.Combined, prev)
		prev = score.Combined
	}
}

func TestReconcileTieBreakFirstSeen(t *testing.T) {
	// Two bank candidates with identical scores: the first in input order
	// wins.
	m := newMatcher(t)
	result, err := m.Reconcile(
		[]models.Transaction{tx("G1", "100.00", "2025-06-01", "")},
		[]models.Transaction{
			tx("B1", "100.00", "2025-06-01", ""),
			tx("B2", "100.00", "2025-06-01", ""),
		},
		nil,
	)
	require.NoError(t, err)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, "B1", result.Groups[0].Members[models.SourceBank])
}

func TestReconcileZeroAmountDropped(t *testing.T) {
	// Zero-amount records are not transactions: never matched, never
	// flagged.
	m := newMatcher(t)
	result, err := m.Reconcile(
		[]models.Transaction{tx("G1", "0.00", "2025-06-01", "")},
		[]models.Transaction{tx("B1", "0.00", "2025-06-01", "")},
		nil,
	)
	require.NoError(t, err)
	assert.Empty(t, result.Groups)
	assert.Empty(t, result.Exceptions)
	assert.Equal(t, 0, result.Summary.CountBySource[models.SourceGateway])
}

func TestReconcileMissingDateDegrades(t *testing.T) {
	// A record without a date still matches on amount and reference; the
	// date simply contributes nothing.
	m := newMatcher(t)
	result, err := m.Reconcile(
		[]models.Transaction{tx("G1", "100.00", "", "REF-9")},
		[]models.Transaction{tx("B1", "100.00", "2025-06-01", "REF-9")},
		nil,
	)
	require.NoError(t, err)
	require.Len(t, result.Groups, 1)
	assert.InDelta(t, 0.7, result.Groups[0].Confidence, 1e-9)
}

func TestReconcileNegativeAmountNormalized(t *testing.T) {
	m := newMatcher(t)
	result, err := m.Reconcile(
		[]models.Transaction{tx("G1", "-250.00", "2025-06-01", "")},
		[]models.Transaction{tx("B1", "250.00", "2025-06-01", "")},
		nil,
	)
	require.NoError(t, err)
	require.Len(t, result.Groups, 1)
	assert.True(t, result.Groups[0].Amount.Equal(decimal.RequireFromString("250.00")))
}

func TestReconcileExceptionNearMatches(t *testing.T) {
	// 1010 vs 1000 is 0.99% off: outside the 0.5% tolerance but inside
	// the widened band, so it shows up as a near match.
	m := newMatcher(t)
	result, err := m.Reconcile(
		[]models.Transaction{tx("G1", "1000.00", "2025-07-01", "")},
		[]models.Transaction{tx("B1", "1010.00", "2025-07-01", "")},
		nil,
	)
	require.NoError(t, err)
	require.Empty(t, result.Groups)
	require.Len(t, result.Exceptions, 2)

	gatewayException := result.Exceptions[0]
	assert.Equal(t, "G1", gatewayException.Transaction.ID)
	require.Len(t, gatewayException.NearMatches, 1)
	near := gatewayException.NearMatches[0]
	assert.Equal(t, "B1", near.Transaction.ID)
	assert.False(t, near.AmountWithin)
	assert.True(t, near.DateWithin)
	assert.Equal(t, "check for fees or a partial payment", gatewayException.SuggestedAction)
}

func TestReconcileExceptionNoNearMatches(t *testing.T) {
	m := newMatcher(t)
	result, err := m.Reconcile(
		[]models.Transaction{tx("G1", "1000.00", "2025-07-01", "")},
		[]models.Transaction{tx("B1", "5000.00", "2025-09-01", "")},
		nil,
	)
	require.NoError(t, err)
	require.Len(t, result.Exceptions, 2)
	assert.Empty(t, result.Exceptions[0].NearMatches)
	assert.Equal(t, "investigate missing entry in the counterpart source", result.Exceptions[0].SuggestedAction)
}

func TestReconcileExceptionOrdering(t *testing.T) {
	// Exceptions come out in source order (gateway, bank, internal) and
	// input order within a source.
	m := newMatcher(t)
	result, err := m.Reconcile(
		[]models.Transaction{tx("G1", "10.00", "2025-07-01", ""), tx("G2", "20.00", "2025-07-01", "")},
		[]models.Transaction{tx("B1", "30.00", "2025-07-01", "")},
		[]models.Transaction{tx("I1", "40.00", "2025-07-01", "")},
	)
	require.NoError(t, err)
	require.Len(t, result.Exceptions, 4)

	var order []string
	for _, e := range result.Exceptions {
		order = append(order, e.Transaction.ID)
	}
	assert.Equal(t, []string{"G1", "G2", "B1", "I1"}, order)
}

func TestReconcileSummary(t *testing.T) {
	m := newMatcher(t)
	result, err := m.Reconcile(
		[]models.Transaction{tx("G1", "100.00", "2025-08-01", ""), tx("G2", "900.00", "2025-08-01", "")},
		[]models.Transaction{tx("B1", "100.00", "2025-08-01", "")},
		nil,
	)
	require.NoError(t, err)

	summary := result.Summary
	assert.Equal(t, 2, summary.CountBySource[models.SourceGateway])
	assert.Equal(t, 1, summary.CountBySource[models.SourceBank])
	assert.True(t, summary.VolumeBySource[models.SourceGateway].Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, summary.MatchedVolume.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, 1, summary.GroupsByType[models.MatchGatewayBank])
	assert.Equal(t, 1, summary.ExceptionCount)
	// Two of the three normalized transactions were consumed.
	assert.InDelta(t, 66.66, summary.MatchRate, 0.1)
}

func TestReconcileRejectsBadConfig(t *testing.T) {
	m := New(Config{AmountTolerancePct: 0, DateWindowDays: 3}, &logging.MockLogger{})
	_, err := m.Reconcile(nil, nil, nil)
	assert.Error(t, err)

	m = New(Config{AmountTolerancePct: 0.5, DateWindowDays: 0}, &logging.MockLogger{})
	_, err = m.Reconcile(nil, nil, nil)
	assert.Error(t, err)
}

func TestReconcileDeterministic(t *testing.T) {
	gateway := []models.Transaction{tx("G1", "100.00", "2025-08-01", ""), tx("G2", "200.00", "2025-08-02", "")}
	bank := []models.Transaction{tx("B1", "100.00", "2025-08-01", ""), tx("B2", "200.50", "2025-08-02", "")}
	internal := []models.Transaction{tx("I1", "100.00", "2025-08-01", "")}

	m := newMatcher(t)
	first, err := m.Reconcile(gateway, bank, internal)
	require.NoError(t, err)
	second, err := m.Reconcile(gateway, bank, internal)
	require.NoError(t, err)

	require.Equal(t, len(first.Groups), len(second.Groups))
	for i := range first.Groups {
		assert.Equal(t, first.Groups[i].Members, second.Groups[i].Members)
		assert.Equal(t, first.Groups[i].Confidence, second.Groups[i].Confidence)
	}
	assert.Equal(t, first.Summary, second.Summary)
}
