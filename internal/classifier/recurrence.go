package classifier

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finback/ledgermatch/internal/models"
	"finback/ledgermatch/internal/textutil"
)

// Recurrence detection requires at least this many prior observations so a
// single coincidental pair does not look like a schedule.
const minRecurrenceObservations = 3

// recurrenceAmountTolerance is the relative amount band (5%) within which a
// historical transaction counts as the same recurring charge.
var recurrenceAmountTolerance = decimal.NewFromFloat(0.05)

// gap tolerance: every observed gap must sit within ±20% of the average for
// the series to count as regular.
const gapRegularityTolerance = 0.2

type recurrenceBucket struct {
	name    string
	minDays float64
	maxDays float64
}

var recurrenceBuckets = []recurrenceBucket{
	{name: "weekly", minDays: 6, maxDays: 8},
	{name: "bi-weekly", minDays: 12, maxDays: 16},
	{name: "monthly", minDays: 27, maxDays: 34},
	{name: "quarterly", minDays: 85, maxDays: 97},
}

// detectRecurrence looks for a regular cadence of prior categorizations of
// the same vendor to the same account at a similar amount. It returns the
// cadence bucket name when one is found.
func detectRecurrence(tx models.Transaction, accountCode string, history []models.CategoryResult) (string, bool) {
	key := textutil.NormalizeVendorKey(tx.PartyText())
	if key == "" {
		return "", false
	}

	magnitude := tx.Magnitude()
	var dates []time.Time
	for _, prior := range history {
		if prior.Account.Code != accountCode {
			continue
		}
		if textutil.NormalizeVendorKey(prior.Transaction.PartyText()) != key {
			continue
		}
		if !prior.Transaction.HasDate() {
			continue
		}
		if !amountsSimilar(magnitude, prior.Transaction.Magnitude()) {
			continue
		}
		dates = append(dates, prior.Transaction.Date)
	}

	if len(dates) < minRecurrenceObservations {
		return "", false
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	gaps := make([]float64, 0, len(dates)-1)
	total := 0.0
	for i := 1; i < len(dates); i++ {
		gap := dates[i].Sub(dates[i-1]).Hours() / 24
		gaps = append(gaps, gap)
		total += gap
	}
	average := total / float64(len(gaps))
	if average <= 0 {
		return "", false
	}

	for _, gap := range gaps {
		if gap < average*(1-gapRegularityTolerance) || gap > average*(1+gapRegularityTolerance) {
			return "", false
		}
	}

	for _, bucket := range recurrenceBuckets {
		if average >= bucket.minDays && average <= bucket.maxDays {
			return bucket.name, true
		}
	}
	return "", false
}

func amountsSimilar(a, b decimal.Decimal) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	maxAmt := a
	if b.GreaterThan(maxAmt) {
		maxAmt = b
	}
	return !a.Sub(b).Abs().Div(maxAmt).GreaterThan(recurrenceAmountTolerance)
}
