// Package reasoner turns unresolved reconciliation items into structured,
// actionable explanations. The rule table is deterministic: the same near
// matches always produce the same reasoning and suggested action.
package reasoner

import (
	"fmt"

	"finback/ledgermatch/internal/models"
)

// Tolerances carries the original (non-widened) matching tolerances, used
// to phrase the explanation.
type Tolerances struct {
	AmountTolerancePct float64
	DateWindowDays     int
}

// Explanation is the structured output attached to an Exception.
type Explanation struct {
	Reasoning       string
	SuggestedAction string
}

// Enricher is an optional external explanation service. Its output augments
// the structured fields but never replaces them.
type Enricher interface {
	Enrich(tx models.Transaction, base Explanation) (string, error)
}

// Explain applies the rule table to an unresolved transaction and its
// widened-tolerance near matches.
func Explain(tx models.Transaction, nearMatches []models.NearMatch, tol Tolerances) Explanation {
	if len(nearMatches) == 0 {
		return Explanation{
			Reasoning: fmt.Sprintf(
				"no candidate within %.2f%% amount tolerance and %d-day window, and none within the widened search band",
				tol.AmountTolerancePct, tol.DateWindowDays),
			SuggestedAction: "investigate missing entry in the counterpart source",
		}
	}

	best := nearMatches[0]
	switch {
	case !best.AmountWithin && best.DateWithin:
		return Explanation{
			Reasoning: fmt.Sprintf(
				"near match %s has a matching date but its amount differs beyond the %.2f%% tolerance",
				best.Transaction.ID, tol.AmountTolerancePct),
			SuggestedAction: "check for fees or a partial payment",
		}
	case best.AmountWithin && !best.DateWithin:
		return Explanation{
			Reasoning: fmt.Sprintf(
				"near match %s has a matching amount but posted outside the %d-day window",
				best.Transaction.ID, tol.DateWindowDays),
			SuggestedAction: "verify the posting date or extend the date window",
		}
	case !best.AmountWithin && !best.DateWithin:
		return Explanation{
			Reasoning: fmt.Sprintf(
				"near match %s is outside both the amount tolerance and the date window but inside the widened band",
				best.Transaction.ID),
			SuggestedAction: "consider adjusting tolerances or review manually",
		}
	default:
		// A candidate inside both tolerances was still not consumed,
		// which means an earlier anchor claimed it first.
		return Explanation{
			Reasoning: fmt.Sprintf(
				"candidate %s was within tolerance but already consumed by another match",
				best.Transaction.ID),
			SuggestedAction: "review the competing match group",
		}
	}
}

// ExplainWith runs the rule table and, when an enricher is supplied, appends
// its commentary to the reasoning. Enrichment failures fall back to the
// structured explanation alone.
func ExplainWith(enricher Enricher, tx models.Transaction, nearMatches []models.NearMatch, tol Tolerances) Explanation {
	base := Explain(tx, nearMatches, tol)
	if enricher == nil {
		return base
	}

	extra, err := enricher.Enrich(tx, base)
	if err != nil || extra == "" {
		return base
	}

	base.Reasoning = base.Reasoning + "; " + extra
	return base
}
