package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchType identifies how many sources participate in a match group.
type MatchType string

const (
	MatchThreeWay        MatchType = "3-way"
	MatchGatewayBank     MatchType = "2-way-gateway-bank"
	MatchGatewayInternal MatchType = "2-way-gateway-internal"
)

// MatchCandidateScore is the ephemeral pairwise score of a candidate against
// an anchor transaction. It is recomputed per pair and never persisted.
type MatchCandidateScore struct {
	AmountScore    float64
	DateScore      float64
	ReferenceScore float64
	Combined       float64
}

// MatchGroup is a set of transactions reconciled across sources. A
// transaction belongs to at most one MatchGroup or Exception per run.
type MatchGroup struct {
	ID         string            `json:"id"`
	Type       MatchType         `json:"type"`
	Members    map[Source]string `json:"members"`
	Amount     decimal.Decimal   `json:"amount"`
	Date       time.Time         `json:"date"`
	Confidence float64           `json:"confidence"`
	Reasoning  []string          `json:"reasoning"`
}

// NearMatch is a widened-tolerance candidate attached to an Exception. The
// within-flags record which of the original tolerances the candidate passed,
// which drives the exception reasoning rule table.
type NearMatch struct {
	Transaction  Transaction `json:"transaction"`
	AmountScore  float64     `json:"amount_score"`
	DateScore    float64     `json:"date_score"`
	AmountWithin bool        `json:"amount_within_tolerance"`
	DateWithin   bool        `json:"date_within_window"`
}

// ExceptionKindNoMatch is the only exception kind the matcher produces.
const ExceptionKindNoMatch = "no_match"

// Exception is a transaction that could not be placed into any MatchGroup.
type Exception struct {
	ID              string      `json:"id"`
	Transaction     Transaction `json:"transaction"`
	Kind            string      `json:"kind"`
	NearMatches     []NearMatch `json:"near_matches,omitempty"`
	Reasoning       string      `json:"reasoning"`
	SuggestedAction string      `json:"suggested_action"`
}

// ReconciliationSummary aggregates the outcome of one reconciliation run.
type ReconciliationSummary struct {
	CountBySource  map[Source]int             `json:"count_by_source"`
	VolumeBySource map[Source]decimal.Decimal `json:"volume_by_source"`
	MatchedVolume  decimal.Decimal            `json:"matched_volume"`
	MatchRate      float64                    `json:"match_rate"`
	GroupsByType   map[MatchType]int          `json:"groups_by_type"`
	ExceptionCount int                        `json:"exception_count"`
}
