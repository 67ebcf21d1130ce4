// Package models provides the data structures shared by the matching and
// classification engine.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source identifies which system a transaction record came from.
type Source string

const (
	SourceGateway  Source = "gateway"
	SourceBank     Source = "bank"
	SourceInternal Source = "internal"
)

// Direction represents the debit/credit direction of a transaction.
// Amounts are magnitudes; direction is carried separately.
type Direction string

const (
	DirectionDebit   Direction = "debit"
	DirectionCredit  Direction = "credit"
	DirectionUnknown Direction = "unknown"
)

// Transaction is the normalized transaction record the engine operates on.
// It is immutable once read for a run; upstream ingestion is responsible for
// mapping raw payloads onto this strict shape.
type Transaction struct {
	ID          string          `json:"id" yaml:"id"`
	Source      Source          `json:"source" yaml:"source"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Date        time.Time       `json:"date" yaml:"date"`
	Description string          `json:"description" yaml:"description"`
	Reference   string          `json:"reference" yaml:"reference"`
	Vendor      string          `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Direction   Direction       `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// Key returns a run-unique identity for the transaction. IDs from different
// source systems may collide, so the source is part of the key.
func (t Transaction) Key() string {
	return string(t.Source) + ":" + t.ID
}

// Magnitude returns the absolute amount of the transaction.
func (t Transaction) Magnitude() decimal.Decimal {
	return t.Amount.Abs()
}

// PartyText returns the text used for vendor-oriented matching: the vendor
// name when present, falling back to the description.
func (t Transaction) PartyText() string {
	if t.Vendor != "" {
		return t.Vendor
	}
	return t.Description
}

// HasDate reports whether the transaction carries a usable date. Records
// with unparsable dates keep a zero time and simply contribute no date score.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}
