package models

import (
	"github.com/shopspring/decimal"
)

// GLAccount describes one account of the general-ledger chart. The chart is
// read-only reference data supplied per run.
type GLAccount struct {
	Code        string           `yaml:"code"`
	Name        string           `yaml:"name"`
	Category    string           `yaml:"category"`
	Keywords    []string         `yaml:"keywords"`
	AmountMin   *decimal.Decimal `yaml:"amount_min,omitempty"`
	AmountMax   *decimal.Decimal `yaml:"amount_max,omitempty"`
	TypicalSign Direction        `yaml:"typical_sign,omitempty"`
}

// InRange reports whether the given magnitude falls inside the account's
// configured amount range. Accounts without a range never match.
func (a GLAccount) InRange(amount decimal.Decimal) bool {
	if a.AmountMin == nil && a.AmountMax == nil {
		return false
	}
	if a.AmountMin != nil && amount.LessThan(*a.AmountMin) {
		return false
	}
	if a.AmountMax != nil && amount.GreaterThan(*a.AmountMax) {
		return false
	}
	return true
}
