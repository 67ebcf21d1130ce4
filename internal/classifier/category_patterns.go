package classifier

import (
	"strings"
)

// categoryPattern is one curated domain heuristic: a GL category name bound
// to the merchant and phrase vocabulary that typically indicates it.
type categoryPattern struct {
	keywords []string
	weight   float64
}

// categoryPatterns is the built-in heuristic table applied when an
// account's category matches one of the curated domains. Kept in code, like
// the keyword tables it replaces in day-to-day use, so the engine works
// without any configuration files.
var categoryPatterns = map[string]categoryPattern{
	"travel": {
		weight: 0.25,
		keywords: []string{
			"uber", "lyft", "delta", "united airlines", "american airlines",
			"airbnb", "marriott", "hilton", "hertz", "avis", "expedia",
			"hotel", "airline", "flight", "travel",
		},
	},
	"software": {
		weight: 0.3,
		keywords: []string{
			"aws", "amazon web services", "azure", "google cloud", "github",
			"gitlab", "atlassian", "slack", "zoom", "salesforce", "adobe",
			"datadog", "saas", "subscription", "license",
		},
	},
	"utilities": {
		weight: 0.25,
		keywords: []string{
			"electric", "water", "gas", "utility", "comcast", "verizon",
			"at&t", "t-mobile", "internet", "broadband", "power",
		},
	},
	"payroll": {
		weight: 0.3,
		keywords: []string{
			"payroll", "gusto", "adp", "paychex", "rippling", "salary",
			"wages", "direct deposit",
		},
	},
	"revenue": {
		weight: 0.3,
		keywords: []string{
			"invoice", "payment received", "payout", "customer payment",
			"sales", "remittance",
		},
	},
	"banking": {
		weight: 0.2,
		keywords: []string{
			"bank fee", "wire fee", "service charge", "interest",
			"overdraft", "monthly fee", "account fee",
		},
	},
	"payment-processing": {
		weight: 0.2,
		keywords: []string{
			"stripe", "paypal", "square", "braintree", "adyen",
			"merchant fee", "processing fee", "gateway fee",
		},
	},
}

// matchCategoryPattern checks the transaction text against the curated
// vocabulary for the account's category. Returns the matched keyword and
// the category weight when a hit is found.
func matchCategoryPattern(text, accountCategory string) (string, float64, bool) {
	pattern, ok := categoryPatterns[strings.ToLower(accountCategory)]
	if !ok {
		return "", 0, false
	}
	for _, keyword := range pattern.keywords {
		if strings.Contains(text, keyword) {
			return keyword, pattern.weight, true
		}
	}
	return "", 0, false
}
