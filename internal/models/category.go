package models

// Factor is one contributing element of a classification or matching score.
// The ordered factor list is reproducible from the same score breakdown;
// there is no free-text generation step.
type Factor struct {
	Name        string `json:"name"`
	Observation string `json:"observation"`
	Positive    bool   `json:"positive"`
}

// ScoredAccount pairs a GL account with its accumulated score and the
// factors that produced it.
type ScoredAccount struct {
	Account GLAccount `json:"account"`
	Score   float64   `json:"score"`
	Factors []Factor  `json:"factors"`
}

// CategoryResult is the classification outcome for a single transaction.
// Results at or above the confidence threshold are auto-categorized; the
// rest go to review carrying their top alternatives.
type CategoryResult struct {
	Transaction  Transaction     `json:"transaction"`
	Account      GLAccount       `json:"account"`
	Confidence   float64         `json:"confidence"`
	Factors      []Factor        `json:"factors"`
	Alternatives []ScoredAccount `json:"alternatives,omitempty"`
}

// CategorizationStats tracks the outcome counts of a categorization run.
type CategorizationStats struct {
	Total           int `json:"total"`
	AutoCategorized int `json:"auto_categorized"`
	NeedsReview     int `json:"needs_review"`
}

// AutoRate returns the share of transactions categorized without review,
// as a percentage.
func (s CategorizationStats) AutoRate() float64 {
	if s.Total == 0 {
		return 0.0
	}
	return float64(s.AutoCategorized) / float64(s.Total) * 100.0
}
