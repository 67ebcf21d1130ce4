// Package classifier assigns general-ledger accounts to transactions by
// combining historical-pattern, keyword, category-pattern, and recurrence
// signals into a capped confidence score. Results at or above the
// confidence threshold are auto-categorized; the rest carry their top
// alternatives into review.
package classifier

import (
	"fmt"
	"sort"
	"strings"

	"finback/ledgermatch/internal/engineerror"
	"finback/ledgermatch/internal/logging"
	"finback/ledgermatch/internal/models"
	"finback/ledgermatch/internal/store"
	"finback/ledgermatch/internal/textutil"
)

// Score contributions. Each signal is capped individually by construction;
// the accumulated total is capped at 1.0.
const (
	scoreHistoricalExact  = 0.5
	scoreHistoricalFuzzy  = 0.4
	scoreKeywordExact     = 0.3
	scoreKeywordFuzzy     = 0.2
	scoreNameSubstring    = 0.2
	scoreNameFuzzy        = 0.15
	scoreAmountRange      = 0.1
	scoreSignAlignment    = 0.1
	scoreRecurrence       = 0.2
	historicalFuzzyFloor  = 0.75
	keywordFuzzyThreshold = 0.8
	nameFuzzyThreshold    = 0.6
	maxAlternatives       = 3
)

// Config carries the classification options recognized by the engine.
type Config struct {
	ConfidenceThreshold   float64
	UseHistoricalPatterns bool
}

// DefaultConfig returns the options used when the caller supplies none.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold:   0.7,
		UseHistoricalPatterns: true,
	}
}

// Result is the complete outcome of one categorization run.
type Result struct {
	Categorized []models.CategoryResult
	NeedsReview []models.CategoryResult
	Stats       models.CategorizationStats
}

// Classifier scores transactions against a GL chart using a read-once
// pattern snapshot. It holds no mutable state across runs.
type Classifier struct {
	patterns *store.Patterns
	cfg      Config
	logger   logging.Logger
}

// New creates a Classifier over the given pattern snapshot. A nil snapshot
// behaves as a cold start.
func New(patterns *store.Patterns, cfg Config, logger logging.Logger) *Classifier {
	if patterns == nil {
		patterns = store.NewPatterns(nil)
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Classifier{
		patterns: patterns,
		cfg:      cfg,
		logger:   logger.WithField("component", "classifier"),
	}
}

// Categorize scores every transaction against every account. The GL chart
// is required reference data: an empty chart is a fatal input error.
// History is the caller's prior categorized activity, consulted only for
// recurrence detection.
func (c *Classifier) Categorize(txns []models.Transaction, accounts []models.GLAccount, history []models.CategoryResult) (*Result, error) {
	if len(accounts) == 0 {
		return nil, engineerror.NewInputError("gl_accounts", "chart of accounts must not be empty")
	}
	if c.cfg.ConfidenceThreshold < 0 || c.cfg.ConfidenceThreshold > 1 {
		return nil, engineerror.NewInputError("confidence_threshold", "must be between 0.0 and 1.0")
	}

	result := &Result{}
	for _, tx := range txns {
		categoryResult := c.classifyOne(tx, accounts, history)
		result.Stats.Total++
		if categoryResult.Confidence >= c.cfg.ConfidenceThreshold {
			result.Categorized = append(result.Categorized, categoryResult)
			result.Stats.AutoCategorized++
		} else {
			result.NeedsReview = append(result.NeedsReview, categoryResult)
			result.Stats.NeedsReview++
		}
	}

	c.logger.WithFields(
		logging.Field{Key: "total", Value: result.Stats.Total},
		logging.Field{Key: "auto", Value: result.Stats.AutoCategorized},
		logging.Field{Key: "review", Value: result.Stats.NeedsReview},
		logging.Field{Key: "auto_rate", Value: result.Stats.AutoRate()},
	).Info("Categorization run complete")

	return result, nil
}

// classifyOne scores a transaction against all accounts and assembles the
// winning result with its alternatives.
func (c *Classifier) classifyOne(tx models.Transaction, accounts []models.GLAccount, history []models.CategoryResult) models.CategoryResult {
	scored := make([]models.ScoredAccount, 0, len(accounts))
	bestIdx := 0
	for i, account := range accounts {
		sa := c.scoreAccount(tx, account, history)
		scored = append(scored, sa)
		// Strictly greater keeps the first-declared account on ties.
		if sa.Score > scored[bestIdx].Score {
			bestIdx = i
		}
	}

	best := scored[bestIdx]
	return models.CategoryResult{
		Transaction:  tx,
		Account:      best.Account,
		Confidence:   best.Score,
		Factors:      best.Factors,
		Alternatives: topAlternatives(scored, bestIdx),
	}
}

// scoreAccount accumulates every signal's contribution for one
// transaction-account pair, recording a factor per contribution.
func (c *Classifier) scoreAccount(tx models.Transaction, account models.GLAccount, history []models.CategoryResult) models.ScoredAccount {
	text := strings.ToLower(tx.PartyText() + " " + tx.Description)
	vendorKey := textutil.NormalizeVendorKey(tx.PartyText())

	total := 0.0
	var factors []models.Factor
	add := func(amount float64, name, observation string) {
		total += amount
		factors = append(factors, models.Factor{
			Name:        name,
			Observation: observation,
			Positive:    true,
		})
	}

	if c.cfg.UseHistoricalPatterns && vendorKey != "" {
		if pattern := c.patterns.FindExact(vendorKey, account.Code); pattern != nil {
			add(scoreHistoricalExact, "historical_exact",
				fmt.Sprintf("vendor previously corrected to %s (%d observations)", account.Code, pattern.Observations))
		} else if pattern := c.patterns.FindFuzzy(vendorKey, account.Code, historicalFuzzyFloor); pattern != nil {
			add(scoreHistoricalFuzzy, "historical_fuzzy",
				fmt.Sprintf("similar vendor %q previously corrected to %s", pattern.VendorKey, account.Code))
		}
	}

	for _, keyword := range account.Keywords {
		keywordLower := strings.ToLower(keyword)
		if strings.Contains(text, keywordLower) {
			add(scoreKeywordExact, "keyword",
				fmt.Sprintf("description contains account keyword %q", keyword))
		} else if textutil.FuzzyContains(text, keywordLower, keywordFuzzyThreshold) {
			add(scoreKeywordFuzzy, "keyword_fuzzy",
				fmt.Sprintf("description approximately matches account keyword %q", keyword))
		}
	}

	nameLower := strings.ToLower(account.Name)
	if nameLower != "" && strings.Contains(text, nameLower) {
		add(scoreNameSubstring, "account_name",
			fmt.Sprintf("description contains account name %q", account.Name))
	} else if textutil.Similarity(account.Name, tx.PartyText()) > nameFuzzyThreshold {
		add(scoreNameFuzzy, "account_name_fuzzy",
			fmt.Sprintf("vendor resembles account name %q", account.Name))
	}

	if keyword, weight, ok := matchCategoryPattern(text, account.Category); ok {
		add(weight, "category_pattern",
			fmt.Sprintf("vendor matches %s pattern %q", strings.ToLower(account.Category), keyword))
	}

	if account.InRange(tx.Magnitude()) {
		add(scoreAmountRange, "amount_range",
			fmt.Sprintf("amount %s within the account's typical range", tx.Magnitude().StringFixed(2)))
	}

	if account.TypicalSign != "" && tx.Direction != "" && tx.Direction != models.DirectionUnknown &&
		tx.Direction == account.TypicalSign {
		add(scoreSignAlignment, "sign_alignment",
			fmt.Sprintf("%s direction matches the account's typical sign", tx.Direction))
	}

	if bucket, ok := detectRecurrence(tx, account.Code, history); ok {
		add(scoreRecurrence, "recurrence",
			fmt.Sprintf("vendor recurs %s against this account", bucket))
	}

	if total > 1.0 {
		total = 1.0
	}

	return models.ScoredAccount{
		Account: account,
		Score:   total,
		Factors: factors,
	}
}

// topAlternatives returns the highest-scoring non-winning accounts, at most
// three, in score order with the original declaration order breaking ties.
func topAlternatives(scored []models.ScoredAccount, bestIdx int) []models.ScoredAccount {
	alternatives := make([]models.ScoredAccount, 0, len(scored)-1)
	for i := range scored {
		if i == bestIdx {
			continue
		}
		alternatives = append(alternatives, scored[i])
	}

	sort.SliceStable(alternatives, func(i, j int) bool {
		return alternatives[i].Score > alternatives[j].Score
	})

	if len(alternatives) > maxAlternatives {
		alternatives = alternatives[:maxAlternatives]
	}
	return alternatives
}
