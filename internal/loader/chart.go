package loader

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"finback/ledgermatch/internal/engineerror"
	"finback/ledgermatch/internal/logging"
	"finback/ledgermatch/internal/models"
)

// chartAccountYAML is the raw file shape of one GL account. Amount bounds
// are strings so they survive the trip into exact decimals.
type chartAccountYAML struct {
	Code        string   `yaml:"code"`
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Keywords    []string `yaml:"keywords"`
	AmountMin   string   `yaml:"amount_min"`
	AmountMax   string   `yaml:"amount_max"`
	TypicalSign string   `yaml:"typical_sign"`
}

type chartFileYAML struct {
	Accounts []chartAccountYAML `yaml:"accounts"`
}

// ChartLoader reads GL chart files. The chart is required reference data:
// a missing or empty chart is a fatal input error, unlike the pattern store.
type ChartLoader struct {
	logger logging.Logger
}

// NewChartLoader creates a chart loader.
func NewChartLoader(logger logging.Logger) *ChartLoader {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &ChartLoader{logger: logger.WithField("component", "loader")}
}

// ParseChart reads a GL chart from r.
func (l *ChartLoader) ParseChart(r io.Reader) ([]models.GLAccount, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading chart: %w", err)
	}

	var file chartFileYAML
	if err := yaml.Unmarshal(data, &file); err != nil {
		l.logger.WithError(err).Error("Failed to parse GL chart YAML")
		return nil, fmt.Errorf("error parsing GL chart: %w", err)
	}

	seen := make(map[string]bool, len(file.Accounts))
	accounts := make([]models.GLAccount, 0, len(file.Accounts))
	for i, raw := range file.Accounts {
		account, err := l.convertAccount(raw)
		if err != nil {
			l.logger.WithError(err).Warn("Skipping invalid chart account",
				logging.Field{Key: "entry", Value: i + 1})
			continue
		}
		if seen[account.Code] {
			l.logger.Warn("Duplicate account code in chart, keeping the first",
				logging.Field{Key: "code", Value: account.Code})
			continue
		}
		seen[account.Code] = true
		accounts = append(accounts, account)
	}

	if len(accounts) == 0 {
		return nil, engineerror.NewInputError("chart", "no usable accounts in GL chart")
	}

	l.logger.Info("Loaded GL chart",
		logging.Field{Key: "accounts", Value: len(accounts)})
	return accounts, nil
}

// LoadChartFile reads a GL chart file from disk.
func (l *ChartLoader) LoadChartFile(path string) ([]models.GLAccount, error) {
	file, err := os.Open(path)
	if err != nil {
		l.logger.WithError(err).Error("Failed to open GL chart file")
		return nil, engineerror.NewInputError("chart", fmt.Sprintf("cannot open chart file %s", path))
	}
	defer func() {
		if err := file.Close(); err != nil {
			l.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	return l.ParseChart(file)
}

func (l *ChartLoader) convertAccount(raw chartAccountYAML) (models.GLAccount, error) {
	code := strings.TrimSpace(raw.Code)
	if code == "" {
		return models.GLAccount{}, fmt.Errorf("missing account code")
	}

	account := models.GLAccount{
		Code:     code,
		Name:     strings.TrimSpace(raw.Name),
		Category: strings.TrimSpace(raw.Category),
		Keywords: raw.Keywords,
	}
	switch sign := parseDirection(raw.TypicalSign); sign {
	case models.DirectionDebit, models.DirectionCredit:
		account.TypicalSign = sign
	}

	if raw.AmountMin != "" {
		min, err := decimal.NewFromString(raw.AmountMin)
		if err != nil {
			return models.GLAccount{}, fmt.Errorf("unparsable amount_min %q: %w", raw.AmountMin, err)
		}
		account.AmountMin = &min
	}
	if raw.AmountMax != "" {
		max, err := decimal.NewFromString(raw.AmountMax)
		if err != nil {
			return models.GLAccount{}, fmt.Errorf("unparsable amount_max %q: %w", raw.AmountMax, err)
		}
		account.AmountMax = &max
	}

	return account, nil
}
