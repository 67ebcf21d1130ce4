// Package loader reads transaction CSV exports and GL chart files into the
// engine's models. Rows that cannot be normalized are skipped with a warning
// rather than failing the whole file.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"finback/ledgermatch/internal/logging"
	"finback/ledgermatch/internal/models"
)

// transactionCSVRow is the strict column shape of a transaction export.
type transactionCSVRow struct {
	ID          string `csv:"id"`
	Source      string `csv:"source"`
	Amount      string `csv:"amount"`
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Reference   string `csv:"reference"`
	Vendor      string `csv:"vendor"`
	Direction   string `csv:"direction"`
}

// CSVLoader parses transaction CSV exports.
type CSVLoader struct {
	dateFormat string
	delimiter  rune
	logger     logging.Logger
}

// NewCSVLoader creates a loader. dateFormat is a Go reference layout; an
// empty format falls back to 2006-01-02.
func NewCSVLoader(dateFormat string, delimiter rune, logger logging.Logger) *CSVLoader {
	if dateFormat == "" {
		dateFormat = "2006-01-02"
	}
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &CSVLoader{
		dateFormat: dateFormat,
		delimiter:  delimiter,
		logger:     logger.WithField("component", "loader"),
	}
}

// ParseTransactions reads transaction rows from r. Every resulting record is
// stamped with the given source, which identifies the system the export came
// from.
func (l *CSVLoader) ParseTransactions(r io.Reader, source models.Source) ([]models.Transaction, error) {
	if l.delimiter != ',' {
		gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
			cr := csv.NewReader(in)
			cr.Comma = l.delimiter
			return cr
		})
		defer gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
			return csv.NewReader(in)
		})
	}

	var rows []*transactionCSVRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		l.logger.WithError(err).Error("Failed to parse transaction CSV")
		return nil, fmt.Errorf("error parsing transaction CSV: %w", err)
	}

	transactions := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		tx, err := l.convertRow(*row, source)
		if err != nil {
			l.logger.WithError(err).Warn("Skipping unparsable transaction row",
				logging.Field{Key: "row", Value: i + 1})
			continue
		}
		transactions = append(transactions, tx)
	}

	l.logger.Info("Parsed transaction CSV",
		logging.Field{Key: "source", Value: string(source)},
		logging.Field{Key: "count", Value: len(transactions)},
		logging.Field{Key: "skipped", Value: len(rows) - len(transactions)})
	return transactions, nil
}

// LoadTransactionsFile reads a transaction CSV export from disk.
func (l *CSVLoader) LoadTransactionsFile(path string, source models.Source) ([]models.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		l.logger.WithError(err).Error("Failed to open transaction CSV file")
		return nil, fmt.Errorf("error opening transaction CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			l.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	return l.ParseTransactions(file, source)
}

// convertRow maps one CSV row onto a Transaction. A missing ID or an
// unparsable amount makes the row unusable; a bad date only degrades it.
func (l *CSVLoader) convertRow(row transactionCSVRow, source models.Source) (models.Transaction, error) {
	id := strings.TrimSpace(row.ID)
	if id == "" {
		return models.Transaction{}, fmt.Errorf("missing transaction id")
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(row.Amount))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("unparsable amount %q: %w", row.Amount, err)
	}

	tx := models.Transaction{
		ID:          id,
		Source:      source,
		Amount:      amount,
		Description: strings.TrimSpace(row.Description),
		Reference:   strings.TrimSpace(row.Reference),
		Vendor:      strings.TrimSpace(row.Vendor),
		Direction:   parseDirection(row.Direction),
	}

	if dateStr := strings.TrimSpace(row.Date); dateStr != "" {
		date, err := parseDate(dateStr, l.dateFormat)
		if err != nil {
			l.logger.WithError(err).Warn("Unparsable date, record kept without one",
				logging.Field{Key: "id", Value: id})
		} else {
			tx.Date = date
		}
	}

	return tx, nil
}

func parseDirection(raw string) models.Direction {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debit", "dbit":
		return models.DirectionDebit
	case "credit", "crdt":
		return models.DirectionCredit
	default:
		return models.DirectionUnknown
	}
}
