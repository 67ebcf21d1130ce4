// Package report writes reconciliation and categorization results to CSV
// files for downstream review.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"finback/ledgermatch/internal/logging"
	"finback/ledgermatch/internal/models"
)

// matchGroupRow is the CSV shape of one match group.
type matchGroupRow struct {
	GroupID    string `csv:"group_id"`
	Type       string `csv:"type"`
	GatewayID  string `csv:"gateway_id"`
	BankID     string `csv:"bank_id"`
	InternalID string `csv:"internal_id"`
	Amount     string `csv:"amount"`
	Date       string `csv:"date"`
	Confidence string `csv:"confidence"`
	Reasoning  string `csv:"reasoning"`
}

// exceptionRow is the CSV shape of one unmatched transaction.
type exceptionRow struct {
	TransactionID   string `csv:"transaction_id"`
	Source          string `csv:"source"`
	Amount          string `csv:"amount"`
	Date            string `csv:"date"`
	Description     string `csv:"description"`
	Kind            string `csv:"kind"`
	NearMatches     int    `csv:"near_matches"`
	Reasoning       string `csv:"reasoning"`
	SuggestedAction string `csv:"suggested_action"`
}

// categoryRow is the CSV shape of one categorization result.
type categoryRow struct {
	TransactionID string `csv:"transaction_id"`
	Vendor        string `csv:"vendor"`
	Amount        string `csv:"amount"`
	AccountCode   string `csv:"account_code"`
	AccountName   string `csv:"account_name"`
	Confidence    string `csv:"confidence"`
	Status        string `csv:"status"`
	Factors       string `csv:"factors"`
}

// Writer renders results to CSV files.
type Writer struct {
	delimiter rune
	logger    logging.Logger
}

// NewWriter creates a report writer.
func NewWriter(delimiter rune, logger logging.Logger) *Writer {
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Writer{
		delimiter: delimiter,
		logger:    logger.WithField("component", "report"),
	}
}

// WriteMatchGroups writes match groups to a CSV file.
func (w *Writer) WriteMatchGroups(groups []models.MatchGroup, path string) error {
	rows := make([]matchGroupRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, matchGroupRow{
			GroupID:    g.ID,
			Type:       string(g.Type),
			GatewayID:  g.Members[models.SourceGateway],
			BankID:     g.Members[models.SourceBank],
			InternalID: g.Members[models.SourceInternal],
			Amount:     g.Amount.StringFixed(2),
			Date:       formatDate(g.Date),
			Confidence: fmt.Sprintf("%.4f", g.Confidence),
			Reasoning:  strings.Join(g.Reasoning, "; "),
		})
	}
	return w.writeCSV(rows, path, len(groups), "match groups")
}

// WriteExceptions writes unmatched transactions to a CSV file.
func (w *Writer) WriteExceptions(exceptions []models.Exception, path string) error {
	rows := make([]exceptionRow, 0, len(exceptions))
	for _, e := range exceptions {
		rows = append(rows, exceptionRow{
			TransactionID:   e.Transaction.ID,
			Source:          string(e.Transaction.Source),
			Amount:          e.Transaction.Amount.StringFixed(2),
			Date:            formatDate(e.Transaction.Date),
			Description:     e.Transaction.Description,
			Kind:            e.Kind,
			NearMatches:     len(e.NearMatches),
			Reasoning:       e.Reasoning,
			SuggestedAction: e.SuggestedAction,
		})
	}
	return w.writeCSV(rows, path, len(exceptions), "exceptions")
}

// WriteCategoryResults writes categorized and needs-review transactions to a
// single CSV file, categorized rows first.
func (w *Writer) WriteCategoryResults(result []models.CategoryResult, review []models.CategoryResult, path string) error {
	rows := make([]categoryRow, 0, len(result)+len(review))
	for _, r := range result {
		rows = append(rows, convertCategoryRow(r, "categorized"))
	}
	for _, r := range review {
		rows = append(rows, convertCategoryRow(r, "needs_review"))
	}
	return w.writeCSV(rows, path, len(rows), "category results")
}

func convertCategoryRow(r models.CategoryResult, status string) categoryRow {
	factors := make([]string, 0, len(r.Factors))
	for _, f := range r.Factors {
		factors = append(factors, f.Name)
	}
	return categoryRow{
		TransactionID: r.Transaction.ID,
		Vendor:        r.Transaction.PartyText(),
		Amount:        r.Transaction.Amount.StringFixed(2),
		AccountCode:   r.Account.Code,
		AccountName:   r.Account.Name,
		Confidence:    fmt.Sprintf("%.4f", r.Confidence),
		Status:        status,
		Factors:       strings.Join(factors, "; "),
	}
}

func (w *Writer) writeCSV(rows interface{}, path string, count int, what string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		w.logger.WithError(err).Error("Failed to create report directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		w.logger.WithError(err).Error("Failed to create report file")
		return fmt.Errorf("error creating report file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			w.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = w.delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		w.logger.WithError(err).Error("Failed to write report CSV")
		return fmt.Errorf("error writing report CSV: %w", err)
	}

	w.logger.Info("Wrote report",
		logging.Field{Key: "file", Value: path},
		logging.Field{Key: "rows", Value: count},
		logging.Field{Key: "kind", Value: what})
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
