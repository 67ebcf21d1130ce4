// Package categorize handles the transaction categorization command.
package categorize

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"finback/ledgermatch/cmd/root"
	"finback/ledgermatch/internal/models"
)

// Cmd represents the categorize command.
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize transactions against the GL chart",
	Long: `Categorize scores each transaction in the input export against every
account of the GL chart and writes the results to a CSV report. Transactions
below the confidence threshold are flagged for review with their closest
alternatives.`,
	Run: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.InputFile, "input", "i", "", "Transaction CSV export (required)")
	Cmd.Flags().StringVarP(&root.ChartFile, "chart", "c", "", "GL chart YAML file (defaults to the configured chart)")
	_ = Cmd.MarkFlagRequired("input")
}

func categorizeFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Categorize command called")

	cfg := root.App.GetConfig()
	chartPath := root.ChartFile
	if chartPath == "" {
		chartPath = cfg.Data.ChartFile
		if cfg.Data.Directory != "" {
			chartPath = filepath.Join(cfg.Data.Directory, cfg.Data.ChartFile)
		}
	}

	txns, err := root.App.GetCSVLoader().LoadTransactionsFile(root.InputFile, models.SourceInternal)
	if err != nil {
		root.Log.Fatalf("Error loading transaction export: %v", err)
	}

	accounts, err := root.App.GetChartLoader().LoadChartFile(chartPath)
	if err != nil {
		root.Log.Fatalf("Error loading GL chart: %v", err)
	}

	result, err := root.App.GetEngine().Categorize(txns, accounts, nil)
	if err != nil {
		root.Log.Fatalf("Error categorizing transactions: %v", err)
	}

	reportPath := filepath.Join(root.OutputDir, "categories.csv")
	if err := root.App.GetReportWriter().WriteCategoryResults(result.Categorized, result.NeedsReview, reportPath); err != nil {
		root.Log.Fatalf("Error writing categorization report: %v", err)
	}

	root.Log.Infof("Categorization complete: %d auto-categorized, %d need review (%.1f%% auto rate)",
		result.Stats.AutoCategorized, result.Stats.NeedsReview, result.Stats.AutoRate())
	root.Log.Infof("Report written to %s", reportPath)
}
