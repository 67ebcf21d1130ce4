// Package reconcile handles the cross-source reconciliation command.
package reconcile

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"finback/ledgermatch/cmd/root"
	"finback/ledgermatch/internal/models"
)

// Cmd represents the reconcile command.
var Cmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile gateway, bank, and internal ledger exports",
	Long: `Reconcile matches transactions across the three source exports into
3-way and 2-way groups, and writes the groups and the unmatched exceptions
to CSV reports.`,
	Run: reconcileFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.GatewayFile, "gateway", "g", "", "Payment gateway CSV export (required)")
	Cmd.Flags().StringVarP(&root.BankFile, "bank", "b", "", "Bank CSV export (required)")
	Cmd.Flags().StringVarP(&root.InternalFile, "internal", "n", "", "Internal ledger CSV export (required)")
	_ = Cmd.MarkFlagRequired("gateway")
	_ = Cmd.MarkFlagRequired("bank")
	_ = Cmd.MarkFlagRequired("internal")
}

func reconcileFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Reconcile command called")

	loader := root.App.GetCSVLoader()
	gateway, err := loader.LoadTransactionsFile(root.GatewayFile, models.SourceGateway)
	if err != nil {
		root.Log.Fatalf("Error loading gateway export: %v", err)
	}
	bank, err := loader.LoadTransactionsFile(root.BankFile, models.SourceBank)
	if err != nil {
		root.Log.Fatalf("Error loading bank export: %v", err)
	}
	internal, err := loader.LoadTransactionsFile(root.InternalFile, models.SourceInternal)
	if err != nil {
		root.Log.Fatalf("Error loading internal ledger export: %v", err)
	}

	result, err := root.App.GetEngine().Reconcile(gateway, bank, internal)
	if err != nil {
		root.Log.Fatalf("Error reconciling transactions: %v", err)
	}

	writer := root.App.GetReportWriter()
	groupsPath := filepath.Join(root.OutputDir, "match_groups.csv")
	if err := writer.WriteMatchGroups(result.Groups, groupsPath); err != nil {
		root.Log.Fatalf("Error writing match groups report: %v", err)
	}
	exceptionsPath := filepath.Join(root.OutputDir, "exceptions.csv")
	if err := writer.WriteExceptions(result.Exceptions, exceptionsPath); err != nil {
		root.Log.Fatalf("Error writing exceptions report: %v", err)
	}

	root.Log.Infof("Reconciliation complete: %d groups, %d exceptions, %.1f%% match rate",
		len(result.Groups), len(result.Exceptions), result.Summary.MatchRate)
	root.Log.Infof("Reports written to %s and %s", groupsPath, exceptionsPath)
}
