// Package correct handles the user-correction command, the only write path
// into the learned-pattern store.
package correct

import (
	"github.com/spf13/cobra"

	"finback/ledgermatch/cmd/root"
)

// Cmd represents the correct command.
var Cmd = &cobra.Command{
	Use:   "correct",
	Short: "Record a vendor-to-account correction",
	Long: `Correct records a user decision mapping a vendor to a GL account.
Recorded corrections strengthen future categorization of the same vendor;
repeating a correction increases its observation count.`,
	Run: correctFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.Vendor, "vendor", "p", "", "Vendor name as it appears on the transaction (required)")
	Cmd.Flags().StringVarP(&root.Account, "account", "a", "", "GL account code the vendor belongs to (required)")
	_ = Cmd.MarkFlagRequired("vendor")
	_ = Cmd.MarkFlagRequired("account")
}

func correctFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Correct command called")

	if err := root.App.GetEngine().RecordCorrection(root.Vendor, root.Account); err != nil {
		root.Log.Fatalf("Error recording correction: %v", err)
	}

	root.Log.Infof("Correction recorded: %s -> %s", root.Vendor, root.Account)
}
