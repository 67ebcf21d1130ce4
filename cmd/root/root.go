// Package root contains the root command for the application.
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"finback/ledgermatch/internal/config"
	"finback/ledgermatch/internal/container"
)

var (
	// Log is the shared logger instance for commands.
	Log = logrus.New()

	// App is the dependency container built in the persistent pre-run. All
	// subcommands reach their dependencies through it.
	App *container.Container

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "ledgermatch",
		Short: "A CLI tool to reconcile transactions across sources and categorize them against a GL chart.",
		Long: `ledgermatch reconciles transaction exports from the payment gateway, the
bank, and the internal ledger into matched groups, and scores transactions
against a general-ledger chart. Corrections feed a learned-pattern store
that improves future categorization runs.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to ledgermatch!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv(Log)

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to initialize configuration: %v", err)
			}
			Log = config.ConfigureLoggingFromConfig(cfg)

			App, err = container.NewContainer(cfg)
			if err != nil {
				Log.Fatalf("Failed to initialize dependencies: %v", err)
			}
		},
	}

	// Reconcile command flags.
	GatewayFile  string
	BankFile     string
	InternalFile string

	// Categorize command flags.
	InputFile string
	ChartFile string

	// Correct command flags.
	Vendor  string
	Account string

	// Shared output flag.
	OutputDir string
)

// Init initializes the root command and its persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&OutputDir, "output", "o", "reports", "Output directory for CSV reports")
}
