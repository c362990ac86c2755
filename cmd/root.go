package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sales_ledger/internal/app"
	"sales_ledger/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cfgFile string
	verbose bool
)

// rootBindings maps persistent flags to settings keys.
var rootBindings = map[string]string{
	"dry-run":   "dry_run",
	"audit-csv": "audit.csv",
	"era":       "ledger.era",
	"notify":    "notify.enabled",
}

var rootCmd = &cobra.Command{
	Use:   "sales-ledger",
	Short: "Convert POS sales sheets into statistics ledger rows",
	Long: `sales-ledger reads daily point-of-sale sheets, classifies payment methods,
resolves vendor codes and voucher types, splits the 5% inclusive tax and writes
the result as fixed-layout rows into a statistics table. Uses of the reserved
vendor codes 52-55 are collected into a separate audit table.

Sources and destinations:
  sales-ledger sheets   # Google Drive folder -> Google Sheets statistics table
  sales-ledger local    # folder of Excel exports -> local .xlsx workbook

Settings come from flags, LEDGER_* environment variables (.env is loaded)
and an optional ledger.yaml.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		app.SetupEnvironment(verbose)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the CLI and exits non-zero on failure. An interrupt cancels
// the run between sheets.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default ./ledger.yaml when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("dry-run", false, "process every sheet but write nothing")
	rootCmd.PersistentFlags().String("audit-csv", "", "also write special vendor uses to this CSV file")
	rootCmd.PersistentFlags().String("era", "", "calendar-era year used in derived dates")
	rootCmd.PersistentFlags().Bool("notify", false, "send an ntfy notification with the run summary")
}

// loadSettings resolves settings with the command's flags bound over the
// file and environment values. Only flags set on the command line override.
func loadSettings(cmd *cobra.Command, bindings map[string]string) (*config.Settings, error) {
	v, err := config.NewViper(cfgFile)
	if err != nil {
		return nil, err
	}

	bind := func(flags *pflag.FlagSet, keys map[string]string) error {
		for name, key := range keys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
		return nil
	}
	if err := bind(cmd.Flags(), rootBindings); err != nil {
		return nil, err
	}
	if err := bind(cmd.Flags(), bindings); err != nil {
		return nil, err
	}

	return config.Load(v)
}
