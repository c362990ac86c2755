package cmd

import (
	"fmt"

	"sales_ledger/internal/app"
	"sales_ledger/internal/sheets"

	"github.com/spf13/cobra"
)

var sheetsBindings = map[string]string{
	"folder":           "sheets.folder_id",
	"statistics-sheet": "sheets.statistics_sheet_id",
	"account-sheet":    "sheets.account_sheet_id",
	"product-sheet":    "sheets.product_sheet_id",
	"credentials":      "sheets.credentials_file",
	"range":            "sheets.statistics_range",
}

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Process every POS spreadsheet in a Google Drive folder",
	Long: `Lists the spreadsheets in the configured Drive folder in name order, builds
ledger rows from the first tab of each and overwrites the statistics range
of the statistics spreadsheet. Special vendor uses are written to the
特殊客供商記錄 tab of the same spreadsheet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd, sheetsBindings)
		if err != nil {
			return err
		}
		if err := settings.ValidateSheets(); err != nil {
			return err
		}

		rng, err := sheets.ParseStatisticsRange(settings.Sheets.StatisticsRange)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		client, err := app.InitializeSheetsClient(ctx, settings)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}

		refs, err := client.ListSpreadsheets(ctx, settings.Sheets.FolderID)
		if err != nil {
			return err
		}

		rc := settings.Resilience(sheets.IsTransient)
		return runLedger(ctx, settings, rc, pipeline{
			source:   client,
			sink:     client.Sink(settings.Sheets.StatisticsSheetID, rng),
			products: client.Reference(settings.Sheets.ProductSheetID, settings.Sheets.ProductRange),
			accounts: client.Reference(settings.Sheets.AccountSheetID, settings.Sheets.AccountRange),
			refs:     refs,
			startRow: rng.StartRow,
			write:    rc.SinkWrite,
		})
	},
}

func init() {
	sheetsCmd.Flags().String("folder", "", "Drive folder holding the POS spreadsheets")
	sheetsCmd.Flags().String("statistics-sheet", "", "statistics spreadsheet id")
	sheetsCmd.Flags().String("account-sheet", "", "account reference spreadsheet id")
	sheetsCmd.Flags().String("product-sheet", "", "product reference spreadsheet id")
	sheetsCmd.Flags().String("credentials", "", "service account credentials file")
	sheetsCmd.Flags().String("range", "", "statistics range, e.g. A2:AW")
	rootCmd.AddCommand(sheetsCmd)
}
