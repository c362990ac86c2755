package cmd

import (
	"sales_ledger/internal/processing"
	"sales_ledger/internal/workbook"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var localBindings = map[string]string{
	"folder":        "local.folder",
	"output":        "local.output",
	"account-file":  "local.account_file",
	"product-file":  "local.product_file",
	"product-sheet": "local.product_sheet",
}

var localCmd = &cobra.Command{
	Use:   "local",
	Short: "Process a folder of POS Excel exports into a local workbook",
	Long: `Reads every .xlsx, .xls and .xlsm file in the folder in name order. HTML
documents saved with an .xls extension are read as tables. Ledger rows go
to the 統計資料 sheet of the output workbook and special vendor uses to
特殊客供商記錄.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd, localBindings)
		if err != nil {
			return err
		}
		if err := settings.ValidateLocal(); err != nil {
			return err
		}

		refs, err := workbook.ListFolder(settings.Local.Folder)
		if err != nil {
			return err
		}

		sink := workbook.NewSink(settings.Local.Output)
		defer func() {
			if err := sink.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close output workbook")
			}
		}()

		// Local writes fail on permissions or a locked file; retrying does not help.
		rc := settings.Resilience(func(error) bool { return false })
		return runLedger(cmd.Context(), settings, rc, pipeline{
			source:   workbook.Source{},
			sink:     sink,
			products: workbook.Reference{Path: settings.Local.ProductFile, Sheet: settings.Local.ProductSheet},
			accounts: workbook.Reference{Path: settings.Local.AccountFile},
			refs:     refs,
			startRow: processing.DefaultStartRow,
			write:    rc.SinkWrite,
		})
	},
}

func init() {
	localCmd.Flags().String("folder", "", "folder holding the POS exports")
	localCmd.Flags().String("output", "", "output workbook path")
	localCmd.Flags().String("account-file", "", "account reference workbook")
	localCmd.Flags().String("product-file", "", "product reference workbook")
	localCmd.Flags().String("product-sheet", "", "sheet of the product workbook holding the mapping")
	rootCmd.AddCommand(localCmd)
}
