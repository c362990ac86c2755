package cmd

import (
	"context"
	"fmt"

	"sales_ledger/internal/app"
	"sales_ledger/internal/audit"
	"sales_ledger/internal/config"
	"sales_ledger/internal/ledger"
	"sales_ledger/internal/processing"
	"sales_ledger/internal/retry"

	"github.com/rs/zerolog/log"
)

// pipeline is everything one mode has to provide for a run.
type pipeline struct {
	source   processing.SheetSource
	sink     processing.Sink
	products ledger.ReferenceSource
	accounts ledger.ReferenceSource
	refs     []processing.SheetRef
	startRow int
	write    retry.Config
}

// runLedger loads the reference mappings, builds every sheet and writes the
// result through the mode's sink.
func runLedger(ctx context.Context, settings *config.Settings, rc config.ResilienceConfig, p pipeline) error {
	logger := log.Logger

	mappings := ledger.Mappings{
		Products: ledger.LoadProductMapping(ctx, p.products, logger),
		Accounts: ledger.LoadAccountMapping(ctx, p.accounts, logger),
	}

	tracker := &ledger.SpecialVendorTracker{}
	builder := ledger.NewBuilder(mappings, tracker, logger)
	builder.Columns = settings.Columns.LedgerColumns()
	builder.Era = settings.Ledger.Era

	runner := &processing.Runner{
		Source:    p.source,
		Sink:      p.sink,
		Builder:   builder,
		Tracker:   tracker,
		Reporters: reporters(settings, rc),
		Retry:     p.write,
		StartRow:  p.startRow,
		DryRun:    settings.DryRun,
		Logger:    logger,
	}

	res, err := runner.Run(ctx, p.refs)
	if err != nil {
		return err
	}

	log.Info().
		Str("run_id", res.Summary.RunID).
		Int("sheets_read", res.Summary.SheetsRead).
		Int("sheets_skipped", res.Summary.SheetsSkipped).
		Int("records", res.Summary.Records).
		Int("special_vendor_uses", res.Summary.SpecialVendorEvents).
		Dur("duration", res.Summary.Duration()).
		Msg("Run complete")
	fmt.Println(res.Summary.String())
	return nil
}

func reporters(settings *config.Settings, rc config.ResilienceConfig) []processing.Reporter {
	var out []processing.Reporter
	if settings.Audit.CSV != "" {
		out = append(out, audit.CSVReporter{Path: settings.Audit.CSV})
	}
	if client := app.InitializeNotificationClient(settings, rc); client != nil {
		out = append(out, client)
	}
	return out
}
