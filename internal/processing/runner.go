package processing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sales_ledger/internal/ledger"
	"sales_ledger/internal/retry"
	"sales_ledger/internal/table"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SpecialVendorSheet is the tab holding the special vendor audit table.
const SpecialVendorSheet = "特殊客供商記錄"

// DefaultStartRow leaves row 1 of the statistics table for its header.
const DefaultStartRow = 2

// SheetRef identifies one source sheet.
type SheetRef struct {
	ID   string
	Name string
}

type SheetSource interface {
	ReadTable(ctx context.Context, ref SheetRef) (*table.Table, error)
}

// Sink receives the run output. Both writes overwrite a fixed range so that
// a retried write leaves the same result.
type Sink interface {
	WriteRows(ctx context.Context, startRow int, rows [][]string) error
	WriteNamedTable(ctx context.Context, name string, header []string, rows [][]string) error
}

// Reporter is told about every completed run. Reporter failures never fail
// the run.
type Reporter interface {
	Report(ctx context.Context, summary Summary, events []ledger.SpecialVendorEvent) error
}

// Result is everything collected from the source sheets.
type Result struct {
	Records []ledger.LedgerRecord
	Events  []ledger.SpecialVendorEvent
	Summary Summary
}

type Runner struct {
	Source    SheetSource
	Sink      Sink
	Builder   *ledger.Builder
	Tracker   *ledger.SpecialVendorTracker
	Reporters []Reporter
	Retry     retry.Config
	StartRow  int
	DryRun    bool
	Logger    zerolog.Logger
}

// Run collects every sheet, writes the output and notifies the reporters.
func (r *Runner) Run(ctx context.Context, refs []SheetRef) (*Result, error) {
	res, err := r.Collect(ctx, refs)
	if err != nil {
		return res, err
	}

	res.Summary.DryRun = r.DryRun
	if r.DryRun {
		r.Logger.Info().
			Str("run_id", res.Summary.RunID).
			Int("records", len(res.Records)).
			Msg("Dry run, nothing written")
	} else if err := r.Write(ctx, res); err != nil {
		return res, err
	}

	res.Summary.Finished = time.Now()
	r.report(ctx, res)
	return res, nil
}

// Collect reads and builds every sheet in order. A sheet that cannot be read
// or lacks the required columns is logged and skipped; only cancellation
// stops the loop.
func (r *Runner) Collect(ctx context.Context, refs []SheetRef) (*Result, error) {
	res := &Result{Summary: Summary{
		RunID:        uuid.NewString(),
		Started:      time.Now(),
		SheetsListed: len(refs),
	}}
	logger := r.Logger.With().Str("run_id", res.Summary.RunID).Logger()
	eventsBefore := r.trackedEvents()

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("run cancelled: %w", err)
		}

		records, err := r.buildOne(ctx, ref)
		if err != nil {
			res.Summary.SheetsSkipped++
			res.Summary.Skipped = append(res.Summary.Skipped, ref.Name)
			ev := logger.Error()
			if errors.Is(err, ledger.ErrMissingColumns) {
				ev = logger.Warn()
			}
			ev.Err(err).Str("sheet", ref.Name).Msg("Skipping sheet")
			continue
		}

		res.Summary.SheetsRead++
		res.Records = append(res.Records, records...)
		logger.Debug().
			Str("sheet", ref.Name).
			Int("records", len(records)).
			Msg("Processed sheet")
	}

	res.Events = r.trackedEvents()[len(eventsBefore):]
	res.Summary.Records = len(res.Records)
	res.Summary.SpecialVendorEvents = len(res.Events)

	logger.Info().
		Int("sheets_read", res.Summary.SheetsRead).
		Int("sheets_skipped", res.Summary.SheetsSkipped).
		Int("records", res.Summary.Records).
		Int("special_vendor_events", res.Summary.SpecialVendorEvents).
		Msg("Collected statistics")
	return res, nil
}

func (r *Runner) buildOne(ctx context.Context, ref SheetRef) ([]ledger.LedgerRecord, error) {
	t, err := r.Source.ReadTable(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ref.Name, err)
	}
	if t.Empty() {
		r.Logger.Warn().Str("sheet", ref.Name).Msg("Sheet is empty")
		return nil, nil
	}
	return r.Builder.BuildSheet(t)
}

func (r *Runner) trackedEvents() []ledger.SpecialVendorEvent {
	if r.Tracker == nil {
		return nil
	}
	return r.Tracker.Events()
}

// Write sends the aligned statistics rows and then the special vendor table,
// each with retry. The first failure is returned.
func (r *Runner) Write(ctx context.Context, res *Result) error {
	startRow := r.StartRow
	if startRow < 1 {
		startRow = DefaultStartRow
	}

	rows := ledger.AlignAll(res.Records)
	err := retry.Do(ctx, r.Retry, func(ctx context.Context) error {
		return r.Sink.WriteRows(ctx, startRow, rows)
	})
	if err != nil {
		return fmt.Errorf("failed to write statistics: %w", err)
	}
	r.Logger.Info().Int("rows", len(rows)).Int("start_row", startRow).Msg("Statistics written")

	special := make([][]string, 0, len(res.Events))
	for _, e := range res.Events {
		special = append(special, e.Row())
	}
	err = retry.Do(ctx, r.Retry, func(ctx context.Context) error {
		return r.Sink.WriteNamedTable(ctx, SpecialVendorSheet, ledger.SpecialVendorHeader, special)
	})
	if err != nil {
		return fmt.Errorf("failed to write special vendor table: %w", err)
	}
	r.Logger.Info().Int("rows", len(special)).Msg("Special vendor table written")
	return nil
}

func (r *Runner) report(ctx context.Context, res *Result) {
	for _, rep := range r.Reporters {
		if err := rep.Report(ctx, res.Summary, res.Events); err != nil {
			r.Logger.Warn().Err(err).Str("run_id", res.Summary.RunID).Msg("Failed to report run")
		}
	}
}
