// Package audit exports the special vendor events of a run for manual review.
package audit

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"sales_ledger/internal/ledger"
	"sales_ledger/internal/processing"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

// utf8BOM makes spreadsheet programs detect the encoding of the CJK headers.
const utf8BOM = "\ufeff"

// WriteEvents writes events with a 日期,客供商代號,銷貨單號 header, replacing
// any existing file.
func WriteEvents(path string, events []ledger.SpecialVendorEvent) error {
	if events == nil {
		events = []ledger.SpecialVendorEvent{}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create audit file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(utf8BOM); err != nil {
		return fmt.Errorf("failed to write audit file: %w", err)
	}
	if err := gocsv.MarshalCSV(&events, gocsv.NewSafeCSVWriter(csv.NewWriter(file))); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	log.Info().
		Str("file", path).
		Int("count", len(events)).
		Msg("Wrote special vendor audit file")
	return file.Close()
}

// CSVReporter writes the audit file at the end of every run.
type CSVReporter struct {
	Path string
}

func (r CSVReporter) Report(_ context.Context, _ processing.Summary, events []ledger.SpecialVendorEvent) error {
	return WriteEvents(r.Path, events)
}
