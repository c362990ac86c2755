package sheets

import (
	"context"
	"fmt"
	"strings"

	"sales_ledger/internal/processing"
	"sales_ledger/internal/table"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// ReadTable reads the whole first tab of a spreadsheet. The table is named
// after the spreadsheet, not the tab.
func (c *Client) ReadTable(ctx context.Context, ref processing.SheetRef) (*table.Table, error) {
	title, err := c.FirstSheetTitle(ctx, ref.ID)
	if err != nil {
		return nil, err
	}
	values, err := c.ReadSheet(ctx, ref.ID, quoteSheetTitle(title))
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("sheet", ref.Name).
		Str("tab", title).
		Int("rows", len(values)).
		Msg("Read spreadsheet")
	return table.New(ref.Name, table.Stringify(values)), nil
}

// Reference reads one fixed range of a reference spreadsheet.
type Reference struct {
	client        *Client
	spreadsheetID string
	readRange     string
}

func (c *Client) Reference(spreadsheetID, readRange string) *Reference {
	return &Reference{client: c, spreadsheetID: spreadsheetID, readRange: readRange}
}

func (r *Reference) ReadRows(ctx context.Context) ([][]string, error) {
	values, err := r.client.ReadSheet(ctx, r.spreadsheetID, r.readRange)
	if err != nil {
		return nil, err
	}
	return table.Stringify(values), nil
}

// StatisticsRange is the destination block of the statistics table, such as
// A2:AW.
type StatisticsRange struct {
	FirstColumn string
	StartRow    int
	LastColumn  string
}

func ParseStatisticsRange(s string) (StatisticsRange, error) {
	first, last, ok := strings.Cut(s, ":")
	if !ok {
		return StatisticsRange{}, fmt.Errorf("invalid statistics range %q, expected a form like A2:AW", s)
	}
	column, row, err := excelize.SplitCellName(first)
	if err != nil {
		return StatisticsRange{}, fmt.Errorf("invalid statistics range %q: %w", s, err)
	}
	if _, err := excelize.ColumnNameToNumber(last); err != nil {
		return StatisticsRange{}, fmt.Errorf("invalid statistics range %q: %w", s, err)
	}
	return StatisticsRange{FirstColumn: column, StartRow: row, LastColumn: last}, nil
}

// Sink writes results into the statistics spreadsheet. Every write overwrites
// a fixed range, so repeating a write is harmless.
type Sink struct {
	client        *Client
	spreadsheetID string
	statistics    StatisticsRange
}

func (c *Client) Sink(spreadsheetID string, statistics StatisticsRange) *Sink {
	return &Sink{client: c, spreadsheetID: spreadsheetID, statistics: statistics}
}

func (s *Sink) WriteRows(ctx context.Context, startRow int, rows [][]string) error {
	writeRange := fmt.Sprintf("%s%d:%s", s.statistics.FirstColumn, startRow, s.statistics.LastColumn)
	updated, err := s.client.UpdateRange(ctx, s.spreadsheetID, writeRange, toValues(rows))
	if err != nil {
		return err
	}
	log.Info().
		Str("range", writeRange).
		Int64("updated_rows", updated).
		Msg("Wrote statistics rows")
	return nil
}

// WriteNamedTable creates the tab when missing and writes header plus rows
// from A1.
func (s *Sink) WriteNamedTable(ctx context.Context, name string, header []string, rows [][]string) error {
	all := append([][]string{header}, rows...)
	rowCount := int64(max(len(all), 100))
	if err := s.client.AddSheet(ctx, s.spreadsheetID, name, rowCount, int64(len(header))); err != nil {
		return err
	}

	lastColumn, err := excelize.ColumnNumberToName(max(len(header), 1))
	if err != nil {
		return fmt.Errorf("invalid header width %d: %w", len(header), err)
	}
	writeRange := fmt.Sprintf("%s!A1:%s", quoteSheetTitle(name), lastColumn)
	if _, err := s.client.UpdateRange(ctx, s.spreadsheetID, writeRange, toValues(all)); err != nil {
		return err
	}
	log.Info().
		Str("sheet", name).
		Int("rows", len(rows)).
		Msg("Wrote table")
	return nil
}

func toValues(rows [][]string) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		values[i] = cells
	}
	return values
}
