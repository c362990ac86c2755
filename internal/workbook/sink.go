package workbook

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// StatisticsSheet is the sheet holding the aligned statistics rows.
const StatisticsSheet = "統計資料"

// Sink writes the run output into one local workbook, saved after every write.
type Sink struct {
	Path string
	file *excelize.File
}

func NewSink(path string) *Sink {
	return &Sink{Path: path}
}

func (s *Sink) workbook() (*excelize.File, error) {
	if s.file != nil {
		return s.file, nil
	}
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), StatisticsSheet); err != nil {
		return nil, fmt.Errorf("failed to prepare workbook: %w", err)
	}
	s.file = f
	return f, nil
}

func (s *Sink) WriteRows(_ context.Context, startRow int, rows [][]string) error {
	f, err := s.workbook()
	if err != nil {
		return err
	}
	if err := writeRows(f, StatisticsSheet, startRow, rows); err != nil {
		return err
	}
	if err := s.save(); err != nil {
		return err
	}
	log.Info().Str("file", s.Path).Int("rows", len(rows)).Msg("Wrote statistics rows")
	return nil
}

func (s *Sink) WriteNamedTable(_ context.Context, name string, header []string, rows [][]string) error {
	f, err := s.workbook()
	if err != nil {
		return err
	}
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return fmt.Errorf("invalid sheet name %q: %w", name, err)
	}
	if idx < 0 {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", name, err)
		}
	}
	if err := writeRows(f, name, 1, append([][]string{header}, rows...)); err != nil {
		return err
	}
	if err := s.save(); err != nil {
		return err
	}
	log.Info().Str("file", s.Path).Str("sheet", name).Int("rows", len(rows)).Msg("Wrote table")
	return nil
}

func (s *Sink) save() error {
	if err := s.file.SaveAs(s.Path); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.Path, err)
	}
	return nil
}

// Close releases the in-memory workbook.
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

func writeRows(f *excelize.File, sheet string, startRow int, rows [][]string) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, startRow+i)
		if err != nil {
			return fmt.Errorf("invalid row %d: %w", startRow+i, err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", startRow+i, sheet, err)
		}
	}
	return nil
}
