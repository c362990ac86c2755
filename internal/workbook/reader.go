package workbook

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are neither OOXML
// workbooks nor HTML table exports (binary BIFF .xls in particular).
var ErrUnsupportedFormat = errors.New("unsupported workbook format")

// ErrNoTable is returned when an HTML export holds no <table>.
var ErrNoTable = errors.New("no table found")

const sniffLength = 512

// isHTMLExport reports whether the file starts like an HTML document. POS
// systems commonly save HTML tables under an .xls name.
func isHTMLExport(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	head = bytes.ToLower(head[:n])
	return bytes.Contains(head, []byte("<html")) || bytes.Contains(head, []byte("<!doctype")), nil
}

// ReadFirstSheet returns the raw values of the first sheet, header included.
func ReadFirstSheet(path string) ([][]string, error) {
	htmlExport, err := isHTMLExport(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if htmlExport {
		tables, err := readHTMLTables(path)
		if err != nil {
			return nil, err
		}
		return tables[0], nil
	}

	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readSheet(f, path, f.GetSheetName(0))
}

// ReadNamedSheet returns the values of the named sheet, falling back to the
// first sheet when it is missing. For HTML exports, which have no sheet
// names, the second table stands in for the named sheet.
func ReadNamedSheet(path, name string) ([][]string, error) {
	htmlExport, err := isHTMLExport(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if htmlExport {
		tables, err := readHTMLTables(path)
		if err != nil {
			return nil, err
		}
		if len(tables) >= 2 {
			return tables[1], nil
		}
		return tables[0], nil
	}

	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(name); err == nil && idx >= 0 {
		return readSheet(f, path, name)
	}
	log.Warn().
		Str("file", filepath.Base(path)).
		Str("sheet", name).
		Msg("Sheet not found, reading the first sheet")
	return readSheet(f, path, f.GetSheetName(0))
}

func openWorkbook(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if strings.EqualFold(filepath.Ext(path), ".xls") {
			return nil, fmt.Errorf("%s: %w: binary .xls is not supported, save it as .xlsx", filepath.Base(path), ErrUnsupportedFormat)
		}
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return f, nil
}

func readSheet(f *excelize.File, path, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, filepath.Base(path), err)
	}
	return rows, nil
}
