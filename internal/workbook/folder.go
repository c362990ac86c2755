package workbook

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"sales_ledger/internal/processing"
	"sales_ledger/internal/table"

	"github.com/rs/zerolog/log"
)

var workbookPatterns = []string{"*.xlsx", "*.xls", "*.xlsm"}

// ListFolder returns the workbooks directly inside dir sorted by file name.
// The ref ID is the file path and the name is the base name.
func ListFolder(dir string) ([]processing.SheetRef, error) {
	var refs []processing.SheetRef
	seen := make(map[string]bool)
	for _, pattern := range workbookPatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
		for _, path := range matches {
			// ~$ files are Office lock files of open workbooks.
			if seen[path] || strings.HasPrefix(filepath.Base(path), "~$") {
				continue
			}
			seen[path] = true
			refs = append(refs, processing.SheetRef{ID: path, Name: filepath.Base(path)})
		}
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })

	log.Info().Str("folder", dir).Int("workbooks", len(refs)).Msg("Scanned folder")
	return refs, nil
}

// Source reads POS exports from local files.
type Source struct{}

func (Source) ReadTable(_ context.Context, ref processing.SheetRef) (*table.Table, error) {
	values, err := ReadFirstSheet(ref.ID)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("sheet", ref.Name).Int("rows", len(values)).Msg("Read workbook")
	return table.New(ref.Name, values), nil
}

// Reference reads a reference table from a local workbook. With Sheet set
// the named sheet is preferred over the first one.
type Reference struct {
	Path  string
	Sheet string
}

func (r Reference) ReadRows(context.Context) ([][]string, error) {
	if r.Path == "" {
		return nil, fmt.Errorf("no reference file configured")
	}
	if r.Sheet == "" {
		return ReadFirstSheet(r.Path)
	}
	return ReadNamedSheet(r.Path, r.Sheet)
}
