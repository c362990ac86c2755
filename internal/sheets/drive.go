package sheets

import (
	"context"
	"fmt"
	"sort"

	"sales_ledger/internal/processing"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/drive/v3"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// ListSpreadsheets returns every spreadsheet directly inside folderID, sorted
// by name.
func (c *Client) ListSpreadsheets(ctx context.Context, folderID string) ([]processing.SheetRef, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType='%s'", folderID, spreadsheetMimeType)

	var refs []processing.SheetRef
	err := c.drive.Files.List().
		Q(query).
		Fields("nextPageToken, files(id, name)").
		PageSize(1000).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				refs = append(refs, processing.SheetRef{ID: f.Id, Name: f.Name})
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", folderID, err)
	}

	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })

	log.Info().Str("folder", folderID).Int("spreadsheets", len(refs)).Msg("Listed folder")
	return refs, nil
}
