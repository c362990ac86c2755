package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Client struct {
	service *sheets.Service
	drive   *drive.Service
}

func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	return NewClientWithOptions(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope, drive.DriveReadonlyScope),
	)
}

// NewClientWithOptions builds both services from the same options, which lets
// tests point them at a local endpoint.
func NewClientWithOptions(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &Client{
		service: service,
		drive:   driveService,
	}, nil
}

func (c *Client) ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, range_).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	return resp.Values, nil
}

// UpdateRange overwrites range_ with values stored as given (no formula or
// number parsing).
func (c *Client) UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) (int64, error) {
	valueRange := &sheets.ValueRange{
		Values: values,
	}

	resp, err := c.service.Spreadsheets.Values.Update(spreadsheetID, range_, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to update range: %w", err)
	}

	return resp.UpdatedRows, nil
}

// FirstSheetTitle returns the title of the first tab.
func (c *Client) FirstSheetTitle(ctx context.Context, spreadsheetID string) (string, error) {
	resp, err := c.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}
	if len(resp.Sheets) == 0 || resp.Sheets[0].Properties == nil {
		return "", fmt.Errorf("spreadsheet %s has no sheets", spreadsheetID)
	}
	return resp.Sheets[0].Properties.Title, nil
}

// AddSheet creates a tab. A tab that already exists is not an error.
func (c *Client) AddSheet(ctx context.Context, spreadsheetID, title string, rows, columns int64) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						RowCount:    rows,
						ColumnCount: columns,
					},
				},
			},
		}},
	}

	_, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		if isAlreadyExists(err) {
			log.Debug().Str("sheet", title).Msg("Sheet already exists")
			return nil
		}
		return fmt.Errorf("failed to add sheet %q: %w", title, err)
	}

	log.Debug().Str("sheet", title).Msg("Created sheet")
	return nil
}

// quoteSheetTitle renders a tab title for A1 notation.
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
