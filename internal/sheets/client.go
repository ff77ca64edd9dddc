package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/normalize"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sort keys applied after every replace: period desc, segment asc, ending
// balance desc. Indices are 0-based columns of the canonical header. Periods
// are date cells, so the first key is chronological.
var replaceSortSpecs = []*sheets.SortSpec{
	{DimensionIndex: 0, SortOrder: "DESCENDING"},
	{DimensionIndex: 1, SortOrder: "ASCENDING"},
	{DimensionIndex: 10, SortOrder: "DESCENDING"},
}

// Client is the Google Sheets implementation of service.Spreadsheet.
type Client struct {
	service       *sheets.Service
	logger        *slog.Logger
	spreadsheetID string
	config        Config
}

var _ service.Spreadsheet = (*Client)(nil)

// NewClient authenticates and returns a client bound to the configured
// spreadsheet.
func NewClient(ctx context.Context, config Config, logger *slog.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewClientWithService(srv, config, logger)
}

// NewClientWithService wraps an existing service. Authentication settings in
// config are not consulted.
func NewClientWithService(srv *sheets.Service, config Config, logger *slog.Logger) (*Client, error) {
	id, err := SpreadsheetID(config.Spreadsheet)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		service:       srv,
		logger:        logger,
		spreadsheetID: id,
		config:        config,
	}, nil
}

// createSheetsService creates an authenticated Sheets service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// WithSpreadsheet returns a client for another spreadsheet that shares this
// client's authenticated service.
func (c *Client) WithSpreadsheet(locator string) (*Client, error) {
	config := c.config
	config.Spreadsheet = locator
	return NewClientWithService(c.service, config, c.logger)
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.config
}

// ReadTable reads the whole sheet. Numbers come back unformatted and are
// rendered with a decimal comma so the normalizer reads them unchanged;
// date cells such as periods come back as their displayed text.
func (c *Client) ReadTable(ctx context.Context, sheet string) (model.Table, error) {
	grid, err := c.readGrid(ctx, sheet)
	if err != nil {
		return model.Table{}, err
	}
	return model.NewTable(grid), nil
}

func (c *Client) readGrid(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, quoteSheet(sheet)).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, common.TransportError("read "+sheet, err)
	}

	grid := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellString(v)
		}
		grid = append(grid, cells)
	}
	c.logger.Debug("read sheet", "sheet", sheet, "rows", len(grid))
	return grid, nil
}

// cellString renders a value from the API as cell text.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return normalize.NumberText(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// ReplaceByKey deletes every row whose period and segment match, appends rows
// after the last used row and re-sorts the data rows, all in one batch update
// so a failure leaves the sheet untouched. An empty sheet gets the canonical
// header first.
func (c *Client) ReplaceByKey(ctx context.Context, sheet, period, segment string, rows [][]any) (service.ReplaceResult, error) {
	var result service.ReplaceResult

	sheetID, err := c.sheetID(ctx, sheet)
	if err != nil {
		return result, err
	}

	grid, err := c.readGrid(ctx, sheet)
	if err != nil {
		return result, err
	}

	// 0-based grid indices of matching data rows, deleted bottom-up so earlier
	// indices stay valid.
	var matches []int
	for i := 1; i < len(grid); i++ {
		row := grid[i]
		if len(row) >= 2 && samePeriod(row[0], period) && row[1] == segment {
			matches = append(matches, i)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(matches)))

	requests := make([]*sheets.Request, 0, len(matches)+2)
	for _, idx := range matches {
		requests = append(requests, &sheets.Request{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(idx),
					EndIndex:   int64(idx + 1),
				},
			},
		})
	}
	result.Deleted = len(matches)

	appended := make([]*sheets.RowData, 0, len(rows)+1)
	used := len(grid) - len(matches)
	if len(grid) == 0 {
		appended = append(appended, rowData(headerRow()))
		used = 1
	}
	for _, r := range rows {
		appended = append(appended, rowData(r))
	}
	result.StartRow = used + 1
	result.Appended = len(rows)

	if len(appended) > 0 {
		requests = append(requests, &sheets.Request{
			AppendCells: &sheets.AppendCellsRequest{
				SheetId:         sheetID,
				Rows:            appended,
				Fields:          "userEnteredValue,userEnteredFormat.numberFormat",
				ForceSendFields: []string{"SheetId"},
			},
		})
	}

	requests = append(requests, &sheets.Request{
		SortRange: &sheets.SortRangeRequest{
			Range: &sheets.GridRange{
				SheetId:         sheetID,
				StartRowIndex:   1,
				ForceSendFields: []string{"SheetId"},
			},
			SortSpecs: replaceSortSpecs,
		},
	})

	if err := c.batchUpdate(ctx, "replace rows", requests); err != nil {
		return service.ReplaceResult{}, err
	}

	c.logger.Info("replaced rows",
		"sheet", sheet,
		"period", period,
		"segment", segment,
		"deleted", result.Deleted,
		"appended", result.Appended,
		"start_row", result.StartRow)
	return result, nil
}

// UpdateCell overwrites a single cell; row and col are 1-based.
func (c *Client) UpdateCell(ctx context.Context, sheet string, row, col int, value any) error {
	rng := cellRange(sheet, row, col)
	_, err := c.service.Spreadsheets.Values.Update(c.spreadsheetID, rng, &sheets.ValueRange{Values: [][]any{{value}}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return common.TransportError("update "+rng, err)
	}
	return nil
}

// LookupThreshold returns the first threshold row of segment.
func (c *Client) LookupThreshold(ctx context.Context, segment string) (model.Threshold, error) {
	thresholds, err := c.ListThresholds(ctx)
	if err != nil {
		return model.Threshold{}, err
	}
	return findThreshold(thresholds, segment)
}

// ListThresholds reads every threshold row.
func (c *Client) ListThresholds(ctx context.Context) ([]model.Threshold, error) {
	t, err := c.ReadTable(ctx, c.config.ThresholdSheet)
	if err != nil {
		return nil, err
	}
	return ParseThresholds(t)
}

// ReplaceThresholds clears the threshold sheet and writes thresholds under a
// fresh header.
func (c *Client) ReplaceThresholds(ctx context.Context, thresholds []model.Threshold) error {
	sheet := quoteSheet(c.config.ThresholdSheet)
	if _, err := c.service.Spreadsheets.Values.Clear(c.spreadsheetID, sheet, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return common.TransportError("clear thresholds", err)
	}
	_, err := c.service.Spreadsheets.Values.Update(c.spreadsheetID, sheet+"!A1", &sheets.ValueRange{Values: thresholdGrid(thresholds)}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return common.TransportError("write thresholds", err)
	}
	c.logger.Info("replaced thresholds", "count", len(thresholds))
	return nil
}

func (c *Client) sheetID(ctx context.Context, title string) (int64, error) {
	ss, err := c.service.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, common.TransportError("get spreadsheet", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == title {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("%w: sheet %q not found in spreadsheet", common.ErrInvalidConfig, title)
}

func (c *Client) batchUpdate(ctx context.Context, op string, requests []*sheets.Request) error {
	_, err := c.service.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).
		Context(ctx).
		Do()
	if err != nil {
		return common.TransportError(op, err)
	}
	return nil
}
