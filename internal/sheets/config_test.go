package sheets

import (
	"testing"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidation(t *testing.T) {
	const locator = "https://docs.google.com/spreadsheets/d/1AbC-d_9/edit#gid=0"

	tests := []struct {
		wantIs  error
		name    string
		errMsg  string
		config  Config
		wantErr bool
	}{
		{
			name: "service account",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				Spreadsheet:        locator,
				DatabaseSheet:      DefaultDatabaseSheet,
				ThresholdSheet:     DefaultThresholdSheet,
			},
		},
		{
			name: "oauth credentials",
			config: Config{
				ClientID:       "client",
				ClientSecret:   "secret",
				RefreshToken:   "token",
				Spreadsheet:    "1AbC-d_9",
				DatabaseSheet:  DefaultDatabaseSheet,
				ThresholdSheet: DefaultThresholdSheet,
			},
		},
		{
			name: "partial oauth credentials",
			config: Config{
				ClientID:     "test-client",
				RefreshToken: "test-token",
				Spreadsheet:  locator,
			},
			wantErr: true,
			wantIs:  common.ErrMissingConfig,
			errMsg:  "no authentication method configured",
		},
		{
			name: "both methods",
			config: Config{
				ClientID:           "client",
				ClientSecret:       "secret",
				RefreshToken:       "token",
				ServiceAccountPath: "/key.json",
				Spreadsheet:        locator,
			},
			wantErr: true,
			wantIs:  common.ErrInvalidConfig,
			errMsg:  "multiple authentication methods",
		},
		{
			name: "missing spreadsheet",
			config: Config{
				ServiceAccountPath: "/key.json",
			},
			wantErr: true,
			wantIs:  common.ErrMissingConfig,
			errMsg:  "spreadsheet locator is required",
		},
		{
			name: "empty sheet names",
			config: Config{
				ServiceAccountPath: "/key.json",
				Spreadsheet:        locator,
			},
			wantErr: true,
			wantIs:  common.ErrInvalidConfig,
			errMsg:  "sheet names cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "DATABASE", cfg.DatabaseSheet)
	assert.Equal(t, "Batas Kuadran", cfg.ThresholdSheet)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "/tmp/key.json")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET", "abc123")
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "")
	t.Setenv("GOOGLE_SHEETS_TOKEN_FILE", "")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())
	assert.Equal(t, "/tmp/key.json", cfg.ServiceAccountPath)
	assert.Equal(t, "abc123", cfg.Spreadsheet)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvMissingCredentials(t *testing.T) {
	for _, k := range []string{
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
	} {
		t.Setenv(k, "")
	}

	cfg := DefaultConfig()
	assert.ErrorIs(t, cfg.LoadFromEnv(), common.ErrMissingConfig)
}

func TestSpreadsheetID(t *testing.T) {
	tests := []struct {
		name    string
		locator string
		want    string
		wantErr bool
	}{
		{name: "edit url", locator: "https://docs.google.com/spreadsheets/d/1AbC-d_9/edit#gid=0", want: "1AbC-d_9"},
		{name: "bare url", locator: "https://docs.google.com/spreadsheets/d/xyz", want: "xyz"},
		{name: "id", locator: "  1AbC-d_9 ", want: "1AbC-d_9"},
		{name: "garbage", locator: "not a url at all", wantErr: true},
		{name: "empty", locator: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SpreadsheetID(tt.locator)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColumnLetter(t *testing.T) {
	tests := map[int]string{1: "A", 11: "K", 15: "O", 26: "Z", 27: "AA", 52: "AZ", 703: "AAA"}
	for col, want := range tests {
		assert.Equal(t, want, ColumnLetter(col), "column %d", col)
	}
}

func TestCellRange(t *testing.T) {
	assert.Equal(t, "'DATABASE'!L7", cellRange("DATABASE", 7, 12))
	assert.Equal(t, "'O''Brien'!A2", cellRange("O'Brien", 2, 1))
}
