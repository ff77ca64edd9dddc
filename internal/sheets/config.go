// Package sheets provides Google Sheets API integration for the dashboard's
// record store and threshold reference table.
package sheets

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
)

// Default sheet names.
const (
	DefaultDatabaseSheet  = "DATABASE"
	DefaultThresholdSheet = "Batas Kuadran"
)

// Config holds the configuration for the Google Sheets client.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	// TokenFile caches the token obtained by the interactive OAuth2 flow.
	TokenFile string
	// Spreadsheet is the document locator: a spreadsheet URL or bare ID.
	Spreadsheet    string
	DatabaseSheet  string
	ThresholdSheet string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DatabaseSheet:  DefaultDatabaseSheet,
		ThresholdSheet: DefaultThresholdSheet,
	}
}

// LoadFromEnv loads the configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	// OAuth2 credentials
	c.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	c.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	c.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")

	// Service account path (alternative to OAuth2)
	c.ServiceAccountPath = os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")

	c.TokenFile = os.Getenv("GOOGLE_SHEETS_TOKEN_FILE")
	c.Spreadsheet = os.Getenv("GOOGLE_SHEETS_SPREADSHEET")

	if c.ServiceAccountPath == "" && (c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == "") {
		return fmt.Errorf("%w: provide either service account path or OAuth2 credentials", common.ErrMissingConfig)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	hasServiceAccount := c.ServiceAccountPath != ""

	if !hasOAuth && !hasServiceAccount {
		return fmt.Errorf("%w: no authentication method configured", common.ErrMissingConfig)
	}

	if hasOAuth && hasServiceAccount {
		return fmt.Errorf("%w: multiple authentication methods configured; use either OAuth2 or service account", common.ErrInvalidConfig)
	}

	if strings.TrimSpace(c.Spreadsheet) == "" {
		return fmt.Errorf("%w: spreadsheet locator is required", common.ErrMissingConfig)
	}
	if _, err := SpreadsheetID(c.Spreadsheet); err != nil {
		return err
	}

	if c.DatabaseSheet == "" || c.ThresholdSheet == "" {
		return fmt.Errorf("%w: sheet names cannot be empty", common.ErrInvalidConfig)
	}

	return nil
}

var (
	spreadsheetURL = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	bareID         = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// SpreadsheetID extracts the spreadsheet ID from a locator, which is either
// a docs.google.com URL or the ID itself.
func SpreadsheetID(locator string) (string, error) {
	locator = strings.TrimSpace(locator)
	if m := spreadsheetURL.FindStringSubmatch(locator); m != nil {
		return m[1], nil
	}
	if bareID.MatchString(locator) {
		return locator, nil
	}
	return "", fmt.Errorf("%w: %q is not a spreadsheet URL or ID", common.ErrInvalidConfig, locator)
}
