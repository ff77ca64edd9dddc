// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig loads Google Sheets configuration from Viper and environment variables.
// It follows this precedence:
// 1. Viper configuration (from config file or DASHBOARD_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Default values
func LoadSheetsConfig() (*sheets.Config, error) {
	config, err := loadSheetsConfig()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadOAuthClient loads only the OAuth2 client settings, for the
// interactive authentication flow that has no refresh token yet.
func LoadOAuthClient() sheets.OAuth2Config {
	config, _ := loadSheetsConfig()
	return sheets.OAuth2Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenFile:    config.TokenFile,
	}
}

func loadSheetsConfig() (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	if v := viper.GetString("sheets.service_account_path"); v != "" {
		config.ServiceAccountPath = ResolvePath(v)
	}
	if v := viper.GetString("sheets.client_id"); v != "" {
		config.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		config.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		config.RefreshToken = v
	}
	if v := viper.GetString("sheets.token_file"); v != "" {
		config.TokenFile = ResolvePath(v)
	}
	if v := viper.GetString("sheets.spreadsheet"); v != "" {
		config.Spreadsheet = v
	}
	if v := viper.GetString("sheets.database_sheet"); v != "" {
		config.DatabaseSheet = v
	}
	if v := viper.GetString("sheets.threshold_sheet"); v != "" {
		config.ThresholdSheet = v
	}

	// Override with direct environment variables if not set
	if config.ServiceAccountPath == "" {
		if v := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
			config.ServiceAccountPath = ResolvePath(v)
		}
	}
	if config.ClientID == "" {
		config.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if config.ClientSecret == "" {
		config.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if config.RefreshToken == "" {
		config.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if config.TokenFile == "" {
		config.TokenFile = ResolvePath(os.Getenv("GOOGLE_SHEETS_TOKEN_FILE"))
	}
	if config.Spreadsheet == "" {
		config.Spreadsheet = os.Getenv("GOOGLE_SHEETS_SPREADSHEET")
	}
	if config.TokenFile == "" {
		config.TokenFile = filepath.Join(ConfigDir(), TokenFileName)
	}

	// A token saved by 'dashboard auth sheets' stands in for a configured
	// refresh token.
	if config.RefreshToken == "" && config.ServiceAccountPath == "" {
		if token, err := sheets.LoadToken(config.TokenFile); err == nil {
			config.RefreshToken = token.RefreshToken
		}
	}

	return &config, nil
}
