package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/config"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
		Long:  `Authenticate with Google Sheets, the dashboard's shared data store.`,
	}

	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command will:
1. Open your browser to authenticate with Google
2. Save the refresh token for future use
3. Update your config file with the token

Service account users do not need this; set sheets.service_account_path instead.`,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().Bool("no-browser", false, "print the URL instead of opening a browser")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	oauthConfig := config.LoadOAuthClient()

	// Override with flags if provided
	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		oauthConfig.ClientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		oauthConfig.ClientSecret = flagSecret
	}

	if oauthConfig.ClientID == "" || oauthConfig.ClientSecret == "" {
		return fmt.Errorf("OAuth2 credentials not found. Please set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret flags")
	}

	if oauthConfig.TokenFile == "" {
		oauthConfig.TokenFile = filepath.Join(config.ConfigDir(), config.TokenFileName)
	}

	slog.Info("Starting Google Sheets authentication", "token_file", oauthConfig.TokenFile)

	if noBrowser, _ := cmd.Flags().GetBool("no-browser"); !noBrowser {
		go openBrowser(oauthConfig.AuthURL())
	}

	token, err := sheets.AuthenticateOAuth2Interactive(ctx, oauthConfig, slog.Default())
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	// Update config file with refresh token
	viper.Set("sheets.refresh_token", token.RefreshToken)

	if err := saveConfig(); err != nil {
		slog.Warn("Failed to update config file with refresh token", "error", err)
		slog.Info("Please add this to your config.yaml manually:")
		slog.Info(fmt.Sprintf("sheets:\n  refresh_token: %q", token.RefreshToken))
	} else {
		slog.Info("Updated config file with refresh token")
	}

	slog.Info("Google Sheets is now configured. Run 'dashboard quadrant' to view the dashboard.")
	return nil
}

func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = filepath.Join(config.ConfigDir(), "config.yaml")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return err
	}

	return viper.WriteConfigAs(configFile)
}

// openBrowser tries to open the URL in the default browser.
func openBrowser(url string) {
	var err error
	switch goos := runtime.GOOS; goos {
	case "linux":
		err = exec.Command("xdg-open", url).Start() //nolint:gosec,forbidigo
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start() //nolint:gosec,forbidigo
	case "darwin":
		err = exec.Command("open", url).Start() //nolint:gosec,forbidigo
	}
	if err != nil {
		slog.Debug("Failed to open browser", "error", err)
	}
}
