package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearSheetsEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_TOKEN_FILE",
		"GOOGLE_SHEETS_SPREADSHEET",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoadSheetsConfigFromViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	clearSheetsEnv(t)

	viper.Set("sheets.service_account_path", "/keys/sa.json")
	viper.Set("sheets.spreadsheet", "https://docs.google.com/spreadsheets/d/abc/edit")
	viper.Set("sheets.database_sheet", "DB")

	cfg, err := LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, "/keys/sa.json", cfg.ServiceAccountPath)
	assert.Equal(t, "DB", cfg.DatabaseSheet)
	assert.Equal(t, "Batas Kuadran", cfg.ThresholdSheet)
}

func TestLoadSheetsConfigEnvFallback(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	clearSheetsEnv(t)

	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "id")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "refresh")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET", "abc")

	cfg, err := LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, "abc", cfg.Spreadsheet)
}

func TestLoadSheetsConfigMissingCredentials(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	clearSheetsEnv(t)

	viper.Set("sheets.spreadsheet", "abc")

	_, err := LoadSheetsConfig()
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestLoadOAuthClient(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	clearSheetsEnv(t)

	viper.Set("sheets.client_id", "id")
	viper.Set("sheets.client_secret", "secret")
	viper.Set("sheets.token_file", "/tmp/token.json")

	oc := LoadOAuthClient()
	assert.Equal(t, "id", oc.ClientID)
	assert.Equal(t, "/tmp/token.json", oc.TokenFile)
}

func TestLoadSheetsConfigTokenFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	clearSheetsEnv(t)

	tokenFile := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(tokenFile, []byte(`{"access_token":"a","refresh_token":"from-file"}`), 0600))

	viper.Set("sheets.client_id", "id")
	viper.Set("sheets.client_secret", "secret")
	viper.Set("sheets.token_file", tokenFile)
	viper.Set("sheets.spreadsheet", "abc")

	cfg, err := LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.RefreshToken)
}

func TestSegments(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	assert.Equal(t, model.DefaultSegments, Segments())

	viper.Set("segments", []string{" DGS ", "", "RBS"})
	assert.Equal(t, []string{"DGS", "RBS"}, Segments())

	viper.Set("segments", []string{"DGS,DPS"})
	assert.Equal(t, []string{"DGS", "DPS"}, Segments())
}

func TestSetDefaultsAndDatabasePath(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults(viper.GetViper())

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local/share/dashboard/dashboard.db"), DatabasePath())
	assert.Equal(t, "DATABASE", viper.GetString("sheets.database_sheet"))

	viper.Set("database.path", "$DASH_TEST_DIR/snap.db")
	t.Setenv("DASH_TEST_DIR", "/data")
	assert.Equal(t, "/data/snap.db", DatabasePath())
}

func TestResolvePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("DASH_X", "xyz")

	assert.Equal(t, filepath.Join(xdg, "dashboard"), ConfigDir())
	assert.Equal(t, "", ResolvePath(""))
	assert.Equal(t, home, ResolvePath("~"))
	assert.Equal(t, filepath.Join(home, "a/b"), ResolvePath("~/a/b"))
	assert.Equal(t, "/tmp/xyz", ResolvePath("/tmp/$DASH_X"))
	assert.Equal(t, filepath.Join(xdg, "dashboard", "token.json"), ResolvePath("token.json"))
	assert.Equal(t, filepath.Join(xdg, "dashboard", "data", "xyz.db"), ResolvePath("data/$DASH_X.db"))
}

func TestConfigDirDefault(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("XDG_CONFIG_HOME", "")

	assert.Equal(t, filepath.Join(home, ".config", "dashboard"), ConfigDir())
}

func TestLoadSheetsConfigRelativePaths(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	clearSheetsEnv(t)
	dir := ConfigDir()

	viper.Set("sheets.service_account_path", "sa.json")
	viper.Set("sheets.spreadsheet", "abc")
	viper.Set("database.path", "snap.db")

	cfg, err := LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sa.json"), cfg.ServiceAccountPath)
	assert.Equal(t, filepath.Join(dir, TokenFileName), cfg.TokenFile)
	assert.Equal(t, filepath.Join(dir, "snap.db"), DatabasePath())
}

func TestLoadSheetsConfigDefaultTokenFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	clearSheetsEnv(t)

	require.NoError(t, os.MkdirAll(ConfigDir(), 0750))
	tokenFile := filepath.Join(ConfigDir(), TokenFileName)
	require.NoError(t, os.WriteFile(tokenFile, []byte(`{"access_token":"a","refresh_token":"saved"}`), 0600))

	viper.Set("sheets.client_id", "id")
	viper.Set("sheets.client_secret", "secret")
	viper.Set("sheets.spreadsheet", "abc")

	cfg, err := LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, "saved", cfg.RefreshToken)
}
