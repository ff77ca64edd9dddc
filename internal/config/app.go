package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/spf13/viper"
)

// DefaultDatabasePath is where snapshots are kept unless configured.
const DefaultDatabasePath = "~/.local/share/dashboard/dashboard.db"

// TokenFileName is the OAuth2 token saved by 'dashboard auth sheets', kept
// in ConfigDir.
const TokenFileName = "sheets-token.json"

// ConfigDir returns the dashboard configuration directory:
// $XDG_CONFIG_HOME/dashboard, or ~/.config/dashboard.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "dashboard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "dashboard")
	}
	return filepath.Join(home, ".config", "dashboard")
}

// ResolvePath expands ~ and environment variables in a configured path.
// Relative paths are taken relative to ConfigDir, so "token.json" in the
// config file means the token next to it.
func ResolvePath(path string) string {
	if path == "" {
		return ""
	}
	path = os.ExpandEnv(path)
	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	case !filepath.IsAbs(path):
		return filepath.Join(ConfigDir(), path)
	}
	return path
}

// SetDefaults registers the default values of every application key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("sheets.database_sheet", "DATABASE")
	v.SetDefault("sheets.threshold_sheet", "Batas Kuadran")
	v.SetDefault("segments", model.DefaultSegments)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("ui.theme", "default")
}

// Segments returns the configured business segments. Values are trimmed and
// blanks dropped; an empty list falls back to the defaults.
func Segments() []string {
	var out []string
	for _, s := range viper.GetStringSlice("segments") {
		// A comma separated env var arrives as a single element.
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	if len(out) == 0 {
		return append([]string(nil), model.DefaultSegments...)
	}
	return out
}

// DatabasePath returns the resolved snapshot database path.
func DatabasePath() string {
	p := viper.GetString("database.path")
	if p == "" {
		p = DefaultDatabasePath
	}
	return ResolvePath(p)
}
