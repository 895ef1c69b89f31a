package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HAVEN_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 6, cfg.UI.MoodWeeks)
	require.Equal(t, "Mon 02 Jan", cfg.UI.DateFormat)
	require.Contains(t, cfg.Database.Path, filepath.Join(".local", "share", "haven"))
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[database]
path = "/tmp/custom.db"

[ui]
date_format = "2006-01-02"
mood_weeks = 4
`), 0o600))
	t.Setenv("HAVEN_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/custom.db", cfg.Database.Path)
	require.Equal(t, "2006-01-02", cfg.UI.DateFormat)
	require.Equal(t, 4, cfg.UI.MoodWeeks)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Config{
		Database: DatabaseConfig{Path: "/data/haven.db"},
		UI:       UIConfig{DateFormat: "02/01", Timezone: "UTC", MoodWeeks: 8},
		Log:      LogConfig{Level: "warn", File: "/data/haven.log"},
		Metrics:  MetricsConfig{Addr: ":9464"},
	}
	require.NoError(t, Save(want, path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
