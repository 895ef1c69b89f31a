package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUIRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	p, err := LoadUI()
	require.NoError(t, err)
	require.Equal(t, UI{}, p)

	require.NoError(t, SaveUI(UI{LastTab: "mood"}))
	p, err = LoadUI()
	require.NoError(t, err)
	require.Equal(t, "mood", p.LastTab)

	_, err = os.Stat(filepath.Join(dir, "haven", "ui.json.tmp"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadUIRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "haven"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "haven", "ui.json"), []byte("{"), 0o600))

	_, err := LoadUI()
	require.Error(t, err)
}
