package prefs

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const uiFile = "ui.json"

// UI holds view state remembered between runs.
type UI struct {
	LastTab string `json:"last_tab"`
}

func uiPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "haven")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, uiFile), nil
}

func SaveUI(p UI) error {
	path, err := uiPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadUI returns the zero UI when nothing has been saved yet.
func LoadUI() (UI, error) {
	path, err := uiPath()
	if err != nil {
		return UI{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return UI{}, nil
		}
		return UI{}, err
	}
	var p UI
	if err := json.Unmarshal(data, &p); err != nil {
		return UI{}, err
	}
	return p, nil
}
