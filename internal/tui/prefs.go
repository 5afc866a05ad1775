package tui

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const maxContextLines = 20

// Prefs holds viewer preferences that persist across sessions.
type Prefs struct {
	// ContextLines is how many source lines surround the marked line.
	ContextLines int `json:"context_lines"`
	// Theme is the chroma style used for syntax highlighting.
	Theme string `json:"theme"`
}

// DefaultPrefs returns the default preferences.
func DefaultPrefs() Prefs {
	return Prefs{
		ContextLines: 3,
		Theme:        "monokai",
	}
}

// prefsPath returns the path to the viewer preferences file.
func prefsPath() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "allnighter", "viewer.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "allnighter", "viewer.json"), nil
}

// LoadPrefs loads user preferences from disk, returning defaults if not found.
func LoadPrefs() Prefs {
	prefs := DefaultPrefs()

	path, err := prefsPath()
	if err != nil {
		return prefs
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return prefs
	}

	_ = json.Unmarshal(data, &prefs) //nolint:errcheck // fall back to defaults
	if prefs.ContextLines < 1 || prefs.ContextLines > maxContextLines {
		prefs.ContextLines = DefaultPrefs().ContextLines
	}
	if prefs.Theme == "" {
		prefs.Theme = DefaultPrefs().Theme
	}
	return prefs
}

// SavePrefs persists user preferences to disk.
func SavePrefs(prefs Prefs) error {
	path, err := prefsPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
