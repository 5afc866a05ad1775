package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by the loaders when no config file exists.
var ErrNotFound = errors.New("config not found")

// LocalNames lists the repo-local config file names in search order.
var LocalNames = []string{".allnighter.yml", ".allnighter.yaml", "allnighter.yml", "allnighter.yaml"}

// FileConfig is the on-disk YAML configuration shape for AllNighter.
// Fields are pointers so that an absent key can be told apart from a zero.
type FileConfig struct {
	Include         *string  `yaml:"include,omitempty"`
	Exclude         *string  `yaml:"exclude,omitempty"`
	MaxBytes        *int64   `yaml:"max_bytes,omitempty"`
	Extensions      []string `yaml:"extensions,omitempty"`
	MaxFiles        *int     `yaml:"max_files,omitempty"`
	Threads         *int     `yaml:"threads,omitempty"`
	Latin1Fallback  *bool    `yaml:"latin1_fallback,omitempty"`
	DefaultExcludes *bool    `yaml:"default_excludes,omitempty"`
	NoColor         *bool    `yaml:"no_color,omitempty"`
	Format          *string  `yaml:"format,omitempty"`
	FailOnCount     *int     `yaml:"fail_on_count,omitempty"`
	Baseline        *string  `yaml:"baseline,omitempty"`
	LogLevel        *string  `yaml:"log_level,omitempty"`
	LogFormat       *string  `yaml:"log_format,omitempty"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LocalPath returns the first repo-local config file found in root.
func LocalPath(root string) (string, bool) {
	for _, name := range LocalNames {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// LoadLocal searches for a repo-local config file in the given root.
func LoadLocal(root string) (FileConfig, error) {
	p, ok := LocalPath(root)
	if !ok {
		return FileConfig{}, ErrNotFound
	}
	return LoadFile(p)
}

// GlobalPath returns $XDG_CONFIG_HOME/allnighter/config.yml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func GlobalPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return "", fmt.Errorf("no config dir: %w", ErrNotFound)
	}
	return filepath.Join(base, "allnighter", "config.yml"), nil
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	p, err := GlobalPath()
	if err != nil {
		return FileConfig{}, err
	}
	if _, err := os.Stat(p); err != nil {
		return FileConfig{}, ErrNotFound
	}
	return LoadFile(p)
}

// Merge returns the file settings with local values taking precedence over
// global ones. CLI flags are applied on top by the caller.
func Merge(local, global FileConfig) FileConfig {
	out := global
	if local.Include != nil {
		out.Include = local.Include
	}
	if local.Exclude != nil {
		out.Exclude = local.Exclude
	}
	if local.MaxBytes != nil {
		out.MaxBytes = local.MaxBytes
	}
	if len(local.Extensions) > 0 {
		out.Extensions = local.Extensions
	}
	if local.MaxFiles != nil {
		out.MaxFiles = local.MaxFiles
	}
	if local.Threads != nil {
		out.Threads = local.Threads
	}
	if local.Latin1Fallback != nil {
		out.Latin1Fallback = local.Latin1Fallback
	}
	if local.DefaultExcludes != nil {
		out.DefaultExcludes = local.DefaultExcludes
	}
	if local.NoColor != nil {
		out.NoColor = local.NoColor
	}
	if local.Format != nil {
		out.Format = local.Format
	}
	if local.FailOnCount != nil {
		out.FailOnCount = local.FailOnCount
	}
	if local.Baseline != nil {
		out.Baseline = local.Baseline
	}
	if local.LogLevel != nil {
		out.LogLevel = local.LogLevel
	}
	if local.LogFormat != nil {
		out.LogFormat = local.LogFormat
	}
	return out
}

// Effective loads the local config from root and the global config and
// merges them. Missing files are not an error; malformed ones are.
func Effective(root string) (FileConfig, error) {
	local, err := LoadLocal(root)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return FileConfig{}, err
	}
	global, err := LoadGlobal()
	if err != nil && !errors.Is(err, ErrNotFound) {
		return FileConfig{}, err
	}
	return Merge(local, global), nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg FileConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}
