package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config настройки проверки из sendcheck.toml.
type Config struct {
	// Strict escalates unclassified analysis patterns to hard errors.
	Strict bool `toml:"strict"`
	// Jobs bounds analysis parallelism; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`
	// MaxDiagnostics caps the diagnostics kept per module.
	MaxDiagnostics int `toml:"max_diagnostics"`
}

// DefaultConfig returns the settings used when no manifest is found.
func DefaultConfig() Config {
	return Config{MaxDiagnostics: 256}
}

// FindConfig walks up from startDir to locate sendcheck.toml.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "sendcheck.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadConfig decodes one manifest. Unknown keys are an error so typos do
// not silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.MaxDiagnostics <= 0 {
		cfg.MaxDiagnostics = DefaultConfig().MaxDiagnostics
	}
	return cfg, nil
}

// ResolveConfig loads the nearest manifest above startDir, falling back
// to defaults when none exists.
func ResolveConfig(startDir string) (Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return DefaultConfig(), err
	}
	if !ok {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}
