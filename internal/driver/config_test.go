package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "sendcheck.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, "strict = true\n")

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok, err := FindConfig(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || got != want {
		t.Errorf("FindConfig = %q, %v; want %q, true", got, ok, want)
	}
}

func TestFindConfigMissing(t *testing.T) {
	_, ok, err := FindConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("FindConfig found a manifest in an empty tree")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "strict = true\njobs = 3\nmax_diagnostics = 10\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Strict || cfg.Jobs != 3 || cfg.MaxDiagnostics != 10 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "strcit = true\n")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Errorf("err = %v, want unknown key error", err)
	}
}

func TestLoadConfigDefaultsMaxDiagnostics(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "max_diagnostics = 0\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxDiagnostics != DefaultConfig().MaxDiagnostics {
		t.Errorf("MaxDiagnostics = %d, want default", cfg.MaxDiagnostics)
	}
}

func TestResolveConfigWithoutManifest(t *testing.T) {
	cfg, err := ResolveConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}
