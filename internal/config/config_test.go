package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if cfg.App.Name != "jsonwalk" {
		t.Fatalf("expected app name jsonwalk, got %q", cfg.App.Name)
	}
	if cfg.Walk.Order != "dfs" || cfg.Output.Format != "text" || cfg.Output.PathStyle != "dotted" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Log.Format != "json" {
		t.Fatalf("expected json logs by default, got %q", cfg.Log.Format)
	}
	if cfg.Theme.Key == "" {
		t.Fatal("expected a default key color")
	}
}

func TestDefaultConfigYAMLIsCopy(t *testing.T) {
	a := DefaultConfigYAML()
	a[0] = '#'
	if DefaultConfigYAML()[0] == '#' {
		t.Fatal("DefaultConfigYAML must return a copy")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, "walk:\n  order: bfs\n  limit: 5\noutput:\n  no_color: true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Walk.Order != "bfs" || cfg.Walk.Limit != 5 || !cfg.Output.NoColor {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Output.Format != "text" || cfg.App.Name != "jsonwalk" {
		t.Fatalf("defaults lost: %+v", cfg)
	}

	def, _ := Default()
	if def.Walk.Order != "dfs" {
		t.Fatal("Load must not modify the cached defaults")
	}
}

func TestLoadEmptyPathAndEmptyFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil || cfg.Walk.Order != "dfs" {
		t.Fatalf("expected defaults, got %+v, %v", cfg, err)
	}
	cfg, err = Load(writeConfig(t, ""))
	if err != nil || cfg.Walk.Order != "dfs" {
		t.Fatalf("expected defaults for empty file, got %+v, %v", cfg, err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "walk:\n  ordr: bfs\n"))
	if err == nil || !strings.Contains(err.Error(), "ordr") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg, _ := Default()
	cfg.Walk.Filter = `kind == "number"`
	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), "path_style: dotted") {
		t.Fatalf("expected yaml tags in output:\n%s", data)
	}
	var back Config
	if err := Merge(&back, data); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if back != cfg {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", back, cfg)
	}
}

func TestResolvePath(t *testing.T) {
	if got := ResolvePath("/explicit.yaml", "jsonwalk"); got != "/explicit.yaml" {
		t.Fatalf("expected explicit path, got %q", got)
	}

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if got := ResolvePath("", "jsonwalk"); got != "" {
		t.Fatalf("expected no path when file is absent, got %q", got)
	}
	want := filepath.Join(dir, "jsonwalk", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(want), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(want, []byte("{}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := ResolvePath("", "jsonwalk"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
