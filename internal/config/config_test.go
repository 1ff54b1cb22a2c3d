package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "GEOTAG_JOURNAL", "GEOTAG_OFFSET", "GEOTAG_WORKERS", "GEOTAG_FAIL_FAST", "GEOTAG_DRY_RUN"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != ":8080" || cfg.JournalPath != "" || cfg.OffsetSeconds != 0 || cfg.Workers != 1 || !cfg.FailFast || cfg.DryRun {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("GEOTAG_OFFSET", "-7200")
	t.Setenv("GEOTAG_WORKERS", "4")
	t.Setenv("GEOTAG_FAIL_FAST", "false")
	t.Setenv("GEOTAG_JOURNAL", " ./journal.db ")
	cfg := Load()
	if cfg.OffsetSeconds != -7200 || cfg.Workers != 4 || cfg.FailFast || cfg.JournalPath != "./journal.db" {
		t.Errorf("cfg = %+v", cfg)
	}

	t.Setenv("GEOTAG_OFFSET", "soon")
	if got := Load().OffsetSeconds; got != 0 {
		t.Errorf("bad offset parsed as %d", got)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "geotag.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
server:
  port: 9090
geotag:
  offsetSeconds: 0
  workers: 8
  failFast: false
  journal: /tmp/j.db
  track: walk.gpx
log:
  level: debug
  format: json
`)
	cfg := &Config{OffsetSeconds: 3600, Workers: 1, FailFast: true, Port: ":8080"}
	if err := LoadFile(path, cfg); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != ":9090" || cfg.OffsetSeconds != 0 || cfg.Workers != 8 || cfg.FailFast || cfg.JournalPath != "/tmp/j.db" || cfg.TrackPath != "walk.gpx" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("log = %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad level":  "log:\n  level: loud\n",
		"bad offset": "geotag:\n  offsetSeconds: 100000\n",
		"bad yaml":   "geotag: [",
		"bad secret": "auth:\n  jwtSecret: short\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if err := LoadFile(writeFile(t, content), &Config{}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	err := LoadFile(filepath.Join(t.TempDir(), "none.yml"), &Config{})
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Errorf("err = %v", err)
	}
}
