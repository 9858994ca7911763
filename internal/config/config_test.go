package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("exists = true for an absent file")
	}
	if cfg.Paths.APIBind != defaultAPIBind {
		t.Errorf("APIBind = %q", cfg.Paths.APIBind)
	}
	if cfg.Reindex.CaptionExtension != defaultCaptionExtension {
		t.Errorf("CaptionExtension = %q", cfg.Reindex.CaptionExtension)
	}
	if len(cfg.Audio.Extensions) == 0 || cfg.Audio.Extensions[0] != ".ogg" {
		t.Errorf("Extensions = %v", cfg.Audio.Extensions)
	}
}

func TestLoadParsesAndExpands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uttale.toml")
	content := `
[paths]
root_dir = "` + filepath.Join(dir, "media") + `"
api_bind = "127.0.0.1:7777"

[audio]
extensions = ["OPUS", " .mp3 "]

[reindex]
workers = 2
caption_extension = "srt"

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7777" {
		t.Errorf("APIBind = %q", cfg.Paths.APIBind)
	}
	if !filepath.IsAbs(cfg.Paths.RootDir) {
		t.Errorf("RootDir not absolute: %q", cfg.Paths.RootDir)
	}
	want := []string{".opus", ".mp3"}
	if len(cfg.Audio.Extensions) != len(want) {
		t.Fatalf("Extensions = %v", cfg.Audio.Extensions)
	}
	for i, ext := range want {
		if cfg.Audio.Extensions[i] != ext {
			t.Errorf("Extensions[%d] = %q, want %q", i, cfg.Audio.Extensions[i], ext)
		}
	}
	if cfg.Reindex.Workers != 2 {
		t.Errorf("Workers = %d", cfg.Reindex.Workers)
	}
	if cfg.Reindex.CaptionExtension != ".srt" {
		t.Errorf("CaptionExtension = %q", cfg.Reindex.CaptionExtension)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad bind", func(c *Config) { c.Paths.APIBind = "7010" }, "api_bind"},
		{"empty root", func(c *Config) { c.Paths.RootDir = "" }, "root_dir"},
		{"no extensions", func(c *Config) { c.Audio.Extensions = nil }, "extensions"},
		{"negative workers", func(c *Config) { c.Reindex.Workers = -1 }, "workers"},
		{"bad format", func(c *Config) { c.Logging.Format = "pretty" }, "logging.format"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				t.Fatalf("normalize: %v", err)
			}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate accepted invalid config")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestDatabaseAndLockPaths(t *testing.T) {
	cfg := Default()
	cfg.Paths.DataDir = "/var/lib/uttale"
	if got := cfg.DatabasePath(); got != filepath.Join("/var/lib/uttale", "lines.db") {
		t.Errorf("DatabasePath = %q", got)
	}
	if got := cfg.LockFilePath(); got != filepath.Join("/var/lib/uttale", "uttale.lock") {
		t.Errorf("LockFilePath = %q", got)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample config not found after CreateSample")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("sample config invalid: %v", err)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := ExpandPath("~/captions")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "captions") {
		t.Errorf("ExpandPath = %q", got)
	}
}
