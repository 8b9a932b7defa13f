package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.BinDir != "bin" || cfg.Prefix != "bs-let" || cfg.Extension != ".exe" || cfg.Dest != "ppx" || !cfg.ExeAlias {
		t.Errorf("Default() = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty bin dir is package root", func(c *Config) { c.BinDir = "" }, false},
		{"nested dest", func(c *Config) { c.Dest = "node_modules/.bin/ppx" }, false},
		{"empty prefix", func(c *Config) { c.Prefix = "" }, true},
		{"prefix with slash", func(c *Config) { c.Prefix = "bin/bs-let" }, true},
		{"extension with slash", func(c *Config) { c.Extension = "/.exe" }, true},
		{"empty dest", func(c *Config) { c.Dest = "" }, true},
		{"absolute bin dir", func(c *Config) { c.BinDir = "/opt/bin" }, true},
		{"parent dest", func(c *Config) { c.Dest = "../ppx" }, true},
		{"parent keyring", func(c *Config) { c.Keyring = "bin/../../key.asc" }, true},
		{"dotdot name is fine", func(c *Config) { c.Dest = "..ppx" }, false},
		{"dot dest", func(c *Config) { c.Dest = "." }, true},
		{"dest cleaning to root", func(c *Config) { c.Dest = "sub/.." }, true},
		{"dot slash dest", func(c *Config) { c.Dest = "./" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_LoadEnv(t *testing.T) {
	t.Setenv(EnvArch, " ia32 ")
	t.Setenv(EnvPlatform, "win32")
	t.Setenv(EnvDebug, "1")

	cfg := Default()
	cfg.LoadEnv()

	if cfg.ArchOverride != "ia32" {
		t.Errorf("ArchOverride = %q, want ia32", cfg.ArchOverride)
	}
	if cfg.PlatformOverride != "win32" {
		t.Errorf("PlatformOverride = %q, want win32", cfg.PlatformOverride)
	}
	if !cfg.Debug {
		t.Error("Debug should be set")
	}
}

func TestConfig_LoadEnv_Unset(t *testing.T) {
	t.Setenv(EnvArch, "")
	t.Setenv(EnvPlatform, "")
	t.Setenv(EnvDebug, "")

	cfg := Default()
	cfg.ArchOverride = "arm64"
	cfg.LoadEnv()

	if cfg.ArchOverride != "arm64" {
		t.Errorf("empty env should not clear ArchOverride, got %q", cfg.ArchOverride)
	}
	if cfg.Debug {
		t.Error("Debug should not be set")
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "dest", Message: "cannot be empty"}
	if got := err.Error(); got != "config validation failed for dest: cannot be empty" {
		t.Errorf("Error() = %q", got)
	}
}

func TestNewSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	logger.Debug("hidden", "k", 1)
	logger.Info("shown", "k", 2)
	logger.Warn("warned")
	logger.Error("failed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered: %s", out)
	}
	for _, want := range []string{"msg=shown k=2", "level=WARN msg=warned", "level=ERROR msg=failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// nil falls back to a no-op logger
	NewSlogLogger(nil).Info("ignored")
}
