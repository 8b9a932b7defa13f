package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config describes where the prebuilt binaries live and where they are installed.
// All paths are relative to the package root.
type Config struct {
	BinDir    string // directory holding the prebuilt binaries
	Prefix    string // file name prefix, e.g. "bs-let"
	Extension string // file name suffix, applied on every platform
	Dest      string // primary destination
	ExeAlias  bool   // also install Dest + ".exe"

	// Optional integrity checks. Empty disables them.
	Checksums string // SHA256 manifest ("<hex>  <filename>" per line)
	Keyring   string // OpenPGP public keyring for detached signatures

	// Reported platform and architecture overrides ("win32", "ia32").
	PlatformOverride string
	ArchOverride     string

	Debug bool
}

// Default returns the configuration the package ships with.
func Default() *Config {
	return &Config{
		BinDir:    DefaultBinDir,
		Prefix:    DefaultPrefix,
		Extension: DefaultExtension,
		Dest:      DefaultDest,
		ExeAlias:  DefaultExeAlias,
	}
}

// LoadEnv applies PPX_INSTALL_* environment variables on top of c.
func (c *Config) LoadEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvArch)); v != "" {
		c.ArchOverride = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPlatform)); v != "" {
		c.PlatformOverride = v
	}
	if os.Getenv(EnvDebug) != "" {
		c.Debug = true
	}
}

// Validate performs basic validation on a Config.
func (c *Config) Validate() error {
	if c.Prefix == "" {
		return &ValidationError{Field: luaFieldPrefix, Message: "cannot be empty"}
	}
	if strings.ContainsAny(c.Prefix, `/\`) {
		return &ValidationError{Field: luaFieldPrefix, Message: fmt.Sprintf("must be a file name prefix, got %q", c.Prefix)}
	}
	if strings.ContainsAny(c.Extension, `/\`) {
		return &ValidationError{Field: luaFieldExtension, Message: fmt.Sprintf("must not contain a path separator, got %q", c.Extension)}
	}
	if c.Dest == "" {
		return &ValidationError{Field: luaFieldDest, Message: "cannot be empty"}
	}

	paths := []struct {
		field string
		value string
	}{
		{luaFieldBinDir, c.BinDir},
		{luaFieldDest, c.Dest},
		{luaFieldChecksums, c.Checksums},
		{luaFieldKeyring, c.Keyring},
	}
	for _, p := range paths {
		if err := validateRelativePath(p.value); err != nil {
			return &ValidationError{Field: p.field, Message: err.Error()}
		}
	}

	// The destination names a file, so it cannot be the package root itself.
	if filepath.Clean(c.Dest) == "." {
		return &ValidationError{Field: luaFieldDest, Message: fmt.Sprintf("must name a file inside the package root, got %q", c.Dest)}
	}

	return nil
}

// validateRelativePath rejects paths that escape the package root.
func validateRelativePath(path string) error {
	if path == "" {
		return nil
	}
	if filepath.IsAbs(path) {
		return fmt.Errorf("must be relative to the package root, got %q", path)
	}
	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("must stay inside the package root, got %q", path)
	}
	return nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}
