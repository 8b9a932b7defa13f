package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/ZebulonRouseFrantzich/ppx-install/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// Parser represents a Lua config parser with platform detection.
type Parser struct {
	detector platform.Detector
	logger   Logger
}

// NewParser creates a new config parser with the given platform detector.
// A nil detector leaves the platform table undefined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector, logger: NopLogger()}
}

// WithLogger sets the logger used for warnings about the config contents.
func (p *Parser) WithLogger(logger Logger) *Parser {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// ParseString parses a Lua config from a string.
// Fields the config does not set keep their default values.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()

	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	L.SetContext(ctx)
	if err := L.DoString(luaCode); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("evaluate config: %w", ctx.Err())
		}
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return p.extractConfig(L)
}

// ParseFile parses the Lua config at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxConfigFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > maxConfigFileBytes {
		return nil, &ParseError{
			Message: "config file too large",
			Detail:  fmt.Sprintf("%s exceeds %d bytes", path, maxConfigFileBytes),
		}
	}

	p.logger.Debug("parsing config", "path", path)
	return p.ParseString(ctx, string(data))
}

// LoadFile is ParseFile for an optional file: a missing file yields the defaults.
func (p *Parser) LoadFile(ctx context.Context, path string) (*Config, error) {
	cfg, err := p.ParseFile(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		p.logger.Debug("no config file, using defaults", "path", path)
		return Default(), nil
	}
	return cfg, err
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the global "install" table over the defaults.
func (p *Parser) extractConfig(L *lua.LState) (*Config, error) {
	installVal := L.GetGlobal(luaGlobalInstall)
	if installVal.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'install' table",
			Detail:  fmt.Sprintf("expected table, got %s", installVal.Type()),
		}
	}
	table := installVal.(*lua.LTable)

	cfg := Default()

	stringFields := []struct {
		name string
		dst  *string
	}{
		{luaFieldBinDir, &cfg.BinDir},
		{luaFieldPrefix, &cfg.Prefix},
		{luaFieldExtension, &cfg.Extension},
		{luaFieldDest, &cfg.Dest},
		{luaFieldChecksums, &cfg.Checksums},
		{luaFieldKeyring, &cfg.Keyring},
	}
	for _, f := range stringFields {
		v := table.RawGetString(f.name)
		switch v.Type() {
		case lua.LTNil:
		case lua.LTString:
			*f.dst = v.String()
		default:
			return nil, &ParseError{
				Message: fmt.Sprintf("invalid '%s' field", f.name),
				Detail:  fmt.Sprintf("expected string, got %s", v.Type()),
			}
		}
	}

	switch v := table.RawGetString(luaFieldExeAlias); v.Type() {
	case lua.LTNil:
	case lua.LTBool:
		cfg.ExeAlias = bool(v.(lua.LBool))
	default:
		return nil, &ParseError{
			Message: fmt.Sprintf("invalid '%s' field", luaFieldExeAlias),
			Detail:  fmt.Sprintf("expected boolean, got %s", v.Type()),
		}
	}

	table.ForEach(func(key, _ lua.LValue) {
		if !isKnownField(key.String()) {
			p.logger.Warn("ignoring unknown config field", "field", key.String())
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return cfg, nil
}

func isKnownField(name string) bool {
	switch name {
	case luaFieldBinDir, luaFieldPrefix, luaFieldExtension, luaFieldDest,
		luaFieldExeAlias, luaFieldChecksums, luaFieldKeyring:
		return true
	}
	return false
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
