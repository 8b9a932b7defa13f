// Package config loads the optional installer configuration.
//
// The installer works without any configuration: the defaults describe the
// layout the package is published with (binaries under bin/ named
// bs-let-<platform>-<arch>.exe, installed as ppx and ppx.exe). A package can
// change that layout with a ppx-install.lua file in its root.
//
// # Lua Config
//
// The file runs in a sandboxed gopher-lua VM (no os, io, debug or module
// loading) with a read-only platform table in scope, and must define a global
// install table:
//
//	install = {
//	  bin_dir   = "bin",
//	  prefix    = "bs-let",
//	  extension = ".exe",
//	  dest      = "ppx",
//	  exe_alias = not platform.is_windows,
//	  checksums = "bin/checksums.txt",
//	  keyring   = "bin/bs-let.asc",
//	}
//
// Every field is optional. Paths are relative to the package root and may not
// leave it.
//
// # Precedence
//
// Defaults, then the Lua file, then PPX_INSTALL_* environment variables (see
// Config.LoadEnv), then command-line flags applied by the caller.
//
// # Structured Logging
//
//	parser := config.NewParser(detector).WithLogger(config.NewSlogLogger(slog.Default()))
//	cfg, err := parser.LoadFile(ctx, filepath.Join(root, config.FileName))
package config
