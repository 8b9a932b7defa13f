package config

// FileName is the optional config file looked up in the package root.
const FileName = "ppx-install.lua"

// Defaults matching the layout the package is published with.
const (
	DefaultBinDir    = "bin"
	DefaultPrefix    = "bs-let"
	DefaultExtension = ".exe"
	DefaultDest      = "ppx"
	DefaultExeAlias  = true
)

// Environment variables read by LoadEnv.
const (
	EnvArch     = "PPX_INSTALL_ARCH"
	EnvPlatform = "PPX_INSTALL_PLATFORM"
	EnvDebug    = "PPX_INSTALL_DEBUG"
)

// Lua schema field names and globals
const (
	luaGlobalInstall   = "install"
	luaFieldBinDir     = "bin_dir"
	luaFieldPrefix     = "prefix"
	luaFieldExtension  = "extension"
	luaFieldDest       = "dest"
	luaFieldExeAlias   = "exe_alias"
	luaFieldChecksums  = "checksums"
	luaFieldKeyring    = "keyring"
	maxConfigFileBytes = 64 * 1024
)
