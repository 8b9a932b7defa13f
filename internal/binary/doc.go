// Package binary installs the prebuilt executable shipped for the current
// platform.
//
// # File Layout
//
// The package ships one binary per supported platform under bin/, named
// bs-let-<platform>-<arch>.exe (the .exe suffix is used on every platform).
// Install copies the matching one to ppx and, unless disabled, to ppx.exe,
// then sets mode 0755 on each copy.
//
// # Idempotence
//
// A destination that already exists is never touched. Running the installer
// twice leaves the filesystem exactly as running it once did.
//
// # Unsupported Platforms
//
// If no binary exists for the platform, an advisory asking the user to open an
// issue is written to stderr and nothing is copied. This is not an error: the
// package setup continues.
//
// # Copying
//
// The binary is first streamed into a temporary file beside the destination
// and renamed into place. If that fails the whole file is read into memory and
// written directly.
//
// # Verification
//
// Optionally, before the first copy, the source is checked against a SHA256
// manifest and/or a detached OpenPGP signature (<binary>.asc or <binary>.sig)
// made by a key in the configured keyring. A failed check aborts the install.
//
// # Usage
//
//	inst, err := binary.NewInstaller(binary.Config{
//	    Root:         packageDir,
//	    Settings:     cfg,
//	    PlatformInfo: info,
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := inst.Install()
package binary
