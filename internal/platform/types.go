// Package platform detects the host operating system and CPU architecture and
// reduces them to the short tags used in prebuilt binary file names.
//
// Detection works in two steps. The Go runtime values (GOOS, GOARCH) are first
// translated into the "reported" vocabulary used by the package manager that
// runs the installer ("win32", "ia32", "x64", ...). The reported values are then
// normalized into tags with exactly two rewrite rules: "ia32" becomes "x86" and
// "win32" becomes "win". Every other value passes through unchanged.
//
// On Linux the detector also asks gopsutil for distribution details. These are
// informational only and never influence the selected binary.
package platform

import "context"

// Reported values that are rewritten during normalization.
const (
	ReportedWindows = "win32"
	ReportedIA32    = "ia32"
)

// Platform tags.
const (
	PlatformWindows = "win"
	PlatformLinux   = "linux"
	PlatformDarwin  = "darwin"
)

// Architecture tags.
const (
	ArchX86   = "x86"
	ArchX64   = "x64"
	ArchARM64 = "arm64"
)

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
type Info struct {
	Platform    string // normalized platform tag ("linux", "darwin", "win")
	Arch        string // normalized architecture tag ("x64", "x86", "arm64")
	PlatformRaw string // reported platform before normalization ("win32")
	ArchRaw     string // reported architecture before normalization ("ia32")

	DistroID      string // Linux only, e.g. "ubuntu"
	DistroFamily  string // Linux only, canonical family
	DistroVersion string // Linux only, e.g. "22.04"
}

// Distro contains Linux distribution information.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// GetDistro returns distro information if this is a Linux platform.
// Returns nil for non-Linux platforms or if distro detection failed.
func (i *Info) GetDistro() *Distro {
	if !i.IsLinux() || i.DistroID == "" {
		return nil
	}
	return &Distro{
		ID:      i.DistroID,
		Family:  i.DistroFamily,
		Version: i.DistroVersion,
	}
}

// Tag returns "<platform>-<arch>", the part of a binary name that varies per host.
func (i *Info) Tag() string {
	return i.Platform + "-" + i.Arch
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.Platform == PlatformLinux
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.Platform == PlatformDarwin
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.Platform == PlatformWindows
}

// IsX64 returns true if the architecture is 64-bit x86.
func (i *Info) IsX64() bool {
	return i.Arch == ArchX64
}

// IsX86 returns true if the architecture is 32-bit x86.
func (i *Info) IsX86() bool {
	return i.Arch == ArchX86
}

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool {
	return i.Arch == ArchARM64
}

// IsAppleSilicon returns true if running on Apple Silicon (macOS + arm64).
func (i *Info) IsAppleSilicon() bool {
	return i.IsMacOS() && i.IsARM64()
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
