package platform

import (
	"strings"
)

// reportedPlatforms maps GOOS values whose reported name differs.
// Anything missing from the table is reported as-is.
var reportedPlatforms = map[string]string{
	"windows": ReportedWindows,
	"solaris": "sunos",
	"illumos": "sunos",
}

// reportedArchs maps GOARCH values whose reported name differs.
var reportedArchs = map[string]string{
	"amd64":   ArchX64,
	"386":     ReportedIA32,
	"mipsle":  "mipsel",
	"ppc64le": "ppc64",
}

// familyMap maps distribution names to their canonical family names.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// ReportedPlatform converts a GOOS value to the reported platform name.
func ReportedPlatform(goos string) string {
	if reported, ok := reportedPlatforms[goos]; ok {
		return reported
	}
	return goos
}

// ReportedArch converts a GOARCH value to the reported architecture name.
func ReportedArch(goarch string) string {
	if reported, ok := reportedArchs[goarch]; ok {
		return reported
	}
	return goarch
}

// NormalizeArch rewrites "ia32" to "x86" and returns any other value unchanged.
func NormalizeArch(arch string) string {
	if arch == ReportedIA32 {
		return ArchX86
	}
	return arch
}

// NormalizePlatform rewrites "win32" to "win" and returns any other value unchanged.
func NormalizePlatform(platform string) string {
	if platform == ReportedWindows {
		return PlatformWindows
	}
	return platform
}

// normalizeDistro lowercases distribution identifiers for consistency.
func normalizeDistro(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	if canonical, ok := familyMap[normalizeDistro(family)]; ok {
		return canonical
	}
	return FamilyUnknown
}
