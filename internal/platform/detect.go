package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// distroFunc looks up Linux distribution details (platform, family, version).
type distroFunc func(ctx context.Context) (string, string, string, error)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct {
	goos   string
	goarch string

	// Reported values that replace the ones derived from goos/goarch.
	platformOverride string
	archOverride     string

	distro distroFunc
}

// NewDetector creates a new platform detector for the running process.
func NewDetector() Detector {
	return &RealDetector{
		goos:   runtime.GOOS,
		goarch: runtime.GOARCH,
		distro: host.PlatformInformationWithContext,
	}
}

// NewDetectorWithOverrides creates a detector that reports the given platform
// and architecture instead of the running process's values. Empty strings keep
// the detected value. Overrides use the reported vocabulary ("win32", "ia32")
// and go through normalization like detected values do.
func NewDetectorWithOverrides(reportedPlatform, reportedArch string) Detector {
	return &RealDetector{
		goos:             runtime.GOOS,
		goarch:           runtime.GOARCH,
		platformOverride: reportedPlatform,
		archOverride:     reportedArch,
		distro:           host.PlatformInformationWithContext,
	}
}

// Detect performs platform detection and returns platform information.
//
// Distribution details are only looked up when the process actually runs on
// Linux and the reported platform is Linux. If gopsutil cannot determine them
// the distro fields stay empty; a cancelled context is a hard failure.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		PlatformRaw: ReportedPlatform(d.goos),
		ArchRaw:     ReportedArch(d.goarch),
	}
	if d.platformOverride != "" {
		info.PlatformRaw = d.platformOverride
	}
	if d.archOverride != "" {
		info.ArchRaw = d.archOverride
	}

	info.Platform = NormalizePlatform(info.PlatformRaw)
	info.Arch = NormalizeArch(info.ArchRaw)

	if d.goos != "linux" || !info.IsLinux() || d.distro == nil {
		return info, nil
	}

	id, family, version, err := d.distro(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	if id = normalizeDistro(id); id != "" {
		info.DistroID = id
		info.DistroFamily = mapFamily(family)
		info.DistroVersion = normalizeDistro(version)
	}

	return info, nil
}

// staticDetector returns previously detected information.
type staticDetector struct {
	info *Info
}

// NewStaticDetector returns a Detector that always reports info. It lets a
// caller detect once and share the result with other consumers.
func NewStaticDetector(info *Info) Detector {
	return &staticDetector{info: info}
}

// Detect returns the stored info.
func (s *staticDetector) Detect(ctx context.Context) (*Info, error) {
	if s.info == nil {
		return nil, fmt.Errorf("no platform information")
	}
	return s.info, nil
}
