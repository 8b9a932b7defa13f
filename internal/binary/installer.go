package binary

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/ppx-install/internal/config"
	"github.com/ZebulonRouseFrantzich/ppx-install/internal/platform"
)

// Installer copies the prebuilt binary for the detected platform into place.
type Installer struct {
	root         string
	settings     *config.Config
	platformInfo *platform.Info
	logger       config.Logger
	stderr       io.Writer
	verifier     *Verifier

	native   copyFunc
	buffered copyFunc
}

// Config holds configuration for the installer
type Config struct {
	// Root is the package directory; every other path is relative to it.
	Root string
	// Settings describes the file layout. Nil means config.Default().
	Settings *config.Config
	// PlatformInfo contains the normalized platform and architecture tags.
	PlatformInfo *platform.Info
	// Logger receives structured progress messages. Nil discards them.
	Logger config.Logger
	// Stderr receives the unsupported-platform advisory. Nil means os.Stderr.
	Stderr io.Writer
}

// NewInstaller creates a new installer
func NewInstaller(cfg Config) (*Installer, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("Root is required")
	}

	if cfg.PlatformInfo == nil {
		return nil, fmt.Errorf("PlatformInfo is required")
	}
	if err := validateTag("platform", cfg.PlatformInfo.Platform); err != nil {
		return nil, err
	}
	if err := validateTag("arch", cfg.PlatformInfo.Arch); err != nil {
		return nil, err
	}

	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = config.NopLogger()
	}

	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var checksums, keyring string
	if settings.Checksums != "" {
		checksums = filepath.Join(cfg.Root, settings.Checksums)
	}
	if settings.Keyring != "" {
		keyring = filepath.Join(cfg.Root, settings.Keyring)
	}

	return &Installer{
		root:         cfg.Root,
		settings:     settings,
		platformInfo: cfg.PlatformInfo,
		logger:       logger,
		stderr:       stderr,
		verifier:     NewVerifier(checksums, keyring),
		native:       copyAtomic,
		buffered:     copyBuffered,
	}, nil
}

// SourcePath returns the path of the prebuilt binary for this platform.
func (i *Installer) SourcePath() string {
	name := SourceFilename(i.settings.Prefix, i.settings.Extension, i.platformInfo)
	return sourcePath(i.root, i.settings.BinDir, name)
}

// Destinations returns the paths the binary is installed to, primary first.
func (i *Installer) Destinations() []string {
	return destinationPaths(i.root, i.settings.Dest, i.settings.ExeAlias)
}

// IsSupported reports whether a prebuilt binary exists for this platform.
func (i *Installer) IsSupported() (bool, error) {
	return exists(i.SourcePath())
}

// Install copies the prebuilt binary to every destination that does not exist
// yet and makes it executable. Existing destinations are never modified, so
// running Install again is a no-op.
//
// When no binary exists for the platform the advisory is written to Stderr
// and no copy is attempted; this is not an error.
func (i *Installer) Install() (*Result, error) {
	src := i.SourcePath()
	result := &Result{Source: src}

	supported, err := exists(src)
	if err != nil {
		return nil, fmt.Errorf("check source: %w", err)
	}
	result.Supported = supported

	if !supported {
		i.logger.Debug("no prebuilt binary for platform",
			"platform", i.platformInfo.Platform,
			"arch", i.platformInfo.Arch,
			"source", src)
		if err := WriteAdvisory(i.stderr, i.settings.Prefix, i.platformInfo); err != nil {
			i.logger.Error("write advisory", "error", err)
		}
	}

	verified := false
	for _, dest := range i.Destinations() {
		present, err := exists(dest)
		if err != nil {
			return nil, fmt.Errorf("check destination %s: %w", dest, err)
		}

		switch {
		case present:
			i.logger.Debug("destination exists, skipping", "path", dest)
			result.Destinations = append(result.Destinations, DestinationResult{Path: dest, Outcome: OutcomeSkipped})
			continue
		case !supported:
			result.Destinations = append(result.Destinations, DestinationResult{Path: dest, Outcome: OutcomeNoSource})
			continue
		}

		if !verified && i.verifier.Enabled() {
			methods, err := i.verifier.Verify(src)
			if err != nil {
				return nil, fmt.Errorf("verify %s: %w", filepath.Base(src), err)
			}
			result.Verified = methods
			i.logger.Debug("verified source", "path", src, "methods", methods)
		}
		verified = true

		fallback, err := i.installOne(src, dest)
		if err != nil {
			return nil, err
		}
		result.Destinations = append(result.Destinations, DestinationResult{
			Path:     dest,
			Outcome:  OutcomeInstalled,
			Fallback: fallback,
		})
	}

	return result, nil
}

// installOne copies src to dest and applies mode 0755.
func (i *Installer) installOne(src, dest string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return false, fmt.Errorf("create destination dir: %w", err)
	}

	fallback, err := copyFile(src, dest, i.native, i.buffered)
	if err != nil {
		return fallback, fmt.Errorf("copy binary to %s: %w", dest, err)
	}
	if fallback {
		i.logger.Warn("atomic copy failed, used buffered copy", "path", dest)
	}

	if err := SetExecutable(dest); err != nil {
		return fallback, err
	}

	i.logger.Info("installed binary", "source", src, "path", dest)
	return fallback, nil
}

// exists reports whether path exists. Errors other than "not found" are returned.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
