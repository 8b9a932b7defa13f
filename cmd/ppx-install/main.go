// Command ppx-install puts the prebuilt binary for the current platform in
// place. It is meant to run as a package post-install step from the package
// root.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/ppx-install/internal/binary"
	"github.com/ZebulonRouseFrantzich/ppx-install/internal/config"
	"github.com/ZebulonRouseFrantzich/ppx-install/internal/platform"
	"github.com/spf13/pflag"
)

// Version will be set at build time via -ldflags
var Version = "v0.0.1-alpha"

// detectTimeout bounds the distribution lookup.
const detectTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options are the parsed command-line flags.
type options struct {
	dir        string
	configPath string
	arch       string
	platform   string
	noExeAlias bool
	verbose    bool
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, *pflag.FlagSet, error) {
	opts := &options{}

	fs := pflag.NewFlagSet("ppx-install", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.dir, "dir", ".", "package root containing the prebuilt binaries")
	fs.StringVar(&opts.configPath, "config", "", "Lua config file (default <dir>/"+config.FileName+")")
	fs.StringVar(&opts.arch, "arch", "", "reported architecture to install for, e.g. x64 or ia32")
	fs.StringVar(&opts.platform, "platform", "", "reported platform to install for, e.g. linux or win32")
	fs.BoolVar(&opts.noExeAlias, "no-exe-alias", false, "do not install the .exe alias")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log every step to stderr")
	fs.BoolVar(&opts.version, "version", false, "show version information")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: ppx-install [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	if fs.NArg() > 0 {
		return nil, fs, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, fs, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if opts.version {
		fmt.Fprintf(stdout, "ppx-install %s\n", Version)
		return nil
	}

	// Overrides: environment first, flags win.
	settings := config.Default()
	settings.LoadEnv()
	if fs.Changed("arch") {
		settings.ArchOverride = strings.TrimSpace(opts.arch)
	}
	if fs.Changed("platform") {
		settings.PlatformOverride = strings.TrimSpace(opts.platform)
	}
	if opts.verbose {
		settings.Debug = true
	}

	logger := newLogger(stderr, settings.Debug)
	logger.Debug("starting", "version", Version, "dir", opts.dir)

	ctx, cancel := context.WithTimeout(context.Background(), detectTimeout)
	defer cancel()

	info, err := platform.NewDetectorWithOverrides(settings.PlatformOverride, settings.ArchOverride).Detect(ctx)
	if err != nil {
		return fmt.Errorf("detect platform: %w", err)
	}
	logger.Debug("detected platform",
		"platform", info.Platform,
		"arch", info.Arch,
		"platform_raw", info.PlatformRaw,
		"arch_raw", info.ArchRaw,
		"distro", info.DistroID,
		"distro_version", info.DistroVersion)

	fileSettings, err := loadConfig(ctx, opts, info, logger)
	if err != nil {
		return fmt.Errorf("load config: %s", config.FormatError(err, settings.Debug))
	}
	fileSettings.ArchOverride = settings.ArchOverride
	fileSettings.PlatformOverride = settings.PlatformOverride
	fileSettings.Debug = settings.Debug
	if opts.noExeAlias {
		fileSettings.ExeAlias = false
	}

	installer, err := binary.NewInstaller(binary.Config{
		Root:         opts.dir,
		Settings:     fileSettings,
		PlatformInfo: info,
		Logger:       logger,
		Stderr:       stderr,
	})
	if err != nil {
		return fmt.Errorf("create installer: %w", err)
	}

	result, err := installer.Install()
	if err != nil {
		return err
	}

	logger.Debug("done",
		"source", result.Source,
		"supported", result.Supported,
		"installed", result.Installed())
	return nil
}

// loadConfig reads the Lua config. The default location is optional; an
// explicitly requested file must exist.
func loadConfig(ctx context.Context, opts *options, info *platform.Info, logger config.Logger) (*config.Config, error) {
	parser := config.NewParser(platform.NewStaticDetector(info)).WithLogger(logger)
	if opts.configPath != "" {
		return parser.ParseFile(ctx, opts.configPath)
	}
	return parser.LoadFile(ctx, filepath.Join(opts.dir, config.FileName))
}

// newLogger writes text logs to w: warnings and errors only, unless debug is set.
func newLogger(w io.Writer, debug bool) config.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return config.NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
