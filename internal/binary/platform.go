package binary

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/ppx-install/internal/platform"
)

// SourceFilename builds the prebuilt binary name for a platform.
// Pattern: {prefix}-{platform}-{arch}{extension}, e.g. bs-let-linux-x64.exe.
// The extension is part of the convention on every platform, not only Windows.
func SourceFilename(prefix, extension string, info *platform.Info) string {
	return fmt.Sprintf("%s-%s-%s%s", prefix, info.Platform, info.Arch, extension)
}

// validateTag rejects platform or architecture tags that cannot be part of a
// file name. Overrides come from flags and the environment unchecked.
func validateTag(kind, tag string) error {
	if tag == "" {
		return fmt.Errorf("%s tag is empty", kind)
	}
	if strings.ContainsAny(tag, `/\`) || strings.ContainsRune(tag, filepath.Separator) {
		return fmt.Errorf("%s tag %q must not contain a path separator", kind, tag)
	}
	return nil
}

// sourcePath joins the package root, bin directory and source filename.
func sourcePath(root, binDir, filename string) string {
	return filepath.Join(root, binDir, filename)
}

// destinationPaths returns the primary destination and, when alias is set,
// the same path with ".exe" appended.
func destinationPaths(root, dest string, alias bool) []string {
	primary := filepath.Join(root, dest)
	if !alias {
		return []string{primary}
	}
	return []string{primary, primary + ".exe"}
}

// WriteAdvisory writes the unsupported-platform message for product name to w.
func WriteAdvisory(w io.Writer, name string, info *platform.Info) error {
	_, err := fmt.Fprintf(w, `%[1]s does not support this platform :(

%[1]s comes prepacked as built binaries to avoid large
dependencies at build-time.

If you want %[1]s to support this platform natively,
please open an issue at our repository, linked above. Please
specify that you are on the %[2]s platform,
on the %[3]s architecture.
`, name, info.Platform, info.Arch)
	return err
}
