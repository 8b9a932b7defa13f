// Package testutil provides utilities for testing the installer in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv clears the PPX_INSTALL_* variables so tests never pick up
// overrides from the developer's shell.
func SetupTestEnv(t *testing.T) {
	t.Helper()

	t.Setenv("PPX_INSTALL_ARCH", "")
	t.Setenv("PPX_INSTALL_PLATFORM", "")
	t.Setenv("PPX_INSTALL_DEBUG", "")
}

// PackageDir creates a temporary package root with a bin/ directory holding
// one fake prebuilt binary per name in binaries. The content of each binary
// is "binary:<name>". It returns the package root.
//
// The directory is removed automatically by t.TempDir().
func PackageDir(t *testing.T, binaries ...string) string {
	t.Helper()

	root := t.TempDir()
	binDir := filepath.Join(root, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("failed to create bin directory: %v", err)
	}

	for _, name := range binaries {
		WriteFile(t, filepath.Join(binDir, name), BinaryContent(name), 0o644)
	}

	return root
}

// BinaryContent returns the fixture content PackageDir writes for name.
func BinaryContent(name string) []byte {
	return []byte("binary:" + name)
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t *testing.T, path string, data []byte, perm os.FileMode) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return data
}
