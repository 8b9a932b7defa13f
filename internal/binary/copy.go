package binary

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// copyFunc copies the file at src to dst.
type copyFunc func(src, dst string) error

// errOpenSource marks a copy that failed before any destination was touched
// because the source could not be opened.
var errOpenSource = errors.New("open source")

// copyFile copies src to dst with native, and falls back to buffered when
// native fails. It reports whether the fallback was used. A missing source
// is an error without attempting either copy, and a source native cannot
// open is an error without attempting the fallback.
func copyFile(src, dst string, native, buffered copyFunc) (bool, error) {
	if _, err := os.Stat(src); err != nil {
		return false, fmt.Errorf("stat source: %w", err)
	}

	nativeErr := native(src, dst)
	if nativeErr == nil {
		return false, nil
	}
	if errors.Is(nativeErr, errOpenSource) {
		return false, fmt.Errorf("copy %s: %w", filepath.Base(src), nativeErr)
	}

	if err := buffered(src, dst); err != nil {
		return true, fmt.Errorf("copy %s: %w", filepath.Base(src), errors.Join(nativeErr, err))
	}
	return true, nil
}

// copyAtomic streams src into a uniquely named temporary file next to dst,
// syncs it and renames it into place. Readers never observe a partial dst.
// On Linux io.Copy between two *os.File uses copy_file_range where available.
func copyAtomic(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %w", errOpenSource, err)
	}
	defer in.Close()

	tmp := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+"."+uuid.NewString()+".tmp")
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// copyBuffered reads all of src into memory and writes it to dst.
func copyBuffered(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	return nil
}

// SetExecutable sets executable permissions on a file
func SetExecutable(path string) error {
	// Set permissions to 0755 (rwxr-xr-x)
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}
