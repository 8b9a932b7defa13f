package binary

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// signatureExtensions are tried in order next to the binary.
var signatureExtensions = []string{".asc", ".sig"}

// Verifier checks a prebuilt binary before it is installed.
// Each check is enabled by configuring its input file.
type Verifier struct {
	checksumsPath string
	keyringPath   string
}

// NewVerifier creates a verifier. Empty paths disable the matching check.
func NewVerifier(checksumsPath, keyringPath string) *Verifier {
	return &Verifier{
		checksumsPath: checksumsPath,
		keyringPath:   keyringPath,
	}
}

// Enabled reports whether any check is configured.
func (v *Verifier) Enabled() bool {
	return v.checksumsPath != "" || v.keyringPath != ""
}

// Verify runs every configured check against binaryPath and returns the
// methods that passed. The first failing check aborts verification.
func (v *Verifier) Verify(binaryPath string) ([]VerificationMethod, error) {
	var passed []VerificationMethod

	if v.checksumsPath != "" {
		if err := v.verifySHA256(binaryPath); err != nil {
			return passed, err
		}
		passed = append(passed, VerificationSHA256)
	}

	if v.keyringPath != "" {
		if err := v.verifyGPG(binaryPath); err != nil {
			return passed, err
		}
		passed = append(passed, VerificationGPG)
	}

	return passed, nil
}

// verifySHA256 compares the binary's digest with its manifest entry.
func (v *Verifier) verifySHA256(binaryPath string) error {
	actual, err := calculateSHA256(binaryPath)
	if err != nil {
		return fmt.Errorf("calculate checksum: %w", err)
	}

	expected, err := findChecksum(v.checksumsPath, filepath.Base(binaryPath))
	if err != nil {
		return fmt.Errorf("find checksum: %w", err)
	}

	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%w for %s:\nactual:   %s\nexpected: %s",
			ErrChecksumMismatch, filepath.Base(binaryPath), actual, expected)
	}
	return nil
}

// verifyGPG checks the first detached signature found next to the binary.
func (v *Verifier) verifyGPG(binaryPath string) error {
	keyring, err := loadKeyring(v.keyringPath)
	if err != nil {
		return fmt.Errorf("load keyring: %w", err)
	}

	sigPath, err := findSignature(binaryPath)
	if err != nil {
		return err
	}

	if err := checkSignature(keyring, binaryPath, sigPath, true); err != nil {
		// Try non-armored signature
		if err := checkSignature(keyring, binaryPath, sigPath, false); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrSignatureInvalid, filepath.Base(sigPath), err)
		}
	}
	return nil
}

func checkSignature(keyring openpgp.EntityList, binaryPath, sigPath string, armored bool) error {
	binaryFile, err := os.Open(binaryPath)
	if err != nil {
		return fmt.Errorf("open binary: %w", err)
	}
	defer binaryFile.Close()

	sigFile, err := os.Open(sigPath)
	if err != nil {
		return fmt.Errorf("open signature: %w", err)
	}
	defer sigFile.Close()

	if armored {
		_, err = openpgp.CheckArmoredDetachedSignature(keyring, binaryFile, sigFile, nil)
	} else {
		_, err = openpgp.CheckDetachedSignature(keyring, binaryFile, sigFile, nil)
	}
	return err
}

// findSignature returns the first existing signature file for binaryPath.
func findSignature(binaryPath string) (string, error) {
	for _, ext := range signatureExtensions {
		candidate := binaryPath + ext
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat signature: %w", err)
		}
	}
	return "", fmt.Errorf("%w for %s", ErrNoSignature, filepath.Base(binaryPath))
}

// loadKeyring loads an armored or binary OpenPGP keyring.
func loadKeyring(path string) (openpgp.EntityList, error) {
	keyringFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer keyringFile.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(keyringFile)
	if err != nil {
		// Try reading as non-armored keyring
		if _, serr := keyringFile.Seek(0, io.SeekStart); serr != nil {
			return nil, fmt.Errorf("rewind keyring: %w", serr)
		}
		keyring, err = openpgp.ReadKeyRing(keyringFile)
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	return keyring, nil
}

// calculateSHA256 calculates the SHA256 checksum of a file
func calculateSHA256(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// findChecksum finds the checksum for a specific filename in a checksum file
// Format: "abc123def456  filename.exe" (a leading '*' marks binary mode)
func findChecksum(checksumPath, filename string) (string, error) {
	file, err := os.Open(checksumPath)
	if err != nil {
		return "", fmt.Errorf("open checksum file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}

		checksumFilename := strings.TrimPrefix(parts[1], "*")
		if checksumFilename == filename || filepath.Base(checksumFilename) == filename {
			return parts[0], nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan checksum file: %w", err)
	}

	return "", fmt.Errorf("checksum not found for %s", filename)
}
