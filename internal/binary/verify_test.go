package binary

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

// newTestEntity generates a signing key and writes its public keyring to
// dir/name, armored or binary.
func newTestEntity(t *testing.T, dir, name string, armored bool) *openpgp.Entity {
	t.Helper()

	entity, err := openpgp.NewEntity("ppx-install test", "", "test@example.com", nil)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	var buf bytes.Buffer
	if armored {
		w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
		if err != nil {
			t.Fatalf("failed to create armor encoder: %v", err)
		}
		if err := entity.Serialize(w); err != nil {
			t.Fatalf("failed to serialize key: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("failed to close armor encoder: %v", err)
		}
	} else if err := entity.Serialize(&buf); err != nil {
		t.Fatalf("failed to serialize key: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write keyring: %v", err)
	}
	return entity
}

// signFile writes a detached signature for path to sigPath.
func signFile(t *testing.T, entity *openpgp.Entity, path, sigPath string, armored bool) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var sig bytes.Buffer
	if armored {
		err = openpgp.ArmoredDetachSign(&sig, entity, bytes.NewReader(data), nil)
	} else {
		err = openpgp.DetachSign(&sig, entity, bytes.NewReader(data), nil)
	}
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	if err := os.WriteFile(sigPath, sig.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestVerifier_Enabled(t *testing.T) {
	tests := []struct {
		checksums, keyring string
		want               bool
	}{
		{"", "", false},
		{"sums", "", true},
		{"", "key", true},
		{"sums", "key", true},
	}
	for _, tt := range tests {
		if got := NewVerifier(tt.checksums, tt.keyring).Enabled(); got != tt.want {
			t.Errorf("Enabled(%q, %q) = %v, want %v", tt.checksums, tt.keyring, got, tt.want)
		}
	}
}

func TestVerifySHA256(t *testing.T) {
	dir := t.TempDir()
	binaryPath := filepath.Join(dir, "bs-let-linux-x64.exe")
	content := []byte("prebuilt binary")
	if err := os.WriteFile(binaryPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		manifest string
		wantErr  error
	}{
		{
			name:     "matching checksum",
			manifest: sha256Hex(content) + "  bs-let-linux-x64.exe\n",
		},
		{
			name:     "uppercase checksum with binary marker",
			manifest: strings.ToUpper(sha256Hex(content)) + " *bs-let-linux-x64.exe\n",
		},
		{
			name:     "path in manifest",
			manifest: sha256Hex(content) + "  bin/bs-let-linux-x64.exe\n",
		},
		{
			name:     "mismatch",
			manifest: sha256Hex([]byte("other")) + "  bs-let-linux-x64.exe\n",
			wantErr:  ErrChecksumMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manifest := filepath.Join(t.TempDir(), "checksums.txt")
			if err := os.WriteFile(manifest, []byte(tt.manifest), 0644); err != nil {
				t.Fatal(err)
			}

			methods, err := NewVerifier(manifest, "").Verify(binaryPath)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if len(methods) != 1 || methods[0] != VerificationSHA256 {
				t.Errorf("methods = %v, want [SHA256]", methods)
			}
		})
	}
}

func TestVerifySHA256_MissingEntry(t *testing.T) {
	dir := t.TempDir()
	binaryPath := filepath.Join(dir, "bs-let-darwin-arm64.exe")
	if err := os.WriteFile(binaryPath, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	manifest := filepath.Join(dir, "checksums.txt")
	if err := os.WriteFile(manifest, []byte(sha256Hex([]byte("x"))+"  bs-let-linux-x64.exe\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewVerifier(manifest, "").Verify(binaryPath)
	if err == nil || !strings.Contains(err.Error(), "checksum not found") {
		t.Errorf("Verify() error = %v, want checksum not found", err)
	}
}

func TestVerifyGPG(t *testing.T) {
	tests := []struct {
		name           string
		armoredKey     bool
		armoredSig     bool
		sigExt         string
		tamper         bool
		wantErr        error
		skipSignature  bool
		wrongSignerKey bool
	}{
		{name: "armored signature", armoredKey: true, armoredSig: true, sigExt: ".asc"},
		{name: "binary signature", armoredKey: true, armoredSig: false, sigExt: ".sig"},
		{name: "binary keyring", armoredKey: false, armoredSig: true, sigExt: ".asc"},
		{name: "tampered binary", armoredKey: true, armoredSig: true, sigExt: ".asc", tamper: true, wantErr: ErrSignatureInvalid},
		{name: "missing signature", armoredKey: true, skipSignature: true, wantErr: ErrNoSignature},
		{name: "signed by unknown key", armoredKey: true, armoredSig: true, sigExt: ".asc", wrongSignerKey: true, wantErr: ErrSignatureInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			binaryPath := filepath.Join(dir, "bs-let-linux-x64.exe")
			if err := os.WriteFile(binaryPath, []byte("prebuilt binary"), 0644); err != nil {
				t.Fatal(err)
			}

			signer := newTestEntity(t, dir, "keyring", tt.armoredKey)
			if tt.wrongSignerKey {
				signer = newTestEntity(t, t.TempDir(), "other", true)
			}
			if !tt.skipSignature {
				signFile(t, signer, binaryPath, binaryPath+tt.sigExt, tt.armoredSig)
			}
			if tt.tamper {
				if err := os.WriteFile(binaryPath, []byte("tampered binary"), 0644); err != nil {
					t.Fatal(err)
				}
			}

			methods, err := NewVerifier("", filepath.Join(dir, "keyring")).Verify(binaryPath)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if len(methods) != 1 || methods[0] != VerificationGPG {
				t.Errorf("methods = %v, want [GPG]", methods)
			}
		})
	}
}

func TestVerify_BothMethods(t *testing.T) {
	dir := t.TempDir()
	content := []byte("prebuilt binary")
	binaryPath := filepath.Join(dir, "bs-let-win-x86.exe")
	if err := os.WriteFile(binaryPath, content, 0644); err != nil {
		t.Fatal(err)
	}
	manifest := filepath.Join(dir, "checksums.txt")
	if err := os.WriteFile(manifest, []byte(sha256Hex(content)+"  bs-let-win-x86.exe\n"), 0644); err != nil {
		t.Fatal(err)
	}
	signer := newTestEntity(t, dir, "keyring.asc", true)
	signFile(t, signer, binaryPath, binaryPath+".asc", true)

	methods, err := NewVerifier(manifest, filepath.Join(dir, "keyring.asc")).Verify(binaryPath)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if len(methods) != 2 || methods[0] != VerificationSHA256 || methods[1] != VerificationGPG {
		t.Errorf("methods = %v, want [SHA256 GPG]", methods)
	}
}

func TestLoadKeyring(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		if _, err := loadKeyring(filepath.Join(dir, "missing.asc")); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		path := filepath.Join(dir, "garbage.asc")
		if err := os.WriteFile(path, []byte("not a key"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := loadKeyring(path); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("valid", func(t *testing.T) {
		newTestEntity(t, dir, "valid.asc", true)
		keyring, err := loadKeyring(filepath.Join(dir, "valid.asc"))
		if err != nil {
			t.Fatalf("loadKeyring() error = %v", err)
		}
		if len(keyring) != 1 {
			t.Errorf("keyring has %d entities, want 1", len(keyring))
		}
	})
}

func TestFindChecksum_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checksums.txt")
	data := "garbage\n\nabc123\nabc123  bs-let-linux-x64.exe\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := findChecksum(path, "bs-let-linux-x64.exe")
	if err != nil {
		t.Fatalf("findChecksum() error = %v", err)
	}
	if got != "abc123" {
		t.Errorf("findChecksum() = %q, want abc123", got)
	}
}

func TestCalculateSHA256_NonExistentFile(t *testing.T) {
	if _, err := calculateSHA256(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestVerificationMethodString(t *testing.T) {
	tests := []struct {
		method VerificationMethod
		want   string
	}{
		{VerificationNone, "None"},
		{VerificationGPG, "GPG"},
		{VerificationSHA256, "SHA256"},
		{VerificationMethod(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.method.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
