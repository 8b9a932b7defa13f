package binary

import (
	"errors"
)

var (
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrSignatureInvalid = errors.New("signature verification failed")
	ErrNoSignature      = errors.New("no detached signature found")
)

// Outcome describes what happened to one destination.
type Outcome int

const (
	// OutcomeInstalled means the source was copied and made executable.
	OutcomeInstalled Outcome = iota
	// OutcomeSkipped means the destination already existed and was left alone.
	OutcomeSkipped
	// OutcomeNoSource means the destination is missing but there was nothing to copy.
	OutcomeNoSource
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeInstalled:
		return "installed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeNoSource:
		return "no-source"
	default:
		return "unknown"
	}
}

// VerificationMethod indicates how a binary was verified
type VerificationMethod int

const (
	// VerificationNone indicates no verification was configured
	VerificationNone VerificationMethod = iota
	// VerificationGPG indicates GPG signature verification was used
	VerificationGPG
	// VerificationSHA256 indicates SHA256 checksum verification was used
	VerificationSHA256
)

// String returns the string representation of the verification method
func (v VerificationMethod) String() string {
	switch v {
	case VerificationGPG:
		return "GPG"
	case VerificationSHA256:
		return "SHA256"
	case VerificationNone:
		return "None"
	default:
		return "Unknown"
	}
}

// DestinationResult reports the outcome for a single destination path.
type DestinationResult struct {
	Path    string
	Outcome Outcome
	// Fallback is set when the atomic copy failed and the buffered copy was used.
	Fallback bool
}

// Result summarizes an Install run.
type Result struct {
	Source       string
	Supported    bool
	Verified     []VerificationMethod
	Destinations []DestinationResult
}

// Installed returns the number of destinations written by this run.
func (r *Result) Installed() int {
	n := 0
	for _, d := range r.Destinations {
		if d.Outcome == OutcomeInstalled {
			n++
		}
	}
	return n
}
