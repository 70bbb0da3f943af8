// SPDX-License-Identifier: MPL-2.0

// Package checksum verifies a downloaded release archive against its
// detached .sha256 manifest. The manifest is one sha256sum-style line whose
// first whitespace-delimited field is the digest; any trailing filename
// field is ignored. Both sides of the comparison are normalized (trimmed,
// lowercased) before comparing, since digest tooling output varies in case
// across platforms.
package checksum

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrMismatch indicates the computed SHA256 digest does not match the
	// published digest.
	ErrMismatch = errors.New("checksum mismatch")

	// ErrNoDigest indicates the checksum manifest contained no parseable
	// SHA256 digest.
	ErrNoDigest = errors.New("no digest found in checksum manifest")
)

// MismatchError carries both digests of a failed verification. It wraps
// ErrMismatch so callers can classify with errors.Is.
type MismatchError struct {
	Path     string
	Expected string
	Got      string
}

// Error returns both digests so a mismatch can be debugged from the message
// alone.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("checksum verification failed for %s\nExpected: %s\nGot:      %s", e.Path, e.Expected, e.Got)
}

// Unwrap returns ErrMismatch so callers can use errors.Is.
func (e *MismatchError) Unwrap() error { return ErrMismatch }

// ParseDigest reads a detached checksum manifest and returns the expected
// digest, lowercased. The first whitespace-delimited field of the first
// non-empty line is taken; it must be a 64-character hex string.
func ParseDigest(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		digest := strings.ToLower(fields[0])
		if !isHexDigest(digest) {
			return "", fmt.Errorf("%w: first field %q is not a SHA256 digest", ErrNoDigest, fields[0])
		}
		return digest, nil
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading checksum manifest: %w", err)
	}

	return "", ErrNoDigest
}

// ParseDigestFile is ParseDigest over a file on disk.
func ParseDigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening checksum manifest: %w", err)
	}
	defer func() {
		// Read-only handle; close errors are not actionable.
		_ = f.Close()
	}()

	return ParseDigest(f)
}

// VerifyFile computes the SHA256 digest of the file at path and compares it
// with expected. Comparison is case-insensitive; on mismatch a
// *MismatchError wrapping ErrMismatch is returned with both digests in
// lowercase hex.
func VerifyFile(path, expected string) error {
	got, err := FileSHA256(path)
	if err != nil {
		return err
	}

	if !strings.EqualFold(got, expected) {
		return &MismatchError{
			Path:     path,
			Expected: strings.ToLower(strings.TrimSpace(expected)),
			Got:      got,
		}
	}

	return nil
}

// FileSHA256 returns the lowercase hex SHA256 digest of the file at path,
// streaming the contents through the hash to keep memory flat for large
// archives.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		// Read-only handle; close errors are not actionable.
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// isHexDigest checks that s is a 64-character lowercase hex string.
func isHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
