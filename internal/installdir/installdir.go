// SPDX-License-Identifier: MPL-2.0

// Package installdir selects the destination directory for the cargo-upkeep
// binary. An explicit override is authoritative; otherwise candidates are
// tried in a fixed preference order, favoring directories already on the
// user's PATH and not requiring elevated privileges.
package installdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrUnwritable indicates that no install directory could be created and
// written to.
var ErrUnwritable = errors.New("install directory not writable")

// UnwritableError names the directory that failed the writability test.
// When the fallback chain is used, Dir is the last candidate tried.
// It wraps ErrUnwritable so callers can classify with errors.Is.
type UnwritableError struct {
	Dir   string
	Cause error
}

// Error implements the error interface.
func (e *UnwritableError) Error() string {
	return fmt.Sprintf("install directory %s is not writable: %v", e.Dir, e.Cause)
}

// Unwrap returns ErrUnwritable so callers can use errors.Is.
func (e *UnwritableError) Unwrap() error { return ErrUnwritable }

// Resolve returns the directory the binary will be installed into.
//
// With a non-empty override, the directory is created if absent and must be
// writable; no fallback is attempted, since an explicit location reflects
// operator intent. Without an override, candidates are tried in order:
// $CARGO_HOME/bin (default ~/.cargo/bin), /usr/local/bin, ~/.local/bin.
// The first candidate that exists-or-can-be-created and is writable wins.
func Resolve(override string) (string, error) {
	if override != "" {
		if err := ensureWritable(override); err != nil {
			return "", &UnwritableError{Dir: override, Cause: err}
		}
		return override, nil
	}

	candidates, err := defaultCandidates()
	if err != nil {
		return "", err
	}
	return resolveFrom(candidates)
}

// resolveFrom walks the candidate list and returns the first writable entry.
// Candidates after the winner are never probed or created.
func resolveFrom(candidates []string) (string, error) {
	var lastErr error
	var lastDir string

	for _, dir := range candidates {
		if err := ensureWritable(dir); err != nil {
			lastErr = err
			lastDir = dir
			continue
		}
		return dir, nil
	}

	return "", &UnwritableError{Dir: lastDir, Cause: lastErr}
}

func defaultCandidates() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("determining home directory: %w", err)
	}

	cargoHome := os.Getenv("CARGO_HOME")
	if cargoHome == "" {
		cargoHome = filepath.Join(home, ".cargo")
	}

	return []string{
		filepath.Join(cargoHome, "bin"),
		"/usr/local/bin",
		filepath.Join(home, ".local", "bin"),
	}, nil
}

// ensureWritable creates dir if needed and verifies write access by creating
// and removing a probe file. A plain permission-bit check would miss
// read-only mounts, so an actual write is attempted.
func ensureWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	probe, err := os.CreateTemp(dir, ".upkeep-write-probe-*")
	if err != nil {
		return fmt.Errorf("writing probe file: %w", err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return nil
}
