// SPDX-License-Identifier: MPL-2.0

// Package scratch manages the run-scoped temporary directory that owns all
// downloaded and extracted artifacts until the final install rename. The
// directory is created once at run start and must be removed on every exit
// path; callers defer Remove immediately after New succeeds.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir is an exclusively-owned ephemeral directory.
type Dir struct {
	path string
}

// New creates a fresh scratch directory under the system temp root.
func New() (*Dir, error) {
	path, err := os.MkdirTemp("", "upkeep-installer-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	return &Dir{path: path}, nil
}

// Path returns the scratch directory path.
func (d *Dir) Path() string {
	return d.path
}

// Join returns a path inside the scratch directory.
func (d *Dir) Join(elem ...string) string {
	return filepath.Join(append([]string{d.path}, elem...)...)
}

// Remove deletes the scratch directory and everything in it. Removal errors
// are not actionable at run end, so they are swallowed.
func (d *Dir) Remove() {
	_ = os.RemoveAll(d.path)
}
