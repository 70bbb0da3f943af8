// SPDX-License-Identifier: MPL-2.0

// Package install places a verified release archive's binary into the
// resolved install directory. Extraction happens entirely inside the scratch
// area; the target directory is only touched by the final rename, so a
// failed extraction can never leave a half-overwritten installation behind.
package install

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxFileBytes is the upper bound on a single extracted file (500 MB).
// Prevents decompression bombs.
const maxFileBytes = 500 << 20

var (
	// ErrBinaryNotInArchive indicates the expected binary was absent from
	// the extracted archive root. This guards against a mismatched archive
	// naming convention or a packaging regression upstream.
	ErrBinaryNotInArchive = errors.New("binary not found in archive")

	// ErrSmokeTest indicates the installed binary failed its post-install
	// version query. Checksum verification already passed at this point, so
	// the artifact is most likely packaged for the wrong platform.
	ErrSmokeTest = errors.New("post-install verification failed")
)

// Install extracts archivePath into extractDir (a subdirectory of the
// scratch area), validates that binaryName exists at the archive root, marks
// it executable, and atomically moves it into targetDir under its canonical
// name. It returns the final installed path.
//
// The move is staged through a temp file inside targetDir, because the
// scratch area commonly lives on a different filesystem and os.Rename is
// only atomic within one. A concurrent reader observes either the old or
// the new binary, never a partial write.
func Install(archivePath, extractDir, targetDir, binaryName string) (string, error) {
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return "", fmt.Errorf("creating extraction directory: %w", err)
	}

	if err := extractTarGz(archivePath, extractDir); err != nil {
		return "", fmt.Errorf("extracting %s: %w", archivePath, err)
	}

	extracted := filepath.Join(extractDir, binaryName)
	info, err := os.Stat(extracted)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: expected %s at archive root", ErrBinaryNotInArchive, binaryName)
	}

	if err := os.Chmod(extracted, 0o755); err != nil {
		return "", fmt.Errorf("marking %s executable: %w", binaryName, err)
	}

	installed := filepath.Join(targetDir, binaryName)
	if err := stageAndRename(extracted, targetDir, installed); err != nil {
		return "", err
	}

	return installed, nil
}

// stageAndRename copies src into a temp file in targetDir and renames it
// over dest. The temp file is removed if the rename never happens.
func stageAndRename(src, targetDir, dest string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening extracted binary: %w", err)
	}
	defer func() {
		// Read-only handle; close errors are not actionable.
		_ = in.Close()
	}()

	tmp, err := os.CreateTemp(targetDir, "."+filepath.Base(dest)+"-*")
	if err != nil {
		return fmt.Errorf("staging binary in %s: %w", targetDir, err)
	}

	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("staging binary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("staging binary: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0o755); err != nil {
		return fmt.Errorf("marking staged binary executable: %w", err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("installing %s: %w", dest, err)
	}
	renamed = true

	return nil
}

// extractTarGz unpacks the full archive into destDir, preserving the entry
// layout. Entries escaping destDir are rejected.
func extractTarGz(archivePath, destDir string) (err error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer func() {
		// Read-only handle; close errors are not actionable.
		_ = f.Close()
	}()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("creating gzip reader: %w", err)
	}
	defer func() {
		// The gzip reader only wraps the file for reading.
		_ = gz.Close()
	}()

	tr := tar.NewReader(gz)
	for {
		hdr, nextErr := tr.Next()
		if errors.Is(nextErr, io.EOF) {
			return nil
		}
		if nextErr != nil {
			return fmt.Errorf("reading tar entry: %w", nextErr)
		}

		target := filepath.Join(destDir, hdr.Name)
		if filepath.Clean(target) == filepath.Clean(destDir) {
			// The "." / "./" entry GNU tar emits for the archive root.
			continue
		}
		if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes extraction directory", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode)); err != nil {
				return fmt.Errorf("creating directory %s: %w", hdr.Name, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("creating parent directory for %s: %w", hdr.Name, err)
			}
			if err := writeEntry(tr, target, os.FileMode(hdr.Mode)); err != nil {
				return fmt.Errorf("extracting %s: %w", hdr.Name, err)
			}
		default:
			// Symlinks and special files are not part of release archives.
		}
	}
}

func writeEntry(tr *tar.Reader, target string, mode os.FileMode) (err error) {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(out, io.LimitReader(tr, maxFileBytes))
	return err
}
