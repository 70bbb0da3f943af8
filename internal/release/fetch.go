// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// maxArchiveBytes is the upper bound on a downloaded archive (500 MB).
// Guards against a misbehaving endpoint streaming unbounded data.
const maxArchiveBytes = 500 << 20

var (
	// ErrArchiveDownload indicates the release archive could not be fetched.
	ErrArchiveDownload = errors.New("archive download failed")

	// ErrChecksumDownload indicates the detached checksum manifest could not
	// be fetched. Verification is impossible without it, so this is as fatal
	// as a failed archive download.
	ErrChecksumDownload = errors.New("checksum download failed")
)

// Artifacts holds the paths of a fetched archive and its checksum manifest
// inside the scratch area.
type Artifacts struct {
	ArchivePath  string
	ChecksumPath string
	ArchiveName  string
}

// FetchArtifacts downloads the release archive and its detached checksum
// manifest for the given tag into destDir. The two downloads are independent
// requests and each failure is distinct and fatal; no retries are performed,
// since a rerun of the installer is cheap and always starts from a fresh
// scratch area.
func (c *Client) FetchArtifacts(ctx context.Context, tag, archiveName, destDir string) (*Artifacts, error) {
	archivePath := filepath.Join(destDir, archiveName)
	if err := c.downloadTo(ctx, c.downloadURL(tag, archiveName), archivePath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveDownload, err)
	}

	checksumName := archiveName + ".sha256"
	checksumPath := filepath.Join(destDir, checksumName)
	if err := c.downloadTo(ctx, c.downloadURL(tag, checksumName), checksumPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChecksumDownload, err)
	}

	return &Artifacts{
		ArchivePath:  archivePath,
		ChecksumPath: checksumPath,
		ArchiveName:  archiveName,
	}, nil
}

// downloadTo streams one artifact to disk.
func (c *Client) downloadTo(ctx context.Context, url, dest string) (err error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer func() {
		// Read-only HTTP response body.
		_ = body.Close()
	}()

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", dest, closeErr)
		}
	}()

	if _, err := io.Copy(f, io.LimitReader(body, maxArchiveBytes)); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	return nil
}
