// SPDX-License-Identifier: MPL-2.0

// Package skills installs the optional companion skill bundles that ship
// alongside cargo-upkeep. Skills are enhancements: each one is fetched and
// written independently, a failed item is recorded as a warning, and no
// skill failure ever affects the outcome of the binary install.
package skills

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// SkillFileName is the well-known file fetched for every skill.
	SkillFileName = "SKILL.md"

	// maxSkillBytes bounds a single fetched skill file (1 MB). Skills are
	// prose documents; anything larger is a broken endpoint.
	maxSkillBytes = 1 << 20

	defaultBaseURL = "https://raw.githubusercontent.com/upkeep-rs/cargo-upkeep/main/skills"
	defaultTimeout = 30 * time.Second
)

//go:embed schema.cue
var manifestSchema []byte

//go:embed manifest.cue
var manifestData []byte

type (
	// Skill is one entry of the fixed companion manifest.
	Skill struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	// Manifest is the ordered, statically known skill set.
	Manifest struct {
		Skills []Skill `json:"skills"`
	}

	// Warning records a single skill that failed to install.
	Warning struct {
		Name string
		Err  error
	}

	// Result reports both channels of a best-effort batch install so
	// callers and tests can assert on successes and failures directly.
	Result struct {
		Installed []string
		Warnings  []Warning
	}

	// Installer fetches skill files into a target root directory.
	Installer struct {
		httpClient *http.Client
		baseURL    string
		userAgent  string
	}

	// InstallerOption configures an Installer during construction.
	InstallerOption func(*Installer)
)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) InstallerOption {
	return func(i *Installer) {
		i.httpClient = c
	}
}

// WithBaseURL overrides the skill content host, primarily for test servers.
func WithBaseURL(base string) InstallerOption {
	return func(i *Installer) {
		i.baseURL = strings.TrimRight(base, "/")
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) InstallerOption {
	return func(i *Installer) {
		i.userAgent = ua
	}
}

// NewInstaller creates an Installer with production defaults.
func NewInstaller(opts ...InstallerOption) *Installer {
	i := &Installer{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
		userAgent:  "upkeep-installer/dev",
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// LoadManifest decodes the embedded skill manifest, validating it against
// the embedded schema. The manifest is compiled into the binary, so an error
// here is a packaging defect, not an operator problem.
func LoadManifest() (*Manifest, error) {
	return loadManifest(manifestSchema, manifestData)
}

// loadManifest is separated for tests that feed alternative documents.
func loadManifest(schema, data []byte) (*Manifest, error) {
	m, err := parseManifest(schema, data)
	if err != nil {
		return nil, fmt.Errorf("loading skill manifest: %w", err)
	}
	return m, nil
}

// InstallAll fetches every manifest skill into root/<name>/SKILL.md, in
// manifest order. A failed item is appended to Result.Warnings and
// processing continues; the returned Result always accounts for every
// manifest entry across its two lists.
func (i *Installer) InstallAll(ctx context.Context, manifest *Manifest, root string) Result {
	var res Result

	for _, skill := range manifest.Skills {
		if err := i.installOne(ctx, skill, root); err != nil {
			res.Warnings = append(res.Warnings, Warning{Name: skill.Name, Err: err})
			continue
		}
		res.Installed = append(res.Installed, skill.Name)
	}

	return res
}

func (i *Installer) installOne(ctx context.Context, skill Skill, root string) error {
	url := fmt.Sprintf("%s/%s/%s", i.baseURL, skill.Name, SkillFileName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", i.userAgent)

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() {
		// Read-only HTTP response body.
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxSkillBytes))
	if err != nil {
		return fmt.Errorf("reading %s: %w", url, err)
	}

	dir := filepath.Join(root, skill.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	dest := filepath.Join(dir, SkillFileName)
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	return nil
}
