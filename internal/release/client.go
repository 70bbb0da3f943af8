// SPDX-License-Identifier: MPL-2.0

// Package release retrieves versioned cargo-upkeep release artifacts from
// GitHub. Artifacts follow the fixed naming convention
// cargo-upkeep-<triple>.tar.gz with a detached .sha256 manifest, published
// under the upkeep-rs/cargo-upkeep repository's release download endpoints.
package release

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"upkeep-installer/internal/platform"
)

const (
	// BinaryName is the name of the installed executable.
	BinaryName = "cargo-upkeep"

	// Latest is the literal version selector for the unversioned
	// latest-release endpoint.
	Latest = "latest"

	defaultOwner = "upkeep-rs"
	defaultRepo  = "cargo-upkeep"

	// defaultTimeout bounds each download request end to end.
	defaultTimeout = 5 * time.Minute
)

type (
	// Client downloads release artifacts over HTTPS.
	Client struct {
		httpClient *http.Client
		baseURL    string // Download host (default "https://github.com", overridable for tests)
		owner      string
		repo       string
		userAgent  string
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy
// configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL overrides the download host, primarily for test servers.
func WithBaseURL(base string) ClientOption {
	return func(cl *Client) {
		cl.baseURL = strings.TrimRight(base, "/")
	}
}

// WithRepo overrides the default repository owner and name.
func WithRepo(owner, repo string) ClientOption {
	return func(cl *Client) {
		cl.owner = owner
		cl.repo = repo
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// NewClient creates a Client with production defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    "https://github.com",
		owner:      defaultOwner,
		repo:       defaultRepo,
		userAgent:  "upkeep-installer/dev",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ArchiveName returns the release archive filename for a platform triple,
// e.g. "cargo-upkeep-x86_64-unknown-linux-gnu.tar.gz".
func ArchiveName(triple platform.Triple) string {
	return fmt.Sprintf("%s-%s.tar.gz", BinaryName, triple)
}

// NormalizeTag validates a version selector. The literal "latest" passes
// through unchanged; anything else must be a well-formed semantic version
// and is normalized to carry a leading "v".
func NormalizeTag(version string) (string, error) {
	if version == Latest {
		return Latest, nil
	}

	tag := version
	if !strings.HasPrefix(tag, "v") {
		tag = "v" + tag
	}
	if !semver.IsValid(tag) {
		return "", fmt.Errorf("invalid version tag %q (expected \"latest\" or a semantic version like 0.4.2)", version)
	}
	return tag, nil
}

// downloadURL builds the release download URL for one artifact file.
// "latest" selects the unversioned latest-release endpoint; any other tag
// selects the version-tagged endpoint.
func (c *Client) downloadURL(tag, file string) string {
	if tag == Latest {
		return fmt.Sprintf("%s/%s/%s/releases/latest/download/%s", c.baseURL, c.owner, c.repo, file)
	}
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s", c.baseURL, c.owner, c.repo, tag, file)
}

// get issues one download request and returns the response body. The caller
// owns the body and must close it.
func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("requesting %s: unexpected status %d", url, resp.StatusCode)
	}

	return resp.Body, nil
}
