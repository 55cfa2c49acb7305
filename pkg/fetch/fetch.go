// Package fetch is the small HTTPS client behind shellstrap's best-effort
// network features: bootstrap installer downloads, prompt theme assets,
// and the public IP lookup. Every call carries a short timeout and every
// endpoint list is tried in order until one succeeds.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/shellstrap/pkg/errors"
	"github.com/arthur-debert/shellstrap/pkg/logging"
	"github.com/arthur-debert/shellstrap/pkg/types"
)

// DefaultTimeout bounds each individual request.
const DefaultTimeout = 8 * time.Second

// maxBodySize caps downloads; installers and theme files are small.
const maxBodySize int64 = 256 << 20

// Client performs HTTPS GETs with failover across alternate endpoints.
type Client struct {
	http    *http.Client
	logger  zerolog.Logger
	maxBody int64
}

// New creates a Client. A zero timeout uses DefaultTimeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		logger:  logging.GetLogger("fetch"),
		maxBody: maxBodySize,
	}
}

// Get fetches the first URL that answers with a 2xx, trying each endpoint
// in order. All failures are collected into the returned error.
func (c *Client) Get(ctx context.Context, urls ...string) ([]byte, error) {
	if len(urls) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no endpoints given")
	}

	var failures []string
	for _, url := range urls {
		body, err := c.getOne(ctx, url)
		if err == nil {
			return body, nil
		}
		c.logger.Debug().Str("url", url).Err(err).Msg("Endpoint failed, trying next")
		failures = append(failures, fmt.Sprintf("%s: %v", url, err))
	}
	return nil, errors.Newf(errors.ErrNetwork, "all endpoints failed: %s", strings.Join(failures, "; "))
}

func (c *Client) getOne(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	// Read one byte past the cap so an at-limit body is distinguishable
	// from an oversized one. A truncated installer must never be returned
	// as a successful download.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("response exceeds %d byte limit", c.maxBody)
	}
	return body, nil
}

// Download fetches the first working URL and writes the body to dest,
// creating parent directories as needed.
func (c *Client) Download(ctx context.Context, fs types.FS, dest string, urls ...string) error {
	body, err := c.Get(ctx, urls...)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDownload, "failed to download %s", filepath.Base(dest))
	}

	if err := fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(dest))
	}
	if err := fs.WriteFile(dest, body, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", dest)
	}

	c.logger.Info().Str("dest", dest).Int("bytes", len(body)).Msg("Downloaded asset")
	return nil
}

// PublicIP queries the configured "what is my IP" endpoints. Purely
// informational; callers log failures and move on.
func (c *Client) PublicIP(ctx context.Context, endpoints []string) (string, error) {
	body, err := c.Get(ctx, endpoints...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}
