// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves the published dataset over HTTP and resolves
// dossier details through an ordered fallback chain.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/bio-archive/internal/httputil"
	archiveerr "github.com/pdiddy/bio-archive/pkg/errors"
	"github.com/pdiddy/bio-archive/pkg/types"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "bio-archive/0.1"
	defaultIndexPath = "data/index.json"
)

// DefaultSources are the detail path templates tried in priority
// order: the primary data directory, then the minified clean mirror.
var DefaultSources = []string{
	"data/papers/{id}.json",
	"data_min/clean/{id}.json",
}

// Client fetches dataset resources from the deployed asset base.
type Client struct {
	http   *http.Client
	cfg    types.FetchConfig
	logger zerolog.Logger
}

// NewClient creates a Client with defaults applied for any unset
// config field. The HTTP timeout guards against hung requests; a
// timeout maps to the same fallback path as any other network failure.
func NewClient(cfg types.FetchConfig, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.IndexPath == "" {
		cfg.IndexPath = defaultIndexPath
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = DefaultSources
	}
	return &Client{
		http:   &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger.With().Str("component", "fetch").Logger(),
	}
}

// Sources returns the configured detail path templates in priority order.
func (c *Client) Sources() []string {
	return c.cfg.Sources
}

// FetchIndex retrieves the remote summary index.
func (c *Client) FetchIndex(ctx context.Context) ([]types.PaperIndex, error) {
	var records []types.PaperIndex
	if err := c.getJSON(ctx, c.resourceURL(c.cfg.IndexPath, ""), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// getJSON fetches url and decodes the body into dest, classifying
// failures as network or malformed-response errors.
func (c *Client) getJSON(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: creating request for %s: %v", archiveerr.ErrNetworkUnavailable, url, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", archiveerr.ErrNetworkUnavailable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: HTTP %d from %s", archiveerr.ErrNetworkUnavailable, resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", archiveerr.ErrMalformedResponse, url, err)
	}
	return nil
}

// resourceURL joins a path template to the base URL, substituting the
// dossier id when present.
func (c *Client) resourceURL(path, id string) string {
	path = strings.ReplaceAll(path, "{id}", id)
	base := c.cfg.BaseURL
	if base == "" {
		return path
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}
