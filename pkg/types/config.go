// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. A hung request is treated
	// the same as a failed one once the timeout elapses.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "bio-archive/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// StoreConfig holds settings for the local record store.
type StoreConfig struct {
	// ArchiveDir is the base directory for the archive (contains index/).
	ArchiveDir string `json:"archive_dir" yaml:"archive_dir"`
}

// FetchConfig holds settings for remote dataset retrieval.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the deployed asset base the dataset is served from.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Sources are detail path templates tried in priority order,
	// relative to BaseURL, with {id} substituted (default
	// "data/papers/{id}.json" then "data_min/clean/{id}.json").
	Sources []string `json:"sources" yaml:"sources"`

	// IndexPath is the index resource path relative to BaseURL
	// (default "data/index.json").
	IndexPath string `json:"index_path" yaml:"index_path"`

	// MaxRetries bounds retry attempts on rate-limited responses.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SearchConfig holds settings for the in-memory search index.
type SearchConfig struct {
	// MaxResults caps full search results. Zero means unlimited.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// TypeaheadLimit caps typeahead suggestions (default 5).
	TypeaheadLimit int `json:"typeahead_limit" yaml:"typeahead_limit"`

	// Fuzziness is the edit-distance tolerance as a fraction of token
	// length (default 0.1).
	Fuzziness float64 `json:"fuzziness" yaml:"fuzziness"`
}

// BuildConfig holds settings for the offline dataset build step.
type BuildConfig struct {
	// RawDir is the directory of free-form per-paper JSON input.
	RawDir string `json:"raw_dir" yaml:"raw_dir"`

	// OutDir is the output directory (receives index.json and papers/).
	OutDir string `json:"out_dir" yaml:"out_dir"`
}

// ServeConfig holds settings for the local HTTP API server.
type ServeConfig struct {
	// Address is the listen address (default ":8571").
	Address string `json:"address" yaml:"address"`

	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ArchiveConfig groups all component configurations.
type ArchiveConfig struct {
	Store  StoreConfig  `json:"store" yaml:"store"`
	Fetch  FetchConfig  `json:"fetch" yaml:"fetch"`
	Search SearchConfig `json:"search" yaml:"search"`
	Build  BuildConfig  `json:"build" yaml:"build"`
	Serve  ServeConfig  `json:"serve" yaml:"serve"`
}
