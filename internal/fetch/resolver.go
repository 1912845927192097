// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/bio-archive/internal/store"
	archiveerr "github.com/pdiddy/bio-archive/pkg/errors"
	"github.com/pdiddy/bio-archive/pkg/types"
)

// Resolver resolves a dossier detail from a single source. Each link
// of the fallback chain implements this interface so the chain can be
// tested one strategy at a time.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, id string) (*types.PaperDetail, error)
}

// CacheResolver serves details already held by the record store. A row
// without a detail payload counts as a miss; summaries never
// short-circuit the network.
type CacheResolver struct {
	Store *store.Store
}

func (r CacheResolver) Name() string { return SourceCache }

func (r CacheResolver) Resolve(ctx context.Context, id string) (*types.PaperDetail, error) {
	rec, err := r.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rec.HasDetail() {
		return nil, fmt.Errorf("%w: %s has no cached detail", archiveerr.ErrRecordNotFound, id)
	}
	detail := rec.Detail()
	return &detail, nil
}

// SourceResolver fetches a detail from one remote path template.
type SourceResolver struct {
	Client *Client
	Path   string
}

func (r SourceResolver) Name() string { return r.Path }

func (r SourceResolver) Resolve(ctx context.Context, id string) (*types.PaperDetail, error) {
	var detail types.PaperDetail
	if err := r.Client.getJSON(ctx, r.Client.resourceURL(r.Path, id), &detail); err != nil {
		return nil, err
	}
	if detail.ID == "" {
		return nil, fmt.Errorf("%w: detail at %s has no id", archiveerr.ErrMalformedResponse, r.Path)
	}
	if detail.Links == nil {
		detail.Links = types.Links{}
	}
	return &detail, nil
}

// Chain composes resolvers in priority order, returning the first
// success or the deterministic fallback stub. Intermediate network and
// parse failures are logged and swallowed; only a fatal data-layer
// error propagates.
type Chain struct {
	resolvers []Resolver
	logger    zerolog.Logger
}

// Source names reported by Chain.Resolve for the non-remote resolvers.
const (
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// NewChain builds a resolver chain. Order is priority order.
func NewChain(logger zerolog.Logger, resolvers ...Resolver) *Chain {
	return &Chain{
		resolvers: resolvers,
		logger:    logger.With().Str("component", "resolver-chain").Logger(),
	}
}

// Resolve walks the chain for id. The returned source is the name of
// the resolver that produced the detail, or SourceFallback for the
// stub. The error is non-nil only for ErrDataLayerFatal.
func (c *Chain) Resolve(ctx context.Context, id string) (*types.PaperDetail, string, error) {
	for _, r := range c.resolvers {
		detail, err := r.Resolve(ctx, id)
		if err == nil {
			return detail, r.Name(), nil
		}
		if archiveerr.Is(err, archiveerr.ErrDataLayerFatal) {
			return nil, "", err
		}
		c.logger.Debug().
			Str("paper_id", id).
			Str("source", r.Name()).
			Err(err).
			Msg("source failed, falling through")
	}

	c.logger.Warn().Str("paper_id", id).Msg("all sources failed, supplying fallback stub")
	return Fallback(id), SourceFallback, nil
}
