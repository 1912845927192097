// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive composes the record store, search index and fetch
// chain into a single dossier service with an explicit lifecycle.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/bio-archive/internal/fetch"
	"github.com/pdiddy/bio-archive/internal/index"
	"github.com/pdiddy/bio-archive/internal/observability"
	"github.com/pdiddy/bio-archive/internal/store"
	archiveerr "github.com/pdiddy/bio-archive/pkg/errors"
	"github.com/pdiddy/bio-archive/pkg/types"
)

// SeedGeneration versions the seeded dataset. Bumping it wipes and
// re-seeds local stores on the next Sync, which is how a reshaped
// published index reaches clients that already hold old rows.
const SeedGeneration = 1

// Service is the dossier archive facade. Construct with Open and
// release with Close; instances are independent, there is no ambient
// state.
type Service struct {
	cfg     types.ArchiveConfig
	logger  zerolog.Logger
	metrics *observability.Metrics

	store    *store.Store // nil in network-only mode
	searcher *index.Searcher
	client   *fetch.Client
	chain    *fetch.Chain

	group singleflight.Group
}

// Open builds a Service. The record store is an acceleration layer: if
// it cannot be opened the service degrades to network-only mode with a
// warning instead of failing, except for fatal data-layer errors.
// Metrics may be nil (e.g. in one-shot CLI runs).
func Open(cfg types.ArchiveConfig, logger zerolog.Logger, metrics *observability.Metrics) (*Service, error) {
	logger = logger.With().Str("component", "archive").Logger()

	st, err := store.Open(cfg.Store)
	if err != nil {
		if archiveerr.Is(err, archiveerr.ErrDataLayerFatal) {
			return nil, err
		}
		logger.Warn().Err(err).Msg("record store unavailable, running network-only")
		st = nil
	}

	client := fetch.NewClient(cfg.Fetch, logger)

	resolvers := make([]fetch.Resolver, 0, len(client.Sources())+1)
	if st != nil {
		resolvers = append(resolvers, fetch.CacheResolver{Store: st})
	}
	for _, path := range client.Sources() {
		resolvers = append(resolvers, fetch.SourceResolver{Client: client, Path: path})
	}

	return &Service{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		store:    st,
		searcher: index.NewSearcher(cfg.Search),
		client:   client,
		chain:    fetch.NewChain(logger, resolvers...),
	}, nil
}

// Close releases the underlying store.
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// Offline reports whether the service runs without a record store.
func (s *Service) Offline() bool {
	return s.store == nil
}

// Sync seeds the record store from the remote index and rebuilds the
// search index, in that order, so queries always see a consistent
// record set. When the network fails it falls back to cached rows;
// only the combination of no network and no cache is an error.
// Returns the number of records now indexed.
func (s *Service) Sync(ctx context.Context) (int, error) {
	records, fetchErr := s.client.FetchIndex(ctx)
	if fetchErr == nil {
		s.seed(ctx, records)
		if rows := s.cachedRows(ctx); len(rows) > 0 {
			s.rebuild(rows)
			return len(rows), nil
		}
		// Store empty or absent: index the fetched summaries directly.
		s.rebuild(recordsFromIndex(records))
		return len(records), nil
	}

	s.logger.Warn().Err(fetchErr).Msg("index fetch failed, trying cache")
	if rows := s.cachedRows(ctx); len(rows) > 0 {
		s.rebuild(rows)
		return len(rows), nil
	}
	return 0, fmt.Errorf("%w: %v", archiveerr.ErrIndexUnavailable, fetchErr)
}

// seed writes the fetched index into the store. Failures are logged
// and swallowed; the caller proceeds with whatever rows exist.
func (s *Service) seed(ctx context.Context, records []types.PaperIndex) {
	if s.store == nil {
		return
	}
	before, _ := s.store.Count(ctx)
	if err := s.store.Seed(ctx, SeedGeneration, records); err != nil {
		s.logger.Warn().Err(err).Msg("seed failed, continuing without cache refresh")
		s.countSeed("failed")
		return
	}
	after, _ := s.store.Count(ctx)
	if after == before && before > 0 {
		s.countSeed("noop")
		return
	}
	s.countSeed("seeded")
	if s.metrics != nil {
		s.metrics.SeededRecords.Observe(float64(len(records)))
	}
	s.logger.Info().Int("records", len(records)).Msg("record store seeded")
}

func (s *Service) cachedRows(ctx context.Context) []types.PaperRecord {
	if s.store == nil {
		return nil
	}
	rows, err := s.store.ListAll(ctx)
	if err != nil {
		// Degraded store behaves as empty rather than failing the caller.
		s.logger.Warn().Err(err).Msg("store list failed")
		return nil
	}
	return rows
}

func (s *Service) rebuild(rows []types.PaperRecord) {
	start := time.Now()
	s.searcher.Build(rows)
	if s.metrics != nil {
		s.metrics.IndexRebuildDuration.Observe(time.Since(start).Seconds())
	}
}

type resolved struct {
	detail *types.PaperDetail
	source string
}

// Get resolves the full detail for id through the fallback chain:
// cache, remote sources in priority order, then the offline stub.
// Concurrent calls for the same id share one resolution. The boolean
// reports whether the stub was served. The error is non-nil only for
// fatal data-layer failures.
func (s *Service) Get(ctx context.Context, id string) (*types.PaperDetail, bool, error) {
	v, err, _ := s.group.Do(id, func() (any, error) {
		detail, source, err := s.chain.Resolve(ctx, id)
		if err != nil {
			return nil, err
		}
		if s.store != nil && source != fetch.SourceFallback && source != fetch.SourceCache {
			if err := s.store.Upsert(ctx, *detail); err != nil {
				s.logger.Warn().Str("paper_id", id).Err(err).Msg("detail cache write failed")
			}
		}
		return resolved{detail: detail, source: source}, nil
	})
	if err != nil {
		return nil, false, err
	}

	res := v.(resolved)
	s.observeResolve(res.source)
	return res.detail, res.source == fetch.SourceFallback, nil
}

// Search runs a full filtered query over the indexed record set. Valid
// after Sync (or any Build of the underlying index).
func (s *Service) Search(query string, f types.Filter) []types.PaperRecord {
	start := time.Now()
	results := s.searcher.Search(query, f)
	s.observeQuery("search", time.Since(start))
	return results
}

// Typeahead returns incremental suggestions for a partial query.
func (s *Service) Typeahead(query string, limit int) []index.Suggestion {
	start := time.Now()
	suggestions := s.searcher.Typeahead(query, limit)
	s.observeQuery("typeahead", time.Since(start))
	return suggestions
}

// Records returns the currently indexed record set.
func (s *Service) Records() []types.PaperRecord {
	return s.searcher.Records()
}

func (s *Service) observeResolve(source string) {
	if s.metrics == nil {
		return
	}
	s.metrics.DetailResolves.WithLabelValues(source).Inc()
	switch source {
	case fetch.SourceCache:
		s.metrics.CacheHits.Inc()
	case fetch.SourceFallback:
		s.metrics.FallbacksServed.Inc()
	}
}

func (s *Service) observeQuery(kind string, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.SearchDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (s *Service) countSeed(outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.SeedsTotal.WithLabelValues(outcome).Inc()
}

func recordsFromIndex(records []types.PaperIndex) []types.PaperRecord {
	now := time.Now().UTC()
	rows := make([]types.PaperRecord, 0, len(records))
	for _, rec := range records {
		rows = append(rows, types.PaperRecord{PaperIndex: rec, CachedAt: now})
	}
	return rows
}
