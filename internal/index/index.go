// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index builds an in-memory inverted index over dossier
// titles, authors and keywords, serving typeahead suggestions and
// full filtered search.
package index

import (
	"math"
	"sort"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/pdiddy/bio-archive/internal/filter"
	"github.com/pdiddy/bio-archive/pkg/types"
)

const (
	defaultTypeaheadLimit = 5
	defaultFuzziness      = 0.1

	weightTitle   = 2.0
	weightAuthor  = 1.0
	weightKeyword = 1.0
)

// Suggestion is a single typeahead hit.
type Suggestion struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Searcher serves queries over an immutable index snapshot. Build
// swaps in a fresh snapshot atomically, so queries in flight during a
// rebuild see a consistent record set.
type Searcher struct {
	cfg types.SearchConfig

	mu   sync.RWMutex
	snap *snapshot
}

type posting struct {
	rec    int
	weight float64
}

type snapshot struct {
	records  []types.PaperRecord
	terms    []string // sorted, unique
	postings map[string][]posting
}

// NewSearcher creates an empty Searcher. Call Build before querying.
func NewSearcher(cfg types.SearchConfig) *Searcher {
	if cfg.TypeaheadLimit <= 0 {
		cfg.TypeaheadLimit = defaultTypeaheadLimit
	}
	if cfg.Fuzziness <= 0 {
		cfg.Fuzziness = defaultFuzziness
	}
	return &Searcher{cfg: cfg, snap: &snapshot{postings: map[string][]posting{}}}
}

// Build discards any previous index state and indexes the given
// records' title, authors and keywords. It is a full rebuild, callable
// whenever the record set changes.
func (s *Searcher) Build(records []types.PaperRecord) {
	snap := &snapshot{
		records:  append([]types.PaperRecord(nil), records...),
		postings: make(map[string][]posting),
	}

	for i, rec := range snap.records {
		addField(snap, i, rec.Title, weightTitle)
		for _, author := range rec.Authors {
			addField(snap, i, author, weightAuthor)
		}
		for _, keyword := range rec.Keywords {
			addField(snap, i, keyword, weightKeyword)
		}
	}

	snap.terms = make([]string, 0, len(snap.postings))
	for term := range snap.postings {
		snap.terms = append(snap.terms, term)
	}
	sort.Strings(snap.terms)

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func addField(snap *snapshot, rec int, text string, weight float64) {
	for _, term := range Tokenize(text) {
		list := snap.postings[term]
		// Merge repeated terms within one record.
		if n := len(list); n > 0 && list[n-1].rec == rec {
			list[n-1].weight += weight
			continue
		}
		snap.postings[term] = append(list, posting{rec: rec, weight: weight})
	}
}

// Records returns the record set the current snapshot was built from.
func (s *Searcher) Records() []types.PaperRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.records
}

// Typeahead returns up to limit suggestions for a partial query,
// ordered by descending relevance with ties broken by id. An empty or
// whitespace-only query yields no suggestions. Limit 0 uses the
// configured default.
func (s *Searcher) Typeahead(query string, limit int) []Suggestion {
	if limit <= 0 {
		limit = s.cfg.TypeaheadLimit
	}
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()

	scores := make(map[int]float64)
	for _, token := range tokens {
		for rec, score := range snap.matchToken(token, s.cfg.Fuzziness) {
			scores[rec] += score
		}
	}

	ranked := rankScores(snap, scores)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	suggestions := make([]Suggestion, 0, len(ranked))
	for _, rec := range ranked {
		suggestions = append(suggestions, Suggestion{
			ID:    snap.records[rec].ID,
			Title: snap.records[rec].Title,
		})
	}
	return suggestions
}

// Search returns records matching every query token (AND semantics),
// in relevance order, narrowed by the filter. A whitespace-only query
// matches all indexed records.
func (s *Searcher) Search(query string, f types.Filter) []types.PaperRecord {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()

	tokens := Tokenize(query)

	var results []types.PaperRecord
	if len(tokens) == 0 {
		results = append([]types.PaperRecord(nil), snap.records...)
	} else {
		scores := make(map[int]float64)
		matched := make(map[int]int)
		for _, token := range tokens {
			for rec, score := range snap.matchToken(token, s.cfg.Fuzziness) {
				scores[rec] += score
				matched[rec]++
			}
		}
		for rec, n := range matched {
			if n < len(tokens) {
				delete(scores, rec)
			}
		}
		for _, rec := range rankScores(snap, scores) {
			results = append(results, snap.records[rec])
		}
	}

	results = filter.Apply(results, f)
	if s.cfg.MaxResults > 0 && len(results) > s.cfg.MaxResults {
		results = results[:s.cfg.MaxResults]
	}
	return results
}

// matchToken scores every record whose indexed terms match the token
// by exact, prefix, or small-edit-distance comparison. The fuzzy
// budget scales with token length (round(fuzziness*len)), so short
// tokens match prefix-only.
func (snap *snapshot) matchToken(token string, fuzziness float64) map[int]float64 {
	maxDist := int(math.Round(fuzziness * float64(len(token))))
	scores := make(map[int]float64)

	for _, term := range snap.terms {
		var factor float64
		switch {
		case term == token:
			factor = 1.0
		case len(term) > len(token) && term[:len(token)] == token:
			// Prefix hits score lower the further the term extends
			// past the typed token.
			factor = 0.8 * float64(len(token)) / float64(len(term))
		case maxDist > 0 && withinDistance(token, term, maxDist):
			factor = 0.5 / float64(maxDist+1)
		default:
			continue
		}
		for _, p := range snap.postings[term] {
			score := p.weight * factor
			if score > scores[p.rec] {
				scores[p.rec] = score
			}
		}
	}
	return scores
}

func withinDistance(a, b string, maxDist int) bool {
	// Cheap length prescreen before computing the distance.
	if d := len(a) - len(b); d > maxDist || -d > maxDist {
		return false
	}
	return levenshtein.ComputeDistance(a, b) <= maxDist
}

// rankScores orders record indices by descending score, breaking ties
// by id so results are deterministic.
func rankScores(snap *snapshot, scores map[int]float64) []int {
	ranked := make([]int, 0, len(scores))
	for rec := range scores {
		ranked = append(ranked, rec)
	}
	sort.Slice(ranked, func(i, j int) bool {
		si, sj := scores[ranked[i]], scores[ranked[j]]
		if si != sj {
			return si > sj
		}
		return snap.records[ranked[i]].ID < snap.records[ranked[j]].ID
	})
	return ranked
}
