// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pdiddy/bio-archive/internal/observability"
	archiveerr "github.com/pdiddy/bio-archive/pkg/errors"
	"github.com/pdiddy/bio-archive/pkg/types"
)

// fallbackHeader flags responses answered with the offline stub.
const fallbackHeader = "X-Archive-Fallback"

// listIndex returns the full indexed record set.
func (s *Server) listIndex(w http.ResponseWriter, r *http.Request) {
	records := s.svc.Records()
	if records == nil {
		records = []types.PaperRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// getPaper resolves a dossier detail. The fallback chain guarantees a
// valid detail, so the response is 200 even when every source failed;
// the stub is flagged with a header instead of an error status.
func (s *Server) getPaper(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "paperID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "paper id required")
		return
	}

	detail, isFallback, err := s.svc.Get(r.Context(), id)
	if err != nil {
		logger := observability.WithPaperContext(s.logger, id)
		logger.Error().Err(err).Msg("detail resolution failed")
		writeError(w, archiveerr.HTTPStatusCode(err), "data layer failure")
		return
	}
	if isFallback {
		w.Header().Set(fallbackHeader, "1")
	}
	writeJSON(w, http.StatusOK, detail)
}

// search runs a full filtered query. An empty q returns every indexed
// record, narrowed by any facet parameters.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := types.Filter{
		Organism: q.Get("organism"),
		Platform: q.Get("platform"),
	}
	if yearStr := q.Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be an integer")
			return
		}
		f.Year = year
	}

	results := s.svc.Search(q.Get("q"), f)
	if results == nil {
		results = []types.PaperRecord{}
	}
	writeJSON(w, http.StatusOK, results)
}

// typeahead returns incremental suggestions for a partial query.
func (s *Server) typeahead(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if limitStr := q.Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	suggestions := s.svc.Typeahead(q.Get("q"), limit)
	if suggestions == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}
