// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter narrows record lists by exact facet equality.
package filter

import "github.com/pdiddy/bio-archive/pkg/types"

// Apply returns the records satisfying every set field of f, in input
// order. Unset fields impose no constraint; matching is exact, unlike
// the text search. An empty filter returns the input unchanged.
func Apply(records []types.PaperRecord, f types.Filter) []types.PaperRecord {
	if f.IsZero() {
		return records
	}
	out := make([]types.PaperRecord, 0, len(records))
	for _, rec := range records {
		if f.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}
