// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PaperRecord is a cached dossier row: a summary merged with the
// optional detail payload. Sections and Links are nil until a full
// detail has been stored; once both are present the record is treated
// as equivalent to a fetched detail and is never re-validated against
// the network.
type PaperRecord struct {
	PaperIndex `yaml:",inline"`

	Sections  *Sections `json:"sections,omitempty" yaml:"sections,omitempty"`
	Links     Links     `json:"links,omitempty" yaml:"links,omitempty"`
	AISummary string    `json:"ai_summary,omitempty" yaml:"ai_summary,omitempty"`

	// CachedAt marks when the row was written. It is a "have we stored
	// this" marker only; there is no TTL or eviction.
	CachedAt time.Time `json:"cached_at" yaml:"cached_at"`
}

// HasDetail reports whether the record carries a full detail payload.
func (r PaperRecord) HasDetail() bool {
	return r.Sections != nil && r.Links != nil
}

// Detail converts a record with a detail payload back into a
// PaperDetail. Only meaningful when HasDetail is true.
func (r PaperRecord) Detail() PaperDetail {
	d := PaperDetail{
		PaperIndex: r.PaperIndex,
		Links:      r.Links,
		AISummary:  r.AISummary,
	}
	if r.Sections != nil {
		d.Sections = *r.Sections
	}
	if d.Links == nil {
		d.Links = Links{}
	}
	return d
}

// RecordFromDetail builds the cached row for a fetched detail.
func RecordFromDetail(d PaperDetail, cachedAt time.Time) PaperRecord {
	sections := d.Sections
	links := d.Links
	if links == nil {
		links = Links{}
	}
	return PaperRecord{
		PaperIndex: d.PaperIndex,
		Sections:   &sections,
		Links:      links,
		AISummary:  d.AISummary,
		CachedAt:   cachedAt,
	}
}

// Filter narrows a record list by exact equality on each set field.
// Zero values mean "no constraint".
type Filter struct {
	Organism string `json:"organism,omitempty" yaml:"organism,omitempty"`
	Platform string `json:"platform,omitempty" yaml:"platform,omitempty"`
	Year     int    `json:"year,omitempty" yaml:"year,omitempty"`
}

// IsZero reports whether no filter field is set.
func (f Filter) IsZero() bool {
	return f.Organism == "" && f.Platform == "" && f.Year == 0
}

// Matches reports whether the record satisfies every set filter field.
func (f Filter) Matches(r PaperRecord) bool {
	if f.Organism != "" && r.Organism != f.Organism {
		return false
	}
	if f.Platform != "" && r.Platform != f.Platform {
		return false
	}
	if f.Year != 0 && r.Year != f.Year {
		return false
	}
	return true
}
