// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RawSections mirrors Sections with every field optional, as found in
// author-supplied input.
type RawSections struct {
	Abstract   string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Methods    string `json:"methods,omitempty" yaml:"methods,omitempty"`
	Results    string `json:"results,omitempty" yaml:"results,omitempty"`
	Conclusion string `json:"conclusion,omitempty" yaml:"conclusion,omitempty"`
}

// RawMetrics holds optional build-input metrics.
type RawMetrics struct {
	// KeywordCounts maps keywords to occurrence counts in the source text.
	KeywordCounts map[string]int `json:"keyword_counts,omitempty" yaml:"keyword_counts,omitempty"`
}

// RawPaper is the free-form per-paper input consumed by the offline
// build step. The year may be absent or out of range, keyword lists may
// contain duplicates, and any section may be missing.
type RawPaper struct {
	ID             string            `json:"id" yaml:"id"`
	Title          string            `json:"title" yaml:"title"`
	Authors        []string          `json:"authors" yaml:"authors"`
	Year           *int              `json:"year" yaml:"year"`
	Organism       string            `json:"organism" yaml:"organism"`
	ExperimentType string            `json:"experiment_type,omitempty" yaml:"experiment_type,omitempty"`
	Platform       string            `json:"platform" yaml:"platform"`
	Keywords       []string          `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Sections       RawSections       `json:"sections" yaml:"sections"`
	Links          map[string]string `json:"links,omitempty" yaml:"links,omitempty"`
	Summary        string            `json:"summary,omitempty" yaml:"summary,omitempty"`
	AISummary      string            `json:"ai_summary,omitempty" yaml:"ai_summary,omitempty"`
	Metrics        *RawMetrics       `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}
