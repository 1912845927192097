// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CitationPoint is a single year/count pair in a citation trend series.
// The current dataset ships empty series; the field is carried for
// schema compatibility with the published JSON.
type CitationPoint struct {
	Year  int `json:"y" yaml:"y"`
	Count int `json:"c" yaml:"c"`
}

// PaperIndex is the summary record for a dossier as published in
// index.json. Produced by the offline build step and immutable at
// runtime; uniquely identified by ID.
type PaperIndex struct {
	// ID is a stable, globally unique dossier identifier.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year, or 0 when none could be derived.
	Year int `json:"year" yaml:"year"`

	// Organism is the studied organism (e.g. "Mus musculus").
	Organism string `json:"organism" yaml:"organism"`

	// Platform is the experiment platform (e.g. "ISS - Veggie").
	Platform string `json:"platform" yaml:"platform"`

	// Keywords are normalized at build time: trimmed, non-empty,
	// case-insensitively deduplicated with first-seen casing kept.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Confidence is the build-derived confidence score in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Access lists derived access tags (e.g. "PEER-REVIEWED", "OSDR").
	Access []string `json:"access" yaml:"access"`

	// CitationsByYear is the citation trend series, oldest first.
	CitationsByYear []CitationPoint `json:"citations_by_year" yaml:"citations_by_year"`

	// Entities lists up to 6 salient entity strings.
	Entities []string `json:"entities" yaml:"entities"`
}

// Sections holds the four dossier body sections. Any section may be empty.
type Sections struct {
	Abstract   string `json:"abstract" yaml:"abstract"`
	Methods    string `json:"methods" yaml:"methods"`
	Results    string `json:"results" yaml:"results"`
	Conclusion string `json:"conclusion" yaml:"conclusion"`
}

// Filled returns the number of non-blank sections.
func (s Sections) Filled() int {
	n := 0
	for _, v := range []string{s.Abstract, s.Methods, s.Results, s.Conclusion} {
		if !isBlank(v) {
			n++
		}
	}
	return n
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// Link name keys used in the published dataset.
const (
	LinkTaskbook = "taskbook"
	LinkOSDR     = "osdr"
	LinkPMCHTML  = "pmc_html"
	LinkPMCPDF   = "pmc_pdf"
)

// Links maps link names to external URLs. Entries are optional; a
// non-nil empty map is a valid, link-less detail.
type Links map[string]string

// PaperDetail is the full dossier record as published in
// papers/{id}.json: the summary fields plus body sections and links.
type PaperDetail struct {
	PaperIndex `yaml:",inline"`

	Sections Sections `json:"sections" yaml:"sections"`
	Links    Links    `json:"links" yaml:"links"`

	// AISummary is the generated one-paragraph summary.
	AISummary string `json:"ai_summary" yaml:"ai_summary"`
}

// Index returns the summary view of the detail, as published in
// index.json: sections, links and ai_summary stripped.
func (d PaperDetail) Index() PaperIndex {
	return d.PaperIndex
}
