// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package build normalizes raw per-paper JSON into the published
// dataset: one detail file per dossier plus the sorted summary index.
package build

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bio-archive/pkg/types"
)

const (
	papersDir    = "papers"
	indexFile    = "index.json"
	manifestFile = "manifest.yaml"

	minYear = 1950
)

var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// Summary holds counts from a dataset build run.
type Summary struct {
	Generated int `yaml:"generated"`
	Failed    int `yaml:"failed"`
}

// Total returns the number of raw files processed.
func (s Summary) Total() int {
	return s.Generated + s.Failed
}

// Run reads raw paper JSON from cfg.RawDir, writes normalized detail
// files to cfg.OutDir/papers/ and the summary index to
// cfg.OutDir/index.json, and records a build manifest. Individual
// parse failures are reported and skipped; the run continues.
func Run(cfg types.BuildConfig, w io.Writer) (Summary, error) {
	outPapers := filepath.Join(cfg.OutDir, papersDir)
	if err := os.MkdirAll(outPapers, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output directory: %w", err)
	}

	entries, err := os.ReadDir(cfg.RawDir)
	if err != nil {
		return Summary{}, fmt.Errorf("reading raw directory %s: %w", cfg.RawDir, err)
	}

	var (
		summary Summary
		details []types.PaperDetail
	)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(cfg.RawDir, entry.Name()))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", entry.Name(), err)
			summary.Failed++
			continue
		}

		var raw types.RawPaper
		if err := json.Unmarshal(data, &raw); err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", entry.Name(), err)
			summary.Failed++
			continue
		}
		if raw.ID == "" {
			fmt.Fprintf(w, "failed  %s: missing id\n", entry.Name())
			summary.Failed++
			continue
		}

		detail := ToDetail(raw)
		if err := writeJSON(filepath.Join(outPapers, detail.ID+".json"), detail); err != nil {
			return summary, fmt.Errorf("writing detail for %s: %w", detail.ID, err)
		}

		fmt.Fprintf(w, "built   %s (year %d, %d keywords)\n", detail.ID, detail.Year, len(detail.Keywords))
		details = append(details, detail)
		summary.Generated++
	}

	sortDetails(details)

	index := make([]types.PaperIndex, 0, len(details))
	for _, d := range details {
		index = append(index, d.Index())
	}
	if err := writeJSON(filepath.Join(cfg.OutDir, indexFile), index); err != nil {
		return summary, fmt.Errorf("writing index: %w", err)
	}

	if err := writeManifest(cfg.OutDir, summary); err != nil {
		fmt.Fprintf(w, "warning: manifest write failed: %v\n", err)
	}

	fmt.Fprintf(w, "\ngenerated: %d, failed: %d\n", summary.Generated, summary.Failed)
	return summary, nil
}

// ToDetail normalizes a raw paper into the published detail shape.
func ToDetail(raw types.RawPaper) types.PaperDetail {
	keywords := NormalizeKeywords(raw.Keywords)

	summary := raw.AISummary
	if summary == "" {
		summary = raw.Summary
	}

	var counts map[string]int
	if raw.Metrics != nil {
		counts = raw.Metrics.KeywordCounts
	}

	return types.PaperDetail{
		PaperIndex: types.PaperIndex{
			ID:              raw.ID,
			Title:           raw.Title,
			Authors:         raw.Authors,
			Year:            DeriveYear(raw),
			Organism:        raw.Organism,
			Platform:        raw.Platform,
			Keywords:        keywords,
			Confidence:      ComputeConfidence(raw),
			Access:          AccessTags(raw),
			CitationsByYear: []types.CitationPoint{},
			Entities:        SelectEntities(counts, keywords),
		},
		Sections:  ensureSections(raw.Sections),
		Links:     mapLinks(raw.Links),
		AISummary: summary,
	}
}

// DeriveYear returns the publication year: the supplied value when it
// lies in [1950, current year], otherwise the first in-range 19xx/20xx
// pattern scanning summary, abstract, methods, results, conclusion and
// finally the link URLs, else 0.
func DeriveYear(raw types.RawPaper) int {
	if y := clampYear(raw.Year); y != 0 {
		return y
	}

	texts := []string{
		raw.Summary,
		raw.Sections.Abstract,
		raw.Sections.Methods,
		raw.Sections.Results,
		raw.Sections.Conclusion,
	}
	for _, text := range texts {
		if y := yearFromText(text); y != 0 {
			return y
		}
	}

	// Link values in sorted key order, for determinism.
	keys := make([]string, 0, len(raw.Links))
	for k := range raw.Links {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if y := yearFromText(raw.Links[k]); y != 0 {
			return y
		}
	}
	return 0
}

func clampYear(value *int) int {
	if value == nil {
		return 0
	}
	if *value < minYear || *value > time.Now().Year() {
		return 0
	}
	return *value
}

func yearFromText(text string) int {
	for _, match := range yearPattern.FindAllString(text, -1) {
		y, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		if y >= minYear && y <= time.Now().Year() {
			return y
		}
	}
	return 0
}

// NormalizeKeywords trims keywords, drops empties, and removes
// case-insensitive duplicates keeping the first-seen casing.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		lower := strings.ToLower(kw)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, kw)
	}
	return out
}

// ComputeConfidence derives the confidence score:
// 0.5 base + min(0.3, keywordCount*0.03) + min(0.15, filledSections*0.02),
// rounded to two decimals. The constants are preserved verbatim for
// dataset compatibility.
func ComputeConfidence(raw types.RawPaper) float64 {
	keywordCount := 0
	if raw.Metrics != nil {
		keywordCount = len(raw.Metrics.KeywordCounts)
	}
	keywordBoost := math.Min(0.3, float64(keywordCount)*0.03)
	sectionBoost := math.Min(0.15, float64(ensureSections(raw.Sections).Filled())*0.02)
	return math.Round((0.5+keywordBoost+sectionBoost)*100) / 100
}

// AccessTags derives access tags in insertion order: peer-review when
// a PMC link is present, the platform name, the uppercased experiment
// type, and OSDR when that link exists.
func AccessTags(raw types.RawPaper) []string {
	var tags []string
	add := func(tag string) {
		if tag == "" {
			return
		}
		for _, t := range tags {
			if t == tag {
				return
			}
		}
		tags = append(tags, tag)
	}

	if raw.Links[types.LinkPMCHTML] != "" || raw.Links[types.LinkPMCPDF] != "" {
		add("PEER-REVIEWED")
	}
	add(raw.Platform)
	add(strings.ToUpper(raw.ExperimentType))
	if raw.Links[types.LinkOSDR] != "" {
		add("OSDR")
	}
	if tags == nil {
		tags = []string{}
	}
	return tags
}

// SelectEntities returns the top-6 keyword-count entries by descending
// count (ties by name for determinism). Without count metrics it falls
// back to the first 6 normalized keywords.
func SelectEntities(counts map[string]int, keywords []string) []string {
	if counts == nil {
		if len(keywords) > 6 {
			keywords = keywords[:6]
		}
		return append([]string{}, keywords...)
	}

	type entry struct {
		keyword string
		count   int
	}
	entries := make([]entry, 0, len(counts))
	for k, c := range counts {
		entries = append(entries, entry{k, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].keyword < entries[j].keyword
	})
	if len(entries) > 6 {
		entries = entries[:6]
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.keyword)
	}
	return out
}

func ensureSections(raw types.RawSections) types.Sections {
	return types.Sections{
		Abstract:   raw.Abstract,
		Methods:    raw.Methods,
		Results:    raw.Results,
		Conclusion: raw.Conclusion,
	}
}

// mapLinks keeps only the published link names, dropping empty entries.
func mapLinks(links map[string]string) types.Links {
	out := types.Links{}
	for _, key := range []string{types.LinkTaskbook, types.LinkOSDR, types.LinkPMCHTML, types.LinkPMCPDF} {
		if v := links[key]; v != "" {
			out[key] = v
		}
	}
	return out
}

func sortDetails(details []types.PaperDetail) {
	sort.Slice(details, func(i, j int) bool {
		if details[i].Year != details[j].Year {
			return details[i].Year > details[j].Year
		}
		return details[i].Title < details[j].Title
	})
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeManifest(outDir string, summary Summary) error {
	manifest := struct {
		BuiltAt   string `yaml:"built_at"`
		Generated int    `yaml:"generated"`
		Failed    int    `yaml:"failed"`
	}{
		BuiltAt:   time.Now().UTC().Format(time.RFC3339),
		Generated: summary.Generated,
		Failed:    summary.Failed,
	}
	data, err := yaml.Marshal(&manifest)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, manifestFile), data, 0o644)
}
