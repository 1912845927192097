// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"
	"time"
)

func TestRecordFromDetail_RoundTrip(t *testing.T) {
	detail := PaperDetail{
		PaperIndex: PaperIndex{ID: "paper-a", Title: "Bone Density in Orbit"},
		Sections:   Sections{Abstract: "Mice lost bone."},
		AISummary:  "summary",
	}
	cachedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rec := RecordFromDetail(detail, cachedAt)
	if !rec.HasDetail() {
		t.Fatal("record from detail must carry a detail payload")
	}
	if rec.Links == nil {
		t.Error("nil detail links should normalize to an empty map")
	}
	if !rec.CachedAt.Equal(cachedAt) {
		t.Errorf("cachedAt = %v", rec.CachedAt)
	}

	got := rec.Detail()
	if got.ID != detail.ID || got.Sections != detail.Sections || got.AISummary != detail.AISummary {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestHasDetail_SummaryOnly(t *testing.T) {
	rec := PaperRecord{PaperIndex: PaperIndex{ID: "paper-a"}}
	if rec.HasDetail() {
		t.Error("summary-only record must not report a detail payload")
	}

	// Sections alone are not enough; links must be present too.
	rec.Sections = &Sections{Abstract: "partial"}
	if rec.HasDetail() {
		t.Error("record without links must not report a detail payload")
	}
}

func TestSectionsFilled(t *testing.T) {
	s := Sections{Abstract: "text", Methods: "   ", Results: "\n", Conclusion: "more"}
	if got := s.Filled(); got != 2 {
		t.Errorf("Filled = %d, want 2", got)
	}
}
