// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"testing"
	"time"

	archiveerr "github.com/pdiddy/bio-archive/pkg/errors"
	"github.com/pdiddy/bio-archive/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{ArchiveDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleIndex() []types.PaperIndex {
	return []types.PaperIndex{
		{
			ID:              "paper-a",
			Title:           "Microgravity Effects on Bone Density",
			Authors:         []string{"Chen, L."},
			Year:            2018,
			Organism:        "Mus musculus",
			Platform:        "ISS",
			Keywords:        []string{"microgravity", "bone"},
			Confidence:      0.74,
			Access:          []string{"PEER-REVIEWED"},
			CitationsByYear: []types.CitationPoint{},
			Entities:        []string{"microgravity"},
		},
		{
			ID:              "paper-b",
			Title:           "Plant Growth Aboard the ISS",
			Authors:         []string{"Ortiz, R."},
			Year:            2020,
			Organism:        "Arabidopsis thaliana",
			Platform:        "ISS - Veggie",
			Keywords:        []string{"veggie"},
			Confidence:      0.61,
			Access:          []string{},
			CitationsByYear: []types.CitationPoint{},
			Entities:        []string{},
		},
	}
}

func sampleDetail(id string) types.PaperDetail {
	return types.PaperDetail{
		PaperIndex: types.PaperIndex{
			ID:              id,
			Title:           "Microgravity Effects on Bone Density",
			Authors:         []string{"Chen, L."},
			Year:            2018,
			Organism:        "Mus musculus",
			Platform:        "ISS",
			Keywords:        []string{"microgravity", "bone"},
			Confidence:      0.74,
			Access:          []string{"PEER-REVIEWED"},
			CitationsByYear: []types.CitationPoint{},
			Entities:        []string{"microgravity"},
		},
		Sections: types.Sections{
			Abstract: "Mice flown on the ISS lost trabecular bone.",
			Results:  "Density decreased 12% over 30 days.",
		},
		Links:     types.Links{types.LinkOSDR: "https://osdr.example/paper-a"},
		AISummary: "Bone density declines under microgravity.",
	}
}

func TestSeed_AndListAll(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.Seed(ctx, 1, sampleIndex()); err != nil {
		t.Fatal(err)
	}

	records, err := s.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Year descending.
	if records[0].ID != "paper-b" || records[1].ID != "paper-a" {
		t.Errorf("unexpected order: %s, %s", records[0].ID, records[1].ID)
	}
	if records[0].HasDetail() {
		t.Error("seeded summary should not carry a detail payload")
	}
	if records[1].Keywords[0] != "microgravity" {
		t.Errorf("keywords round trip failed: %v", records[1].Keywords)
	}
	if records[0].CachedAt.IsZero() {
		t.Error("cached_at not recorded")
	}
}

func TestSeed_SameGenerationIsNoop(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.Seed(ctx, 1, sampleIndex()); err != nil {
		t.Fatal(err)
	}
	// Cache a detail, then re-seed with the same generation. The detail
	// must survive: the store is seeded once per generation.
	if err := s.Upsert(ctx, sampleDetail("paper-a")); err != nil {
		t.Fatal(err)
	}
	if err := s.Seed(ctx, 1, sampleIndex()[:1]); err != nil {
		t.Fatal(err)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("re-seed should be a no-op, got %d rows", count)
	}
	rec, err := s.Get(ctx, "paper-a")
	if err != nil {
		t.Fatal(err)
	}
	if !rec.HasDetail() {
		t.Error("cached detail lost on no-op re-seed")
	}
}

func TestSeed_GenerationBumpReplacesRows(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.Seed(ctx, 1, sampleIndex()); err != nil {
		t.Fatal(err)
	}
	if err := s.Seed(ctx, 2, sampleIndex()[:1]); err != nil {
		t.Fatal(err)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("generation bump should replace rows, got %d", count)
	}
	gen, err := s.Generation(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if gen != 2 {
		t.Errorf("expected generation 2, got %d", gen)
	}
}

func TestSeed_EmptyStoreSeedsRegardlessOfGeneration(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	// A wiped store re-seeds even when the generation marker matches.
	if err := s.Seed(ctx, 1, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Seed(ctx, 1, sampleIndex()); err != nil {
		t.Fatal(err)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}
}

func TestUpsert_GetRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	detail := sampleDetail("paper-a")
	if err := s.Upsert(ctx, detail); err != nil {
		t.Fatal(err)
	}

	rec, err := s.Get(ctx, "paper-a")
	if err != nil {
		t.Fatal(err)
	}
	if !rec.HasDetail() {
		t.Fatal("expected detail payload")
	}
	got := rec.Detail()
	if got.Sections.Abstract != detail.Sections.Abstract {
		t.Errorf("sections mismatch: %q", got.Sections.Abstract)
	}
	if got.Links[types.LinkOSDR] != detail.Links[types.LinkOSDR] {
		t.Errorf("links mismatch: %v", got.Links)
	}
	if got.AISummary != detail.AISummary {
		t.Errorf("ai summary mismatch: %q", got.AISummary)
	}
}

func TestUpsert_OverwritesExistingRow(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.Seed(ctx, 1, sampleIndex()); err != nil {
		t.Fatal(err)
	}

	detail := sampleDetail("paper-a")
	detail.Title = "Updated Title"
	if err := s.Upsert(ctx, detail); err != nil {
		t.Fatal(err)
	}

	rec, err := s.Get(ctx, "paper-a")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Title != "Updated Title" {
		t.Errorf("row not overwritten: %q", rec.Title)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("upsert should not add rows, got %d", count)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.Get(context.Background(), "missing")
	if !archiveerr.Is(err, archiveerr.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(types.StoreConfig{ArchiveDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Seed(ctx, 1, sampleIndex()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(types.StoreConfig{ArchiveDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows after reopen, got %d", count)
	}
	gen, err := s.Generation(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if gen != 1 {
		t.Errorf("expected generation 1 after reopen, got %d", gen)
	}
}

func TestUpsert_ConcurrentSameID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			done <- s.Upsert(ctx, sampleDetail("paper-a"))
		}()
	}
	deadline := time.After(10 * time.Second)
	for i := 0; i < 8; i++ {
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("concurrent upsert failed: %v", err)
			}
		case <-deadline:
			t.Fatal("concurrent upserts timed out")
		}
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected a single row, got %d", count)
	}
}
