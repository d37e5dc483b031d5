// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pdiddy/perspective-engine/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	cfg := types.StoreConfig{
		DBPath:     filepath.Join(t.TempDir(), "papers.db"),
		MaxResults: 20,
	}
	s, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePool() []types.Paper {
	return []types.Paper{
		{
			PMID:     "100",
			Title:    "Gut microbiome and mood",
			Authors:  []string{"Smith, Jane", "Doe, Alex"},
			Year:     "2021",
			Journal:  "Gut",
			Abstract: "The microbiome influences mood through the vagus nerve.",
		},
		{
			PMID:     "200",
			Title:    "Sleep and memory consolidation",
			Year:     "2019",
			Journal:  "Sleep",
			Abstract: "Sleep stages drive consolidation of declarative memory.",
		},
	}
}

// --- Saving pools ---

func TestSavePoolAndList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	saved, err := s.SavePool(ctx, "microbiome", samplePool())
	if err != nil {
		t.Fatalf("SavePool: %v", err)
	}
	if saved != 2 {
		t.Errorf("saved = %d, want 2", saved)
	}

	papers, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("len(papers) = %d, want 2", len(papers))
	}
	if papers[0].PMID != "100" || papers[1].PMID != "200" {
		t.Errorf("PMIDs = %q, %q, want 100, 200", papers[0].PMID, papers[1].PMID)
	}
	if len(papers[0].Authors) != 2 || papers[0].Authors[0] != "Smith, Jane" {
		t.Errorf("Authors round-trip failed: %v", papers[0].Authors)
	}
}

func TestSavePoolSkipsRecordsWithoutIdentifier(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	pool := append(samplePool(), types.Paper{Title: "Orphan record"})
	saved, err := s.SavePool(ctx, "q", pool)
	if err != nil {
		t.Fatalf("SavePool: %v", err)
	}
	if saved != 2 {
		t.Errorf("saved = %d, want 2 (identifier-less record skipped)", saved)
	}
}

func TestSavePoolUpsertsByIdentifier(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.SavePool(ctx, "first", samplePool()); err != nil {
		t.Fatalf("SavePool: %v", err)
	}

	updated := []types.Paper{{PMID: "100", Title: "Revised title", Year: "2022"}}
	if _, err := s.SavePool(ctx, "second", updated); err != nil {
		t.Fatalf("SavePool: %v", err)
	}

	papers, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("len(papers) = %d, want 2 (no duplicate row)", len(papers))
	}
	if papers[0].Title != "Revised title" || papers[0].Year != "2022" {
		t.Errorf("paper 100 not updated: %+v", papers[0])
	}
}

// --- Full-text search ---

func TestQueryMatchesTitleAndAbstract(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.SavePool(ctx, "q", samplePool()); err != nil {
		t.Fatalf("SavePool: %v", err)
	}

	byTitle, err := s.Query(ctx, "microbiome", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(byTitle) != 1 || byTitle[0].PMID != "100" {
		t.Errorf("title match = %+v, want paper 100", byTitle)
	}

	byAbstract, err := s.Query(ctx, "declarative", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(byAbstract) != 1 || byAbstract[0].PMID != "200" {
		t.Errorf("abstract match = %+v, want paper 200", byAbstract)
	}
}

func TestQueryNoMatches(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.SavePool(ctx, "q", samplePool()); err != nil {
		t.Fatalf("SavePool: %v", err)
	}

	papers, err := s.Query(ctx, "astrophysics", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(papers) != 0 {
		t.Errorf("len(papers) = %d, want 0", len(papers))
	}
}

func TestQueryReflectsUpdates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.SavePool(ctx, "q", samplePool()); err != nil {
		t.Fatalf("SavePool: %v", err)
	}
	if _, err := s.SavePool(ctx, "q", []types.Paper{{PMID: "100", Title: "Chronobiology of digestion"}}); err != nil {
		t.Fatalf("SavePool: %v", err)
	}

	papers, err := s.Query(ctx, "chronobiology", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(papers) != 1 || papers[0].PMID != "100" {
		t.Errorf("updated index miss: %+v", papers)
	}

	stale, err := s.Query(ctx, "microbiome", 0)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(stale) != 0 {
		t.Errorf("stale index entry still matches: %+v", stale)
	}
}

func TestQueryLimit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	pool := []types.Paper{
		{PMID: "1", Title: "microbiome one"},
		{PMID: "2", Title: "microbiome two"},
		{PMID: "3", Title: "microbiome three"},
	}
	if _, err := s.SavePool(ctx, "q", pool); err != nil {
		t.Fatalf("SavePool: %v", err)
	}

	papers, err := s.Query(ctx, "microbiome", 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(papers) != 2 {
		t.Errorf("len(papers) = %d, want 2 (limit applied)", len(papers))
	}
}

// --- Run history ---

func TestRunsRecorded(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.SavePool(ctx, "first query", samplePool()); err != nil {
		t.Fatalf("SavePool: %v", err)
	}
	if _, err := s.SavePool(ctx, "second query", samplePool()[:1]); err != nil {
		t.Fatalf("SavePool: %v", err)
	}

	runs, err := s.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	// Most recent first.
	if runs[0].Query != "second query" || runs[0].Total != 1 {
		t.Errorf("runs[0] = %+v, want second query with total 1", runs[0])
	}
	if runs[1].Query != "first query" || runs[1].Total != 2 {
		t.Errorf("runs[1] = %+v, want first query with total 2", runs[1])
	}
	if runs[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}
}

// --- Reopening ---

func TestReopenExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	cfg := types.StoreConfig{DBPath: filepath.Join(dir, "papers.db")}

	s, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SavePool(context.Background(), "q", samplePool()); err != nil {
		t.Fatalf("SavePool: %v", err)
	}
	s.Close()

	reopened, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer reopened.Close()

	papers, err := reopened.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(papers) != 2 {
		t.Errorf("len(papers) = %d after reopen, want 2", len(papers))
	}
}
