// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/perspective-engine/pkg/types"
)

func TestQueryFileRoundTripKeepsRawFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.yaml")
	cfg := types.SearchConfig{MaxResults: 50, BatchSize: 20}
	pool := []types.Paper{
		{
			PMID:    "12345678",
			Title:   "Gut microbiome and mood",
			Authors: []string{"Smith, Jane"},
			Year:    "2021",
			Journal: "Gut",
		},
		// Sparse record: absent fields must stay empty through the
		// round trip, not become sentinel strings.
		{Title: "Untitled preprint"},
	}

	if err := WriteQueryFile(path, "microbiome mood", cfg, pool); err != nil {
		t.Fatal(err)
	}
	qf, err := ReadQueryFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if qf.Query != "microbiome mood" {
		t.Errorf("Query = %q, want %q", qf.Query, "microbiome mood")
	}
	if qf.Summary.Total != 2 || len(qf.Results) != 2 {
		t.Fatalf("Total = %d, len(Results) = %d, want 2 and 2", qf.Summary.Total, len(qf.Results))
	}
	if qf.Results[0].PMID != "12345678" || qf.Results[0].Year != "2021" {
		t.Errorf("full record changed in round trip: %+v", qf.Results[0])
	}

	sparse := qf.Results[1]
	if sparse.PMID != "" || sparse.Year != "" || sparse.Journal != "" || sparse.Abstract != "" {
		t.Errorf("sparse record gained values in round trip: %+v", sparse)
	}
	for _, field := range []string{sparse.PMID, sparse.Year, sparse.Journal, sparse.Abstract} {
		if strings.Contains(field, "not available") {
			t.Errorf("sentinel persisted in query file: %q", field)
		}
	}
}
