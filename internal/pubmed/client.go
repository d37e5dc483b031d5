// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed queries the NCBI E-utilities literature API and extracts
// structured Paper records from the efetch markup it returns.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/perspective-engine/internal/httputil"
	"github.com/pdiddy/perspective-engine/pkg/types"
)

// E-utilities endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	esearchURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	efetchURL  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

const (
	defaultMaxResults = 100
	defaultBatchSize  = 20
	defaultBatchDelay = time.Second
)

// Client issues the two-phase PubMed query: an identifier search followed by
// batched detail fetches. It keeps no state between calls.
type Client struct {
	Client *http.Client
}

// esearchResponse is the retmode=json envelope of the identifier search.
type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Search submits the query sorted by relevance, then fetches full records
// for the returned identifiers in fixed-size batches. An empty identifier
// list is a normal outcome and returns an empty pool without touching the
// fetch phase. A failed batch is reported on w and skipped; the remaining
// batches still run, so partial pools are possible. Result order follows
// the relevance ranking of the search phase.
func (c *Client) Search(ctx context.Context, query string, cfg types.SearchConfig, w io.Writer) ([]types.Paper, error) {
	ids, err := c.searchIDs(ctx, query, cfg)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []types.Paper{}, nil
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	delay := cfg.BatchDelay
	if delay == 0 {
		delay = defaultBatchDelay
	}

	var papers []types.Paper
	batches := partition(ids, batchSize)
	for i, batch := range batches {
		if i > 0 {
			select {
			case <-ctx.Done():
				return papers, ctx.Err()
			case <-time.After(delay):
			}
		}

		raw, err := c.fetchBatch(ctx, batch, cfg)
		if err != nil {
			fmt.Fprintf(w, "warning: batch %d/%d failed: %v\n", i+1, len(batches), err)
			continue
		}
		papers = append(papers, ExtractRecords(raw)...)
	}
	return papers, nil
}

// searchIDs runs the esearch phase and returns the ordered identifier list.
// A response without the expected identifier field yields an empty list,
// not an error.
func (c *Client) searchIDs(ctx context.Context, query string, cfg types.SearchConfig) ([]string, error) {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", query)
	params.Set("retmax", strconv.Itoa(maxResults))
	params.Set("retmode", "json")
	params.Set("sort", "relevance")
	if cfg.APIKey != "" {
		params.Set("api_key", cfg.APIKey)
	}

	body, err := c.get(ctx, esearchURL+"?"+params.Encode(), cfg)
	if err != nil {
		return nil, fmt.Errorf("esearch: %w", err)
	}

	var resp esearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	return resp.ESearchResult.IDList, nil
}

// fetchBatch runs one efetch call for up to BatchSize identifiers and
// returns the raw record markup.
func (c *Client) fetchBatch(ctx context.Context, ids []string, cfg types.SearchConfig) (string, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")
	params.Set("rettype", "abstract")
	if cfg.APIKey != "" {
		params.Set("api_key", cfg.APIKey)
	}

	body, err := c.get(ctx, efetchURL+"?"+params.Encode(), cfg)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, rawURL string, cfg types.SearchConfig) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("E-utilities returned HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// partition splits ids into consecutive chunks of at most size elements.
func partition(ids []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}
