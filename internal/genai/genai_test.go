// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// flakyGenerator fails a fixed number of times before succeeding.
type flakyGenerator struct {
	failures int
	calls    int
}

func (f *flakyGenerator) Complete(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", fmt.Errorf("transient failure %d", f.calls)
	}
	return "output", nil
}

func fastBackoff(t *testing.T) {
	t.Helper()
	old := backoffBase
	backoffBase = time.Millisecond
	t.Cleanup(func() { backoffBase = old })
}

// --- Retry behavior ---

func TestCompleteWithRetryFirstAttemptSucceeds(t *testing.T) {
	g := &flakyGenerator{}
	out, err := CompleteWithRetry(context.Background(), g, "prompt", 3)
	if err != nil {
		t.Fatalf("CompleteWithRetry: %v", err)
	}
	if out != "output" {
		t.Errorf("out = %q, want %q", out, "output")
	}
	if g.calls != 1 {
		t.Errorf("calls = %d, want 1", g.calls)
	}
}

func TestCompleteWithRetryRecoversAfterFailures(t *testing.T) {
	fastBackoff(t)
	g := &flakyGenerator{failures: 2}
	out, err := CompleteWithRetry(context.Background(), g, "prompt", 3)
	if err != nil {
		t.Fatalf("CompleteWithRetry: %v", err)
	}
	if out != "output" {
		t.Errorf("out = %q, want %q", out, "output")
	}
	if g.calls != 3 {
		t.Errorf("calls = %d, want 3", g.calls)
	}
}

func TestCompleteWithRetryExhaustsRetries(t *testing.T) {
	fastBackoff(t)
	g := &flakyGenerator{failures: 10}
	_, err := CompleteWithRetry(context.Background(), g, "prompt", 2)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if g.calls != 3 {
		t.Errorf("calls = %d, want 3 (initial + 2 retries)", g.calls)
	}
	if !strings.Contains(err.Error(), "after 2 retries") {
		t.Errorf("error = %q, want retry count", err.Error())
	}
	if !strings.Contains(err.Error(), "transient failure 3") {
		t.Errorf("error = %q, want last underlying failure", err.Error())
	}
}

func TestCompleteWithRetryDefaultRetries(t *testing.T) {
	fastBackoff(t)
	g := &flakyGenerator{failures: 10}
	_, err := CompleteWithRetry(context.Background(), g, "prompt", 0)
	if err == nil {
		t.Fatal("expected error")
	}
	if g.calls != 4 {
		t.Errorf("calls = %d, want 4 (initial + 3 default retries)", g.calls)
	}
}

func TestCompleteWithRetryContextCancellation(t *testing.T) {
	g := &flakyGenerator{failures: 10}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The first attempt runs, then the backoff wait observes the canceled
	// context before attempt two.
	_, err := CompleteWithRetry(ctx, g, "prompt", 3)
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if g.calls != 1 {
		t.Errorf("calls = %d, want 1", g.calls)
	}
}

// --- Claude backend ---

func claudeServer(t *testing.T, handler http.HandlerFunc) *ClaudeBackend {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	t.Cleanup(func() { claudeAPIURL = old })

	return &ClaudeBackend{APIKey: "test-key", Model: "test-model", Client: ts.Client()}
}

func TestClaudeCompleteRequestShape(t *testing.T) {
	var gotBody string
	var gotHeaders http.Header
	b := claudeServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotHeaders = r.Header.Clone()
		fmt.Fprint(w, `{"content":[{"type":"text","text":"hello"}]}`)
	})

	out, err := b.Complete(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "hello" {
		t.Errorf("out = %q, want %q", out, "hello")
	}

	if got := gotHeaders.Get("x-api-key"); got != "test-key" {
		t.Errorf("x-api-key = %q, want %q", got, "test-key")
	}
	if got := gotHeaders.Get("anthropic-version"); got != "2023-06-01" {
		t.Errorf("anthropic-version = %q, want %q", got, "2023-06-01")
	}
	for _, want := range []string{`"model":"test-model"`, `"role":"user"`, `"content":"say hello"`, `"max_tokens":8192`} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("request body %q missing %q", gotBody, want)
		}
	}
}

func TestClaudeCompleteConcatenatesTextBlocks(t *testing.T) {
	b := claudeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"content":[
			{"type":"text","text":"part one "},
			{"type":"tool_use","text":"ignored"},
			{"type":"text","text":"part two"}]}`)
	})

	out, err := b.Complete(context.Background(), "p")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "part one part two" {
		t.Errorf("out = %q, want %q", out, "part one part two")
	}
}

func TestClaudeCompleteEmptyContentIsError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no blocks", `{"content":[]}`},
		{"whitespace only", `{"content":[{"type":"text","text":"   \n"}]}`},
		{"non-text blocks only", `{"content":[{"type":"tool_use","text":"x"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := claudeServer(t, func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, tt.body)
			})
			_, err := b.Complete(context.Background(), "p")
			if err == nil {
				t.Fatal("expected error for empty content")
			}
			if !strings.Contains(err.Error(), "empty content") {
				t.Errorf("error = %q, want substring 'empty content'", err.Error())
			}
		})
	}
}

func TestClaudeCompleteHTTPError(t *testing.T) {
	b := claudeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"type":"rate_limit_error"}}`)
	})

	_, err := b.Complete(context.Background(), "p")
	if err == nil {
		t.Fatal("expected error for HTTP 429")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error = %q, want substring '429'", err.Error())
	}
}

func TestClaudeCompleteMaxTokensOverride(t *testing.T) {
	var gotBody string
	b := claudeServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		fmt.Fprint(w, `{"content":[{"type":"text","text":"ok"}]}`)
	})
	b.MaxTokens = 1024

	if _, err := b.Complete(context.Background(), "p"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !strings.Contains(gotBody, `"max_tokens":1024`) {
		t.Errorf("request body %q missing max_tokens override", gotBody)
	}
}
