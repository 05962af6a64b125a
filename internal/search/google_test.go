package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestGoogleSearch tests the Custom Search API provider.
func TestGoogleSearch(t *testing.T) {
	t.Parallel()

	t.Run("returns result links", func(t *testing.T) {
		t.Parallel()

		var gotQuery, gotNum string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			gotNum = r.URL.Query().Get("num")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"items":[
				{"link":"http://example.com/a.pdf"},
				{"link":"http://example.com/b.pdf"},
				{"link":""}
			]}`))
		}))
		defer server.Close()

		g := NewGoogle("key", "cx", server.Client(), WithGoogleEndpoint(server.URL))
		links, err := g.Search(context.Background(), "site:example.com filetype:pdf", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(links) != 2 {
			t.Fatalf("got %d links, expected 2 (empty links dropped)", len(links))
		}
		if links[0] != "http://example.com/a.pdf" {
			t.Errorf("result order not preserved: %v", links)
		}
		if gotQuery != "site:example.com filetype:pdf" {
			t.Errorf("unexpected query parameter: %q", gotQuery)
		}
		if gotNum != "5" {
			t.Errorf("unexpected num parameter: %q", gotNum)
		}
	})

	t.Run("clamps num to provider page size", func(t *testing.T) {
		t.Parallel()

		var gotNum string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotNum = r.URL.Query().Get("num")
			_, _ = w.Write([]byte(`{"items":[]}`))
		}))
		defer server.Close()

		g := NewGoogle("key", "cx", server.Client(), WithGoogleEndpoint(server.URL))
		if _, err := g.Search(context.Background(), "q", 50); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotNum != "10" {
			t.Errorf("num should be clamped to 10, got %q", gotNum)
		}
	})

	t.Run("surfaces upstream message on 400", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
		}))
		defer server.Close()

		g := NewGoogle("bad", "cx", server.Client(), WithGoogleEndpoint(server.URL))
		_, err := g.Search(context.Background(), "q", 5)

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.StatusCode != http.StatusBadRequest {
			t.Errorf("got status %d, expected 400", apiErr.StatusCode)
		}
		if apiErr.Message != "API key not valid" {
			t.Errorf("upstream message not surfaced: %q", apiErr.Message)
		}
	})

	t.Run("generic error on other statuses", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("upstream exploded"))
		}))
		defer server.Close()

		g := NewGoogle("key", "cx", server.Client(), WithGoogleEndpoint(server.URL))
		_, err := g.Search(context.Background(), "q", 5)

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.StatusCode != http.StatusInternalServerError {
			t.Errorf("got status %d, expected 500", apiErr.StatusCode)
		}
	})

	t.Run("wraps transport failures in ErrNetwork", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		server.Close() // Refuse all connections

		g := NewGoogle("key", "cx", http.DefaultClient, WithGoogleEndpoint(server.URL))
		_, err := g.Search(context.Background(), "q", 5)
		if !errors.Is(err, ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})
}
