package snapshot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetcherFetch(t *testing.T) {
	t.Parallel()

	t.Run("extracts title and snippet", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Mozilla") {
				t.Errorf("browser User-Agent not sent: %q", ua)
			}
			_, _ = w.Write([]byte(`<html><head><title>Index of /backup</title>
				<script>var noise = 1;</script></head>
				<body>  db.sql   2024-01-01  </body></html>`))
		}))
		defer server.Close()

		f := NewFetcher(server.Client())
		snap := f.Fetch(context.Background(), server.URL)

		if snap.Failed {
			t.Fatalf("unexpected failure: %s", snap.Err)
		}
		if snap.StatusCode != http.StatusOK {
			t.Errorf("status = %d, expected 200", snap.StatusCode)
		}
		if snap.Title != "Index of /backup" {
			t.Errorf("title = %q", snap.Title)
		}
		if snap.Snippet != "db.sql 2024-01-01" {
			t.Errorf("snippet not whitespace-collapsed: %q", snap.Snippet)
		}
		if strings.Contains(snap.Snippet, "noise") {
			t.Errorf("script content leaked into snippet: %q", snap.Snippet)
		}
	})

	t.Run("records final URL after redirect", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		defer server.Close()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusFound)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html><body>moved</body></html>"))
		})

		f := NewFetcher(server.Client())
		snap := f.Fetch(context.Background(), server.URL+"/old")

		if snap.FinalURL != server.URL+"/new" {
			t.Errorf("final URL = %q, expected redirect target", snap.FinalURL)
		}
	})

	t.Run("keeps status and body on 404", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("<html><body>not here</body></html>"))
		}))
		defer server.Close()

		f := NewFetcher(server.Client())
		snap := f.Fetch(context.Background(), server.URL)

		if snap.Failed {
			t.Fatal("a 404 is a response, not a fetch failure")
		}
		if snap.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, expected 404", snap.StatusCode)
		}
		if snap.Snippet != "not here" {
			t.Errorf("snippet = %q", snap.Snippet)
		}
	})

	t.Run("marks transport failure without panicking", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		server.Close()

		f := NewFetcher(http.DefaultClient)
		snap := f.Fetch(context.Background(), server.URL)

		if !snap.Failed {
			t.Fatal("expected Failed on refused connection")
		}
		if snap.Err == "" {
			t.Error("failure message missing")
		}
		if snap.FinalURL != server.URL {
			t.Errorf("final URL should fall back to the requested URL, got %q", snap.FinalURL)
		}
	})

	t.Run("bounds the body read", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html><body>" + strings.Repeat("a", 100) + "</body></html>"))
		}))
		defer server.Close()

		f := NewFetcher(server.Client(), WithMaxBodySize(40))
		snap := f.Fetch(context.Background(), server.URL)

		if len(snap.Snippet) >= 100 {
			t.Errorf("body read not bounded, snippet has %d bytes", len(snap.Snippet))
		}
	})

	t.Run("truncates overlong snippets", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("x", 3000)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html><body>" + long + "</body></html>"))
		}))
		defer server.Close()

		f := NewFetcher(server.Client())
		snap := f.Fetch(context.Background(), server.URL)

		if len([]rune(snap.Snippet)) != snippetLimit {
			t.Errorf("snippet length = %d runes, expected %d", len([]rune(snap.Snippet)), snippetLimit)
		}
	})
}
