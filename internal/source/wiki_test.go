package source

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/andybalholm/brotli"

	"github.com/nao1215/wordcrawl/internal/model"
)

func newWikiServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/wiki/Go", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Go</title></head><body>
			<p>Go is simple.</p>
			<a href="/wiki/Rust">Rust</a><a href="/wiki/Help:Contents">Help</a>
		</body></html>`))
	})
	mux.HandleFunc("/wiki/Hello_World", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<p>hello world</p>`))
	})
	mux.HandleFunc("/wiki/Gzipped", func(w http.ResponseWriter, _ *http.Request) {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, _ = gz.Write([]byte(`<p>compressed with gzip</p>`))
		_ = gz.Close()
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	})
	mux.HandleFunc("/wiki/Brotli", func(w http.ResponseWriter, _ *http.Request) {
		var buf bytes.Buffer
		br := brotli.NewWriter(&buf)
		_, _ = br.Write([]byte(`<p>compressed with brotli</p>`))
		_ = br.Close()
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Content-Encoding", "br")
		_, _ = w.Write(buf.Bytes())
	})
	mux.HandleFunc("/wiki/Image.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	})
	mux.HandleFunc("/wiki/Large", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>first " + strings.Repeat("x", 100) + " last</p>"))
	})
	mux.HandleFunc("/wiki/Broken", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// TestWikiFetch tests fetching articles over HTTP.
func TestWikiFetch(t *testing.T) {
	t.Parallel()

	server := newWikiServer(t)
	wiki := NewWiki(WithBaseURL(server.URL+"/wiki/"), WithHTTPClient(server.Client()))

	t.Run("fetches text title and filtered links", func(t *testing.T) {
		t.Parallel()

		doc, err := wiki.Fetch(context.Background(), "Go")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.ID != "Go" || doc.Title != "Go" {
			t.Errorf("got id %q title %q", doc.ID, doc.Title)
		}
		if !strings.Contains(doc.Text, "Go is simple.") {
			t.Errorf("got text %q", doc.Text)
		}
		if !reflect.DeepEqual(doc.Links, []string{"Rust"}) {
			t.Errorf("got links %v", doc.Links)
		}
	})

	t.Run("spaces become underscores", func(t *testing.T) {
		t.Parallel()

		doc, err := wiki.Fetch(context.Background(), "Hello World")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.ID != "Hello World" || !strings.Contains(doc.Text, "hello world") {
			t.Errorf("unexpected document %+v", doc)
		}
	})

	t.Run("decodes compressed bodies", func(t *testing.T) {
		t.Parallel()

		for id, want := range map[string]string{"Gzipped": "gzip", "Brotli": "brotli"} {
			doc, err := wiki.Fetch(context.Background(), id)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", id, err)
			}
			if !strings.Contains(doc.Text, want) {
				t.Errorf("%s: got text %q", id, doc.Text)
			}
		}
	})

	t.Run("failures are not found", func(t *testing.T) {
		t.Parallel()

		for _, id := range []string{"Missing", "Image.png", "Broken"} {
			_, err := wiki.Fetch(context.Background(), id)
			if !errors.Is(err, model.ErrDocumentNotFound) {
				t.Errorf("%s: expected not found, got %v", id, err)
			}
		}
	})

	t.Run("non html is reported as such", func(t *testing.T) {
		t.Parallel()

		_, err := wiki.Fetch(context.Background(), "Image.png")
		if !errors.Is(err, ErrNotHTML) {
			t.Errorf("expected ErrNotHTML, got %v", err)
		}
	})

	t.Run("body is truncated at the limit", func(t *testing.T) {
		t.Parallel()

		small := NewWiki(
			WithBaseURL(server.URL+"/wiki/"),
			WithHTTPClient(server.Client()),
			WithMaxBodySize(20),
		)
		doc, err := small.Fetch(context.Background(), "Large")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(doc.Text, "last") {
			t.Errorf("expected truncated text, got %q", doc.Text)
		}
		if !strings.Contains(doc.Text, "first") {
			t.Errorf("expected leading text, got %q", doc.Text)
		}
	})
}

// TestWikiUnreachable tests transport failures.
func TestWikiUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL + "/wiki/"
	server.Close()

	_, err := NewWiki(WithBaseURL(base)).Fetch(context.Background(), "Go")
	if !errors.Is(err, model.ErrDocumentNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

// TestWikiURL tests URL construction.
func TestWikiURL(t *testing.T) {
	t.Parallel()

	wiki := NewWiki()
	if got := wiki.URL("Python (programming language)"); got != "https://en.wikipedia.org/wiki/Python_(programming_language)" {
		t.Errorf("got %q", got)
	}
}

// TestWikiRobots tests robots.txt enforcement.
func TestWikiRobots(t *testing.T) {
	t.Parallel()

	var articleHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /wiki/Private\n"))
	})
	mux.HandleFunc("/wiki/", func(w http.ResponseWriter, _ *http.Request) {
		articleHits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<p>public</p>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	agent := NewRobotsAgent(server.Client(), "wordcrawl", 0)
	wiki := NewWiki(
		WithBaseURL(server.URL+"/wiki/"),
		WithHTTPClient(server.Client()),
		WithRobots(agent),
	)

	if _, err := wiki.Fetch(context.Background(), "Public"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := wiki.Fetch(context.Background(), "Private")
	if !errors.Is(err, ErrDisallowed) || !errors.Is(err, model.ErrDocumentNotFound) {
		t.Errorf("expected disallowed not found, got %v", err)
	}
	if articleHits.Load() != 1 {
		t.Errorf("expected one article request, got %d", articleHits.Load())
	}
}

// TestRobotsAgent tests robots.txt evaluation.
func TestRobotsAgent(t *testing.T) {
	t.Parallel()

	t.Run("fails open when robots.txt errors", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		target, _ := url.Parse(server.URL + "/wiki/Anything")
		if !NewRobotsAgent(server.Client(), "wordcrawl", 0).Allowed(context.Background(), target) {
			t.Error("expected fail-open")
		}
	})

	t.Run("caches rules per host", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			_, _ = w.Write([]byte("User-agent: *\nAllow: /\n"))
		}))
		defer server.Close()

		agent := NewRobotsAgent(server.Client(), "wordcrawl", 0)
		target, _ := url.Parse(server.URL + "/wiki/A")
		for range 3 {
			agent.Allowed(context.Background(), target)
		}
		if hits.Load() != 1 {
			t.Errorf("expected one robots.txt request, got %d", hits.Load())
		}

		agent.Purge(target.Host)
		agent.Allowed(context.Background(), target)
		if hits.Load() != 2 {
			t.Errorf("expected refetch after purge, got %d", hits.Load())
		}
	})

	t.Run("relative url is refused", func(t *testing.T) {
		t.Parallel()

		if NewRobotsAgent(nil, "", 0).Allowed(context.Background(), &url.URL{Path: "/wiki/A"}) {
			t.Error("expected relative URL to be refused")
		}
	})
}
