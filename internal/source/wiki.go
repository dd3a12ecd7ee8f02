package source

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/andybalholm/brotli"

	"github.com/nao1215/wordcrawl/internal/model"
)

const (
	// DefaultBaseURL is the English Wikipedia article root.
	DefaultBaseURL = "https://en.wikipedia.org/wiki/"

	// DefaultUserAgent identifies wordcrawl to remote sites.
	DefaultUserAgent = "wordcrawl/1.0 (+https://github.com/nao1215/wordcrawl)"

	// DefaultMaxBodySize caps how much of a response body is read.
	DefaultMaxBodySize int64 = 10 * 1024 * 1024
)

// Wiki fetches articles from a MediaWiki-style site over HTTP.
// It is safe for concurrent use.
type Wiki struct {
	client      *http.Client
	baseURL     string
	userAgent   string
	maxBodySize int64
	parser      *Parser
	robots      *RobotsAgent
	logger      *slog.Logger
}

// WikiOption configures a Wiki.
type WikiOption func(*Wiki)

// WithBaseURL sets the URL article identifiers are appended to.
func WithBaseURL(base string) WikiOption {
	return func(w *Wiki) {
		w.baseURL = base
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) WikiOption {
	return func(w *Wiki) {
		w.client = client
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) WikiOption {
	return func(w *Wiki) {
		w.userAgent = ua
	}
}

// WithMaxBodySize sets how many decoded body bytes are read. Larger bodies
// are truncated.
func WithMaxBodySize(size int64) WikiOption {
	return func(w *Wiki) {
		if size > 0 {
			w.maxBodySize = size
		}
	}
}

// WithParser sets the HTML parser.
func WithParser(p *Parser) WikiOption {
	return func(w *Wiki) {
		w.parser = p
	}
}

// WithRobots enables robots.txt checks before each fetch.
func WithRobots(agent *RobotsAgent) WikiOption {
	return func(w *Wiki) {
		w.robots = agent
	}
}

// WithWikiLogger sets the logger.
func WithWikiLogger(logger *slog.Logger) WikiOption {
	return func(w *Wiki) {
		w.logger = logger
	}
}

// NewWiki creates a Wiki source.
func NewWiki(opts ...WikiOption) *Wiki {
	w := &Wiki{
		client:      &http.Client{},
		baseURL:     DefaultBaseURL,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		parser:      NewParser(),
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// URL returns the address of article id. Spaces become underscores; the
// identifier is otherwise used as is.
func (w *Wiki) URL(id string) string {
	return w.baseURL + strings.ReplaceAll(id, " ", "_")
}

// Fetch implements crawler.DocumentSource.
func (w *Wiki) Fetch(ctx context.Context, id string) (*model.Document, error) {
	target := w.URL(id)

	u, err := url.Parse(target)
	if err != nil {
		return nil, notFound(id, err)
	}
	if w.robots != nil && !w.robots.Allowed(ctx, u) {
		return nil, notFound(id, ErrDisallowed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, notFound(id, err)
	}
	req.Header.Set("User-Agent", w.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, notFound(id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, notFound(id, fmt.Errorf("status %d", resp.StatusCode))
	}
	if !isHTML(resp.Header.Get("Content-Type")) {
		return nil, notFound(id, ErrNotHTML)
	}

	body, err := w.decodedBody(resp)
	if err != nil {
		return nil, notFound(id, err)
	}
	defer body.Close()

	result, err := w.parser.Parse(io.LimitReader(body, w.maxBodySize))
	if err != nil {
		return nil, notFound(id, err)
	}

	w.logger.Debug("fetched article", "id", id, "url", target, "links", len(result.Links))

	return &model.Document{
		ID:    id,
		Title: result.Title,
		Text:  result.Text,
		Links: result.Links,
	}, nil
}

// decodedBody wraps the response body in a decoder for its Content-Encoding.
func (w *Wiki) decodedBody(resp *http.Response) (io.ReadCloser, error) {
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch encoding {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip decode: %w", err)
		}
		return gz, nil
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	case "deflate":
		return flate.NewReader(resp.Body), nil
	default:
		return io.NopCloser(resp.Body), nil
	}
}

// isHTML reports whether a Content-Type names an HTML document.
// A missing Content-Type is accepted.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func notFound(id string, cause error) error {
	return fmt.Errorf("%w: %s: %w", model.ErrDocumentNotFound, id, cause)
}
