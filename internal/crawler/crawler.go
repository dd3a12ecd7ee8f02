package crawler

import (
	"context"
	"log/slog"
	"slices"

	"github.com/nao1215/wordcrawl/internal/frequency"
	"github.com/nao1215/wordcrawl/internal/model"
	"github.com/nao1215/wordcrawl/internal/tokenizer"
)

// DocumentSource provides documents by identifier.
//
// Fetch returns an error wrapping model.ErrDocumentNotFound when the
// identifier has no document or the document could not be obtained.
// Returned links must already exclude namespace-prefixed identifiers.
type DocumentSource interface {
	Fetch(ctx context.Context, id string) (*model.Document, error)
}

// Crawler walks documents from a DocumentSource and counts their words.
type Crawler struct {
	// source provides documents.
	source DocumentSource

	// tokenizer splits document text into words.
	tokenizer *tokenizer.Tokenizer

	// maxDocuments caps the number of documents entered per crawl.
	// 0 means unlimited.
	maxDocuments int

	// logger receives per-document progress.
	logger *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithTokenizer sets the tokenizer used for document text.
func WithTokenizer(t *tokenizer.Tokenizer) Option {
	return func(c *Crawler) {
		c.tokenizer = t
	}
}

// WithMaxDocuments limits how many documents one crawl may enter.
// Zero or a negative value removes the limit.
func WithMaxDocuments(n int) Option {
	return func(c *Crawler) {
		if n < 0 {
			n = 0
		}
		c.maxDocuments = n
	}
}

// New creates a Crawler reading from source.
func New(source DocumentSource, opts ...Option) *Crawler {
	c := &Crawler{
		source:    source,
		tokenizer: tokenizer.New(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Stats summarizes one crawl.
type Stats struct {
	// Fetched is the number of documents successfully fetched.
	Fetched int

	// Missing lists identifiers the source could not provide.
	Missing []string

	// Truncated is true if the crawl stopped at the document limit.
	Truncated bool
}

// Result is the outcome of Run.
type Result struct {
	Stats

	// Visited holds the identifiers entered by the crawl.
	Visited *VisitedSet

	// Table holds the merged word counts.
	Table frequency.Table
}

// frame is one pending unit of work on the traversal stack.
type frame struct {
	id    string
	depth int
}

// Run crawls from root with fresh state and returns it.
// On cancellation the partial result is returned together with ctx.Err().
func (c *Crawler) Run(ctx context.Context, root string, depth int) (*Result, error) {
	result := &Result{
		Visited: NewVisitedSet(),
		Table:   frequency.NewTable(),
	}
	stats, err := c.Crawl(ctx, root, depth, result.Visited, result.Table)
	result.Stats = stats
	return result, err
}

// Crawl walks from root up to depth levels, adding every entered identifier
// to visited and every counted word to table.
//
// Identifiers already in visited are not fetched again. A document the
// source cannot provide is recorded in Stats.Missing and its branch is
// pruned; this is never an error. Crawl returns an error only for invalid
// arguments or a cancelled context, and in the latter case visited and table
// keep everything gathered so far.
func (c *Crawler) Crawl(ctx context.Context, root string, depth int, visited *VisitedSet, table frequency.Table) (Stats, error) {
	var stats Stats

	if root == "" {
		return stats, model.ErrMissingArticle
	}
	if depth < 0 {
		return stats, model.ErrInvalidDepth
	}
	if visited == nil {
		visited = NewVisitedSet()
	}
	if table == nil {
		table = frequency.NewTable()
	}

	entered := 0
	stack := []frame{{id: root, depth: depth}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		// Pop
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current.depth == 0 || visited.Contains(current.id) {
			continue
		}

		if c.maxDocuments > 0 && entered >= c.maxDocuments {
			c.logger.Info("document limit reached", "limit", c.maxDocuments, "pending", len(stack)+1)
			stats.Truncated = true
			break
		}

		visited.Add(current.id)
		entered++

		c.logger.Debug("fetching document", "id", current.id, "depth", current.depth)

		doc, err := c.source.Fetch(ctx, current.id)
		if err == nil && doc == nil {
			err = model.ErrDocumentNotFound
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return stats, ctxErr
			}
			c.logger.Info("pruning branch", "id", current.id, "error", err)
			stats.Missing = append(stats.Missing, current.id)
			continue
		}

		stats.Fetched++
		table.Merge(frequency.CountTokens(c.tokenizer.Tokenize(doc.Text)))

		next := current.depth - 1
		if next == 0 {
			continue
		}

		// Push in reverse so the first link is popped first.
		for _, link := range slices.Backward(doc.Links) {
			if link == "" || visited.Contains(link) {
				continue
			}
			stack = append(stack, frame{id: link, depth: next})
		}
	}

	return stats, nil
}
