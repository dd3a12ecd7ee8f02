package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/wordcrawl/internal/crawler"
	"github.com/nao1215/wordcrawl/internal/model"
)

// TestBatchProcessorNew tests the BatchProcessor constructor.
func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		if bp.concurrency != 4 {
			t.Errorf("expected default concurrency 4, got %d", bp.concurrency)
		}
	})

	t.Run("applies WithConcurrency option", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(8))
		if bp.concurrency != 8 {
			t.Errorf("expected concurrency 8, got %d", bp.concurrency)
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(0))
		if bp.concurrency != 4 {
			t.Errorf("expected concurrency 4, got %d", bp.concurrency)
		}
	})

	t.Run("applies WithBatchLogger option", func(t *testing.T) {
		t.Parallel()

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithBatchLogger(logger))
		if bp.logger != logger {
			t.Error("expected custom logger")
		}
	})
}

// TestProcessBatch tests concurrent processing of independent requests.
func TestProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("returns reports in request order", func(t *testing.T) {
		t.Parallel()

		src := fixtureSource()
		bp := NewBatchProcessor(func() *Pipeline {
			return DefaultPipeline(crawler.New(src), nil, WithoutFilters())
		}, WithConcurrency(3))

		requests := []model.Request{
			*model.NewRequest("Root", 2, nil, 0),
			*model.NewRequest("Right", 1, nil, 0),
			*model.NewRequest("Left", 1, nil, 0),
			{Article: ""},
		}

		reports, err := bp.ProcessBatch(context.Background(), requests)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reports) != len(requests) {
			t.Fatalf("expected %d reports, got %d", len(requests), len(reports))
		}

		if reports[0].TotalWords != 12 {
			t.Errorf("expected 12 words for Root, got %d", reports[0].TotalWords)
		}
		if len(reports[1].WordFrequency) != 1 || reports[1].WordFrequency[0].Word != "go" {
			t.Errorf("unexpected Right result %v", reports[1].WordFrequency)
		}
		if reports[2].Table["runs"] != 1 {
			t.Errorf("unexpected Left table %v", reports[2].Table)
		}
		if !errors.Is(reports[3].Error, model.ErrMissingArticle) {
			t.Errorf("expected missing article error, got %v", reports[3].Error)
		}
	})

	t.Run("requests do not share crawl state", func(t *testing.T) {
		t.Parallel()

		src := fixtureSource()
		bp := NewBatchProcessor(func() *Pipeline {
			return DefaultPipeline(crawler.New(src), nil, WithoutFilters())
		}, WithConcurrency(5))

		requests := make([]model.Request, 10)
		for i := range requests {
			requests[i] = *model.NewRequest("Root", 2, nil, 0)
		}

		reports, err := bp.ProcessBatch(context.Background(), requests)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, report := range reports {
			if report.TotalWords != 12 || len(report.Visited) != 3 {
				t.Errorf("report %d: words=%d visited=%v", i, report.TotalWords, report.Visited)
			}
		}
		if src.FetchCount("Root") != 10 {
			t.Errorf("expected each request to fetch Root once, got %d", src.FetchCount("Root"))
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var running, peak atomic.Int32
		factory := func() *Pipeline {
			p := New()
			p.AddStep(&mockStep{
				name: "slow",
				doFunc: func(_ context.Context, _ *model.Report) error {
					n := running.Add(1)
					for {
						old := peak.Load()
						if n <= old || peak.CompareAndSwap(old, n) {
							break
						}
					}
					time.Sleep(10 * time.Millisecond)
					running.Add(-1)
					return nil
				},
			})
			return p
		}

		requests := make([]model.Request, 12)
		for i := range requests {
			requests[i] = model.Request{Article: "Go"}
		}

		bp := NewBatchProcessor(factory, WithConcurrency(2))
		if _, err := bp.ProcessBatch(context.Background(), requests); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if peak.Load() > 2 {
			t.Errorf("expected at most 2 concurrent requests, got %d", peak.Load())
		}
	})

	t.Run("cancelled context stops the batch", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		_, err := bp.ProcessBatch(ctx, []model.Request{{Article: "Go"}})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

// TestProcessBatchWithCallback tests streaming results.
func TestProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	src := fixtureSource()
	bp := NewBatchProcessor(func() *Pipeline {
		return DefaultPipeline(crawler.New(src), nil)
	})

	var mu sync.Mutex
	seen := make(map[int]string)
	err := bp.ProcessBatchWithCallback(context.Background(),
		[]model.Request{{Article: "Root"}, {Article: "Left"}},
		func(report *model.Report, index int) {
			mu.Lock()
			defer mu.Unlock()
			seen[index] = report.Article
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen[0] != "Root" || seen[1] != "Left" {
		t.Errorf("unexpected callbacks %v", seen)
	}
}
