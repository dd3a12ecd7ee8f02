package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/wordcrawl/internal/model"
)

// BatchProcessor runs several independent requests concurrently.
// It uses errgroup to manage goroutines and respect the concurrency limit.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each request, so no
	// per-crawl state is ever shared.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent requests.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent requests.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs every request and returns the reports in request order.
//
// A failed request does not stop the others; its error is recorded in its
// report. The returned error is non-nil only if ctx was cancelled before
// every request could start, in which case unstarted entries are nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, requests []model.Request) ([]*model.Report, error) {
	bp.logger.Info("starting batch processing",
		"total_requests", len(requests),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Each goroutine writes only its own index.
	results := make([]*model.Report, len(requests))

	err := bp.ProcessBatchWithCallback(ctx, requests, func(report *model.Report, index int) {
		results[index] = report
	})

	bp.logger.Info("batch processing complete",
		"total_requests", len(requests),
		"elapsed", time.Since(startTime),
	)

	return results, err
}

// ProcessBatchWithCallback runs every request and calls callback as each
// one completes. The callback is called from the goroutine that ran the
// request, so it must be safe for concurrent use if it touches shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	requests []model.Request,
	callback func(report *model.Report, index int),
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, req := range requests {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			bp.logger.Debug("processing request",
				"article", req.Article,
				"index", i+1,
				"total", len(requests),
			)

			report, err := Run(ctx, bp.pipelineFactory(), req)
			if err != nil {
				bp.logger.Warn("request failed",
					"article", req.Article,
					"error", err,
				)
			}

			callback(report, i)
			return nil
		})
	}

	return g.Wait()
}
