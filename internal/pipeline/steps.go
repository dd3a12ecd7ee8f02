package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/wordcrawl/internal/crawler"
	"github.com/nao1215/wordcrawl/internal/frequency"
	"github.com/nao1215/wordcrawl/internal/model"
)

// ValidateStep rejects invalid requests before any document is fetched.
type ValidateStep struct{}

// NewValidateStep creates a new validation step.
func NewValidateStep() *ValidateStep {
	return &ValidateStep{}
}

// Name returns the step name.
func (s *ValidateStep) Name() string {
	return "validate"
}

// Do executes the validation step.
func (s *ValidateStep) Do(_ context.Context, report *model.Report) error {
	return model.NewRequest(report.Article, report.Depth, report.IgnoreList, report.Percentile).Validate()
}

// CrawlStep walks the document graph and fills the report's frequency table.
type CrawlStep struct {
	// crawler performs the traversal.
	crawler *crawler.Crawler

	// logger for structured logging.
	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a new crawl step backed by c.
func NewCrawlStep(c *crawler.Crawler, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		crawler: c,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step. The report's table and visited list are
// populated even when the crawl is cancelled part way.
func (s *CrawlStep) Do(ctx context.Context, report *model.Report) error {
	if report.Table == nil {
		report.Table = frequency.NewTable()
	}
	visited := crawler.NewVisitedSet()

	stats, err := s.crawler.Crawl(ctx, report.Article, report.Depth, visited, report.Table)

	report.Visited = visited.IDs()
	report.DocumentsFetched = stats.Fetched
	for _, id := range stats.Missing {
		report.AddMissing(id)
	}
	report.Truncated = stats.Truncated
	report.TotalWords = report.Table.Total()

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			report.Cancelled = true
		}
		return err
	}

	s.logger.Info("crawl completed",
		"article", report.Article,
		"depth", report.Depth,
		"visited", len(report.Visited),
		"missing", len(report.Missing),
		"words", report.TotalWords,
	)

	return nil
}

// NormalizeStep converts raw counts into percentages of the crawl total.
type NormalizeStep struct{}

// NewNormalizeStep creates a new normalization step.
func NewNormalizeStep() *NormalizeStep {
	return &NormalizeStep{}
}

// Name returns the step name.
func (s *NormalizeStep) Name() string {
	return "normalize"
}

// Do executes the normalization step.
func (s *NormalizeStep) Do(_ context.Context, report *model.Report) error {
	report.Entries = frequency.Normalize(report.Table)
	return nil
}

// ExcludeStep removes ignored words. Percentages are left as computed.
type ExcludeStep struct {
	// extra words are excluded in addition to the report's ignore list.
	extra []string
}

// NewExcludeStep creates a new exclusion step. Words in extra are ignored
// for every request, for example a stopword list.
func NewExcludeStep(extra ...string) *ExcludeStep {
	return &ExcludeStep{extra: extra}
}

// Name returns the step name.
func (s *ExcludeStep) Name() string {
	return "exclude"
}

// Do executes the exclusion step.
func (s *ExcludeStep) Do(_ context.Context, report *model.Report) error {
	ignore := make([]string, 0, len(report.IgnoreList)+len(s.extra))
	ignore = append(ignore, report.IgnoreList...)
	ignore = append(ignore, s.extra...)

	report.Entries = frequency.Exclude(report.Entries, ignore)
	return nil
}

// PercentileStep drops words whose percentage is below the report's threshold.
type PercentileStep struct{}

// NewPercentileStep creates a new percentile threshold step.
func NewPercentileStep() *PercentileStep {
	return &PercentileStep{}
}

// Name returns the step name.
func (s *PercentileStep) Name() string {
	return "percentile"
}

// Do executes the percentile step.
func (s *PercentileStep) Do(_ context.Context, report *model.Report) error {
	report.Entries = frequency.ApplyPercentileThreshold(report.Entries, report.Percentile)
	report.Filtered = true
	return nil
}

// SortStep orders the remaining words by descending count.
type SortStep struct{}

// NewSortStep creates a new sort step.
func NewSortStep() *SortStep {
	return &SortStep{}
}

// Name returns the step name.
func (s *SortStep) Name() string {
	return "sort"
}

// Do executes the sort step.
func (s *SortStep) Do(_ context.Context, report *model.Report) error {
	report.WordFrequency = frequency.Sort(report.Entries)
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// Filtered enables the exclude and percentile steps.
	Filtered bool

	// ExtraIgnoreWords are excluded from every request.
	ExtraIgnoreWords []string
}

// DefaultPipelineOption configures the default pipeline.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithoutFilters drops the exclude and percentile steps, leaving a
// normalized and sorted table of every word.
func WithoutFilters() DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Filtered = false
	}
}

// WithExtraIgnoreWords excludes words from every request in addition to
// the request's own ignore list.
func WithExtraIgnoreWords(words []string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.ExtraIgnoreWords = append(c.ExtraIgnoreWords, words...)
	}
}

// DefaultPipeline creates the standard request pipeline around c.
func DefaultPipeline(c *crawler.Crawler, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		Filtered: true,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	p.AddSteps(
		NewValidateStep(),
		NewCrawlStep(c, WithCrawlLogger(p.logger)),
		NewNormalizeStep(),
	)
	if cfg.Filtered {
		p.AddSteps(
			NewExcludeStep(cfg.ExtraIgnoreWords...),
			NewPercentileStep(),
		)
	}
	p.AddStep(NewSortStep())

	return p
}

// Run builds a report for req and executes p on it.
// The report is returned even when execution fails.
func Run(ctx context.Context, p *Pipeline, req model.Request) (*model.Report, error) {
	report := model.NewReport(req)
	err := p.Execute(ctx, report)
	return report, err
}
