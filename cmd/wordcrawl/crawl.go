package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/wordcrawl/internal/config"
	"github.com/nao1215/wordcrawl/internal/model"
	"github.com/nao1215/wordcrawl/internal/pipeline"
	"github.com/nao1215/wordcrawl/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	defaults := config.NewConfig()

	cmd := &cobra.Command{
		Use:   "crawl <article>...",
		Short: "Count word frequencies across an article and its links",
		Long: `Crawl fetches each article, follows its article links depth-first up to
--depth levels, and reports word counts and percentages.

Depth 1 reads only the article itself, depth 2 adds the articles it links
to, and so on. Articles that cannot be fetched are skipped together with
their links.

Examples:
  # Word frequencies of one article
  wordcrawl crawl "Go_(programming_language)"

  # Two levels deep, ignoring a few words, only words above 0.5%
  wordcrawl crawl -d 2 -i the -i and -p 0.5 Gopher

  # Unfiltered counts, top 20 rows, as Markdown
  wordcrawl crawl --all --top 20 -m Gopher

  # Several articles crawled concurrently from the local corpus
  wordcrawl crawl --source corpus -b 4 Alpha Beta Gamma`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCrawlCmd,
	}

	flags := cmd.Flags()
	flags.IntP("depth", "d", defaults.Depth, "Traversal depth (0 reads nothing, 1 only the article)")
	flags.StringSliceP("ignore", "i", nil, "Word to exclude from the result (repeatable)")
	flags.Float64P("percentile", "p", defaults.Percentile, "Drop words below this percentage")
	flags.Bool("all", false, "Report every word: no ignore list and no percentile threshold")
	flags.IntP("batch", "b", defaults.BatchSize, "Number of articles crawled concurrently")

	flags.BoolP("json", "j", false, "Output JSON report (mutually exclusive with --markdown)")
	flags.BoolP("markdown", "m", false, "Output Markdown report (mutually exclusive with --json)")
	flags.Bool("full-json", false, "Output JSON report wrapped with the wordcrawl version")
	flags.StringP("output", "o", "", "Write report to specified file path (creates directories if needed)")
	flags.Bool("tee", false, "With --output, also print the report to stdout")
	flags.Int("top", 0, "Show only the N most frequent words (0 = all)")

	addSourceFlags(cmd)

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd.ErrOrStderr(), cfg)

	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, closeOut, err := openOutput(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeOut()

	w := newReportWriter(out, cfg)
	if cfg.Tee && cfg.ReportFile != "" {
		w = report.NewMultiWriter(w, newReportWriter(cmd.OutOrStdout(), cfg))
	}

	return runCrawl(ctx, cfg, args, all, w, logger)
}

// runCrawl crawls every article and writes one report per article, in
// argument order.
func runCrawl(ctx context.Context, cfg *config.Config, articles []string, all bool, w report.Writer, logger *slog.Logger) error {
	src, closeSrc, err := openSource(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSrc(); err != nil {
			logger.Error("failed to close source", "error", err)
		}
	}()

	c := newCrawler(src, cfg, logger)

	var configOpts []pipeline.DefaultPipelineOption
	if all {
		configOpts = append(configOpts, pipeline.WithoutFilters())
	}
	factory := func() *pipeline.Pipeline {
		return pipeline.DefaultPipeline(c, []pipeline.Option{pipeline.WithLogger(logger)}, configOpts...)
	}

	requests := make([]model.Request, len(articles))
	for i, article := range articles {
		requests[i] = cfg.DefaultRequest(article)
		requests[i].IgnoreList = ignoreWords(cfg)
	}

	var reports []*model.Report
	if len(requests) == 1 {
		rep, _ := pipeline.Run(ctx, factory(), requests[0])
		reports = []*model.Report{rep}
	} else {
		bp := pipeline.NewBatchProcessor(factory,
			pipeline.WithConcurrency(cfg.BatchSize),
			pipeline.WithBatchLogger(logger),
		)
		reports, err = bp.ProcessBatch(ctx, requests)
		if err != nil {
			logger.Warn("batch interrupted", "error", err)
		}
	}

	var errs []error
	for i, rep := range reports {
		if rep == nil {
			errs = append(errs, fmt.Errorf("%s: not started", articles[i]))
			continue
		}
		if _, err := w.Write(rep); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		if rep.Error != nil {
			errs = append(errs, fmt.Errorf("%s: %w", rep.Article, rep.Error))
		}
	}

	return errors.Join(errs...)
}

// newReportWriter returns the writer for the configured report format.
func newReportWriter(out io.Writer, cfg *config.Config) report.Writer {
	switch {
	case cfg.FullJSONReport:
		return report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint(), report.WithJSONTop(cfg.Top))
	case cfg.JSONReport:
		return report.NewJSONWriter(out, report.WithPrettyPrint(), report.WithJSONTop(cfg.Top))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out, report.WithMarkdownTop(cfg.Top))
	default:
		return report.NewSimpleWriter(out, report.WithTop(cfg.Top), report.WithVerbose(cfg.Verbose))
	}
}

// openOutput returns the report destination: cfg.ReportFile or stdout.
func openOutput(cmd *cobra.Command, cfg *config.Config) (io.Writer, func(), error) {
	if cfg.ReportFile == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
