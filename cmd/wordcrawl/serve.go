package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/wordcrawl/internal/config"
	"github.com/nao1215/wordcrawl/internal/log"
	"github.com/nao1215/wordcrawl/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve word frequency requests over HTTP",
		Long: `Serve starts an HTTP server answering word frequency requests.

  POST /   {"article": "...", "depth": 1, "ignore_list": [], "percentile": 1}
           -> {"word_frequency": {"word": [count, percentage], ...}}
  GET  /?title=...&depth=...
           -> unfiltered counts in the same envelope
  GET  /health

The server stops gracefully on SIGINT or SIGTERM.

Examples:
  wordcrawl serve
  wordcrawl serve -a :8080 --stopwords`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultListenAddr, "HTTP listen address")
	cmd.Flags().Bool("json-logs", false, "Write logs as JSON")
	cmd.Flags().Duration("request-timeout", 0, "Answer 503 when a request's crawl runs longer than this (0 = no limit)")
	addSourceFlags(cmd)

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)
	if jsonLogs, _ := cmd.Flags().GetBool("json-logs"); jsonLogs {
		logger = log.NewSecureJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
		slog.SetDefault(logger)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger)
}

// serve runs the HTTP server until ctx is done.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	src, closeSrc, err := openSource(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSrc(); err != nil {
			logger.Error("failed to close source", "error", err)
		}
	}()

	srv := server.New(newCrawler(src, cfg, logger),
		server.WithLogger(logger),
		server.WithExtraIgnoreWords(ignoreWords(cfg)),
		server.WithRequestTimeout(cfg.RequestTimeout),
	)

	logger.Info("starting server", "addr", cfg.ListenAddr, "source", cfg.Source)
	return srv.ListenAndServe(ctx, cfg.ListenAddr)
}
