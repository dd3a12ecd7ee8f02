package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/wordcrawl/internal/config"
	"github.com/nao1215/wordcrawl/internal/crawler"
	"github.com/nao1215/wordcrawl/internal/database"
	"github.com/nao1215/wordcrawl/internal/frequency"
	"github.com/nao1215/wordcrawl/internal/log"
	"github.com/nao1215/wordcrawl/internal/source"
	"github.com/nao1215/wordcrawl/internal/tokenizer"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// loadConfig builds a Config from defaults, the config file and the flags
// the user actually set, in that order of precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	// Subcommands run without the root command have no config flag.
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// applyFlags copies every changed flag the command defines onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	set := func(name string, apply func() error) {
		if err != nil || flags.Lookup(name) == nil || !flags.Changed(name) {
			return
		}
		err = apply()
	}

	set("source", func() (e error) { cfg.Source, e = flags.GetString("source"); return })
	set("base-url", func() (e error) { cfg.BaseURL, e = flags.GetString("base-url"); return })
	set("selector", func() (e error) { cfg.ContentSelector, e = flags.GetString("selector"); return })
	set("proxy", func() (e error) { cfg.ProxyAddress, e = flags.GetString("proxy"); return })
	set("timeout", func() (e error) { cfg.Timeout, e = flags.GetDuration("timeout"); return })
	set("respect-robots", func() (e error) { cfg.RespectRobots, e = flags.GetBool("respect-robots"); return })
	set("max-documents", func() (e error) { cfg.MaxDocuments, e = flags.GetInt("max-documents"); return })
	set("corpus-dir", func() (e error) { cfg.CorpusDir, e = flags.GetString("corpus-dir"); return })
	set("depth", func() (e error) { cfg.Depth, e = flags.GetInt("depth"); return })
	set("percentile", func() (e error) { cfg.Percentile, e = flags.GetFloat64("percentile"); return })
	set("ignore", func() (e error) { cfg.IgnoreList, e = flags.GetStringSlice("ignore"); return })
	set("stopwords", func() (e error) { cfg.IgnoreStopwords, e = flags.GetBool("stopwords"); return })
	set("stem", func() (e error) { cfg.StemmingLanguage, e = flags.GetString("stem"); return })
	set("batch", func() (e error) { cfg.BatchSize, e = flags.GetInt("batch"); return })
	set("addr", func() (e error) { cfg.ListenAddr, e = flags.GetString("addr"); return })
	set("request-timeout", func() (e error) { cfg.RequestTimeout, e = flags.GetDuration("request-timeout"); return })
	set("full-json", func() (e error) { cfg.FullJSONReport, e = flags.GetBool("full-json"); return })
	set("tee", func() (e error) { cfg.Tee, e = flags.GetBool("tee"); return })
	set("json", func() (e error) { cfg.JSONReport, e = flags.GetBool("json"); return })
	set("markdown", func() (e error) { cfg.MarkdownReport, e = flags.GetBool("markdown"); return })
	set("output", func() (e error) { cfg.ReportFile, e = flags.GetString("output"); return })
	set("top", func() (e error) { cfg.Top, e = flags.GetInt("top"); return })

	return err
}

// addSourceFlags registers the document source flags shared by crawl and serve.
func addSourceFlags(cmd *cobra.Command) {
	defaults := config.NewConfig()
	flags := cmd.Flags()

	flags.String("source", defaults.Source, "Document source: wiki or corpus")
	flags.String("base-url", defaults.BaseURL, "Article root URL for the wiki source")
	flags.String("selector", "", "CSS selector restricting extraction to the article body")
	flags.String("proxy", "", "SOCKS5 proxy address (host:port)")
	flags.DurationP("timeout", "t", defaults.Timeout, "Timeout for each HTTP request")
	flags.Bool("respect-robots", false, "Honor robots.txt on the wiki source")
	flags.Int("max-documents", 0, "Stop each crawl after this many documents (0 = no limit)")
	flags.String("corpus-dir", defaults.CorpusDir, "Directory of the local corpus")
	flags.Bool("stopwords", false, "Ignore common English stopwords")
	flags.String("stem", "", "Stem words with the given snowball language (e.g. english)")
}

// setupLogger creates the secure logger for cfg and makes it the default.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	logger := log.NewSecureLogger(w, cfg.Verbose)
	slog.SetDefault(logger)
	return logger
}

// ignoreWords returns the configured ignore list plus stopwords if enabled.
func ignoreWords(cfg *config.Config) []string {
	words := append([]string(nil), cfg.IgnoreList...)
	if cfg.IgnoreStopwords {
		words = append(words, frequency.EnglishStopwords()...)
	}
	return words
}

// openSource creates the document source selected by cfg.
// The returned close function releases it and is never nil.
func openSource(cfg *config.Config, logger *slog.Logger) (crawler.DocumentSource, func() error, error) {
	noop := func() error { return nil }

	if cfg.Source == config.SourceCorpus {
		opts := database.DefaultOptions()
		opts.CreateIfNotExists = false
		db, err := database.Open(cfg.CorpusDir, opts)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("corpus opened", "path", db.Path())
		return db, db.Close, nil
	}

	client, err := source.NewHTTPClient(source.TransportOptions{
		Timeout:      cfg.Timeout,
		ProxyAddress: cfg.ProxyAddress,
		Cookie:       cfg.Cookie,
		Headers:      cfg.Headers,
	})
	if err != nil {
		return nil, noop, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	parserOpts := []source.ParserOption{source.WithLinkPrefix(cfg.LinkPrefix)}
	if cfg.ContentSelector != "" {
		parserOpts = append(parserOpts, source.WithContentSelector(cfg.ContentSelector))
	}

	wikiOpts := []source.WikiOption{
		source.WithBaseURL(cfg.BaseURL),
		source.WithHTTPClient(client),
		source.WithUserAgent(cfg.UserAgent),
		source.WithMaxBodySize(cfg.MaxBodySize),
		source.WithParser(source.NewParser(parserOpts...)),
		source.WithWikiLogger(logger),
	}
	if cfg.RespectRobots {
		wikiOpts = append(wikiOpts, source.WithRobots(source.NewRobotsAgent(client, cfg.UserAgent, 0)))
	}

	logger.Debug("wiki source configured",
		"base_url", cfg.BaseURL,
		"proxy", cfg.ProxyAddress,
		"cookie", cfg.Cookie,
		"respect_robots", cfg.RespectRobots,
	)

	return source.NewWiki(wikiOpts...), noop, nil
}

// newCrawler creates a crawler over src configured by cfg.
func newCrawler(src crawler.DocumentSource, cfg *config.Config, logger *slog.Logger) *crawler.Crawler {
	var tokOpts []tokenizer.Option
	if cfg.StemmingLanguage != "" {
		tokOpts = append(tokOpts, tokenizer.WithStemming(cfg.StemmingLanguage))
	}

	return crawler.New(src,
		crawler.WithLogger(logger),
		crawler.WithTokenizer(tokenizer.New(tokOpts...)),
		crawler.WithMaxDocuments(cfg.MaxDocuments),
	)
}
