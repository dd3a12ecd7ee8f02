package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/wordcrawl/internal/model"
	"github.com/nao1215/wordcrawl/internal/source"
	"github.com/nao1215/wordcrawl/internal/tokenizer"
)

// Source kinds.
const (
	// SourceWiki fetches articles over HTTP.
	SourceWiki = "wiki"

	// SourceCorpus reads articles from the local SQLite corpus.
	SourceCorpus = "corpus"
)

// Default configuration values.
const (
	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultBatchSize is the number of articles crawled concurrently.
	DefaultBatchSize = 4

	// DefaultListenAddr is where the HTTP server listens.
	DefaultListenAddr = "localhost:8181"

	// AppName is the application name used for XDG directory paths.
	AppName = "wordcrawl"
)

// Config holds all configuration options for wordcrawl.
// It is populated from defaults, then the config file, then CLI flags.
type Config struct {
	// === Document source ===

	// Source selects where documents come from: SourceWiki or SourceCorpus.
	Source string

	// BaseURL is the article root; the article identifier is appended to it.
	BaseURL string

	// LinkPrefix selects which hrefs are article links.
	LinkPrefix string

	// ContentSelector scopes text and link extraction to a CSS selector.
	// Empty means the whole page.
	ContentSelector string

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	ProxyAddress string

	// Headers are added to every HTTP request.
	Headers map[string]string

	// Cookie is added to every HTTP request.
	Cookie string

	// RespectRobots makes the wiki source honor robots.txt.
	RespectRobots bool

	// MaxDocuments caps how many documents one crawl fetches. 0 means no cap.
	MaxDocuments int

	// CorpusDir is the directory holding the SQLite corpus.
	CorpusDir string

	// === Query ===

	// Depth is the default traversal depth.
	Depth int

	// Percentile is the default percentile threshold.
	Percentile float64

	// IgnoreList is excluded from every query.
	IgnoreList []string

	// IgnoreStopwords appends the built-in English stopwords to IgnoreList.
	IgnoreStopwords bool

	// StemmingLanguage enables snowball stemming when non-empty.
	StemmingLanguage string

	// === Execution ===

	// BatchSize is the number of articles crawled concurrently.
	BatchSize int

	// ListenAddr is the HTTP server listen address.
	ListenAddr string

	// RequestTimeout bounds the crawl behind one HTTP request. 0 means no limit.
	RequestTimeout time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// === Report ===

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// FullJSONReport selects JSON output wrapped with the wordcrawl version.
	FullJSONReport bool

	// Tee also prints the report to stdout when ReportFile is set.
	Tee bool

	// ReportFile is the output file path for the report. Empty means stdout.
	ReportFile string

	// Top limits how many words a report shows. 0 shows all.
	Top int
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Source:      SourceWiki,
		BaseURL:     source.DefaultBaseURL,
		LinkPrefix:  source.DefaultLinkPrefix,
		UserAgent:   source.DefaultUserAgent,
		Timeout:     DefaultTimeout,
		MaxBodySize: source.DefaultMaxBodySize,
		CorpusDir:   XDGDataDir(),
		Depth:       model.DefaultDepth,
		Percentile:  model.DefaultPercentile,
		BatchSize:   DefaultBatchSize,
		ListenAddr:  DefaultListenAddr,
	}
}

// XDGDataDir returns the XDG data directory for wordcrawl.
// On Linux: ~/.local/share/wordcrawl
// On macOS: ~/Library/Application Support/wordcrawl
// On Windows: %LOCALAPPDATA%\wordcrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wordcrawl.
// On Linux: ~/.config/wordcrawl
// On macOS: ~/Library/Application Support/wordcrawl
// On Windows: %APPDATA%\wordcrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.Source != SourceWiki && c.Source != SourceCorpus {
		return ErrUnknownSource
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if (c.JSONReport || c.FullJSONReport) && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.MaxDocuments < 0 {
		return ErrInvalidMaxDocuments
	}

	if c.Top < 0 {
		return ErrInvalidTop
	}

	if c.RequestTimeout < 0 {
		return ErrInvalidRequestTimeout
	}

	if c.Source == SourceCorpus && c.CorpusDir == "" {
		return ErrNoCorpusDir
	}

	if c.StemmingLanguage != "" && !tokenizer.IsSupportedLanguage(c.StemmingLanguage) {
		return ErrUnsupportedLanguage
	}

	// Depth and percentile share the request rules.
	return c.DefaultRequest("-").Validate()
}

// DefaultRequest returns a request for article carrying the configured query defaults.
func (c *Config) DefaultRequest(article string) model.Request {
	return *model.NewRequest(article, c.Depth, c.IgnoreList, c.Percentile)
}
