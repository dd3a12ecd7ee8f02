package config

import (
	"maps"
	"time"
)

// File represents the structure of the wordcrawl configuration file.
// Every field is optional; unset fields leave the current value alone.
type File struct {
	// Source configures where documents come from.
	Source SourceSection `yaml:"source,omitempty"`

	// Query holds defaults for crawl requests.
	Query QuerySection `yaml:"query,omitempty"`

	// Server configures the HTTP server.
	Server ServerSection `yaml:"server,omitempty"`
}

// SourceSection configures the document source.
type SourceSection struct {
	// Kind is "wiki" or "corpus".
	Kind string `yaml:"kind,omitempty"`

	BaseURL         string `yaml:"baseURL,omitempty"`
	LinkPrefix      string `yaml:"linkPrefix,omitempty"`
	ContentSelector string `yaml:"contentSelector,omitempty"`
	UserAgent       string `yaml:"userAgent,omitempty"`

	// Timeout accepts Go duration strings such as "30s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	MaxBodySize int64 `yaml:"maxBodySize,omitempty"`

	// Proxy is a SOCKS5 proxy in "host:port" form.
	Proxy string `yaml:"proxy,omitempty"`

	// Cookie format: "name=value" or "name1=value1; name2=value2".
	Cookie string `yaml:"cookie,omitempty"`

	Headers map[string]string `yaml:"headers,omitempty"`

	RespectRobots *bool `yaml:"respectRobots,omitempty"`
	MaxDocuments  *int  `yaml:"maxDocuments,omitempty"`

	CorpusDir string `yaml:"corpusDir,omitempty"`
}

// QuerySection holds request defaults.
type QuerySection struct {
	Depth           *int     `yaml:"depth,omitempty"`
	Percentile      *float64 `yaml:"percentile,omitempty"`
	IgnoreList      []string `yaml:"ignoreList,omitempty"`
	IgnoreStopwords *bool    `yaml:"ignoreStopwords,omitempty"`

	// Stemming is a snowball language such as "english". Empty disables stemming.
	Stemming string `yaml:"stemming,omitempty"`

	BatchSize int `yaml:"batchSize,omitempty"`
}

// ServerSection configures the HTTP server.
type ServerSection struct {
	Addr string `yaml:"addr,omitempty"`

	// RequestTimeout bounds each request's crawl, e.g. "2m".
	RequestTimeout time.Duration `yaml:"requestTimeout,omitempty"`
}

// Apply overlays the values set in the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	src := cf.Source
	if src.Kind != "" {
		cfg.Source = src.Kind
	}
	if src.BaseURL != "" {
		cfg.BaseURL = src.BaseURL
	}
	if src.LinkPrefix != "" {
		cfg.LinkPrefix = src.LinkPrefix
	}
	if src.ContentSelector != "" {
		cfg.ContentSelector = src.ContentSelector
	}
	if src.UserAgent != "" {
		cfg.UserAgent = src.UserAgent
	}
	if src.Timeout != 0 {
		cfg.Timeout = src.Timeout
	}
	if src.MaxBodySize != 0 {
		cfg.MaxBodySize = src.MaxBodySize
	}
	if src.Proxy != "" {
		cfg.ProxyAddress = src.Proxy
	}
	if src.Cookie != "" {
		cfg.Cookie = src.Cookie
	}
	if len(src.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(src.Headers))
		}
		maps.Copy(cfg.Headers, src.Headers)
	}
	if src.RespectRobots != nil {
		cfg.RespectRobots = *src.RespectRobots
	}
	if src.MaxDocuments != nil {
		cfg.MaxDocuments = *src.MaxDocuments
	}
	if src.CorpusDir != "" {
		cfg.CorpusDir = src.CorpusDir
	}

	q := cf.Query
	if q.Depth != nil {
		cfg.Depth = *q.Depth
	}
	if q.Percentile != nil {
		cfg.Percentile = *q.Percentile
	}
	if len(q.IgnoreList) > 0 {
		cfg.IgnoreList = append([]string(nil), q.IgnoreList...)
	}
	if q.IgnoreStopwords != nil {
		cfg.IgnoreStopwords = *q.IgnoreStopwords
	}
	if q.Stemming != "" {
		cfg.StemmingLanguage = q.Stemming
	}
	if q.BatchSize != 0 {
		cfg.BatchSize = q.BatchSize
	}

	if cf.Server.RequestTimeout > 0 {
		cfg.RequestTimeout = cf.Server.RequestTimeout
	}
	if cf.Server.Addr != "" {
		cfg.ListenAddr = cf.Server.Addr
	}
}
