package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() for programmatic handling.
var (
	// ErrUnknownSource is returned when the source kind is neither wiki nor corpus.
	ErrUnknownSource = errors.New("unknown source: must be \"wiki\" or \"corpus\"")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidMaxDocuments is returned when the document limit is negative.
	ErrInvalidMaxDocuments = errors.New("invalid max documents: must be non-negative")

	// ErrInvalidRequestTimeout is returned when the server request timeout is negative.
	ErrInvalidRequestTimeout = errors.New("invalid request timeout: must be non-negative")

	// ErrInvalidTop is returned when the report row limit is negative.
	ErrInvalidTop = errors.New("invalid top: must be non-negative")

	// ErrNoCorpusDir is returned when the corpus source has no directory.
	ErrNoCorpusDir = errors.New("corpus source requires a corpus directory")

	// ErrUnsupportedLanguage is returned for a stemming language snowball does not know.
	ErrUnsupportedLanguage = errors.New("unsupported stemming language")
)
