package model

import (
	"time"

	"github.com/nao1215/wordcrawl/internal/frequency"
)

// Report is the outcome of one crawl request.
// It is built up by pipeline steps and rendered by the report writers or
// the HTTP server.
type Report struct {
	// === Request ===

	// Article is the root document identifier.
	Article string `json:"article"`

	// Depth is the effective traversal depth.
	Depth int `json:"depth"`

	// IgnoreList is the effective ignore list, including stopwords if enabled.
	IgnoreList []string `json:"ignore_list,omitempty"`

	// Percentile is the effective percentile threshold.
	Percentile float64 `json:"percentile"`

	// Filtered is true once exclusion and the percentile threshold were applied.
	Filtered bool `json:"filtered"`

	// === Crawl Data ===

	// Visited lists document identifiers in the order they were visited.
	Visited []string `json:"visited"`

	// DocumentsFetched is the number of documents successfully fetched.
	DocumentsFetched int `json:"documents_fetched"`

	// Missing lists identifiers the source could not provide.
	Missing []string `json:"missing,omitempty"`

	// Truncated is true if the crawl stopped at the document limit.
	Truncated bool `json:"truncated,omitempty"`

	// TotalWords is the number of tokens counted across the crawl.
	TotalWords int `json:"total_words"`

	// Table holds raw counts. Excluded from JSON; WordFrequency carries the result.
	Table frequency.Table `json:"-"`

	// Entries holds the normalized entries between post-processing steps.
	Entries frequency.Entries `json:"-"`

	// === Result ===

	// WordFrequency is the final, ordered result.
	WordFrequency frequency.Ranking `json:"word_frequency"`

	// === Run State ===

	// StartedAt is when processing began.
	StartedAt time.Time `json:"started_at"`

	// Duration is how long processing took.
	Duration time.Duration `json:"duration"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Cancelled is true if the crawl was interrupted by its context.
	Cancelled bool `json:"cancelled,omitempty"`

	// Error contains any error that stopped processing.
	Error error `json:"-"`

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// NewReport creates a report for req. Absent numeric fields take their defaults.
func NewReport(req Request) *Report {
	req = req.WithDefaults()
	ignore := make([]string, len(req.IgnoreList))
	copy(ignore, req.IgnoreList)

	return &Report{
		Article:    req.Article,
		Depth:      *req.Depth,
		IgnoreList: ignore,
		Percentile: *req.Percentile,
		Visited:    []string{},
		Table:      frequency.NewTable(),
		StartedAt:  time.Now(),
	}
}

// AddMissing records an identifier the source could not provide.
func (r *Report) AddMissing(id string) {
	r.Missing = append(r.Missing, id)
}

// SetError records err on the report.
func (r *Report) SetError(err error) {
	r.Error = err
	r.ErrorMessage = ""
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// Finish stamps the duration since StartedAt.
func (r *Report) Finish() {
	r.Duration = time.Since(r.StartedAt)
}

// Response returns the wire envelope for this report.
func (r *Report) Response() Response {
	return Response{WordFrequency: r.WordFrequency}
}

// Response is the success body returned to API callers.
type Response struct {
	// WordFrequency maps word to [count, percentage], ordered by descending count.
	WordFrequency frequency.Ranking `json:"word_frequency"`
}

// ErrorResponse is the failure body returned to API callers.
type ErrorResponse struct {
	Error string `json:"error"`
}
