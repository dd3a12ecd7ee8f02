package model

import (
	"fmt"
	"math"
)

const (
	// DefaultDepth is the traversal depth used when a request omits it.
	DefaultDepth = 1

	// DefaultPercentile is the percentile threshold used when a request omits it.
	DefaultPercentile = 1.0
)

// Request is a crawl request as received from a caller.
//
// Depth and Percentile are pointers so an explicit zero can be told apart
// from an absent field.
type Request struct {
	// Article is the root document identifier. Required.
	Article string `json:"article"`

	// Depth bounds the traversal. 1 means only the root is fetched.
	Depth *int `json:"depth,omitempty"`

	// IgnoreList holds words removed from the result, compared case-insensitively.
	IgnoreList []string `json:"ignore_list,omitempty"`

	// Percentile drops words whose percentage is below it.
	Percentile *float64 `json:"percentile,omitempty"`
}

// NewRequest builds a fully populated request.
func NewRequest(article string, depth int, ignore []string, percentile float64) *Request {
	return &Request{
		Article:    article,
		Depth:      &depth,
		IgnoreList: ignore,
		Percentile: &percentile,
	}
}

// WithDefaults returns a copy of r with absent numeric fields filled in.
func (r Request) WithDefaults() Request {
	depth := r.DepthOrDefault()
	percentile := r.PercentileOrDefault()
	r.Depth = &depth
	r.Percentile = &percentile
	if r.IgnoreList == nil {
		r.IgnoreList = []string{}
	}
	return r
}

// DepthOrDefault returns the requested depth or DefaultDepth.
func (r Request) DepthOrDefault() int {
	if r.Depth == nil {
		return DefaultDepth
	}
	return *r.Depth
}

// PercentileOrDefault returns the requested percentile or DefaultPercentile.
func (r Request) PercentileOrDefault() float64 {
	if r.Percentile == nil {
		return DefaultPercentile
	}
	return *r.Percentile
}

// Validate checks the request before any crawling starts.
// The article is never defaulted; numeric fields are checked after defaults.
func (r Request) Validate() error {
	if r.Article == "" {
		return ErrMissingArticle
	}
	if depth := r.DepthOrDefault(); depth < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}
	p := r.PercentileOrDefault()
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 || p > 100 {
		return fmt.Errorf("%w: got %v", ErrInvalidPercentile, p)
	}
	return nil
}
