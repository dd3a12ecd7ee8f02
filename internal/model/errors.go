package model

import "errors"

var (
	// ErrDocumentNotFound is returned by a document source when an identifier
	// has no document. Transport and parse failures are reported the same way.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrMissingArticle is returned when a request has no root article.
	ErrMissingArticle = errors.New("article title is required")

	// ErrInvalidDepth is returned when depth is negative.
	ErrInvalidDepth = errors.New("depth must be a non-negative integer")

	// ErrInvalidPercentile is returned when percentile is not a finite number in [0, 100].
	ErrInvalidPercentile = errors.New("percentile must be a number between 0 and 100")
)

// IsInvalidInput reports whether err is a caller-facing validation error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrMissingArticle) ||
		errors.Is(err, ErrInvalidDepth) ||
		errors.Is(err, ErrInvalidPercentile)
}

// IsNotFound reports whether err means a document could not be obtained.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound)
}
