// Package model defines the core data structures shared by wordcrawl packages.
//
// This package contains the following main types:
//   - Document: A fetched document with its text and outgoing links
//   - Request: The caller-facing crawl request with defaults and validation
//   - Report: The outcome of one crawl and its post-processing
//   - Response: The wire envelope returned to API callers
//
// Models live in their own package so that crawler, pipeline, server and
// report can share them without import cycles.
package model
