// Package pipeline runs a crawl request through a sequence of steps.
//
// The default pipeline is:
//
//	validate -> crawl -> normalize -> exclude -> percentile -> sort
//
// Each step receives the shared model.Report and fills in its part. Exclusion
// runs before the percentile threshold, and both run after normalization, so
// percentages always refer to the whole crawl rather than the filtered
// remainder. WithoutFilters builds the normalize-and-sort variant used for
// plain lookups.
//
// BatchProcessor runs several independent requests concurrently with errgroup.
// Every request gets a fresh pipeline and therefore a fresh visited set and
// frequency table; nothing is shared between requests.
package pipeline
