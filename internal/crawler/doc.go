// Package crawler walks a linked document collection and counts words.
//
// # Traversal
//
// Crawler performs a depth-bounded depth-first walk starting at a root
// identifier. Depth 1 fetches only the root, depth 2 the root and the
// documents it links to, and so on. Depth 0 fetches nothing.
//
// The walk uses an explicit stack of (identifier, remaining depth) frames
// instead of recursion, so link-dense collections cannot exhaust the call
// stack. Links are pushed in reverse so the first link is walked first,
// which gives the same visit order as a recursive pre-order walk.
//
// An identifier is marked visited before its links are walked, so cycles
// terminate and every document is fetched at most once per crawl.
//
// # Missing documents
//
// A document the source cannot provide prunes that branch only. Words
// already counted from other documents are kept and the crawl succeeds.
//
// # Usage
//
//	c := crawler.New(src, crawler.WithLogger(logger))
//	result, err := c.Run(ctx, "Go_(programming_language)", 2)
//
// # Concurrency
//
// A single crawl is strictly sequential. A Crawler itself holds no per-crawl
// state, so one Crawler may run many crawls concurrently as long as each
// call gets its own VisitedSet and frequency.Table.
package crawler
