// Package main provides the entry point for the wordcrawl CLI.
//
// wordcrawl crawls an article and the articles it links to, up to a given
// depth, and reports how often each word occurs.
//
// Usage:
//
//	wordcrawl crawl <article>... [-d depth] [-i word]... [-p percentile]
//	wordcrawl serve [-a addr]
//	wordcrawl import <dir>
//
// See --help for all available options.
package main

// main is the entry point for wordcrawl.
func main() {
	Execute()
}
