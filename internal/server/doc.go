// Package server exposes the word frequency pipeline over HTTP.
//
// Routes:
//   - POST /        crawl, exclude, threshold and sort; JSON body in, JSON out
//   - GET  /        crawl and sort without filters (?title=...&depth=...)
//   - GET  /health  liveness probe
//
// The request context is passed to the crawl, so a client that disconnects
// stops the crawl before its next fetch.
package server
