// Package source provides document sources for the crawler.
//
// # Sources
//
//   - Wiki: fetches articles over HTTP from a MediaWiki-style site
//   - Memory: serves documents from a map, for tests and fixtures
//
// The SQLite corpus in package database is a third source for offline use.
//
// Every source reports a missing document, a non-HTML response and a
// transport failure the same way: an error wrapping
// model.ErrDocumentNotFound. The crawler does not distinguish them.
//
// # Links
//
// Sources return only content links. Identifiers in an administrative
// namespace, such as "Talk:Go" or "Special:Random", are removed with
// FilterNamespaces before a document is returned.
//
// # Transport
//
// NewHTTPClient builds the client used by Wiki. It supports an optional
// SOCKS5 proxy, extra headers and a cookie injected into every request,
// and caps redirects at 10. RobotsAgent optionally checks robots.txt
// before each fetch and fails open when robots.txt cannot be read.
package source
