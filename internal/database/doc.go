// Package database provides the SQLite document corpus used for offline crawls.
//
// CorpusDB stores source documents (identifier, title, text and links) so a
// crawl can run without network access. It never stores crawl results:
// every crawl still starts from an empty visited set and frequency table.
//
// SQLite is used through modernc.org/sqlite, which is CGO-free, keeps the
// corpus in a single file and allows concurrent readers in WAL mode.
package database
