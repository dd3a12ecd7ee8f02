package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/wordcrawl/internal/model"
	"github.com/nao1215/wordcrawl/internal/source"
)

// FileName is the name of the corpus database file inside its directory.
const FileName = "wordcrawl.db"

// CorpusDB is a DocumentSource backed by a SQLite database of imported
// documents. It is safe for concurrent use.
type CorpusDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CorpusDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for concurrent readers.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CorpusDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CorpusDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("corpus not found at %s (run 'wordcrawl import' first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CorpusDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CorpusDB) Close() error {
	return cdb.db.Close()
}

// Path returns the database file path.
func (cdb *CorpusDB) Path() string {
	return cdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CorpusDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL DEFAULT '',
		links TEXT NOT NULL DEFAULT '[]',
		origin TEXT NOT NULL DEFAULT '',
		imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_documents_imported_at ON documents(imported_at);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// DocumentRecord is a stored document with its bookkeeping columns.
type DocumentRecord struct {
	model.Document

	// Origin records where the document was imported from, such as a file path.
	Origin string

	// ImportedAt is when the document was last written.
	ImportedAt time.Time
}

// PutDocument inserts or replaces a document. Namespaced links are dropped
// before storing so the corpus behaves like any other source.
func (cdb *CorpusDB) PutDocument(ctx context.Context, doc *model.Document, origin string) error {
	if doc == nil || doc.ID == "" {
		return errors.New("document must have an identifier")
	}

	linksJSON, err := json.Marshal(source.FilterNamespaces(doc.Links))
	if err != nil {
		return fmt.Errorf("failed to serialize links: %w", err)
	}

	query := `
	INSERT INTO documents (id, title, body, links, origin)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		body = excluded.body,
		links = excluded.links,
		origin = excluded.origin,
		imported_at = CURRENT_TIMESTAMP
	`

	if _, err := cdb.db.ExecContext(ctx, query, doc.ID, doc.Title, doc.Text, string(linksJSON), origin); err != nil {
		return fmt.Errorf("failed to store document %s: %w", doc.ID, err)
	}
	return nil
}

// Fetch implements crawler.DocumentSource.
func (cdb *CorpusDB) Fetch(ctx context.Context, id string) (*model.Document, error) {
	record, err := cdb.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", model.ErrDocumentNotFound, id, err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrDocumentNotFound, id)
	}
	return &record.Document, nil
}

// GetDocument retrieves a document record by identifier.
// It returns nil, nil when the identifier is not stored.
func (cdb *CorpusDB) GetDocument(ctx context.Context, id string) (*DocumentRecord, error) {
	query := `
	SELECT id, title, body, links, origin, imported_at
	FROM documents
	WHERE id = ?
	`

	var record DocumentRecord
	var linksJSON string
	var timestamp string

	err := cdb.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.Title,
		&record.Text,
		&linksJSON,
		&record.Origin,
		&timestamp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	record.ImportedAt = parseTimestamp(timestamp)
	if err := json.Unmarshal([]byte(linksJSON), &record.Links); err != nil {
		return nil, fmt.Errorf("failed to parse links: %w", err)
	}

	return &record, nil
}

// CountDocuments returns the number of stored documents.
func (cdb *CorpusDB) CountDocuments(ctx context.Context) (int, error) {
	var count int
	if err := cdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// ListDocumentIDs returns every stored identifier in lexical order.
func (cdb *CorpusDB) ListDocumentIDs(ctx context.Context) ([]string, error) {
	rows, err := cdb.db.QueryContext(ctx, "SELECT id FROM documents ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan document id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// DocumentSummary describes a stored document without its body.
type DocumentSummary struct {
	ID         string
	Title      string
	Links      int
	Origin     string
	ImportedAt time.Time
}

// ListDocuments returns a summary of every stored document, newest first.
func (cdb *CorpusDB) ListDocuments(ctx context.Context) ([]DocumentSummary, error) {
	query := `
	SELECT id, title, links, origin, imported_at
	FROM documents
	ORDER BY imported_at DESC, id
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var results []DocumentSummary
	for rows.Next() {
		var summary DocumentSummary
		var linksJSON string
		var timestamp string

		if err := rows.Scan(&summary.ID, &summary.Title, &linksJSON, &summary.Origin, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		var links []string
		if err := json.Unmarshal([]byte(linksJSON), &links); err == nil {
			summary.Links = len(links)
		}
		summary.ImportedAt = parseTimestamp(timestamp)

		results = append(results, summary)
	}

	return results, rows.Err()
}

// DeleteDocument removes a document. Deleting a missing identifier is not an error.
func (cdb *CorpusDB) DeleteDocument(ctx context.Context, id string) error {
	if _, err := cdb.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// More specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp parses a timestamp in any of the formats SQLite may return.
// It returns the zero time if none match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
