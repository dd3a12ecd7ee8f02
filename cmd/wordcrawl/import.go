package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/wordcrawl/internal/config"
	"github.com/nao1215/wordcrawl/internal/database"
	"github.com/nao1215/wordcrawl/internal/model"
	"github.com/nao1215/wordcrawl/internal/source"
)

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Import saved HTML articles into the local corpus",
		Long: `Import parses every .html and .htm file below dir and stores it in the
local corpus. The article identifier is the file name without its
extension, so "Go_(programming_language).html" becomes
"Go_(programming_language)". Existing articles are replaced.

Crawl the corpus with: wordcrawl crawl --source corpus <article>

Examples:
  wordcrawl import ./saved-pages
  wordcrawl import --corpus-dir ./corpus --selector "#content" ./saved-pages`,
		Args: cobra.ExactArgs(1),
		RunE: runImportCmd,
	}

	defaults := config.NewConfig()
	cmd.Flags().String("corpus-dir", defaults.CorpusDir, "Directory of the local corpus")
	cmd.Flags().String("selector", "", "CSS selector restricting extraction to the article body")

	return cmd
}

// runImportCmd executes the import command.
func runImportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd.ErrOrStderr(), cfg)

	db, err := database.Open(cfg.CorpusDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}
	defer db.Close()

	parserOpts := []source.ParserOption{source.WithLinkPrefix(cfg.LinkPrefix)}
	if cfg.ContentSelector != "" {
		parserOpts = append(parserOpts, source.WithContentSelector(cfg.ContentSelector))
	}

	n, err := importDir(cmd.Context(), db, source.NewParser(parserOpts...), args[0], logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d document(s) into %s\n", n, db.Path())
	return nil
}

// importDir stores every HTML file below dir and returns how many were stored.
func importDir(ctx context.Context, db *database.CorpusDB, parser *source.Parser, dir string, logger *slog.Logger) (int, error) {
	var imported int

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !isHTMLFile(path) {
			return nil
		}

		doc, err := parseFile(parser, path)
		if err != nil {
			logger.Warn("skipping file", "path", path, "error", err)
			return nil
		}

		if err := db.PutDocument(ctx, doc, path); err != nil {
			return err
		}
		logger.Debug("imported document", "id", doc.ID, "links", len(doc.Links))
		imported++
		return nil
	})
	if err != nil {
		return imported, fmt.Errorf("import failed after %d document(s): %w", imported, err)
	}

	return imported, nil
}

// parseFile parses one saved article into a document.
func parseFile(parser *source.Parser, path string) (*model.Document, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from walking the user's directory
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result, err := parser.Parse(f)
	if err != nil {
		return nil, err
	}

	base := filepath.Base(path)
	doc := model.NewDocument(strings.TrimSuffix(base, filepath.Ext(base)), result.Text, result.Links...)
	doc.Title = result.Title
	return doc, nil
}

func isHTMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	default:
		return false
	}
}
