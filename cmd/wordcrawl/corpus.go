package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nao1215/wordcrawl/internal/config"
	"github.com/nao1215/wordcrawl/internal/database"
)

// NewCorpusCmd creates the corpus command and its subcommands.
func NewCorpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Inspect and edit the local corpus",
	}

	defaults := config.NewConfig()
	cmd.PersistentFlags().String("corpus-dir", defaults.CorpusDir, "Directory of the local corpus")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored articles",
		Args:  cobra.NoArgs,
		RunE:  runCorpusList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <article>...",
		Short: "Remove articles from the corpus",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCorpusRemove,
	})

	return cmd
}

// openCorpus opens the existing corpus configured for cmd.
func openCorpus(cmd *cobra.Command) (*database.CorpusDB, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	setupLogger(cmd.ErrOrStderr(), cfg)

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	return database.Open(cfg.CorpusDir, opts)
}

func runCorpusList(cmd *cobra.Command, _ []string) error {
	db, err := openCorpus(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	docs, err := db.ListDocuments(cmd.Context())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tLINKS\tIMPORTED")
	for _, doc := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			doc.ID, truncate(doc.Title, 40), doc.Links, doc.ImportedAt.Format("2006-01-02 15:04:05"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d document(s) in %s\n", len(docs), db.Path())
	return nil
}

func runCorpusRemove(cmd *cobra.Command, args []string) error {
	db, err := openCorpus(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, id := range args {
		if err := db.DeleteDocument(cmd.Context(), id); err != nil {
			return err
		}
	}

	count, err := db.CountDocuments(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d article(s); %d left\n", len(args), count)
	return nil
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
