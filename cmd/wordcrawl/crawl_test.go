package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/wordcrawl/internal/config"
	"github.com/nao1215/wordcrawl/internal/model"
	"github.com/nao1215/wordcrawl/internal/report"
)

// articles is a three-article graph: Root -> [Left, Right], Left -> [Root].
var articles = map[string]string{
	"Root":  `<html><body><p>the gopher likes the <a href="/wiki/Left">go</a> <a href="/wiki/Right">language</a></p></body></html>`,
	"Left":  `<html><body><p>the gopher runs <a href="/wiki/Root">home</a></p></body></html>`,
	"Right": `<html><body><p>go go go</p></body></html>`,
}

// emptyConfig writes an empty config file so tests never read the user's own.
func emptyConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), config.DefaultConfigFile)
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"-c", emptyConfig(t)}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func newWikiServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/wiki/{id}", func(w http.ResponseWriter, r *http.Request) {
		body, ok := articles[r.PathValue("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, body)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// importArticles writes the fixture articles to disk and imports them.
func importArticles(t *testing.T) string {
	t.Helper()

	pages := t.TempDir()
	for id, body := range articles {
		if err := os.WriteFile(filepath.Join(pages, id+".html"), []byte(body), 0600); err != nil {
			t.Fatalf("failed to write page: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(pages, "notes.txt"), []byte("ignored"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	corpusDir := t.TempDir()
	out, err := execute(t, "import", "--corpus-dir", corpusDir, pages)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Imported 3 document(s)") {
		t.Fatalf("unexpected import output %q", out)
	}
	return corpusDir
}

func decodeReports(t *testing.T, out string) []model.Report {
	t.Helper()

	var reports []model.Report
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var r model.Report
		if err := dec.Decode(&r); err != nil {
			t.Fatalf("invalid JSON report: %v\n%s", err, out)
		}
		reports = append(reports, r)
	}
	return reports
}

func TestCrawlFromWiki(t *testing.T) {
	t.Parallel()

	srv := newWikiServer(t)

	t.Run("depth two with top", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "crawl", "--base-url", srv.URL+"/wiki/",
			"-d", "2", "-p", "0", "--top", "2", "-j", "Root")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		reports := decodeReports(t, out)
		if len(reports) != 1 {
			t.Fatalf("expected 1 report, got %d", len(reports))
		}
		r := reports[0]
		if strings.Join(r.Visited, ",") != "Root,Left,Right" {
			t.Errorf("unexpected visit order %v", r.Visited)
		}
		if r.TotalWords != 13 {
			t.Errorf("expected 13 words, got %d", r.TotalWords)
		}
		if len(r.WordFrequency) != 2 || r.WordFrequency[0].Word != "go" || r.WordFrequency[1].Word != "the" {
			t.Errorf("unexpected words %+v", r.WordFrequency)
		}
	})

	t.Run("ignore list and default depth", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "crawl", "--base-url", srv.URL+"/wiki/", "-p", "0", "-i", "The", "-j", "Root")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		r := decodeReports(t, out)[0]
		if len(r.Visited) != 1 {
			t.Errorf("expected only the root, visited %v", r.Visited)
		}
		for _, row := range r.WordFrequency {
			if row.Word == "the" {
				t.Error("expected 'the' to be ignored")
			}
		}
	})

	t.Run("missing article is an empty result", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "crawl", "--base-url", srv.URL+"/wiki/", "-j", "Nowhere")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		r := decodeReports(t, out)[0]
		if len(r.WordFrequency) != 0 || len(r.Missing) != 1 {
			t.Errorf("unexpected report %+v", r)
		}
	})

	t.Run("simple output by default", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "crawl", "--base-url", srv.URL+"/wiki/", "Root")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "WORD FREQUENCY REPORT") {
			t.Errorf("expected text report, got %q", out)
		}
	})

	t.Run("full json carries the version", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "crawl", "--base-url", srv.URL+"/wiki/", "-p", "0", "--full-json", "Right")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var wrapped report.JSONReport
		if err := json.Unmarshal([]byte(out), &wrapped); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if wrapped.Version == "" {
			t.Error("expected a version")
		}
		if wrapped.Report == nil || wrapped.Report.Article != "Right" || wrapped.Report.TotalWords != 3 {
			t.Errorf("unexpected report %+v", wrapped.Report)
		}
	})

	t.Run("tee writes file and stdout", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), "right.json")
		out, err := execute(t, "crawl", "--base-url", srv.URL+"/wiki/", "-j", "-o", outputPath, "--tee", "Right")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if string(content) != out {
			t.Errorf("expected identical reports, file %q stdout %q", content, out)
		}
		if decodeReports(t, out)[0].Article != "Right" {
			t.Errorf("unexpected stdout %q", out)
		}
	})

	t.Run("file only without tee", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), "right.json")
		out, err := execute(t, "crawl", "--base-url", srv.URL+"/wiki/", "-j", "-o", outputPath, "Right")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != "" {
			t.Errorf("expected nothing on stdout, got %q", out)
		}
	})

	t.Run("markdown to file", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), "reports", "root.md")
		if _, err := execute(t, "crawl", "--base-url", srv.URL+"/wiki/", "-m", "-o", outputPath, "Root"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "# Word Frequency Report") {
			t.Errorf("expected markdown report, got %q", content)
		}
	})
}

func TestCrawlFromCorpus(t *testing.T) {
	t.Parallel()

	corpusDir := importArticles(t)

	t.Run("batch keeps argument order", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "crawl", "--source", "corpus", "--corpus-dir", corpusDir,
			"-d", "2", "-b", "2", "--all", "-j", "Right", "Root", "Left")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		reports := decodeReports(t, out)
		if len(reports) != 3 {
			t.Fatalf("expected 3 reports, got %d", len(reports))
		}
		for i, want := range []string{"Right", "Root", "Left"} {
			if reports[i].Article != want {
				t.Errorf("report %d: expected %s, got %s", i, want, reports[i].Article)
			}
		}
		if reports[0].TotalWords != 3 || reports[0].WordFrequency[0].Count != 3 {
			t.Errorf("unexpected Right report %+v", reports[0])
		}
		if reports[1].Filtered {
			t.Error("expected --all to skip filters")
		}
	})

	t.Run("stopwords", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, "crawl", "--source", "corpus", "--corpus-dir", corpusDir,
			"-d", "2", "-p", "0", "--stopwords", "-j", "Root")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, row := range decodeReports(t, out)[0].WordFrequency {
			if row.Word == "the" {
				t.Error("expected stopword 'the' to be excluded")
			}
		}
	})

	t.Run("list and remove", func(t *testing.T) {
		t.Parallel()

		dir := importArticles(t)

		out, err := execute(t, "corpus", "list", "--corpus-dir", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for id := range articles {
			if !strings.Contains(out, id) {
				t.Errorf("expected %s in listing %q", id, out)
			}
		}

		out, err = execute(t, "corpus", "rm", "--corpus-dir", dir, "Left")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "2 left") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("missing corpus", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, "crawl", "--source", "corpus", "--corpus-dir", t.TempDir(), "Root")
		if err == nil || !strings.Contains(err.Error(), "corpus not found") {
			t.Errorf("expected corpus not found error, got %v", err)
		}
	})
}

func TestCrawlValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "negative depth", args: []string{"crawl", "-d", "-1", "Root"}, want: model.ErrInvalidDepth},
		{name: "percentile out of range", args: []string{"crawl", "-p", "150", "Root"}, want: model.ErrInvalidPercentile},
		{name: "conflicting formats", args: []string{"crawl", "-j", "-m", "Root"}, want: config.ErrConflictingReportFormats},
		{name: "full json with markdown", args: []string{"crawl", "--full-json", "-m", "Root"}, want: config.ErrConflictingReportFormats},
		{name: "unknown source", args: []string{"crawl", "--source", "ftp", "Root"}, want: config.ErrUnknownSource},
		{name: "bad proxy", args: []string{"crawl", "--proxy", "nope", "Root"}},
		{name: "no article", args: []string{"crawl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestConfigFilePrecedence(t *testing.T) {
	t.Parallel()

	srv := newWikiServer(t)

	configPath := filepath.Join(t.TempDir(), "wordcrawl.yaml")
	content := "source:\n  baseURL: \"" + srv.URL + "/wiki/\"\nquery:\n  depth: 2\n  percentile: 0\n"
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	run := func(args ...string) model.Report {
		var out bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(io.Discard)
		cmd.SetArgs(append([]string{"-c", configPath, "crawl", "-j"}, args...))
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return decodeReports(t, out.String())[0]
	}

	if r := run("Root"); r.Depth != 2 || len(r.Visited) != 3 {
		t.Errorf("expected file depth 2, got depth %d visited %v", r.Depth, r.Visited)
	}
	if r := run("-d", "1", "Root"); r.Depth != 1 || len(r.Visited) != 1 {
		t.Errorf("expected flag depth 1 to win, got depth %d visited %v", r.Depth, r.Visited)
	}
}
