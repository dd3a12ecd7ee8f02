package source

import (
	"reflect"
	"strings"
	"testing"
)

const articleHTML = `<html>
<head><title>Go (programming language) - Wikipedia</title>
<style>.mw-body { color: red; }</style>
<script>var wgTitle = "Go";</script>
</head>
<body>
<div id="mw-navigation"><a href="/wiki/Main_Page">Main page</a> <a href="/wiki/Special:Random">Random</a></div>
<div id="mw-content-text">
<p>Go is a <b>statically</b> typed language.</p>
<p>See <a href="/wiki/C_(programming_language)">C</a>, <a href="/wiki/Talk:Go">talk</a>,
<a href="/wiki/Python_(programming_language)#History">Python</a>,
<a href="/wiki/#top">top</a>, <a href="https://go.dev/">go.dev</a>,
<a href="/w/index.php?title=Go&action=edit">edit</a> and
<a href="/wiki/Template_talk:Infobox">infobox</a>.</p>
<noscript>Enable JavaScript</noscript>
<!-- hidden comment -->
</div>
</body>
</html>`

// TestParser tests HTML parsing.
func TestParser(t *testing.T) {
	t.Parallel()

	t.Run("extracts title", func(t *testing.T) {
		t.Parallel()

		result, err := NewParser().Parse(strings.NewReader(articleHTML))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if result.Title != "Go (programming language) - Wikipedia" {
			t.Errorf("got title %q", result.Title)
		}
	})

	t.Run("extracts article links in order", func(t *testing.T) {
		t.Parallel()

		result, err := NewParser().Parse(strings.NewReader(articleHTML))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		want := []string{"Main_Page", "C_(programming_language)", "Python_(programming_language)"}
		if !reflect.DeepEqual(result.Links, want) {
			t.Errorf("got links %v, want %v", result.Links, want)
		}
	})

	t.Run("skips script style noscript and comments", func(t *testing.T) {
		t.Parallel()

		result, err := NewParser().Parse(strings.NewReader(articleHTML))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		for _, unwanted := range []string{"wgTitle", "color", "Enable JavaScript", "hidden comment"} {
			if strings.Contains(result.Text, unwanted) {
				t.Errorf("text should not contain %q: %q", unwanted, result.Text)
			}
		}
		if !strings.Contains(result.Text, "Go is a statically typed language.") {
			t.Errorf("missing body text: %q", result.Text)
		}
	})

	t.Run("content selector scopes text and links", func(t *testing.T) {
		t.Parallel()

		result, err := NewParser(WithContentSelector("#mw-content-text")).Parse(strings.NewReader(articleHTML))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if strings.Contains(result.Text, "Main page") {
			t.Errorf("navigation text leaked into scoped text: %q", result.Text)
		}
		want := []string{"C_(programming_language)", "Python_(programming_language)"}
		if !reflect.DeepEqual(result.Links, want) {
			t.Errorf("got links %v, want %v", result.Links, want)
		}
	})

	t.Run("unmatched selector falls back to document", func(t *testing.T) {
		t.Parallel()

		result, err := NewParser(WithContentSelector("#missing")).Parse(strings.NewReader(articleHTML))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if !strings.Contains(result.Text, "Main page") {
			t.Errorf("expected whole document text, got %q", result.Text)
		}
	})

	t.Run("custom link prefix", func(t *testing.T) {
		t.Parallel()

		page := `<a href="/docs/Alpha">a</a><a href="/wiki/Beta">b</a>`
		result, err := NewParser(WithLinkPrefix("/docs/")).Parse(strings.NewReader(page))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if !reflect.DeepEqual(result.Links, []string{"Alpha"}) {
			t.Errorf("got links %v", result.Links)
		}
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		result, err := NewParser().Parse(strings.NewReader(""))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if result.Text != "" || len(result.Links) != 0 || result.Links == nil {
			t.Errorf("unexpected result %+v", result)
		}
	})
}

// TestNamespaceFilter tests administrative namespace detection.
func TestNamespaceFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want bool
	}{
		{id: "Talk:Go", want: true},
		{id: "Special:Random", want: true},
		{id: "Template_talk:Infobox", want: true},
		{id: "File:Gopher.png", want: true},
		{id: "Go_(programming_language)", want: false},
		{id: "C++", want: false},
		{id: "ISO:8601", want: false},
		{id: "talk:Go", want: false},
		{id: "Star_Wars:_Episode_IV", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()
			if got := IsNamespaced(tt.id); got != tt.want {
				t.Errorf("IsNamespaced(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}

	got := FilterNamespaces([]string{"A", "Help:Contents", "B", "Category:X"})
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("got %v", got)
	}
}
