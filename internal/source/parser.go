package source

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DefaultLinkPrefix is the href prefix of article links on MediaWiki sites.
const DefaultLinkPrefix = "/wiki/"

// skippedElements hold no readable text.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// Parser extracts the title, text and article links of an HTML page.
//
// goquery locates the content scope and the links; the text itself is
// collected with a golang.org/x/net/html walk so non-text elements can be
// skipped.
type Parser struct {
	// linkPrefix selects article links; it is stripped from each href.
	linkPrefix string

	// contentSelector limits extraction to the matching elements.
	// Empty means the whole document.
	contentSelector string
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithLinkPrefix sets the href prefix that marks an article link.
func WithLinkPrefix(prefix string) ParserOption {
	return func(p *Parser) {
		p.linkPrefix = prefix
	}
}

// WithContentSelector limits text and link extraction to the elements
// matching a CSS selector, for example "#mw-content-text". If nothing
// matches, the whole document is used.
func WithContentSelector(selector string) ParserOption {
	return func(p *Parser) {
		p.contentSelector = strings.TrimSpace(selector)
	}
}

// NewParser creates a Parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		linkPrefix: DefaultLinkPrefix,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseResult contains what a Parser extracted from one page.
type ParseResult struct {
	// Title is the page title from the <title> tag.
	Title string

	// Text is the readable text, with text nodes separated by spaces.
	Text string

	// Links are article identifiers in document order, namespaced ones removed.
	Links []string
}

// Parse parses an HTML page.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return nil, err
	}

	scope := doc.Selection
	if p.contentSelector != "" {
		if sel := doc.Find(p.contentSelector); sel.Length() > 0 {
			scope = sel
		}
	}

	var text strings.Builder
	for _, n := range scope.Nodes {
		collectText(n, &text)
	}

	links := make([]string, 0)
	scope.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if id, ok := p.articleID(href); ok {
			links = append(links, id)
		}
	})

	return &ParseResult{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Text:  strings.TrimSpace(text.String()),
		Links: FilterNamespaces(links),
	}, nil
}

// articleID converts an href into an article identifier.
func (p *Parser) articleID(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if p.linkPrefix == "" || !strings.HasPrefix(href, p.linkPrefix) {
		return "", false
	}

	id := strings.TrimPrefix(href, p.linkPrefix)
	id, _, _ = strings.Cut(id, "#")
	if id == "" {
		return "", false
	}
	return id, true
}

// collectText appends the text below n, skipping non-text elements.
func collectText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		if s := strings.TrimSpace(n.Data); s != "" {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(s)
		}
		return
	case html.ElementNode:
		if skippedElements[n.Data] {
			return
		}
	case html.CommentNode:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
