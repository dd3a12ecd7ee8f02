package model

// Document is one unit of crawlable content.
type Document struct {
	// ID is the identifier used to fetch the document. It is compared by
	// exact string equality and never normalized.
	ID string `json:"id"`

	// Title is the human-readable title, if the source provides one.
	Title string `json:"title,omitempty"`

	// Text is the plain text content fed to the tokenizer.
	Text string `json:"text"`

	// Links are the identifiers this document links to, in document order.
	// Sources filter out namespace-prefixed administrative pages before
	// returning them.
	Links []string `json:"links,omitempty"`
}

// NewDocument creates a document with the given identifier, text and links.
func NewDocument(id, text string, links ...string) *Document {
	return &Document{
		ID:    id,
		Text:  text,
		Links: links,
	}
}
