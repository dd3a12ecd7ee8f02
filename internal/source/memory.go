package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/nao1215/wordcrawl/internal/model"
)

// Memory is a DocumentSource backed by a map. It is safe for concurrent use
// and counts how often each identifier was fetched.
type Memory struct {
	mu      sync.Mutex
	docs    map[string]*model.Document
	fetches map[string]int
}

// NewMemory creates a Memory source holding docs.
func NewMemory(docs ...*model.Document) *Memory {
	m := &Memory{
		docs:    make(map[string]*model.Document, len(docs)),
		fetches: make(map[string]int),
	}
	for _, doc := range docs {
		m.Put(doc)
	}
	return m
}

// Put stores doc, replacing any document with the same ID.
// Namespaced links are dropped on the way in.
func (m *Memory) Put(doc *model.Document) {
	if doc == nil {
		return
	}
	stored := *doc
	stored.Links = FilterNamespaces(doc.Links)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = &stored
}

// Fetch implements crawler.DocumentSource.
func (m *Memory) Fetch(ctx context.Context, id string) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", model.ErrDocumentNotFound, id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.fetches[id]++
	doc, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrDocumentNotFound, id)
	}

	out := *doc
	out.Links = append([]string(nil), doc.Links...)
	return &out, nil
}

// FetchCount returns how many times id was fetched.
func (m *Memory) FetchCount(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches[id]
}

// TotalFetches returns the number of Fetch calls.
func (m *Memory) TotalFetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, n := range m.fetches {
		total += n
	}
	return total
}

// Len returns the number of stored documents.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}
