package frequency

// Table maps a token to the number of times it occurred.
// Every key is a non-empty token and every count is at least 1.
//
// A Table belongs to exactly one crawl. It is not safe for concurrent use
// and must not be shared between requests.
type Table map[string]int

// NewTable returns an empty Table.
func NewTable() Table {
	return make(Table)
}

// CountTokens builds a Table from a token sequence.
func CountTokens(tokens []string) Table {
	t := make(Table, len(tokens))
	for _, token := range tokens {
		t.Add(token)
	}
	return t
}

// Add increments the count of token by one. Empty tokens are ignored.
func (t Table) Add(token string) {
	if token == "" {
		return
	}
	t[token]++
}

// Merge adds every count in counts into t, creating missing keys.
// Empty keys and non-positive counts are skipped so the table never holds
// an entry with a count below 1.
func (t Table) Merge(counts Table) {
	for token, count := range counts {
		if token == "" || count <= 0 {
			continue
		}
		t[token] += count
	}
}

// Total returns the sum of all counts.
func (t Table) Total() int {
	total := 0
	for _, count := range t {
		total += count
	}
	return total
}

// Clone returns an independent copy of t.
func (t Table) Clone() Table {
	c := make(Table, len(t))
	for token, count := range t {
		c[token] = count
	}
	return c
}
