package frequency

import (
	"github.com/nao1215/wordcrawl/internal/tokenizer"
)

// Entry is a word's raw count together with its share of the table total.
type Entry struct {
	// Count is the number of occurrences across the crawl.
	Count int `json:"count"`

	// Percentage is 100 * Count / total, in [0, 100].
	Percentage float64 `json:"percentage"`
}

// Entries maps a word to its normalized entry.
type Entries map[string]Entry

// Normalize converts raw counts into (count, percentage) entries.
// An empty table, or one whose total is zero, yields an empty result rather
// than dividing by zero.
func Normalize(t Table) Entries {
	total := t.Total()
	if total <= 0 {
		return Entries{}
	}

	entries := make(Entries, len(t))
	for word, count := range t {
		if count <= 0 {
			continue
		}
		entries[word] = Entry{
			Count:      count,
			Percentage: float64(count) / float64(total) * 100,
		}
	}
	return entries
}

// Exclude returns a copy of entries without the words in ignore.
// Ignore words are case folded before comparison; stored words are already
// folded by the tokenizer. Percentages are carried over unchanged.
func Exclude(entries Entries, ignore []string) Entries {
	skip := make(map[string]struct{}, len(ignore))
	for _, word := range ignore {
		if folded := tokenizer.Fold(word); folded != "" {
			skip[folded] = struct{}{}
		}
	}

	out := make(Entries, len(entries))
	for word, entry := range entries {
		if _, ok := skip[word]; ok {
			continue
		}
		out[word] = entry
	}
	return out
}

// ApplyPercentileThreshold keeps the entries whose percentage is at least
// percentile. The boundary is inclusive.
func ApplyPercentileThreshold(entries Entries, percentile float64) Entries {
	out := make(Entries, len(entries))
	for word, entry := range entries {
		if entry.Percentage >= percentile {
			out[word] = entry
		}
	}
	return out
}

// TotalPercentage sums the percentages of entries.
func TotalPercentage(entries Entries) float64 {
	sum := 0.0
	for _, entry := range entries {
		sum += entry.Percentage
	}
	return sum
}
