package frequency

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Ranked is one row of a Ranking.
type Ranked struct {
	Word       string
	Count      int
	Percentage float64
}

// Ranking is an ordered list of words, most frequent first.
//
// It marshals to a JSON object whose keys keep the slice order and whose
// values are [count, percentage] pairs:
//
//	{"python": [2, 33.33], "is": [2, 33.33], "fun": [1, 16.67]}
type Ranking []Ranked

// Sort orders entries by descending count. Equal counts are ordered by word
// so output is reproducible; callers must not attach meaning to that order.
func Sort(entries Entries) Ranking {
	ranking := make(Ranking, 0, len(entries))
	for word, entry := range entries {
		ranking = append(ranking, Ranked{
			Word:       word,
			Count:      entry.Count,
			Percentage: entry.Percentage,
		})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Count != ranking[j].Count {
			return ranking[i].Count > ranking[j].Count
		}
		return ranking[i].Word < ranking[j].Word
	})

	return ranking
}

// Top returns at most n leading rows. n <= 0 returns the full ranking.
func (r Ranking) Top(n int) Ranking {
	if n <= 0 || n >= len(r) {
		return r
	}
	return r[:n]
}

// MarshalJSON implements json.Marshaler.
func (r Ranking) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, row := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(row.Word)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal([2]any{row.Count, row.Percentage})
		if err != nil {
			return nil, fmt.Errorf("failed to encode %q: %w", row.Word, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// errMalformedRanking is returned when decoding input that is not an object
// of [count, percentage] pairs.
var errMalformedRanking = errors.New("malformed word frequency object")

// UnmarshalJSON implements json.Unmarshaler and keeps the key order of data.
func (r *Ranking) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*r = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errMalformedRanking
	}

	ranking := make(Ranking, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		word, ok := keyTok.(string)
		if !ok {
			return errMalformedRanking
		}

		var pair []json.Number
		if err := dec.Decode(&pair); err != nil {
			return fmt.Errorf("%w: %s: %w", errMalformedRanking, word, err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("%w: %s: expected [count, percentage]", errMalformedRanking, word)
		}
		count, err := pair[0].Int64()
		if err != nil {
			return fmt.Errorf("%w: %s: %w", errMalformedRanking, word, err)
		}
		percentage, err := pair[1].Float64()
		if err != nil {
			return fmt.Errorf("%w: %s: %w", errMalformedRanking, word, err)
		}
		ranking = append(ranking, Ranked{Word: word, Count: int(count), Percentage: percentage})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = ranking
	return nil
}
