// Package frequency accumulates word counts and post-processes them.
//
// A Table is the mutable multiset a crawl merges document counts into. Once
// the crawl is finished the table is handed to a chain of pure functions:
//
//	entries := frequency.Normalize(table)                      // count -> (count, %)
//	entries = frequency.Exclude(entries, ignoreList)            // drop ignored words
//	entries = frequency.ApplyPercentileThreshold(entries, 1.0)  // keep % >= 1
//	ranking := frequency.Sort(entries)                          // descending count
//
// Percentages are always relative to the whole table. Excluding a word does
// not rescale the remaining percentages, so after exclusion they no longer
// sum to 100.
package frequency
