// Package search implements substring search with a deterministic scoring
// heuristic over all records of a root.
package search

import (
	"sort"
	"strings"

	"github.com/starward/othala/internal/models"
	"github.com/starward/othala/internal/store"
)

// Result is one search hit.
type Result struct {
	ID      string      `json:"id"`
	Kind    models.Kind `json:"kind"`
	Topic   string      `json:"topic"`
	Snippet string      `json:"snippet"`
	Score   int         `json:"score"`
}

// TagCount pairs a normalized tag with its usage count.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// SearchableText flattens a record into a single lower-cased blob: id,
// topic, tags, then the kind-specific prose fields.
func SearchableText(rec models.Record) string {
	m := rec.Meta()
	parts := []string{m.ID, m.Topic}
	parts = append(parts, m.Tags...)

	switch r := rec.(type) {
	case *models.Summary:
		parts = append(parts, r.Summary)
		for _, l := range r.Learnings {
			parts = append(parts, l.Insight, l.Context)
		}
		for _, d := range r.Decisions {
			parts = append(parts, d.Rationale, d.TradeOffs)
		}
		parts = append(parts, r.OpenQuestions...)
	case *models.JournalEntry:
		parts = append(parts, r.Context, r.Approach)
		if r.Outcome != nil {
			parts = append(parts, r.Outcome.Worked...)
			parts = append(parts, r.Outcome.Failed...)
			parts = append(parts, r.Outcome.Surprised...)
		}
	}

	joined := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			joined = append(joined, p)
		}
	}
	return strings.ToLower(strings.Join(joined, " "))
}

// Search returns every record whose searchable text contains the query as a
// literal substring, scored and sorted by score descending. The exact point
// values are part of the observable contract:
//
//	+10 when the full phrase appears,
//	+1 per query word present, +2 more when that word first occurs within
//	    the first 100 characters,
//	+min(5, occurrence count of the full phrase).
//
// A blank query returns no results.
func Search(query, root string) ([]Result, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []Result{}, nil
	}

	records, err := store.ReadAllEntries(root)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, rec := range records {
		text := SearchableText(rec)
		if !strings.Contains(text, q) {
			continue
		}
		results = append(results, Result{
			ID:      rec.Meta().ID,
			Kind:    rec.Kind(),
			Topic:   rec.Meta().Topic,
			Snippet: snippet(rec, q),
			Score:   score(text, q),
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if results == nil {
		results = []Result{}
	}
	return results, nil
}

func score(text, q string) int {
	s := 0
	if strings.Contains(text, q) {
		s += 10
	}
	for _, word := range strings.Fields(q) {
		idx := strings.Index(text, word)
		if idx < 0 {
			continue
		}
		s++
		if idx < 100 {
			s += 2
		}
	}
	occurrences := strings.Count(text, q)
	if occurrences > 5 {
		occurrences = 5
	}
	return s + occurrences
}

// snippet extracts context around the first occurrence of the query in the
// kind-appropriate source field, with ±50 characters and ellipsis markers.
// When the query does not occur in the field, the first 100 characters are
// returned instead.
func snippet(rec models.Record, q string) string {
	source := rec.Meta().Topic
	switch r := rec.(type) {
	case *models.Summary:
		if r.Summary != "" {
			source = r.Summary
		}
	case *models.JournalEntry:
		if r.Context != "" {
			source = r.Context
		}
	}

	idx := strings.Index(strings.ToLower(source), q)
	if idx < 0 {
		if len(source) > 100 {
			return source[:100]
		}
		return source
	}

	start := idx - 50
	if start < 0 {
		start = 0
	}
	end := idx + len(q) + 50
	if end > len(source) {
		end = len(source)
	}

	out := source[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(source) {
		out += "..."
	}
	return out
}

// FilterByTag returns records carrying the tag, case-insensitively.
func FilterByTag(tag, root string) ([]models.Record, error) {
	return filter(root, func(rec models.Record) bool {
		for _, t := range rec.Meta().Tags {
			if strings.EqualFold(t, tag) {
				return true
			}
		}
		return false
	})
}

// FilterByStatus returns records in the given status, case-insensitively.
func FilterByStatus(status, root string) ([]models.Record, error) {
	return filter(root, func(rec models.Record) bool {
		return strings.EqualFold(string(rec.Meta().Status), status)
	})
}

// FilterByType returns records of the given kind, case-insensitively.
func FilterByType(kind, root string) ([]models.Record, error) {
	return filter(root, func(rec models.Record) bool {
		return strings.EqualFold(string(rec.Kind()), kind)
	})
}

func filter(root string, keep func(models.Record) bool) ([]models.Record, error) {
	records, err := store.ReadAllEntries(root)
	if err != nil {
		return nil, err
	}
	out := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// AllTags counts lower-cased tags across all records, sorted by count
// descending (alphabetical within equal counts).
func AllTags(root string) ([]TagCount, error) {
	records, err := store.ReadAllEntries(root)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, rec := range records {
		for _, t := range rec.Meta().Tags {
			counts[strings.ToLower(t)]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TagCount{Tag: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out, nil
}
