package search_test

import (
	"strings"
	"testing"

	"github.com/starward/othala/internal/models"
	"github.com/starward/othala/internal/search"
	"github.com/starward/othala/internal/store"
	"github.com/starward/othala/internal/testutil"
)

func writeRecord(t *testing.T, root string, rec models.Record) {
	t.Helper()
	if err := store.WriteEntry(rec, root); err != nil {
		t.Fatalf("WriteEntry(%s): %v", rec.Meta().ID, err)
	}
}

func TestSearchBlankQuery(t *testing.T) {
	root := testutil.TestRoot(t)
	testutil.WriteSummary(t, root, "anything", "Anything")

	for _, q := range []string{"", "   ", "\t"} {
		results, err := search.Search(q, root)
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if len(results) != 0 {
			t.Errorf("Search(%q) = %d results, want 0", q, len(results))
		}
	}
}

func TestSearchFindsSingleMatch(t *testing.T) {
	root := testutil.TestRoot(t)
	writeRecord(t, root, &models.Summary{
		RecordMeta: models.RecordMeta{
			ID: "semaphore-protocol", Type: models.KindSummary,
			Topic: "Semaphore Protocol Testing", Status: models.StatusActive,
			Tags: []string{"zk"},
		},
		Summary: "Testing zero-knowledge group signaling with the semaphore circuits.",
	})
	writeRecord(t, root, &models.Summary{
		RecordMeta: models.RecordMeta{
			ID: "build-caching", Type: models.KindSummary,
			Topic: "Build Caching", Status: models.StatusActive,
		},
		Summary: "Remote cache behavior across CI runners.",
	})

	results, err := search.Search("semaphore", root)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	got := results[0]
	if got.ID != "semaphore-protocol" || got.Kind != models.KindSummary {
		t.Errorf("hit = %+v", got)
	}
	if got.Topic != "Semaphore Protocol Testing" {
		t.Errorf("Topic = %q", got.Topic)
	}
	if !strings.Contains(strings.ToLower(got.Snippet), "semaphore") {
		t.Errorf("snippet does not contain the query: %q", got.Snippet)
	}
	if got.Score <= 0 {
		t.Errorf("Score = %d, want positive", got.Score)
	}
}

func TestSearchScoringContract(t *testing.T) {
	root := testutil.TestRoot(t)
	// Searchable text is exactly "alpha beta gamma delta":
	// phrase match +10, both words present +1 each, both first occur within
	// 100 chars +2 each, one phrase occurrence +1 = 17.
	writeRecord(t, root, &models.Summary{
		RecordMeta: models.RecordMeta{
			ID: "alpha", Type: models.KindSummary,
			Topic: "beta", Status: models.StatusActive,
		},
		Summary: "gamma delta",
	})

	results, err := search.Search("gamma delta", root)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Score != 17 {
		t.Errorf("Score = %d, want 17", results[0].Score)
	}
}

func TestSearchRanksPhraseAboveScatteredWords(t *testing.T) {
	root := testutil.TestRoot(t)
	writeRecord(t, root, &models.Summary{
		RecordMeta: models.RecordMeta{
			ID: "exact", Type: models.KindSummary,
			Topic: "Exact", Status: models.StatusActive,
		},
		Summary: "The proof generation pipeline end to end.",
	})
	writeRecord(t, root, &models.Summary{
		RecordMeta: models.RecordMeta{
			ID: "scattered", Type: models.KindSummary,
			Topic: "Scattered", Status: models.StatusActive,
		},
		Summary: "Proof sketches and witness generation proof generation notes.",
	})

	results, err := search.Search("proof generation", root)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Score < results[1].Score {
		t.Errorf("results not sorted by score: %+v", results)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	root := testutil.TestRoot(t)
	testutil.WriteSummary(t, root, "semaphore", "Semaphore Protocol")

	lower, err := search.Search("semaphore", root)
	if err != nil {
		t.Fatal(err)
	}
	upper, err := search.Search("SEMAPHORE", root)
	if err != nil {
		t.Fatal(err)
	}
	if len(lower) != 1 || len(upper) != 1 || lower[0].Score != upper[0].Score {
		t.Errorf("case sensitivity leaked: %+v vs %+v", lower, upper)
	}
}

func TestSnippetEllipses(t *testing.T) {
	root := testutil.TestRoot(t)
	long := strings.Repeat("padding ", 20) + "needle here" + strings.Repeat(" trailing", 20)
	writeRecord(t, root, &models.Summary{
		RecordMeta: models.RecordMeta{
			ID: "long-one", Type: models.KindSummary,
			Topic: "Long", Status: models.StatusActive,
		},
		Summary: long,
	})

	results, err := search.Search("needle", root)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	snip := results[0].Snippet
	if !strings.HasPrefix(snip, "...") || !strings.HasSuffix(snip, "...") {
		t.Errorf("snippet should be elided on both sides: %q", snip)
	}
	if !strings.Contains(snip, "needle") {
		t.Errorf("snippet lost the match: %q", snip)
	}
}

func TestSnippetFallbackWhenQueryOnlyInMetadata(t *testing.T) {
	root := testutil.TestRoot(t)
	writeRecord(t, root, &models.Summary{
		RecordMeta: models.RecordMeta{
			ID: "tag-hit", Type: models.KindSummary,
			Topic: "Unrelated Topic", Status: models.StatusActive,
			Tags: []string{"obscura"},
		},
		Summary: strings.Repeat("body text without the term ", 10),
	})

	results, err := search.Search("obscura", root)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if len(results[0].Snippet) > 100 {
		t.Errorf("fallback snippet too long: %d chars", len(results[0].Snippet))
	}
}

func TestFilterByTagCaseInsensitive(t *testing.T) {
	root := testutil.TestRoot(t)
	writeRecord(t, root, &models.Summary{
		RecordMeta: models.RecordMeta{
			ID: "upper-tagged", Type: models.KindSummary,
			Topic: "A", Status: models.StatusActive,
			Tags: []string{"ZK"},
		},
		Summary: "s",
	})
	writeRecord(t, root, &models.Summary{
		RecordMeta: models.RecordMeta{
			ID: "lower-tagged", Type: models.KindSummary,
			Topic: "B", Status: models.StatusActive,
			Tags: []string{"zk"},
		},
		Summary: "s",
	})
	testutil.WriteSummary(t, root, "other", "Other")

	for _, tag := range []string{"zk", "ZK", "Zk"} {
		got, err := search.FilterByTag(tag, root)
		if err != nil {
			t.Fatalf("FilterByTag(%q): %v", tag, err)
		}
		if len(got) != 2 {
			t.Errorf("FilterByTag(%q) = %d records, want both casings", tag, len(got))
		}
	}
}

func TestFilterByStatusAndType(t *testing.T) {
	root := testutil.TestRoot(t)
	testutil.WriteSummary(t, root, "sum-1", "A")
	entry := testutil.WriteJournalEntry(t, root, "ent-1", "B")
	entry.Status = models.StatusArchived
	if err := store.WriteEntry(entry, root); err != nil {
		t.Fatal(err)
	}

	archived, err := search.FilterByStatus("Archived", root)
	if err != nil {
		t.Fatalf("FilterByStatus: %v", err)
	}
	if len(archived) != 1 || archived[0].Meta().ID != "ent-1" {
		t.Errorf("archived = %d records", len(archived))
	}

	summaries, err := search.FilterByType("summary", root)
	if err != nil {
		t.Fatalf("FilterByType: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Meta().ID != "sum-1" {
		t.Errorf("summaries = %d records", len(summaries))
	}
}

func TestAllTags(t *testing.T) {
	root := testutil.TestRoot(t)
	writeRecord(t, root, &models.Summary{
		RecordMeta: models.RecordMeta{ID: "a", Type: models.KindSummary, Topic: "A", Status: models.StatusActive, Tags: []string{"ZK", "testing"}},
		Summary: "s",
	})
	writeRecord(t, root, &models.Summary{
		RecordMeta: models.RecordMeta{ID: "b", Type: models.KindSummary, Topic: "B", Status: models.StatusActive, Tags: []string{"zk", "build"}},
		Summary: "s",
	})

	tags, err := search.AllTags(root)
	if err != nil {
		t.Fatalf("AllTags: %v", err)
	}
	if len(tags) != 3 {
		t.Fatalf("tags = %+v, want 3 distinct", tags)
	}
	if tags[0].Tag != "zk" || tags[0].Count != 2 {
		t.Errorf("top tag = %+v, want zk x2 (case-folded)", tags[0])
	}
	// Equal counts are alphabetical.
	if tags[1].Tag != "build" || tags[2].Tag != "testing" {
		t.Errorf("tiebreak order = %q, %q", tags[1].Tag, tags[2].Tag)
	}
}

func TestSearchableTextIncludesOutcome(t *testing.T) {
	rec := &models.JournalEntry{
		RecordMeta: models.RecordMeta{ID: "x", Type: models.KindEntry, Topic: "T", Status: models.StatusActive},
		Date: "2026-08-01",
		Outcome: &models.Outcome{
			Worked:    []string{"Streaming parser held up"},
			Failed:    []string{"Batch mode stalled"},
			Surprised: []string{"GC pauses dominated"},
		},
	}
	text := search.SearchableText(rec)
	for _, want := range []string{"streaming parser", "batch mode", "gc pauses"} {
		if !strings.Contains(text, want) {
			t.Errorf("searchable text missing %q: %q", want, text)
		}
	}
}
