package link_test

import (
	"errors"
	"testing"

	"github.com/starward/othala/internal/apperr"
	"github.com/starward/othala/internal/link"
	"github.com/starward/othala/internal/store"
	"github.com/starward/othala/internal/testutil"
)

func TestAddLink(t *testing.T) {
	root := testutil.TestRoot(t)
	testutil.WriteJournalEntry(t, root, "session-1", "Semaphore")
	testutil.WriteSummary(t, root, "semaphore", "Semaphore")

	added, err := link.AddLink("session-1", "semaphore", "part_of", "first run", root)
	if err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	if !added {
		t.Error("expected added=true")
	}

	links, err := link.GetLinks("session-1", root)
	if err != nil {
		t.Fatalf("GetLinks: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("links = %d, want 1", len(links))
	}
	l := links[0]
	if l.ID != "semaphore" || l.Relationship != "part_of" || l.Notes != "first run" {
		t.Errorf("link = %+v", l)
	}

	// The target record carries no stored link.
	targetLinks, _ := link.GetLinks("semaphore", root)
	if len(targetLinks) != 0 {
		t.Errorf("target gained stored links: %+v", targetLinks)
	}
}

func TestAddLinkDuplicateSkipped(t *testing.T) {
	root := testutil.TestRoot(t)
	testutil.WriteJournalEntry(t, root, "a", "T")
	testutil.WriteSummary(t, root, "b", "T")

	if added, err := link.AddLink("a", "b", "references", "", root); err != nil || !added {
		t.Fatalf("first AddLink = %v, %v", added, err)
	}
	added, err := link.AddLink("a", "b", "references", "different note", root)
	if err != nil {
		t.Fatalf("second AddLink: %v", err)
	}
	if added {
		t.Error("duplicate (target, relationship) should be skipped")
	}

	// Same target with another relationship is a distinct edge.
	added, err = link.AddLink("a", "b", "informs", "", root)
	if err != nil || !added {
		t.Fatalf("AddLink with second relationship = %v, %v", added, err)
	}
	links, _ := link.GetLinks("a", root)
	if len(links) != 2 {
		t.Errorf("links = %d, want 2", len(links))
	}
}

func TestAddLinkErrors(t *testing.T) {
	root := testutil.TestRoot(t)
	testutil.WriteJournalEntry(t, root, "a", "T")
	testutil.WriteSummary(t, root, "b", "T")

	if _, err := link.AddLink("a", "b", "friends_with", "", root); !errors.Is(err, apperr.ErrUnknownRelationship) {
		t.Errorf("unknown relationship error = %v", err)
	}
	if _, err := link.AddLink("missing", "b", "references", "", root); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing source error = %v", err)
	}
	if _, err := link.AddLink("a", "missing", "references", "", root); !errors.Is(err, apperr.ErrTargetNotFound) {
		t.Errorf("missing target error = %v", err)
	}
}

func TestRemoveLink(t *testing.T) {
	root := testutil.TestRoot(t)
	testutil.WriteJournalEntry(t, root, "a", "T")
	testutil.WriteSummary(t, root, "b", "T")
	if _, err := link.AddLink("a", "b", "references", "", root); err != nil {
		t.Fatal(err)
	}
	if _, err := link.AddLink("a", "b", "informs", "", root); err != nil {
		t.Fatal(err)
	}

	removed, err := link.RemoveLink("a", "b", "references", root)
	if err != nil {
		t.Fatalf("RemoveLink: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if has, _ := link.HasLink("a", "b", "references", root); has {
		t.Error("references link still present")
	}
	if has, _ := link.HasLink("a", "b", "informs", root); !has {
		t.Error("informs link removed by mistake")
	}

	// Empty relationship removes every remaining link to the target.
	removed, err = link.RemoveLink("a", "b", "", root)
	if err != nil || removed != 1 {
		t.Fatalf("RemoveLink(all) = %d, %v", removed, err)
	}
	links, _ := link.GetLinks("a", root)
	if len(links) != 0 {
		t.Errorf("links = %+v, want none", links)
	}

	removed, err = link.RemoveLink("a", "b", "", root)
	if err != nil || removed != 0 {
		t.Errorf("RemoveLink on empty = %d, %v", removed, err)
	}
}

func TestGetBacklinksDerivesInverse(t *testing.T) {
	root := testutil.TestRoot(t)
	testutil.WriteJournalEntry(t, root, "session-1", "Semaphore")
	testutil.WriteJournalEntry(t, root, "session-2", "Semaphore")
	testutil.WriteSummary(t, root, "semaphore", "Semaphore")
	if _, err := link.AddLink("session-1", "semaphore", "references", "", root); err != nil {
		t.Fatal(err)
	}
	if _, err := link.AddLink("session-2", "semaphore", "part_of", "second half", root); err != nil {
		t.Fatal(err)
	}

	backlinks, err := link.GetBacklinks("semaphore", root)
	if err != nil {
		t.Fatalf("GetBacklinks: %v", err)
	}
	if len(backlinks) != 2 {
		t.Fatalf("backlinks = %d, want 2", len(backlinks))
	}

	byFrom := map[string]string{}
	for _, bl := range backlinks {
		byFrom[bl.FromID] = bl.Link.Relationship
		if bl.Link.ID != bl.FromID {
			t.Errorf("backlink ID should name the linking record: %+v", bl)
		}
	}
	if byFrom["session-1"] != "referenced_by" {
		t.Errorf("inverse of references = %q, want referenced_by", byFrom["session-1"])
	}
	if byFrom["session-2"] != "contains" {
		t.Errorf("inverse of part_of = %q, want contains", byFrom["session-2"])
	}
}

func TestGetBacklinksNone(t *testing.T) {
	root := testutil.TestRoot(t)
	testutil.WriteSummary(t, root, "lonely", "Lonely")

	backlinks, err := link.GetBacklinks("lonely", root)
	if err != nil {
		t.Fatalf("GetBacklinks: %v", err)
	}
	if len(backlinks) != 0 {
		t.Errorf("backlinks = %+v, want none", backlinks)
	}
}

func TestGetRelatedEntries(t *testing.T) {
	root := testutil.TestRoot(t)
	testutil.WriteJournalEntry(t, root, "session-1", "Semaphore")
	testutil.WriteSummary(t, root, "semaphore", "Semaphore")
	testutil.WriteSummary(t, root, "zk", "Zero Knowledge")
	if _, err := link.AddLink("semaphore", "zk", "part_of", "", root); err != nil {
		t.Fatal(err)
	}
	if _, err := link.AddLink("session-1", "semaphore", "references", "", root); err != nil {
		t.Fatal(err)
	}

	related, err := link.GetRelatedEntries("semaphore", root)
	if err != nil {
		t.Fatalf("GetRelatedEntries: %v", err)
	}
	if len(related.Outgoing) != 1 || related.Outgoing[0].Record.Meta().ID != "zk" {
		t.Errorf("outgoing = %+v", related.Outgoing)
	}
	if related.Outgoing[0].Relationship != "part_of" {
		t.Errorf("outgoing relationship = %q", related.Outgoing[0].Relationship)
	}
	if len(related.Incoming) != 1 || related.Incoming[0].Record.Meta().ID != "session-1" {
		t.Errorf("incoming = %+v", related.Incoming)
	}
	if related.Incoming[0].Relationship != "referenced_by" {
		t.Errorf("incoming relationship = %q", related.Incoming[0].Relationship)
	}
}

func TestGetRelatedEntriesSkipsDangling(t *testing.T) {
	root := testutil.TestRoot(t)
	testutil.WriteJournalEntry(t, root, "a", "T")
	testutil.WriteSummary(t, root, "b", "T")
	if _, err := link.AddLink("a", "b", "references", "", root); err != nil {
		t.Fatal(err)
	}

	// The stored link survives, but its target no longer resolves.
	if _, err := store.DeleteEntry("b", root); err != nil {
		t.Fatal(err)
	}

	related, err := link.GetRelatedEntries("a", root)
	if err != nil {
		t.Fatalf("GetRelatedEntries: %v", err)
	}
	if len(related.Outgoing) != 0 {
		t.Errorf("dangling target hydrated: %+v", related.Outgoing)
	}
}
