// Package testutil provides shared test helpers for provisioning temporary
// knowledge-base roots.
package testutil

import (
	"testing"

	"github.com/starward/othala/internal/kb"
	"github.com/starward/othala/internal/models"
	"github.com/starward/othala/internal/store"
)

// TestRoot provisions a temporary knowledge base and returns its root.
func TestRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := kb.Init(root); err != nil {
		t.Fatalf("kb.Init: %v", err)
	}
	return root
}

// WriteSummary stores a minimal valid summary and returns it.
func WriteSummary(t *testing.T, root, id, topic string) *models.Summary {
	t.Helper()
	s := &models.Summary{
		RecordMeta: models.RecordMeta{
			ID:     id,
			Type:   models.KindSummary,
			Topic:  topic,
			Status: models.StatusActive,
		},
		Summary: "Aggregated knowledge about " + topic + ".",
	}
	if err := store.WriteEntry(s, root); err != nil {
		t.Fatalf("WriteEntry(%s): %v", id, err)
	}
	return s
}

// WriteJournalEntry stores a minimal valid journal entry and returns it.
func WriteJournalEntry(t *testing.T, root, id, topic string) *models.JournalEntry {
	t.Helper()
	e := &models.JournalEntry{
		RecordMeta: models.RecordMeta{
			ID:     id,
			Type:   models.KindEntry,
			Topic:  topic,
			Status: models.StatusActive,
		},
		Date:    "2026-08-01",
		Context: "Working session on " + topic + ".",
	}
	if err := store.WriteEntry(e, root); err != nil {
		t.Fatalf("WriteEntry(%s): %v", id, err)
	}
	return e
}
