package models

import (
	"strings"
	"testing"
)

const summaryYAML = `
id: semaphore-protocol
type: summary
topic: Semaphore Protocol
status: active
tags:
  - zk
summary: Zero-knowledge group membership proofs.
learnings:
  - insight: Nullifiers prevent double signaling
    context: Ran into this while testing
links:
  - id: zk-identity
    relationship: part_of
`

const entryYAML = `
id: semaphore-testing-session
type: entry
topic: Semaphore Protocol
status: active
date: "2026-08-01"
context: Testing proof generation in the browser.
outcome:
  worked:
    - WASM prover finished under a second
  failed:
    - Safari ran out of memory
`

func TestDecodeSummary(t *testing.T) {
	rec, err := Decode([]byte(summaryYAML))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	s, ok := rec.(*Summary)
	if !ok {
		t.Fatalf("expected *Summary, got %T", rec)
	}
	if s.ID != "semaphore-protocol" || s.Kind() != KindSummary {
		t.Errorf("meta = %q/%q", s.ID, s.Kind())
	}
	if len(s.Learnings) != 1 || s.Learnings[0].Insight == "" {
		t.Errorf("learnings not parsed: %+v", s.Learnings)
	}
	if len(s.Links) != 1 || s.Links[0].Relationship != "part_of" {
		t.Errorf("links not parsed: %+v", s.Links)
	}
}

func TestDecodeEntry(t *testing.T) {
	rec, err := Decode([]byte(entryYAML))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	e, ok := rec.(*JournalEntry)
	if !ok {
		t.Fatalf("expected *JournalEntry, got %T", rec)
	}
	if e.Date != "2026-08-01" || e.Outcome == nil || len(e.Outcome.Worked) != 1 {
		t.Errorf("entry fields not parsed: %+v", e)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	if _, err := Decode([]byte("id: x\ntype: recipe\n")); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rec, err := Decode([]byte(summaryYAML))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	data, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	again, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode(Encode): %v", err)
	}
	s1 := rec.(*Summary)
	s2 := again.(*Summary)
	if s1.ID != s2.ID || s1.Summary != s2.Summary || len(s1.Learnings) != len(s2.Learnings) {
		t.Errorf("round trip mismatch: %+v vs %+v", s1, s2)
	}
}

func TestToMap(t *testing.T) {
	rec, err := Decode([]byte(entryYAML))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	doc, err := ToMap(rec)
	if err != nil {
		t.Fatalf("ToMap: %v", err)
	}
	if doc["id"] != "semaphore-testing-session" || doc["type"] != "entry" {
		t.Errorf("map fields = %v / %v", doc["id"], doc["type"])
	}
	if _, ok := doc["outcome"].(map[string]any); !ok {
		t.Errorf("outcome should be a nested map, got %T", doc["outcome"])
	}
}

func TestEncodeAddsNoHeader(t *testing.T) {
	rec, _ := Decode([]byte(entryYAML))
	data, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.HasPrefix(string(data), "#") {
		t.Error("Encode should not emit header comments; the store owns those")
	}
}
