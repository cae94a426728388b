package link

import (
	"fmt"

	"github.com/starward/othala/internal/apperr"
	"github.com/starward/othala/internal/models"
	"github.com/starward/othala/internal/store"
)

// Backlink is the derived, inverse-direction view of a stored link: a record
// at FromID carries a link pointing at the queried id, observed from the
// target's perspective.
type Backlink struct {
	FromID string      `json:"from_id"`
	Link   models.Link `json:"link"`
}

// RelatedEntry is a fully hydrated neighbor of a record.
type RelatedEntry struct {
	Record       models.Record `json:"record"`
	Relationship string        `json:"relationship"`
	Notes        string        `json:"notes,omitempty"`
}

// Related groups a record's hydrated neighbors by direction.
type Related struct {
	Outgoing []RelatedEntry `json:"outgoing"`
	Incoming []RelatedEntry `json:"incoming"`
}

// AddLink appends a typed link from one record to another and persists the
// source record. The source and target must both exist; a link with the same
// (target, relationship) pair is skipped. Returns true when a link was added.
func AddLink(fromID, toID, relationship, notes, root string) (bool, error) {
	if !IsKnownRelationship(relationship) {
		return false, fmt.Errorf("link: %w: %q", apperr.ErrUnknownRelationship, relationship)
	}

	rec, err := store.ReadEntry(fromID, root)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, fmt.Errorf("link: source record %s: %w", fromID, apperr.ErrNotFound)
	}

	exists, err := store.EntryExists(toID, root)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("link: %w: %s", apperr.ErrTargetNotFound, toID)
	}

	m := rec.Meta()
	for _, l := range m.Links {
		if l.ID == toID && l.Relationship == relationship {
			return false, nil
		}
	}

	m.Links = append(m.Links, models.Link{ID: toID, Relationship: relationship, Notes: notes})
	if err := store.WriteEntry(rec, root); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveLink removes links from a record matching the target id and, when
// relationship is non-empty, the exact relationship. Returns how many were
// removed; the record is only rewritten when something matched.
func RemoveLink(fromID, toID, relationship, root string) (int, error) {
	rec, err := store.ReadEntry(fromID, root)
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, fmt.Errorf("link: source record %s: %w", fromID, apperr.ErrNotFound)
	}

	m := rec.Meta()
	kept := m.Links[:0]
	removed := 0
	for _, l := range m.Links {
		if l.ID == toID && (relationship == "" || l.Relationship == relationship) {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	if removed == 0 {
		return 0, nil
	}

	if len(kept) == 0 {
		m.Links = nil
	} else {
		m.Links = kept
	}
	if err := store.WriteEntry(rec, root); err != nil {
		return 0, err
	}
	return removed, nil
}

// GetLinks returns a record's own link list, empty when the record is absent.
func GetLinks(id, root string) ([]models.Link, error) {
	rec, err := store.ReadEntry(id, root)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return []models.Link{}, nil
	}
	return rec.Meta().Links, nil
}

// GetBacklinks derives the inverse-direction links pointing at id by
// scanning every record's outgoing links. O(records × links); there is no
// cached reverse index, so results are as fresh as this scan.
func GetBacklinks(id, root string) ([]Backlink, error) {
	records, err := store.ReadAllEntries(root)
	if err != nil {
		return nil, err
	}

	var out []Backlink
	for _, rec := range records {
		m := rec.Meta()
		for _, l := range m.Links {
			if l.ID != id {
				continue
			}
			rel := l.Relationship
			if inv, err := Inverse(rel); err == nil {
				rel = inv
			}
			out = append(out, Backlink{
				FromID: m.ID,
				Link:   models.Link{ID: m.ID, Relationship: rel, Notes: l.Notes},
			})
		}
	}
	return out, nil
}

// GetRelatedEntries resolves a record's links and backlinks into fully
// hydrated records. Dangling targets are silently skipped.
func GetRelatedEntries(id, root string) (*Related, error) {
	links, err := GetLinks(id, root)
	if err != nil {
		return nil, err
	}
	backlinks, err := GetBacklinks(id, root)
	if err != nil {
		return nil, err
	}

	related := &Related{}
	for _, l := range links {
		rec, err := store.ReadEntry(l.ID, root)
		if err != nil || rec == nil {
			continue
		}
		related.Outgoing = append(related.Outgoing, RelatedEntry{
			Record:       rec,
			Relationship: l.Relationship,
			Notes:        l.Notes,
		})
	}
	for _, bl := range backlinks {
		rec, err := store.ReadEntry(bl.FromID, root)
		if err != nil || rec == nil {
			continue
		}
		related.Incoming = append(related.Incoming, RelatedEntry{
			Record:       rec,
			Relationship: bl.Link.Relationship,
			Notes:        bl.Link.Notes,
		})
	}
	return related, nil
}

// HasLink reports whether a link from one record to another exists,
// optionally constrained to an exact relationship.
func HasLink(fromID, toID, relationship, root string) (bool, error) {
	links, err := GetLinks(fromID, root)
	if err != nil {
		return false, err
	}
	for _, l := range links {
		if l.ID == toID && (relationship == "" || l.Relationship == relationship) {
			return true, nil
		}
	}
	return false, nil
}
