// Package recordservice coordinates the store, validator, linker, and
// search engine behind one service surface consumed by the HTTP API, the
// CLI, and the MCP server.
package recordservice

import (
	"context"
	"fmt"

	"github.com/starward/othala/internal/apperr"
	"github.com/starward/othala/internal/checksum"
	"github.com/starward/othala/internal/link"
	"github.com/starward/othala/internal/models"
	"github.com/starward/othala/internal/schema"
	"github.com/starward/othala/internal/search"
	"github.com/starward/othala/internal/store"
)

// ValidationError carries accumulated schema violations for a rejected write.
type ValidationError struct {
	Result *schema.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record failed schema validation (%d violations)", len(e.Result.Errors))
}

// RecordDetail is the full representation of a record.
type RecordDetail struct {
	Record   models.Record `json:"record"`
	Checksum string        `json:"checksum"`
}

// RecordListItem is a lightweight item in a list response.
type RecordListItem struct {
	ID     string        `json:"id"`
	Kind   models.Kind   `json:"kind"`
	Topic  string        `json:"topic"`
	Status models.Status `json:"status"`
	Tags   []string      `json:"tags"`
}

// ListFilter narrows ListRecords output. Empty fields match everything.
type ListFilter struct {
	Tag    string
	Status string
	Kind   string
}

// Service coordinates record operations for one validator instance. The
// root is a per-call parameter so callers (notably the HTTP layer's root
// override header) can address multiple knowledge bases.
type Service struct {
	validator *schema.Validator
}

// NewService creates a new record service.
func NewService(validator *schema.Validator) *Service {
	return &Service{validator: validator}
}

// Validator exposes the service's validator, e.g. for cache invalidation.
func (s *Service) Validator() *schema.Validator { return s.validator }

// GetRecord reads one record with its content checksum.
func (s *Service) GetRecord(_ context.Context, root, id string) (*RecordDetail, error) {
	rec, err := store.ReadEntry(id, root)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperr.ErrNotFound
	}
	raw, err := store.ReadRaw(id, root)
	if err != nil {
		return nil, err
	}
	return &RecordDetail{Record: rec, Checksum: checksum.Sum(raw)}, nil
}

// CreateRecord validates and stores a new record.
func (s *Service) CreateRecord(ctx context.Context, root string, rec models.Record) (*RecordDetail, error) {
	exists, err := store.EntryExists(rec.Meta().ID, root)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.ErrAlreadyExists
	}
	return s.write(ctx, root, rec)
}

// UpdateRecord validates and overwrites an existing record. A non-empty
// ifMatch checksum enforces optimistic concurrency against the stored bytes.
func (s *Service) UpdateRecord(ctx context.Context, root, id string, rec models.Record, ifMatch string) (*RecordDetail, error) {
	if rec.Meta().ID != id {
		return nil, fmt.Errorf("recordservice: body id %q does not match %q", rec.Meta().ID, id)
	}
	raw, err := store.ReadRaw(id, root)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, apperr.ErrNotFound
	}
	if ifMatch != "" && ifMatch != checksum.Sum(raw) {
		return nil, apperr.ErrConflict
	}
	return s.write(ctx, root, rec)
}

func (s *Service) write(_ context.Context, root string, rec models.Record) (*RecordDetail, error) {
	res, err := s.validator.Validate(rec, root)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		return nil, &ValidationError{Result: res}
	}
	if err := store.WriteEntry(rec, root); err != nil {
		return nil, err
	}
	raw, err := store.ReadRaw(rec.Meta().ID, root)
	if err != nil {
		return nil, err
	}
	return &RecordDetail{Record: rec, Checksum: checksum.Sum(raw)}, nil
}

// DeleteRecord removes a record's file and manifest entry.
func (s *Service) DeleteRecord(_ context.Context, root, id string) error {
	exists, err := store.EntryExists(id, root)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.ErrNotFound
	}
	_, err = store.DeleteEntry(id, root)
	return err
}

// ListRecords returns lightweight items for every record matching the filter.
func (s *Service) ListRecords(_ context.Context, root string, f ListFilter) ([]RecordListItem, error) {
	var (
		records []models.Record
		err     error
	)
	switch {
	case f.Tag != "":
		records, err = search.FilterByTag(f.Tag, root)
	case f.Status != "":
		records, err = search.FilterByStatus(f.Status, root)
	case f.Kind != "":
		records, err = search.FilterByType(f.Kind, root)
	default:
		records, err = store.ReadAllEntries(root)
	}
	if err != nil {
		return nil, err
	}

	items := make([]RecordListItem, len(records))
	for i, rec := range records {
		m := rec.Meta()
		items[i] = RecordListItem{
			ID:     m.ID,
			Kind:   rec.Kind(),
			Topic:  m.Topic,
			Status: m.Status,
			Tags:   nonNilSlice(m.Tags),
		}
	}
	return items, nil
}

// Search runs the heuristic search engine.
func (s *Service) Search(_ context.Context, root, query string) ([]search.Result, error) {
	return search.Search(query, root)
}

// Tags returns tag usage counts across all records.
func (s *Service) Tags(_ context.Context, root string) ([]search.TagCount, error) {
	return search.AllTags(root)
}

// Links returns a record's outgoing links.
func (s *Service) Links(_ context.Context, root, id string) ([]models.Link, error) {
	return link.GetLinks(id, root)
}

// Backlinks derives the inverse-direction links pointing at id.
func (s *Service) Backlinks(_ context.Context, root, id string) ([]link.Backlink, error) {
	return link.GetBacklinks(id, root)
}

// Related resolves links and backlinks into hydrated records.
func (s *Service) Related(_ context.Context, root, id string) (*link.Related, error) {
	return link.GetRelatedEntries(id, root)
}

// AddLink appends a typed link between two records.
func (s *Service) AddLink(_ context.Context, root, fromID, toID, relationship, notes string) (bool, error) {
	return link.AddLink(fromID, toID, relationship, notes, root)
}

// RemoveLink removes matching links from a record.
func (s *Service) RemoveLink(_ context.Context, root, fromID, toID, relationship string) (int, error) {
	return link.RemoveLink(fromID, toID, relationship, root)
}

// ValidateAll validates every record of the root.
func (s *Service) ValidateAll(_ context.Context, root string) (map[string]*schema.Result, error) {
	return s.validator.ValidateAll(root)
}

// Reconcile repairs manifest/filesystem drift.
func (s *Service) Reconcile(_ context.Context, root string) (*store.ReconcileReport, error) {
	return store.Reconcile(root)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
