package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starward/othala/internal/apperr"
	"github.com/starward/othala/internal/recordservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *recordservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *recordservice.Service) *Handler {
	return &Handler{svc: svc}
}

// writeError maps service failures onto status codes: absence → 404,
// validation → 400 with the violation list, conflicts → 409, bad input →
// 400, everything structural → 500.
func writeError(w http.ResponseWriter, op string, err error) {
	var ve *recordservice.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"errors": ve.Result.Errors,
		})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody("already exists"))
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody("checksum mismatch"))
	case errors.Is(err, apperr.ErrTargetNotFound), errors.Is(err, apperr.ErrUnknownRelationship):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListRecords handles GET /records with optional tag/status/type filters.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.svc.ListRecords(r.Context(), requestRoot(r), recordservice.ListFilter{
		Tag:    q.Get("tag"),
		Status: q.Get("status"),
		Kind:   q.Get("type"),
	})
	if err != nil {
		writeError(w, "list records", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records": items,
		"total":   len(items),
	})
}

// GetRecord handles GET /records/{id}.
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.GetRecord(r.Context(), requestRoot(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get record", err)
		return
	}
	w.Header().Set("ETag", `"`+detail.Checksum+`"`)
	writeJSON(w, http.StatusOK, detail)
}

// CreateRecord handles POST /records.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	rec, err := decodeRecordJSON(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	detail, err := h.svc.CreateRecord(r.Context(), requestRoot(r), rec)
	if err != nil {
		writeError(w, "create record", err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

// UpdateRecord handles PUT /records/{id} with optional If-Match concurrency.
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	id := chi.URLParam(r, "id")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	rec, err := decodeRecordJSON(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	// Strip surrounding quotes if present (standard ETag format).
	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	detail, err := h.svc.UpdateRecord(r.Context(), requestRoot(r), id, rec, ifMatch)
	if err != nil {
		writeError(w, "update record", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// DeleteRecord handles DELETE /records/{id}.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRecord(r.Context(), requestRoot(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete record", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	results, err := h.svc.Search(r.Context(), requestRoot(r), q)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// Tags handles GET /tags.
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Tags(r.Context(), requestRoot(r))
	if err != nil {
		writeError(w, "tags", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tags": tags,
	})
}

// Links handles GET /records/{id}/links.
func (h *Handler) Links(w http.ResponseWriter, r *http.Request) {
	links, err := h.svc.Links(r.Context(), requestRoot(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "links", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"links": links,
	})
}

// AddLink handles POST /records/{id}/links.
func (h *Handler) AddLink(w http.ResponseWriter, r *http.Request) {
	var req addLinkRequest
	if err := readJSONBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.To == "" || req.Relationship == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("to and relationship are required"))
		return
	}
	added, err := h.svc.AddLink(r.Context(), requestRoot(r), chi.URLParam(r, "id"), req.To, req.Relationship, req.Notes)
	if err != nil {
		writeError(w, "add link", err)
		return
	}
	status := http.StatusCreated
	if !added {
		status = http.StatusOK // duplicate, skipped
	}
	writeJSON(w, status, map[string]any{
		"added": added,
	})
}

// RemoveLink handles DELETE /records/{id}/links/{target}. The optional
// relationship query parameter narrows the match.
func (h *Handler) RemoveLink(w http.ResponseWriter, r *http.Request) {
	removed, err := h.svc.RemoveLink(r.Context(), requestRoot(r),
		chi.URLParam(r, "id"), chi.URLParam(r, "target"), r.URL.Query().Get("relationship"))
	if err != nil {
		writeError(w, "remove link", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"removed": removed,
	})
}

// Backlinks handles GET /records/{id}/backlinks.
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	backlinks, err := h.svc.Backlinks(r.Context(), requestRoot(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "backlinks", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"backlinks": backlinks,
	})
}

// Related handles GET /records/{id}/related.
func (h *Handler) Related(w http.ResponseWriter, r *http.Request) {
	related, err := h.svc.Related(r.Context(), requestRoot(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "related", err)
		return
	}
	writeJSON(w, http.StatusOK, related)
}

// ValidateAll handles GET /validate: a whole-repository health check.
func (h *Handler) ValidateAll(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.ValidateAll(r.Context(), requestRoot(r))
	if err != nil {
		writeError(w, "validate all", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// Reconcile handles POST /reconcile: repairs manifest/filesystem drift.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Reconcile(r.Context(), requestRoot(r))
	if err != nil {
		writeError(w, "reconcile", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func readJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
