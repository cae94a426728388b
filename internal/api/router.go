package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starward/othala/internal/recordservice"
)

// NewRouter creates a chi router with all API routes mounted.
// defaultRoot is the knowledge-base root used when a request carries no
// override header. sseHandler, if non-nil, is mounted at GET /events
// inside the auth group.
func NewRouter(svc *recordservice.Service, defaultRoot string, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))
	r.Use(RootResolver(defaultRoot))

	// Records CRUD.
	r.Get("/records", h.ListRecords)
	r.Post("/records", h.CreateRecord)
	r.Get("/records/{id}", h.GetRecord)
	r.Put("/records/{id}", h.UpdateRecord)
	r.Delete("/records/{id}", h.DeleteRecord)

	// Relationship graph.
	r.Get("/records/{id}/links", h.Links)
	r.Post("/records/{id}/links", h.AddLink)
	r.Delete("/records/{id}/links/{target}", h.RemoveLink)
	r.Get("/records/{id}/backlinks", h.Backlinks)
	r.Get("/records/{id}/related", h.Related)

	// Search and filters.
	r.Get("/search", h.Search)
	r.Get("/tags", h.Tags)

	// Repository health.
	r.Get("/validate", h.ValidateAll)
	r.Post("/reconcile", h.Reconcile)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
