package api

import (
	"encoding/json"
	"fmt"

	"github.com/starward/othala/internal/models"
)

// decodeRecordJSON parses a JSON record body into the concrete type named
// by its "type" field.
func decodeRecordJSON(data []byte) (models.Record, error) {
	var probe struct {
		Type models.Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	switch probe.Type {
	case models.KindSummary:
		var s models.Summary
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("invalid summary body: %w", err)
		}
		return &s, nil
	case models.KindEntry:
		var e models.JournalEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("invalid entry body: %w", err)
		}
		return &e, nil
	default:
		return nil, fmt.Errorf("unknown record type %q", probe.Type)
	}
}

// addLinkRequest is the body of POST /records/{id}/links.
type addLinkRequest struct {
	To           string `json:"to"`
	Relationship string `json:"relationship"`
	Notes        string `json:"notes,omitempty"`
}
