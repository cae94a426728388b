// Package link manages typed, directed edges between records. Links are
// stored inline on the source record only; the inverse direction is derived
// on demand by scanning all records.
package link

import (
	"fmt"

	"github.com/starward/othala/internal/apperr"
)

// inverses maps every relationship symbol to its inverse. The mapping is an
// involution: applying it twice returns the original symbol, and no symbol
// maps to itself.
var inverses = map[string]string{
	"evolved_into":  "evolved_from",
	"evolved_from":  "evolved_into",
	"part_of":       "contains",
	"contains":      "part_of",
	"blocked_by":    "blocks",
	"blocks":        "blocked_by",
	"supersedes":    "superseded_by",
	"superseded_by": "supersedes",
	"references":    "referenced_by",
	"referenced_by": "references",
	"depends_on":    "dependency_of",
	"dependency_of": "depends_on",
	"enables":       "enabled_by",
	"enabled_by":    "enables",
	"informs":       "informed_by",
	"informed_by":   "informs",
}

func init() {
	// The table is hand-maintained; fail fast if an edit breaks it.
	for r, inv := range inverses {
		if r == inv {
			panic(fmt.Sprintf("link: relationship %q maps to itself", r))
		}
		back, ok := inverses[inv]
		if !ok || back != r {
			panic(fmt.Sprintf("link: inverse of %q is not involutive", r))
		}
	}
}

// Relationships returns the full relationship alphabet.
func Relationships() []string {
	out := make([]string, 0, len(inverses))
	for r := range inverses {
		out = append(out, r)
	}
	return out
}

// IsKnownRelationship reports whether r belongs to the alphabet.
func IsKnownRelationship(r string) bool {
	_, ok := inverses[r]
	return ok
}

// Inverse returns the inverse relationship for r.
func Inverse(r string) (string, error) {
	inv, ok := inverses[r]
	if !ok {
		return "", fmt.Errorf("link: %w: %q", apperr.ErrUnknownRelationship, r)
	}
	return inv, nil
}
