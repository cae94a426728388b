package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starward/othala/internal/kb"
	"github.com/starward/othala/internal/models"
)

// ReconcileReport describes what a repair pass changed.
type ReconcileReport struct {
	Registered []string `json:"registered"` // orphaned files added to the manifest
	Dropped    []string `json:"dropped"`    // dangling manifest entries removed
}

// Changed reports whether the pass mutated the manifest.
func (r *ReconcileReport) Changed() bool {
	return len(r.Registered) > 0 || len(r.Dropped) > 0
}

// Reconcile repairs manifest/filesystem drift left by the two-phase write:
// record files present under the content directories but absent from the
// manifest are registered, and manifest entries whose files are gone are
// dropped. The manifest is only rewritten when something changed.
func Reconcile(root string) (*ReconcileReport, error) {
	idx, err := LoadIndex(root)
	if err != nil {
		return nil, err
	}
	report := &ReconcileReport{}

	// Dangling manifest entries.
	for id, e := range idx.Entries {
		abs := filepath.Clean(filepath.Join(kb.ConfigDir(root), filepath.FromSlash(e.Path)))
		if _, err := os.Stat(abs); os.IsNotExist(err) {
			delete(idx.Entries, id)
			report.Dropped = append(report.Dropped, id)
		}
	}

	// Orphaned record files.
	registered := make(map[string]struct{}, len(idx.Entries))
	for _, e := range idx.Entries {
		abs := filepath.Clean(filepath.Join(kb.ConfigDir(root), filepath.FromSlash(e.Path)))
		registered[abs] = struct{}{}
	}
	for _, dir := range []string{kb.EntriesDirName, kb.SummariesDirName} {
		base := filepath.Join(root, dir)
		files, err := os.ReadDir(base)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("store: reconcile scan %s: %w", dir, err)
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
				continue
			}
			abs := filepath.Join(base, f.Name())
			if _, ok := registered[abs]; ok {
				continue
			}
			data, err := os.ReadFile(abs)
			if err != nil {
				continue
			}
			rec, err := models.Decode(data)
			if err != nil || rec.Meta().ID == "" {
				continue
			}
			id := rec.Meta().ID
			if _, dup := idx.Entries[id]; dup {
				// Same id already registered elsewhere; the manifest wins.
				continue
			}
			rel, err := filepath.Rel(kb.ConfigDir(root), abs)
			if err != nil {
				continue
			}
			idx.Entries[id] = IndexEntry{Path: filepath.ToSlash(rel), Type: rec.Kind()}
			report.Registered = append(report.Registered, id)
		}
	}

	sort.Strings(report.Registered)
	sort.Strings(report.Dropped)

	if report.Changed() {
		if err := SaveIndex(idx, root); err != nil {
			return nil, err
		}
	}
	return report, nil
}
