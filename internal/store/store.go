// Package store resolves record identifiers to files through the index
// manifest and keeps the manifest synchronized with the filesystem.
//
// Absence is a value here: reads of unregistered or missing records return
// nil rather than an error. Only structural failures (unparsable YAML,
// filesystem errors) propagate.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/starward/othala/internal/kb"
	"github.com/starward/othala/internal/models"
)

// IndexEntry is one manifest registration. Path is relative to the
// configuration directory, not the root.
type IndexEntry struct {
	Path string      `yaml:"path" json:"path"`
	Type models.Kind `yaml:"type" json:"type"`
}

// Index is the manifest mapping record ids to files.
type Index struct {
	Version string                `yaml:"version" json:"version"`
	Entries map[string]IndexEntry `yaml:"entries" json:"entries"`
}

// ListedEntry is a lightweight manifest enumeration item.
type ListedEntry struct {
	ID   string      `json:"id"`
	Path string      `json:"path"`
	Kind models.Kind `json:"kind"`
}

const indexHeader = "# yaml-language-server: $schema=" + kb.SchemaDirName + "/index.schema.json\n"

// LoadIndex reads the manifest for a root. A missing manifest reads as an
// empty index at version 1.0.0.
func LoadIndex(root string) (*Index, error) {
	data, err := os.ReadFile(kb.IndexPath(root))
	if os.IsNotExist(err) {
		return &Index{Version: "1.0.0", Entries: map[string]IndexEntry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read index: %w", err)
	}
	var idx Index
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("store: parse index: %w", err)
	}
	if idx.Entries == nil {
		idx.Entries = map[string]IndexEntry{}
	}
	return &idx, nil
}

// SaveIndex writes the manifest atomically.
func SaveIndex(idx *Index, root string) error {
	data, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("store: encode index: %w", err)
	}
	return writeFileAtomic(kb.IndexPath(root), append([]byte(indexHeader), data...))
}

// GetIndexEntry returns the manifest registration for id, or nil.
func GetIndexEntry(id, root string) (*IndexEntry, error) {
	idx, err := LoadIndex(root)
	if err != nil {
		return nil, err
	}
	if e, ok := idx.Entries[id]; ok {
		return &e, nil
	}
	return nil, nil
}

// ResolvePath returns the absolute file path for a registered id, or ""
// when the id is not in the manifest.
func ResolvePath(id, root string) (string, error) {
	e, err := GetIndexEntry(id, root)
	if err != nil || e == nil {
		return "", err
	}
	return filepath.Clean(filepath.Join(kb.ConfigDir(root), filepath.FromSlash(e.Path))), nil
}

// ReadEntry reads and parses a record. It returns (nil, nil) when the id is
// unregistered or its file is missing.
func ReadEntry(id, root string) (models.Record, error) {
	p, err := ResolvePath(id, root)
	if err != nil || p == "" {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read record %s: %w", id, err)
	}
	rec, err := models.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("store: record %s: %w", id, err)
	}
	return rec, nil
}

// ReadRaw returns the serialized bytes of a registered record, or nil when
// the id is unregistered or its file is missing. Callers use this for
// content checksums; the header comment is part of the returned bytes.
func ReadRaw(id, root string) ([]byte, error) {
	p, err := ResolvePath(id, root)
	if err != nil || p == "" {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read record %s: %w", id, err)
	}
	return data, nil
}

// WriteEntry serializes a record to its file and registers it in the
// manifest. An already-registered id keeps its existing file location;
// new ids are placed under the kind-specific content directory. The file
// write and the manifest update are two sequential steps.
func WriteEntry(rec models.Record, root string) error {
	m := rec.Meta()
	if m.ID == "" {
		return fmt.Errorf("store: record has no id")
	}

	idx, err := LoadIndex(root)
	if err != nil {
		return err
	}

	rel := ""
	if existing, ok := idx.Entries[m.ID]; ok {
		rel = existing.Path
	} else {
		rel = filepath.ToSlash(filepath.Join("..", contentDir(rec.Kind()), m.ID+".yaml"))
	}
	abs := filepath.Clean(filepath.Join(kb.ConfigDir(root), filepath.FromSlash(rel)))

	body, err := models.Encode(rec)
	if err != nil {
		return err
	}
	header := fmt.Sprintf("# yaml-language-server: $schema=../%s/%s/%s.schema.json\n",
		kb.ConfigDirName, kb.SchemaDirName, rec.Kind())
	if err := writeFileAtomic(abs, append([]byte(header), body...)); err != nil {
		return err
	}

	idx.Entries[m.ID] = IndexEntry{Path: rel, Type: rec.Kind()}
	return SaveIndex(idx, root)
}

// DeleteEntry removes a record's file and its manifest entry, reporting
// whether a file was actually deleted.
func DeleteEntry(id, root string) (bool, error) {
	idx, err := LoadIndex(root)
	if err != nil {
		return false, err
	}
	e, ok := idx.Entries[id]
	if !ok {
		return false, nil
	}

	removed := false
	abs := filepath.Clean(filepath.Join(kb.ConfigDir(root), filepath.FromSlash(e.Path)))
	switch err := os.Remove(abs); {
	case err == nil:
		removed = true
	case os.IsNotExist(err):
		// Dangling manifest entry; dropping it below is the repair.
	default:
		return false, fmt.Errorf("store: delete record %s: %w", id, err)
	}

	delete(idx.Entries, id)
	if err := SaveIndex(idx, root); err != nil {
		return removed, err
	}
	return removed, nil
}

// ListEntries enumerates the manifest without reading record files,
// ordered by id.
func ListEntries(root string) ([]ListedEntry, error) {
	idx, err := LoadIndex(root)
	if err != nil {
		return nil, err
	}
	out := make([]ListedEntry, 0, len(idx.Entries))
	for id, e := range idx.Entries {
		out = append(out, ListedEntry{ID: id, Path: e.Path, Kind: e.Type})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ReadAllEntries reads every registered record, silently discarding
// entries whose files are missing or unreadable. This is the bulk
// primitive the linker and search engine build on.
func ReadAllEntries(root string) ([]models.Record, error) {
	listed, err := ListEntries(root)
	if err != nil {
		return nil, err
	}
	out := make([]models.Record, 0, len(listed))
	for _, e := range listed {
		rec, err := ReadEntry(e.ID, root)
		if err != nil || rec == nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// EntryExists reports manifest membership for id.
func EntryExists(id, root string) (bool, error) {
	e, err := GetIndexEntry(id, root)
	if err != nil {
		return false, err
	}
	return e != nil, nil
}

func contentDir(kind models.Kind) string {
	if kind == models.KindSummary {
		return kb.SummariesDirName
	}
	return kb.EntriesDirName
}
