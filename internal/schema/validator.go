// Package schema validates records against the JSON-Schema documents of a
// knowledge-base root.
//
// A Validator owns a per-root cache of compiled schemas. It is an explicit
// object rather than package-global state so callers control its lifetime;
// when schema files change on disk underneath a loaded root the cache must
// be invalidated with Reset or Invalidate.
package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/starward/othala/internal/kb"
	"github.com/starward/othala/internal/models"
	"github.com/starward/othala/internal/store"
)

// Violation is one schema failure, addressed by JSON pointer into the record.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Keyword string `json:"keyword,omitempty"`
}

// Result accumulates the outcome of validating one record.
type Result struct {
	Valid  bool        `json:"valid"`
	Errors []Violation `json:"errors"`
}

type compiledSet struct {
	byKind map[models.Kind]*jsonschema.Schema
}

// Validator validates records against the schemas of a root, caching
// compiled schema sets per root path.
type Validator struct {
	mu    sync.Mutex
	cache map[string]*compiledSet
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{cache: make(map[string]*compiledSet)}
}

// Reset drops every cached schema set.
func (v *Validator) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cache = make(map[string]*compiledSet)
}

// Invalidate drops the cached schema set for one root.
func (v *Validator) Invalidate(root string) {
	key, err := filepath.Abs(root)
	if err != nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.cache, key)
}

// Validate checks a record against the schema matching its declared kind.
// Schema violations accumulate into the Result; only structural failures
// (missing schema directory, unreadable schema files) return an error.
// An unknown kind yields a single synthetic violation.
func (v *Validator) Validate(rec models.Record, root string) (*Result, error) {
	set, err := v.compiled(root)
	if err != nil {
		return nil, err
	}

	sch, ok := set.byKind[rec.Kind()]
	if !ok {
		return &Result{Valid: false, Errors: []Violation{{
			Message: fmt.Sprintf("no schema for record kind %q", rec.Kind()),
			Keyword: "schema",
		}}}, nil
	}

	doc, err := models.ToMap(rec)
	if err != nil {
		return nil, err
	}

	if err := sch.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return &Result{Valid: false, Errors: flatten(ve)}, nil
		}
		return nil, fmt.Errorf("schema: validate: %w", err)
	}
	return &Result{Valid: true, Errors: []Violation{}}, nil
}

// ValidateAll validates every readable record of a root, keyed by id.
func (v *Validator) ValidateAll(root string) (map[string]*Result, error) {
	records, err := store.ReadAllEntries(root)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Result, len(records))
	for _, rec := range records {
		res, err := v.Validate(rec, root)
		if err != nil {
			return nil, err
		}
		out[rec.Meta().ID] = res
	}
	return out, nil
}

// IsValid is a boolean convenience wrapper around Validate.
func (v *Validator) IsValid(rec models.Record, root string) (bool, error) {
	res, err := v.Validate(rec, root)
	if err != nil {
		return false, err
	}
	return res.Valid, nil
}

// compiled returns the cached schema set for root, compiling it on first use.
func (v *Validator) compiled(root string) (*compiledSet, error) {
	key, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("schema: resolve root: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if set, ok := v.cache[key]; ok {
		return set, nil
	}

	set, err := compile(key)
	if err != nil {
		return nil, err
	}
	v.cache[key] = set
	return set, nil
}

// compile loads the root's schema documents and resolves the cross-file
// references between them (the entry schema refs shared definitions in the
// summary schema) in one pass.
func compile(root string) (*compiledSet, error) {
	dir := kb.SchemaDir(root)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("schema: missing schema directory %s", dir)
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7

	files := map[models.Kind]string{
		models.KindEntry:   kb.EntrySchemaFile,
		models.KindSummary: kb.SummarySchemaFile,
	}
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("schema: read %s: %w", name, err)
		}
		if err := c.AddResource(schemaURL(dir, name), strings.NewReader(string(data))); err != nil {
			return nil, fmt.Errorf("schema: add %s: %w", name, err)
		}
	}

	set := &compiledSet{byKind: make(map[models.Kind]*jsonschema.Schema, len(files))}
	for kind, name := range files {
		sch, err := c.Compile(schemaURL(dir, name))
		if err != nil {
			return nil, fmt.Errorf("schema: compile %s: %w", name, err)
		}
		set.byKind[kind] = sch
	}
	return set, nil
}

// schemaURL builds the resource URL for a schema file so that relative $refs
// between sibling files resolve without touching the network.
func schemaURL(dir, name string) string {
	return "file://" + filepath.ToSlash(filepath.Join(dir, name))
}

// flatten walks a validation error tree and keeps the leaf causes.
func flatten(ve *jsonschema.ValidationError) []Violation {
	if len(ve.Causes) == 0 {
		return []Violation{{
			Path:    ve.InstanceLocation,
			Message: ve.Message,
			Keyword: keyword(ve.KeywordLocation),
		}}
	}
	var out []Violation
	for _, c := range ve.Causes {
		out = append(out, flatten(c)...)
	}
	return out
}

// keyword extracts the failing keyword from a keyword location pointer,
// skipping $ref hops and array positions.
func keyword(loc string) string {
	segs := strings.Split(strings.Trim(loc, "/"), "/")
	for i := len(segs) - 1; i >= 0; i-- {
		s := segs[i]
		if s == "" || s == "$ref" || isDigits(s) {
			continue
		}
		return s
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
