// Package kb locates and provisions Othala knowledge-base roots.
//
// A root is any directory containing the hidden configuration directory
// .othala/, which holds the index manifest and the schema documents. Record
// content lives beside it under entries/ and summaries/.
package kb

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/starward/othala/internal/apperr"
)

// Well-known names inside a knowledge base.
const (
	ConfigDirName    = ".othala"
	IndexFileName    = "index.yaml"
	SchemaDirName    = "schemas"
	EntriesDirName   = "entries"
	SummariesDirName = "summaries"
)

// ConfigDir returns the configuration directory for a root.
func ConfigDir(root string) string {
	return filepath.Join(root, ConfigDirName)
}

// SchemaDir returns the schema directory for a root.
func SchemaDir(root string) string {
	return filepath.Join(root, ConfigDirName, SchemaDirName)
}

// IndexPath returns the manifest file path for a root.
func IndexPath(root string) string {
	return filepath.Join(root, ConfigDirName, IndexFileName)
}

// FindRoot walks from startDir upward through parent directories until it
// finds the root marker, returning the absolute root path. It fails with
// apperr.ErrNotInKnowledgeBase when the filesystem root is reached first.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("kb: resolve start dir: %w", err)
	}
	for {
		if hasMarker(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("kb: %w (searched from %s)", apperr.ErrNotInKnowledgeBase, startDir)
		}
		dir = parent
	}
}

// IsInsideKnowledgeBase reports whether startDir sits under a root.
func IsInsideKnowledgeBase(startDir string) bool {
	_, err := FindRoot(startDir)
	return err == nil
}

// hasMarker reports whether dir carries the root marker: either the hidden
// configuration directory or an index manifest inside it.
func hasMarker(dir string) bool {
	if info, err := os.Stat(filepath.Join(dir, ConfigDirName)); err == nil && info.IsDir() {
		return true
	}
	if info, err := os.Stat(filepath.Join(dir, ConfigDirName, IndexFileName)); err == nil && !info.IsDir() {
		return true
	}
	return false
}

// defaultManifest is the content written for a freshly provisioned root.
const defaultManifest = "# yaml-language-server: $schema=" + SchemaDirName + "/index.schema.json\n" +
	"version: \"1.0.0\"\n" +
	"entries: {}\n"

// Init provisions targetDir as a knowledge base. On a fresh directory it
// creates the manifest, the schema directory with the three schema documents,
// and the two content directories. When a manifest already exists it only
// refreshes the schema files, leaving manifest and content untouched, so it
// is safe to re-run after cloning a content repository that omits schemas.
func Init(targetDir string) error {
	abs, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("kb: resolve target dir: %w", err)
	}

	if err := os.MkdirAll(SchemaDir(abs), 0o755); err != nil {
		return fmt.Errorf("kb: create config dir: %w", err)
	}

	freshRoot := false
	if _, err := os.Stat(IndexPath(abs)); os.IsNotExist(err) {
		freshRoot = true
	} else if err != nil {
		return fmt.Errorf("kb: stat manifest: %w", err)
	}

	if freshRoot {
		if err := os.WriteFile(IndexPath(abs), []byte(defaultManifest), 0o644); err != nil {
			return fmt.Errorf("kb: write manifest: %w", err)
		}
		for _, d := range []string{EntriesDirName, SummariesDirName} {
			if err := os.MkdirAll(filepath.Join(abs, d), 0o755); err != nil {
				return fmt.Errorf("kb: create content dir %s: %w", d, err)
			}
		}
	}

	// Schema files are rewritten in both modes (create and repair).
	for name, doc := range SchemaDocuments {
		p := filepath.Join(SchemaDir(abs), name)
		if err := os.WriteFile(p, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("kb: write schema %s: %w", name, err)
		}
	}
	return nil
}
