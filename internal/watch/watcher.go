// Package watch observes a knowledge-base root for external edits: record
// file changes are surfaced as events, and schema file changes invalidate
// the validator's compiled-schema cache.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starward/othala/internal/kb"
	"github.com/starward/othala/internal/schema"
	"github.com/starward/othala/internal/store"
)

// EventCallback is called after a record file change has been observed.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, id string)

// Watch starts an fsnotify watcher on the root's content and schema
// directories and processes change events until ctx is cancelled. Rename
// events schedule a debounced store.Reconcile pass so the manifest follows
// files moved or removed behind the store's back.
func Watch(ctx context.Context, root string, validator *schema.Validator, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := []string{
		filepath.Join(root, kb.EntriesDirName),
		filepath.Join(root, kb.SummariesDirName),
		kb.SchemaDir(root),
	}
	for _, dir := range watched {
		if _, statErr := os.Stat(dir); statErr != nil {
			continue
		}
		if addErr := w.Add(dir); addErr != nil {
			return addErr
		}
	}

	logger.Info("watcher: started", slog.String("root", root))

	// reconcileTimer debounces manifest repair after renames.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
		}
	}

	schemaDir := kb.SchemaDir(root)

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			report, recErr := store.Reconcile(root)
			if recErr != nil {
				logger.Warn("watcher: reconcile failed", slog.String("error", recErr.Error()))
				continue
			}
			for _, id := range report.Dropped {
				logger.Debug("watcher: reconcile dropped", slog.String("id", id))
				if cb != nil {
					cb("deleted", id)
				}
			}
			for _, id := range report.Registered {
				logger.Debug("watcher: reconcile registered", slog.String("id", id))
				if cb != nil {
					cb("created", id)
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			// Schema edits only need a cache invalidation.
			if filepath.Dir(ev.Name) == schemaDir {
				if strings.HasSuffix(ev.Name, ".schema.json") && ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
					validator.Invalidate(root)
					logger.Debug("watcher: schema changed", slog.String("file", filepath.Base(ev.Name)))
				}
				continue
			}

			if !strings.HasSuffix(ev.Name, ".yaml") {
				continue
			}
			// Record files are named by id.
			id := strings.TrimSuffix(filepath.Base(ev.Name), ".yaml")

			switch {
			case ev.Op&fsnotify.Create != 0:
				logger.Debug("watcher: record created", slog.String("id", id))
				if cb != nil {
					cb("created", id)
				}

			case ev.Op&fsnotify.Write != 0:
				logger.Debug("watcher: record updated", slog.String("id", id))
				if cb != nil {
					cb("updated", id)
				}

			case ev.Op&fsnotify.Remove != 0:
				logger.Debug("watcher: record deleted", slog.String("id", id))
				if cb != nil {
					cb("deleted", id)
				}
				scheduleReconcile()

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the old path only; the new path
				// arrives as a separate Create event. Repair the manifest
				// shortly after.
				if cb != nil {
					cb("deleted", id)
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
