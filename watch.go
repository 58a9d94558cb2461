package hsgm

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	watchSettle = 100 * time.Millisecond
	watchTick   = 25 * time.Millisecond
)

// Watch monitors dir for changes to map definitions. A written or created
// definition is imported once it has been left alone for a short while; a
// removed or renamed one is removed from the catalog. Failed imports are
// logged and skipped. Watching continues until ctx is cancelled or the
// watcher fails, at which point the returned channel is closed.
func (h *HSGM) Watch(ctx context.Context, dir string) (<-chan error, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}

	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer w.Close()
		if err := h.watch(ctx, w); err != nil {
			errc <- err
		}
	}()
	return errc, nil
}

func (h *HSGM) watch(ctx context.Context, w *fsnotify.Watcher) error {
	ticker := time.NewTicker(watchTick)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isDefinition(event.Name) {
				continue
			}
			switch {
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				delete(pending, event.Name)
				if err := h.catalog.Remove(definitionName(event.Name)); err != nil {
					return err
				}
				h.logger.Printf("Removed \"%s\"\n", event.Name)
			case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
				pending[event.Name] = time.Now()
			}
		case now := <-ticker.C:
			for file, t := range pending {
				if now.Sub(t) < watchSettle {
					continue
				}
				delete(pending, file)
				id, err := h.catalog.Import(file)
				if err != nil {
					h.logger.Printf("Unable to import \"%s\": %v\n", file, err)
					continue
				}
				h.logger.Printf("Imported \"%s\" as #%d\n", file, id)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		case <-ctx.Done():
			return nil
		}
	}
}
