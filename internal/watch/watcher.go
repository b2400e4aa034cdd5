// Package watch reloads a recipe repository when its file changes on
// disk, so edits made outside the tool show up without restarting it.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"kokbok/pkg/recipe"
)

// Watcher monitors the repository's recipe file via fsnotify. Events are
// debounced so editors that save in several steps trigger one reload.
type Watcher struct {
	repo     *recipe.Repository
	log      zerolog.Logger
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// New returns a watcher over repo's recipe file.
func New(repo *recipe.Repository, log zerolog.Logger, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	return &Watcher{repo: repo, log: log, debounce: debounce}
}

// Run watches the recipe file's directory until ctx is done. Write and
// Create events on the file schedule a debounced reload; rename-based
// saves (including the repository's own atomic Save) arrive as Create.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	path := w.repo.Path()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	w.log.Info().Str("file", path).Msg("watching recipe file")

	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.scheduleReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error().Err(err).Msg("watch error")
		}
	}
}

// scheduleReload arms the debounce timer, replacing any pending one.
func (w *Watcher) scheduleReload(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		w.reload()
	})
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) reload() {
	if err := w.repo.Load(); err != nil {
		w.log.Error().Err(err).Msg("reload failed, keeping previous recipes")
		return
	}
	w.log.Info().Int("recipes", w.repo.Count()).Msg("recipe file reloaded")
}
