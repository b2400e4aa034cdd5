package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Repository owns the canonical recipe collection and the text file it is
// persisted in. Every value crossing the boundary is deep-copied, in both
// directions: accessors hand out clones, mutators store clones of their
// arguments.
//
// A mutex guards the collection because the watch command drives Load
// from a background goroutine; the repository contract itself stays
// synchronous.
type Repository struct {
	path string

	mu       sync.Mutex
	recipes  []Recipe
	modified bool
	subs     []*Subscription
}

// Subscription is the handle returned by OnChanged. Cancel removes the
// handler; cancelling from inside a handler during dispatch is safe.
type Subscription struct {
	repo *Repository
	fn   func()
}

// Cancel removes the subscription from its repository. Cancelling twice,
// or cancelling a nil subscription, is a no-op.
func (s *Subscription) Cancel() {
	if s == nil || s.repo == nil {
		return
	}
	s.repo.unsubscribe(s)
}

// NewRepository resolves path to an absolute location and returns a
// repository bound to it. The file itself is not touched until Load or
// Save.
func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty recipe file path", ErrIO)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %w", ErrIO, path, err)
	}
	return &Repository{path: abs}, nil
}

// Path returns the absolute recipe file path.
func (r *Repository) Path() string { return r.path }

// Count returns the number of recipes currently held.
func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.recipes)
}

// Modified reports whether the collection has unsaved changes. Load and
// Save clear the flag; every successful mutation sets it.
func (r *Repository) Modified() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modified
}

// GetAll returns a deep copy of every recipe in collection order.
func (r *Repository) GetAll() []Recipe {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recipe, len(r.recipes))
	for i := range r.recipes {
		out[i] = r.recipes[i].Clone()
	}
	return out
}

// GetAt returns a deep copy of the recipe at index i.
func (r *Repository) GetAt(i int) (Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.recipes) {
		return Recipe{}, fmt.Errorf("%w: index %d with %d recipes", ErrOutOfRange, i, len(r.recipes))
	}
	return r.recipes[i].Clone(), nil
}

// Find returns a deep copy of the recipe with the given name.
func (r *Repository) Find(name string) (Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(name)
	if i < 0 {
		return Recipe{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return r.recipes[i].Clone(), nil
}

// Add inserts a copy of rec at its name-sorted position, marks the
// collection dirty and notifies subscribers.
func (r *Repository) Add(rec Recipe) error {
	if rec.Name == "" {
		return fmt.Errorf("%w: recipe name must not be empty", ErrFormat)
	}
	r.mu.Lock()
	if r.indexOf(rec.Name) >= 0 {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrExists, rec.Name)
	}
	i := sort.Search(len(r.recipes), func(i int) bool { return r.recipes[i].Name >= rec.Name })
	r.recipes = append(r.recipes, Recipe{})
	copy(r.recipes[i+1:], r.recipes[i:])
	r.recipes[i] = rec.Clone()
	r.modified = true
	subs := r.snapshot()
	r.mu.Unlock()

	notify(subs)
	return nil
}

// Update replaces the recipe at index i with a copy of rec. Renaming onto
// another entry's name fails with ErrExists. The entry keeps its position;
// name order is only promised after Load.
func (r *Repository) Update(i int, rec Recipe) error {
	if rec.Name == "" {
		return fmt.Errorf("%w: recipe name must not be empty", ErrFormat)
	}
	r.mu.Lock()
	if i < 0 || i >= len(r.recipes) {
		r.mu.Unlock()
		return fmt.Errorf("%w: index %d with %d recipes", ErrOutOfRange, i, len(r.recipes))
	}
	if j := r.indexOf(rec.Name); j >= 0 && j != i {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrExists, rec.Name)
	}
	r.recipes[i] = rec.Clone()
	r.modified = true
	subs := r.snapshot()
	r.mu.Unlock()

	notify(subs)
	return nil
}

// Delete removes the stored recipe matching rec by name. The argument is
// typically a detached copy from GetAll or GetAt and is resolved back to
// the canonical entry before removal; an unmatched value fails with
// ErrNotFound.
func (r *Repository) Delete(rec Recipe) error {
	r.mu.Lock()
	i := r.indexOf(rec.Name)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrNotFound, rec.Name)
	}
	r.removeAt(i)
	subs := r.snapshot()
	r.mu.Unlock()

	notify(subs)
	return nil
}

// DeleteAt removes the recipe at index i.
func (r *Repository) DeleteAt(i int) error {
	r.mu.Lock()
	if i < 0 || i >= len(r.recipes) {
		r.mu.Unlock()
		return fmt.Errorf("%w: index %d with %d recipes", ErrOutOfRange, i, len(r.recipes))
	}
	r.removeAt(i)
	subs := r.snapshot()
	r.mu.Unlock()

	notify(subs)
	return nil
}

// Load parses the recipe file and replaces the collection wholesale with
// the name-sorted result, clears the dirty flag and notifies subscribers.
// On any error the previous collection stays untouched.
func (r *Repository) Load() error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrIO, r.path, err)
	}
	defer f.Close()

	staged, err := parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", r.path, err)
	}

	r.mu.Lock()
	r.recipes = staged
	r.modified = false
	subs := r.snapshot()
	r.mu.Unlock()

	notify(subs)
	return nil
}

// Save writes the full collection in collection order. The serialized
// output goes to a temp file first and is renamed over the destination,
// so an interrupted write never truncates the existing file. Clears the
// dirty flag on success.
func (r *Repository) Save() error {
	r.mu.Lock()
	recipes := make([]Recipe, len(r.recipes))
	for i := range r.recipes {
		recipes[i] = r.recipes[i].Clone()
	}
	r.mu.Unlock()

	tmp := r.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrIO, tmp, err)
	}
	if err := writeTo(f, recipes); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: write %s: %w", ErrIO, tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: close %s: %w", ErrIO, tmp, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: rename %s: %w", ErrIO, tmp, err)
	}

	r.mu.Lock()
	r.modified = false
	r.mu.Unlock()
	return nil
}

// OnChanged registers fn to run after Load and after every successful
// mutation. Events carry no payload; handlers re-fetch via GetAll when
// they need fresh data. No delivery order across handlers is promised.
func (r *Repository) OnChanged(fn func()) *Subscription {
	s := &Subscription{repo: r, fn: fn}
	r.mu.Lock()
	r.subs = append(r.subs, s)
	r.mu.Unlock()
	return s
}

func (r *Repository) unsubscribe(s *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.subs {
		if cur == s {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return
		}
	}
}

// indexOf returns the position of the recipe with the given name, or -1.
// Callers hold r.mu.
func (r *Repository) indexOf(name string) int {
	for i := range r.recipes {
		if r.recipes[i].Name == name {
			return i
		}
	}
	return -1
}

// removeAt drops index i and marks the collection dirty. Callers hold r.mu.
func (r *Repository) removeAt(i int) {
	r.recipes = append(r.recipes[:i], r.recipes[i+1:]...)
	r.modified = true
}

// snapshot copies the subscriber list so dispatch survives handlers that
// cancel subscriptions mid-iteration. Callers hold r.mu.
func (r *Repository) snapshot() []*Subscription {
	subs := make([]*Subscription, len(r.subs))
	copy(subs, r.subs)
	return subs
}

// notify runs outside the repository lock so handlers may call back into
// the repository.
func notify(subs []*Subscription) {
	for _, s := range subs {
		s.fn()
	}
}
