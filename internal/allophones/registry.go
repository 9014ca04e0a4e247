package allophones

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/text/language"
)

//go:embed data/*
var builtin embed.FS

// Registry maps locales to inventories. Lookups may run concurrently with
// reloads; a reload replaces the set for its locale in one step.
type Registry struct {
	mu   sync.RWMutex
	sets map[language.Tag]*Set
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[language.Tag]*Set)}
}

// DefaultRegistry creates a registry holding the built-in inventories.
func DefaultRegistry() (*Registry, error) {
	r := NewRegistry()

	err := fs.WalkDir(builtin, "data", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		f, err := builtin.Open(p)
		if err != nil {
			return err
		}
		defer f.Close() //nolint:errcheck

		var set *Set
		switch path.Ext(p) {
		case ".xml":
			set, err = ParseXML(f)
		default:
			set, err = ParseYAML(f)
		}
		if err != nil {
			return fmt.Errorf("builtin inventory %s: %w", p, err)
		}
		r.Register(set)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Register adds or replaces the inventory for the set's locale.
func (r *Registry) Register(s *Set) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sets[s.Locale()] = s
}

// Lookup returns the inventory for locale, falling back to the base
// language ("en-US" -> "en") and then to any region of that language.
func (r *Registry) Lookup(locale language.Tag) (*Set, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.sets[locale]; ok {
		return s, nil
	}

	base, _ := locale.Base()
	for _, tag := range r.sortedTags() {
		if b, _ := tag.Base(); b == base {
			return r.sets[tag], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownLocale, locale)
}

// Locales returns the registered locales in a stable order.
func (r *Registry) Locales() []language.Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedTags()
}

func (r *Registry) sortedTags() []language.Tag {
	tags := make([]language.Tag, 0, len(r.sets))
	for tag := range r.sets {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		// the bare language sorts before its regional variants
		return tags[i].String() < tags[j].String()
	})
	return tags
}

// LoadFile loads an inventory file and registers it.
func (r *Registry) LoadFile(p string) (*Set, error) {
	set, err := LoadFile(p)
	if err != nil {
		return nil, err
	}
	r.Register(set)
	return set, nil
}

// Watch reloads the inventory at p whenever it is written, until ctx is done.
// onReload, if not nil, is called after each successful reload. A reload that
// fails to parse keeps the previous inventory.
func (r *Registry) Watch(ctx context.Context, p string, onReload func(*Set)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create inventory watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck

	p = filepath.Clean(p)
	dir := filepath.Dir(p)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("unable to watch %s: %w", dir, err)
	}
	log.Debug("watching allophone inventory", "path", p)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != p {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			set, err := r.LoadFile(p)
			if err != nil {
				log.Warn("inventory reload failed", "path", p, "error", err)
				continue
			}
			log.Info("inventory reloaded", "path", p, "locale", set.Locale())
			if onReload != nil {
				onReload(set)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Debug("inventory watcher error", "path", p, "error", err)
		}
	}
}
