// Package pipeline ties the inventory registry, the acoustic converter, the
// renderer and the document cache together for the command line.
package pipeline

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/simplephon/internal/acoustic"
	"github.com/dgnsrekt/simplephon/internal/allophones"
	"github.com/dgnsrekt/simplephon/internal/cache"
	"github.com/dgnsrekt/simplephon/internal/config"
	"github.com/dgnsrekt/simplephon/internal/render"
	"github.com/dgnsrekt/simplephon/utterance"
	"golang.org/x/text/language"
)

// Result is a rendered conversion.
type Result struct {
	Document []byte
	Format   render.Format
	Cached   bool
}

// Pipeline converts transcriptions into rendered documents. The active
// inventory may be replaced while conversions are running.
type Pipeline struct {
	locale   language.Tag
	format   render.Format
	model    acoustic.DurationModel
	boundary utterance.Boundary
	cache    *cache.Manager

	mu        sync.RWMutex
	inventory *allophones.Set
	converter *acoustic.Converter
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCache enables the document cache. A nil manager disables it.
func WithCache(m *cache.Manager) Option {
	return func(p *Pipeline) { p.cache = m }
}

// New builds a pipeline from cfg. The inventory is loaded from cfg.Inventory
// when set, and otherwise looked up for cfg.Locale in registry.
func New(cfg config.Config, registry *allophones.Registry, opts ...Option) (*Pipeline, error) {
	locale, err := allophones.ParseLocale(cfg.Locale)
	if err != nil {
		return nil, err
	}
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		locale:   locale,
		format:   format,
		model:    cfg.DurationModel(),
		boundary: cfg.PhraseBoundary(),
	}
	for _, opt := range opts {
		opt(p)
	}

	var set *allophones.Set
	if cfg.Inventory != "" {
		set, err = registry.LoadFile(cfg.Inventory)
	} else {
		set, err = registry.Lookup(locale)
	}
	if err != nil {
		return nil, err
	}
	if err := p.SetInventory(set); err != nil {
		return nil, err
	}
	return p, nil
}

// SetInventory swaps the active inventory.
func (p *Pipeline) SetInventory(set *allophones.Set) error {
	c, err := acoustic.NewConverter(set,
		acoustic.WithDurationModel(p.model),
		acoustic.WithBoundary(p.boundary),
	)
	if err != nil {
		return fmt.Errorf("unable to create converter: %w", err)
	}

	p.mu.Lock()
	p.inventory = set
	p.converter = c
	p.mu.Unlock()

	log.Debug("inventory active", "name", set.Name(), "locale", set.Locale(), "digest", set.Digest())
	return nil
}

// Inventory returns the active inventory.
func (p *Pipeline) Inventory() *allophones.Set {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.inventory
}

// Locale returns the locale stamped on every utterance.
func (p *Pipeline) Locale() language.Tag { return p.locale }

// Format returns the output format.
func (p *Pipeline) Format() render.Format { return p.format }

// snapshot returns the active inventory together with the converter built
// from it.
func (p *Pipeline) snapshot() (*allophones.Set, *acoustic.Converter) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.inventory, p.converter
}

// Utterance converts text without rendering it.
func (p *Pipeline) Utterance(text string) (*utterance.Utterance, error) {
	_, c := p.snapshot()
	return c.Process(text, p.locale)
}

// Convert converts and renders text, consulting the cache first when one is
// configured.
func (p *Pipeline) Convert(text string) (Result, error) {
	set, c := p.snapshot()

	key := p.key(text, set)
	if p.cache != nil {
		if doc, ok := p.cache.Get(key); ok {
			return Result{Document: doc, Format: p.format, Cached: true}, nil
		}
	}

	u, err := c.Process(text, p.locale)
	if err != nil {
		return Result{}, err
	}
	doc, err := render.Marshal(u, p.format)
	if err != nil {
		return Result{}, err
	}

	if p.cache != nil {
		if err := p.cache.Put(key, doc); err != nil {
			log.Warn("could not cache document", "error", err)
		}
	}
	return Result{Document: doc, Format: p.format}, nil
}

// SourceError reports which of several transcriptions failed to convert.
type SourceError struct {
	Index int
	Err   error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %d: %v", e.Index, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// ConvertAll converts several transcriptions with one inventory and renders
// them as a single output. A single text goes through Convert and the cache;
// combined outputs are not cached.
func (p *Pipeline) ConvertAll(texts []string) (Result, error) {
	if len(texts) == 1 {
		res, err := p.Convert(texts[0])
		if err != nil {
			return Result{}, &SourceError{Index: 0, Err: err}
		}
		return res, nil
	}

	_, c := p.snapshot()
	us := make([]*utterance.Utterance, 0, len(texts))
	for i, text := range texts {
		u, err := c.Process(text, p.locale)
		if err != nil {
			return Result{}, &SourceError{Index: i, Err: err}
		}
		us = append(us, u)
	}

	doc, err := render.MarshalAll(us, p.format)
	if err != nil {
		return Result{}, err
	}
	return Result{Document: doc, Format: p.format}, nil
}

func (p *Pipeline) key(text string, set *allophones.Set) string {
	return cache.Key{
		Text:      text,
		Locale:    p.locale.String(),
		Format:    string(p.format),
		Inventory: set.Digest(),
		Durations: [4]int{p.model.Consonant, p.model.Vowel, p.model.PrimaryPercent, p.model.SecondaryPercent},
		Boundary:  [2]int{p.boundary.Tone, p.boundary.Duration},
	}.String()
}

// Close releases the cache.
func (p *Pipeline) Close() error {
	if p.cache == nil {
		return nil
	}
	return p.cache.Close()
}
