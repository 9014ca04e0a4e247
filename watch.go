package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/simplephon/internal/allophones"
	"github.com/dgnsrekt/simplephon/internal/pipeline"
	"github.com/fsnotify/fsnotify"
)

// watchSources converts args, then converts them again whenever one of them
// or the inventory file changes, until interrupted. Conversion errors are
// logged and do not stop the watch.
func watchSources(ctx context.Context, p *pipeline.Pipeline, registry *allophones.Registry, inventory string, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	watched := make(map[string]bool, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("unable to get absolute path: %w", err)
		}
		watched[filepath.Clean(abs)] = true
	}

	var mu sync.Mutex
	refresh := func(reason string) {
		mu.Lock()
		defer mu.Unlock()

		out, err := convertArgs(p, args)
		if err != nil {
			log.Error("conversion failed", "reason", reason, "error", err)
			return
		}
		if err := emit(out); err != nil {
			log.Error("could not write document", "error", err)
		}
	}
	refresh("start")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating fsnotify watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck

	dirs := make(map[string]bool)
	for path := range watched {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("error adding dir to fsnotify watcher: %w", err)
		}
		log.Info("fsnotify watching dir", "dir", dir)
	}

	if inventory != "" {
		go func() {
			err := registry.Watch(ctx, inventory, func(set *allophones.Set) {
				if err := p.SetInventory(set); err != nil {
					log.Error("could not activate inventory", "error", err)
					return
				}
				refresh("inventory")
			})
			if err != nil {
				log.Error("inventory watch stopped", "error", err)
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			log.Debug("fsnotify event", "file", event.Name, "event", event.Op)
			refresh(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Debug("fsnotify error", "error", err)
		}
	}
}
