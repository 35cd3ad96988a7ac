// Package watch implements the filesystem watcher factory over
// fsnotify. The save watcher covers every file under the workspace
// roots; the profile watcher observes only profile-file writes.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/remsync/internal/core/domain"
	"github.com/custodia-labs/remsync/internal/core/ports/driven"
	"github.com/custodia-labs/remsync/internal/logger"
)

// Ensure Factory implements the interface.
var _ driven.WatcherFactory = (*Factory)(nil)

// eventBuffer absorbs bursts from editors that write many files at once.
const eventBuffer = 64

// Factory creates fsnotify-backed watchers.
type Factory struct{}

// NewFactory creates a watcher factory.
func NewFactory() *Factory {
	return &Factory{}
}

// WatchSaves yields save events for every file written under the roots.
func (f *Factory) WatchSaves(_ context.Context, roots []string) (driven.Subscription, error) {
	return newSubscription(roots, fsnotify.Write|fsnotify.Create, func(path string) bool {
		return true
	})
}

// WatchConfig yields save events only for profile-file writes.
// Create and delete are intentionally not wired.
func (f *Factory) WatchConfig(_ context.Context, roots []string) (driven.Subscription, error) {
	return newSubscription(roots, fsnotify.Write, domain.IsProfilePath)
}

// subscription adapts one fsnotify watcher to driven.Subscription.
type subscription struct {
	watcher *fsnotify.Watcher
	events  chan domain.DocumentEvent
	ops     fsnotify.Op
	accept  func(string) bool

	closeOnce sync.Once
	closeErr  error
}

func newSubscription(roots []string, ops fsnotify.Op, accept func(string) bool) (*subscription, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	s := &subscription{
		watcher: watcher,
		events:  make(chan domain.DocumentEvent, eventBuffer),
		ops:     ops,
		accept:  accept,
	}

	for _, root := range roots {
		if err := addRecursive(watcher, root); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	go s.run()
	return s, nil
}

// Events returns the event channel.
func (s *subscription) Events() <-chan domain.DocumentEvent {
	return s.events
}

// Close stops the watcher. The events channel closes once the pump
// drains.
func (s *subscription) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.watcher.Close()
	})
	return s.closeErr
}

// run pumps fsnotify events into document save events until the
// watcher closes. New directories are added to the watch as they
// appear.
func (s *subscription) run() {
	defer close(s.events)
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handle(ev)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func (s *subscription) handle(ev fsnotify.Event) {
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := addRecursive(s.watcher, ev.Name); err != nil {
				logger.Warn("Watch new directory %s: %v", ev.Name, err)
			}
			return
		}
	}

	if ev.Op&s.ops == 0 || !s.accept(ev.Name) {
		return
	}

	select {
	case s.events <- domain.DocumentEvent{Kind: domain.EventSave, Path: ev.Name}:
	default:
		logger.Warn("Dropping save event for %s: buffer full", ev.Name)
	}
}

// addRecursive watches root and every directory beneath it.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
