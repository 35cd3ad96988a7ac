package services

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/remsync/internal/core/domain"
	"github.com/custodia-labs/remsync/internal/core/ports/driven"
	"github.com/custodia-labs/remsync/internal/core/ports/driving"
	"github.com/custodia-labs/remsync/internal/logger"
)

// Ensure Coordinator implements the interface.
var _ driving.Coordinator = (*Coordinator)(nil)

// Coordinator is the workspace event coordinator. It owns the watcher
// lifecycle, classifies document events, and drives the parser,
// registry, transfer engine, cache and status reporter in response.
//
// All handle state lives on the instance; two coordinators never share
// watchers. Handle mutation happens synchronously inside Init and
// Teardown, never in an async continuation.
type Coordinator struct {
	workspaces *domain.WorkspaceSet
	events     driven.EventSource
	watchers   driven.WatcherFactory
	parser     driven.ProfileParser
	registry   driven.ServiceRegistry
	transfer   driven.TransferEngine
	cache      driven.MetadataCache
	status     driven.StatusReporter
	confirm    driven.Confirmer

	// mu guards the handle fields below.
	mu          sync.Mutex
	active      bool
	eventSub    driven.Subscription
	saveWatcher driven.Subscription
	confWatcher driven.Subscription

	// refreshMu serialises profile refreshes per workspace root.
	refreshMu sync.Mutex
	refreshes map[string]*sync.Mutex

	// downloads collapses concurrent open-downloads of one path.
	downloads singleflight.Group

	wg sync.WaitGroup
}

// NewCoordinator wires a coordinator over its collaborators.
// The confirmer may be nil; "confirm" profiles then always decline.
func NewCoordinator(
	workspaces *domain.WorkspaceSet,
	events driven.EventSource,
	watchers driven.WatcherFactory,
	parser driven.ProfileParser,
	registry driven.ServiceRegistry,
	transfer driven.TransferEngine,
	cache driven.MetadataCache,
	status driven.StatusReporter,
	confirm driven.Confirmer,
) *Coordinator {
	return &Coordinator{
		workspaces: workspaces,
		events:     events,
		watchers:   watchers,
		parser:     parser,
		registry:   registry,
		transfer:   transfer,
		cache:      cache,
		status:     status,
		confirm:    confirm,
		refreshes:  make(map[string]*sync.Mutex),
	}
}

// Init installs the document event subscription and the save/config
// watcher pair. Any pre-existing subscription or watcher is disposed
// first, so calling Init twice without Teardown simply replaces them.
// A failed watcher install releases the subscription again before
// returning, leaving nothing to tear down.
func (c *Coordinator) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.events != nil {
		sub, err := c.events.Subscribe(ctx)
		if err != nil {
			return fmt.Errorf("subscribe document events: %w", err)
		}
		c.replaceEventSubLocked(ctx, sub)
	}

	if err := c.installWatchersLocked(ctx); err != nil {
		c.replaceEventSubLocked(ctx, nil)
		return err
	}

	c.active = true
	logger.Info("Coordinator active over %d workspace root(s)", len(c.workspaces.Roots()))
	return nil
}

// Bootstrap refreshes profiles for every workspace root that already
// contains a profile file.
func (c *Coordinator) Bootstrap(ctx context.Context) error {
	for _, root := range c.workspaces.Roots() {
		var found []string
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() && domain.IsProfilePath(p) {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("scan workspace %q: %w", root, err)
		}
		for _, p := range found {
			c.handleConfigSave(ctx, p)
		}
	}
	return nil
}

// Teardown disposes the event subscription and both watchers, then
// waits for in-flight handlers and transfers.
func (c *Coordinator) Teardown() error {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return nil
	}
	c.active = false
	c.replaceEventSubLocked(context.Background(), nil)
	c.disposeWatchersLocked()
	c.mu.Unlock()

	c.wg.Wait()
	return nil
}

// installWatchersLocked replaces the watcher pair. The previous pair is
// disposed before the new one is installed, preserving the at-most-one
// invariant for each kind. Caller holds c.mu.
func (c *Coordinator) installWatchersLocked(ctx context.Context) error {
	c.disposeWatchersLocked()

	roots := c.workspaces.Roots()

	save, err := c.watchers.WatchSaves(ctx, roots)
	if err != nil {
		return fmt.Errorf("install save watcher: %w", err)
	}

	conf, err := c.watchers.WatchConfig(ctx, roots)
	if err != nil {
		save.Close()
		return fmt.Errorf("install profile watcher: %w", err)
	}

	c.saveWatcher = save
	c.confWatcher = conf
	c.pump(ctx, save, c.handleSaveEvent)
	c.pump(ctx, conf, c.handleConfigEvent)
	return nil
}

// disposeWatchersLocked closes the watcher pair if present.
func (c *Coordinator) disposeWatchersLocked() {
	if c.saveWatcher != nil {
		c.saveWatcher.Close()
		c.saveWatcher = nil
	}
	if c.confWatcher != nil {
		c.confWatcher.Close()
		c.confWatcher = nil
	}
}

// replaceEventSubLocked swaps the document event subscription. Handlers
// fed from the new subscription run under ctx, so cancelling it
// unblocks pending confirmations and transfers.
func (c *Coordinator) replaceEventSubLocked(ctx context.Context, sub driven.Subscription) {
	if c.eventSub != nil {
		c.eventSub.Close()
	}
	c.eventSub = sub
	if sub != nil {
		c.pump(ctx, sub, c.handleDocumentEvent)
	}
}

// pump forwards events from a subscription into a handler until the
// subscription's channel closes.
func (c *Coordinator) pump(ctx context.Context, sub driven.Subscription, handle func(context.Context, domain.DocumentEvent)) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for ev := range sub.Events() {
			handle(ctx, ev)
		}
	}()
}

// handleDocumentEvent routes editor-fed events: opens go to the
// download path, saves share the save pipeline with the filesystem
// watcher. Opening a profile file is not a reload trigger.
func (c *Coordinator) handleDocumentEvent(ctx context.Context, ev domain.DocumentEvent) {
	switch ev.Kind {
	case domain.EventOpen:
		if !c.inScope(ev.Path) {
			return
		}
		c.handleFileOpen(ctx, ev.Path)
	case domain.EventSave:
		c.handleSaveEvent(ctx, ev)
	}
}

// handleSaveEvent is the workspace-wide save pipeline: scope filter,
// then cache eviction, then the profile-vs-regular branch. Eviction
// always runs before either branch so no interleaved handler can see
// stale metadata.
func (c *Coordinator) handleSaveEvent(ctx context.Context, ev domain.DocumentEvent) {
	if !c.inScope(ev.Path) {
		return
	}

	if err := c.cache.Evict(ctx, ev.Path); err != nil {
		logger.Warn("Cache eviction failed for %s: %v", ev.Path, err)
	}

	if domain.IsProfilePath(ev.Path) {
		c.handleConfigSave(ctx, ev.Path)
		return
	}
	c.handleFileSave(ctx, ev.Path)
}

// handleConfigEvent routes the dedicated profile watcher. The profile
// predicate is re-applied even though the watcher is already filtered.
func (c *Coordinator) handleConfigEvent(ctx context.Context, ev domain.DocumentEvent) {
	if !domain.IsProfilePath(ev.Path) || !c.inScope(ev.Path) {
		return
	}
	c.handleConfigSave(ctx, ev.Path)
}

// inScope applies the two mandatory preconditions of every handler:
// the path addresses a real file and lies inside an open workspace.
func (c *Coordinator) inScope(path string) bool {
	if !domain.IsValidFile(path) {
		logger.Debug("Ignoring event outside valid-file criteria: %s", path)
		return false
	}
	if !c.workspaces.Contains(path) {
		logger.Debug("Ignoring event outside workspace: %s", path)
		return false
	}
	return true
}

// handleConfigSave atomically replaces every service for the workspace
// owning the saved profile file: dispose all, re-parse, create one
// service per parsed profile. A parse failure is reported and leaves
// the workspace with zero services. The explorer refresh runs on every
// exit path. Refreshes for one workspace are serialised.
func (c *Coordinator) handleConfigSave(ctx context.Context, path string) {
	root, ok := c.workspaces.Resolve(path)
	if !ok {
		return
	}

	lock := c.refreshLock(root)
	lock.Lock()
	defer lock.Unlock()

	defer func() {
		services, err := c.registry.FindAll(ctx, nil)
		if err != nil {
			logger.Warn("Explorer refresh listing failed: %v", err)
		}
		c.status.RefreshExplorer(services)
	}()

	stale, err := c.registry.FindAll(ctx, func(s *domain.RemoteService) bool {
		return s.Workspace == root
	})
	if err != nil {
		c.status.ReportError(fmt.Errorf("enumerate services for %s: %w", root, err))
		return
	}
	for _, svc := range stale {
		if err := c.registry.Dispose(ctx, svc.ID); err != nil {
			logger.Warn("Dispose service %s: %v", svc.ID, err)
		}
	}

	profiles, err := c.parser.Parse(ctx, path)
	if err != nil {
		c.status.ReportError(fmt.Errorf("%w: %s: %v", domain.ErrConfigParse, path, err))
		logger.Warn("Profile parse failed for %s: %v", path, err)
		return
	}

	for _, profile := range profiles {
		if _, err := c.registry.Create(ctx, profile, root); err != nil {
			c.status.ReportError(fmt.Errorf("create service %q: %w", profile.Name, err))
		}
	}
	logger.Info("Workspace %s refreshed: %d profile(s)", root, len(profiles))
}

// handleFileSave uploads a saved regular file when its governing
// service has uploadOnSave set. The transfer runs in the background;
// failure is terminal for this event.
func (c *Coordinator) handleFileSave(ctx context.Context, path string) {
	svc, err := c.registry.GetByPath(ctx, path)
	if err != nil {
		logger.Debug("No service for saved file %s", path)
		return
	}
	if !svc.Config().UploadOnSave {
		return
	}

	canonical, err := filepath.EvalSymlinks(path)
	if err != nil {
		logger.Warn("Canonical path resolution failed for %s: %v", path, err)
		c.status.SetBadge(domain.BadgeError)
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.transfer.Upload(ctx, svc, canonical); err != nil {
			logger.Warn("Upload failed for %s: %v", canonical, err)
			c.status.ReportError(fmt.Errorf("%w: upload %s: %v", domain.ErrTransfer, canonical, err))
			c.status.SetBadge(domain.BadgeError)
			return
		}
		c.status.SetBadge(domain.BadgeOK)
		logger.Debug("Uploaded %s", canonical)
	}()
}

// handleFileOpen downloads an opened file when its governing service
// enables downloadOnOpen, asking for confirmation first when the
// profile says so. Concurrent opens of one path collapse to a single
// download.
func (c *Coordinator) handleFileOpen(ctx context.Context, path string) {
	svc, err := c.registry.GetByPath(ctx, path)
	if err != nil {
		logger.Debug("No service for opened file %s", path)
		return
	}

	mode := svc.Config().DownloadOnOpen
	if !mode.Enabled() {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		if mode == domain.DownloadConfirm {
			if c.confirm == nil {
				return
			}
			ok, err := c.confirm.Confirm(ctx, fmt.Sprintf("Download %s from %s?", path, svc.Config().Name))
			if err != nil || !ok {
				logger.Debug("Download declined for %s", path)
				return
			}
		}

		_, err, _ := c.downloads.Do(path, func() (any, error) {
			return nil, c.transfer.Download(ctx, svc, path)
		})
		if err != nil {
			logger.Warn("Download failed for %s: %v", path, err)
			c.status.ReportError(fmt.Errorf("%w: download %s: %v", domain.ErrTransfer, path, err))
			c.status.SetBadge(domain.BadgeError)
			return
		}
		c.status.SetBadge(domain.BadgeOK)
		logger.Debug("Downloaded %s", path)
	}()
}

// refreshLock returns the per-workspace refresh mutex, creating it on
// first use.
func (c *Coordinator) refreshLock(root string) *sync.Mutex {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	lock, ok := c.refreshes[root]
	if !ok {
		lock = &sync.Mutex{}
		c.refreshes[root] = lock
	}
	return lock
}
