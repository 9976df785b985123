package tabs

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/kvstore"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/paths"
)

// persist mirrors snap to the store. Writes older than the last persisted
// version are dropped so concurrent commits cannot regress stored state.
// Failures are logged and never returned.
func (c *Collection) persist(ctx context.Context, snap Snapshot, version uint64) {
	if c.store == nil {
		return
	}

	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	if version != 0 && version <= c.persisted {
		return
	}

	if err := c.store.SetJSON(ctx, KeyTabs, snap.Tabs); err != nil {
		c.persistFailed(KeyTabs, err)
		return
	}
	if err := c.store.SetJSON(ctx, KeyActive, snap.ActiveID); err != nil {
		c.persistFailed(KeyActive, err)
		return
	}
	c.persisted = version
}

func (c *Collection) persistFailed(key string, err error) {
	c.observer.PersistFailed(key)
	c.logger.Warn("Failed to persist tabs",
		zap.String("key", key),
		zap.Error(err),
	)
}

// Load replaces the in-memory state with the persisted one.
// Missing or corrupt data yields an empty collection. Stored tabs are
// repaired on the way in: entries without ID or route and duplicate routes
// are dropped, the list is truncated to MaxTabs, and a dangling active ID
// falls back to the first tab. Repaired state is written back.
func (c *Collection) Load(ctx context.Context) Snapshot {
	var stored []Tab
	var activeID string

	if c.store != nil {
		if err := c.store.GetJSON(ctx, KeyTabs, &stored); err != nil {
			c.logLoadError(KeyTabs, err)
			stored = nil
		}
		if err := c.store.GetJSON(ctx, KeyActive, &activeID); err != nil {
			c.logLoadError(KeyActive, err)
			activeID = ""
		}
	}

	tabs, repaired := c.sanitizeStored(stored)

	if activeID != "" && !containsID(tabs, activeID) {
		activeID = ""
		repaired = true
	}
	if activeID == "" && len(tabs) > 0 {
		activeID = tabs[0].ID
		repaired = true
	}

	c.mu.Lock()
	c.tabs = tabs
	c.activeID = activeID
	change := c.changeLocked(ChangeLoaded, "")
	c.mu.Unlock()

	c.logger.Info("Tabs loaded",
		zap.Int("count", len(tabs)),
		zap.String("active_id", activeID),
		zap.Bool("repaired", repaired),
	)

	c.observer.TabsOpen(len(tabs))
	if repaired {
		c.persist(ctx, change.Snapshot, change.version)
	} else {
		c.markPersisted(change.version)
	}
	c.publish(change)
	return change.Snapshot
}

func (c *Collection) markPersisted(version uint64) {
	c.persistMu.Lock()
	if version > c.persisted {
		c.persisted = version
	}
	c.persistMu.Unlock()
}

func (c *Collection) sanitizeStored(stored []Tab) ([]Tab, bool) {
	tabs := make([]Tab, 0, len(stored))
	seenRoutes := make(map[string]bool, len(stored))
	seenIDs := make(map[string]bool, len(stored))
	repaired := false

	for _, t := range stored {
		route := paths.Normalize(t.Route)
		if t.ID == "" || route == "" || seenRoutes[route] || seenIDs[t.ID] {
			repaired = true
			continue
		}
		if len(tabs) == c.max {
			repaired = true
			break
		}
		if route != t.Route {
			t.Route = route
			repaired = true
		}
		if t.Label == "" {
			t.Label = route
			repaired = true
		}
		seenRoutes[route] = true
		seenIDs[t.ID] = true
		tabs = append(tabs, t)
	}
	return tabs, repaired
}

func (c *Collection) logLoadError(key string, err error) {
	if kvstore.IsNotFound(err) {
		return
	}
	level := c.logger.Warn
	if errors.Is(err, kvstore.ErrCorrupt) {
		level = c.logger.Error
	}
	level("Discarding unreadable persisted tabs",
		zap.String("key", key),
		zap.Error(err),
	)
}

func containsID(tabs []Tab, tabID string) bool {
	for _, t := range tabs {
		if t.ID == tabID {
			return true
		}
	}
	return false
}
