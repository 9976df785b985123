package tabs

import (
	"context"
	"slices"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/paths"
)

// Collection is the ordered set of open tabs
type Collection struct {
	mu       sync.RWMutex
	tabs     []Tab
	activeID string
	max      int
	pinned   string
	version  uint64

	store    Store
	nav      Navigator
	logger   *zap.Logger
	newID    func() string
	sanitize func(string) string
	observer Observer

	persistMu sync.Mutex
	persisted uint64

	subMu   sync.Mutex
	subs    map[uint64]func(Change)
	nextSub uint64
}

// New creates an empty collection. store and nav may be nil.
func New(store Store, nav Navigator, opts ...Option) *Collection {
	c := &Collection{
		max:      DefaultMaxTabs,
		store:    store,
		nav:      nav,
		logger:   zap.NewNop(),
		newID:    newTabID,
		sanitize: SanitizeLabel,
		observer: nopObserver{},
		subs:     make(map[uint64]func(Change)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add appends a tab for spec and returns its ID.
// If a tab for the route already exists its ID is returned unchanged.
// The first tab added to an empty collection becomes active.
func (c *Collection) Add(ctx context.Context, spec Spec) (string, error) {
	route := paths.Normalize(spec.Route)
	if route == "" {
		c.observer.TabOperation("add", "invalid")
		return "", ErrInvalidRoute
	}
	label := c.sanitize(spec.Label)
	if label == "" {
		label = route
	}

	c.mu.Lock()
	if existing, ok := c.findLocked(route); ok {
		c.mu.Unlock()
		c.observer.TabOperation("add", "existing")
		return existing.ID, nil
	}
	if len(c.tabs) >= c.max {
		c.mu.Unlock()
		c.observer.TabOperation("add", "capacity")
		c.logger.Info("Tab limit reached",
			zap.String("route", route),
			zap.Int("max_tabs", c.max),
		)
		return "", ErrCapacityExceeded
	}

	tab := Tab{
		ID:       c.newID(),
		Label:    label,
		Route:    route,
		Icon:     spec.Icon,
		Closable: spec.Closable && route != c.pinned,
	}
	c.tabs = append(c.tabs, tab)
	if c.activeID == "" {
		c.activeID = tab.ID
	}
	change := c.changeLocked(ChangeAdded, tab.ID)
	c.mu.Unlock()

	c.observer.TabOperation("add", "ok")
	c.commit(ctx, change, "")
	return tab.ID, nil
}

// Open adds (or finds) the tab for spec, activates it and navigates to it
func (c *Collection) Open(ctx context.Context, spec Spec) (string, error) {
	tabID, err := c.Add(ctx, spec)
	if err != nil {
		return "", err
	}
	c.Activate(ctx, tabID)
	return tabID, nil
}

// Close removes the tab with id. Unknown IDs are a no-op.
// Closing the active tab activates and navigates to its successor.
func (c *Collection) Close(ctx context.Context, tabID string) (CloseResult, error) {
	c.mu.Lock()
	idx := c.indexLocked(tabID)
	if idx < 0 {
		c.mu.Unlock()
		c.observer.TabOperation("close", "unknown")
		return CloseResult{}, nil
	}
	if !c.tabs[idx].Closable {
		c.mu.Unlock()
		c.observer.TabOperation("close", "not_closable")
		return CloseResult{}, ErrNotClosable
	}

	c.tabs = slices.Delete(c.tabs, idx, idx+1)
	result := CloseResult{Removed: true}

	var navigateTo string
	if c.activeID == tabID {
		c.activeID = ""
		if next, ok := successor(c.tabs, idx); ok {
			c.activeID = next.ID
			result.Successor = next.ID
			navigateTo = next.Route
		}
	}
	change := c.changeLocked(ChangeClosed, tabID)
	c.mu.Unlock()

	c.observer.TabOperation("close", "ok")
	result.Navigated = c.commit(ctx, change, navigateTo)
	return result, nil
}

// successor picks the tab to activate after the tab at idx was removed
func successor(remaining []Tab, idx int) (Tab, bool) {
	switch {
	case idx < len(remaining):
		return remaining[idx], true
	case idx-1 >= 0 && idx-1 < len(remaining):
		return remaining[idx-1], true
	case len(remaining) > 0:
		return remaining[0], true
	default:
		return Tab{}, false
	}
}

// CloseOthers closes every closable tab except keepID, activates keepID and
// navigates to it. It returns the number of tabs removed.
func (c *Collection) CloseOthers(ctx context.Context, keepID string) (int, error) {
	c.mu.Lock()
	idx := c.indexLocked(keepID)
	if idx < 0 {
		c.mu.Unlock()
		return 0, ErrTabNotFound
	}
	keep := c.tabs[idx]

	kept := c.tabs[:0:0]
	for _, t := range c.tabs {
		if t.ID == keepID || !t.Closable {
			kept = append(kept, t)
		}
	}
	removed := len(c.tabs) - len(kept)
	changed := removed > 0 || c.activeID != keepID
	c.tabs = kept
	c.activeID = keepID

	if !changed {
		c.mu.Unlock()
		c.commit(ctx, Change{}, keep.Route)
		return 0, nil
	}
	change := c.changeLocked(ChangeClosed, "")
	c.mu.Unlock()

	c.observer.TabOperation("close_others", "ok")
	c.commit(ctx, change, keep.Route)
	return removed, nil
}

// Activate makes tabID active and navigates to its route.
// It returns false for unknown IDs.
func (c *Collection) Activate(ctx context.Context, tabID string) bool {
	return c.activate(ctx, tabID, true)
}

// SetActive makes tabID active without navigating.
// It returns false for unknown IDs.
func (c *Collection) SetActive(ctx context.Context, tabID string) bool {
	return c.activate(ctx, tabID, false)
}

func (c *Collection) activate(ctx context.Context, tabID string, navigate bool) bool {
	c.mu.Lock()
	idx := c.indexLocked(tabID)
	if idx < 0 {
		c.mu.Unlock()
		c.observer.TabOperation("activate", "unknown")
		return false
	}
	route := c.tabs[idx].Route
	if !navigate {
		route = ""
	}

	if c.activeID == tabID {
		c.mu.Unlock()
		c.commit(ctx, Change{}, route)
		return true
	}
	c.activeID = tabID
	change := c.changeLocked(ChangeActivated, tabID)
	c.mu.Unlock()

	c.observer.TabOperation("activate", "ok")
	c.commit(ctx, change, route)
	return true
}

// Update changes the label and/or route of a tab. Empty arguments keep the
// current value. A tab moved onto the pinned route becomes unclosable, and
// rerouting the active tab navigates to its new route.
func (c *Collection) Update(ctx context.Context, tabID, label, route string) error {
	label = c.sanitize(label)
	route = paths.Normalize(route)

	c.mu.Lock()
	idx := c.indexLocked(tabID)
	if idx < 0 {
		c.mu.Unlock()
		return ErrTabNotFound
	}
	if route != "" {
		if other, ok := c.findLocked(route); ok && other.ID != tabID {
			c.mu.Unlock()
			return ErrDuplicateRoute
		}
	}

	tab := &c.tabs[idx]
	rerouted := route != "" && route != tab.Route
	if rerouted && c.pinned != "" && tab.Route == c.pinned {
		c.mu.Unlock()
		c.observer.TabOperation("update", "pinned")
		return ErrPinnedRoute
	}
	if (label == "" || label == tab.Label) && !rerouted {
		c.mu.Unlock()
		return nil
	}
	if label != "" {
		tab.Label = label
	}
	navigateTo := ""
	if rerouted {
		tab.Route = route
		if route == c.pinned {
			tab.Closable = false
		}
		if tabID == c.activeID {
			navigateTo = route
		}
	}
	change := c.changeLocked(ChangeUpdated, tabID)
	c.mu.Unlock()

	c.observer.TabOperation("update", "ok")
	c.commit(ctx, change, navigateTo)
	return nil
}

// Reset removes every tab and clears the active ID
func (c *Collection) Reset(ctx context.Context) {
	c.mu.Lock()
	c.tabs = nil
	c.activeID = ""
	change := c.changeLocked(ChangeReset, "")
	c.mu.Unlock()

	c.observer.TabOperation("reset", "ok")
	c.commit(ctx, change, "")
}

// List returns the tabs in display order
func (c *Collection) List() []Tab {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.tabs)
}

// Get returns the tab with tabID
func (c *Collection) Get(tabID string) (Tab, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if idx := c.indexLocked(tabID); idx >= 0 {
		return c.tabs[idx], true
	}
	return Tab{}, false
}

// FindByRoute returns the tab whose route equals route
func (c *Collection) FindByRoute(route string) (Tab, bool) {
	route = paths.Normalize(route)

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.findLocked(route)
}

// ActiveID returns the active tab ID, empty when none
func (c *Collection) ActiveID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeID
}

// Active returns the active tab
func (c *Collection) Active() (Tab, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if idx := c.indexLocked(c.activeID); idx >= 0 {
		return c.tabs[idx], true
	}
	return Tab{}, false
}

// Len returns the number of open tabs
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tabs)
}

// MaxTabs returns the capacity
func (c *Collection) MaxTabs() int {
	return c.max
}

// Full reports whether Add of a new route would fail
func (c *Collection) Full() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tabs) >= c.max
}

// Snapshot returns a consistent copy of the collection
func (c *Collection) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Subscribe registers fn for change notifications and returns its cancel
// function. Notifications are delivered synchronously, outside the lock.
func (c *Collection) Subscribe(fn func(Change)) func() {
	c.subMu.Lock()
	key := c.nextSub
	c.nextSub++
	c.subs[key] = fn
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, key)
			c.subMu.Unlock()
		})
	}
}

// commit persists and publishes a change, then navigates if requested.
// A zero Change skips persistence and notification.
func (c *Collection) commit(ctx context.Context, change Change, navigateTo string) bool {
	if change.Kind != "" {
		c.observer.TabsOpen(len(change.Snapshot.Tabs))
		c.persist(ctx, change.Snapshot, change.version)
		c.publish(change)
	}
	if navigateTo != "" && c.nav != nil {
		return c.nav.Navigate(navigateTo)
	}
	return false
}

func (c *Collection) publish(change Change) {
	c.subMu.Lock()
	keys := make([]uint64, 0, len(c.subs))
	for k := range c.subs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	fns := make([]func(Change), len(keys))
	for i, k := range keys {
		fns[i] = c.subs[k]
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}

// changeLocked bumps the version and captures the resulting state. Caller holds mu.
func (c *Collection) changeLocked(kind ChangeKind, tabID string) Change {
	c.version++
	return Change{
		Kind:     kind,
		TabID:    tabID,
		Snapshot: c.snapshotLocked(),
		version:  c.version,
	}
}

func (c *Collection) snapshotLocked() Snapshot {
	tabs := slices.Clone(c.tabs)
	if tabs == nil {
		tabs = []Tab{}
	}
	return Snapshot{
		Tabs:     tabs,
		ActiveID: c.activeID,
		MaxTabs:  c.max,
	}
}

func (c *Collection) indexLocked(tabID string) int {
	if tabID == "" {
		return -1
	}
	return slices.IndexFunc(c.tabs, func(t Tab) bool { return t.ID == tabID })
}

func (c *Collection) findLocked(route string) (Tab, bool) {
	idx := slices.IndexFunc(c.tabs, func(t Tab) bool { return t.Route == route })
	if idx < 0 {
		return Tab{}, false
	}
	return c.tabs[idx], true
}
