package workspace

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/binding"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/menu"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/navigation"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/router"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/tabs"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/paths"
)

// EventType names a workspace event
type EventType string

const (
	EventTabs         EventType = "tabs"
	EventNavigation   EventType = "navigation"
	EventNotification EventType = "notification"
)

// Notification is a user-facing message
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Route   string `json:"route,omitempty"`
}

// Event is delivered to workspace subscribers
type Event struct {
	Type         EventType            `json:"type"`
	Workspace    string               `json:"workspace"`
	Tabs         *tabs.Change         `json:"tabs,omitempty"`
	Navigation   *navigation.Snapshot `json:"navigation,omitempty"`
	Notification *Notification        `json:"notification,omitempty"`
}

// View is a point-in-time copy of a workspace
type View struct {
	ID         string              `json:"id"`
	Route      string              `json:"route"`
	Tabs       tabs.Snapshot       `json:"tabs"`
	Navigation navigation.Snapshot `json:"navigation"`
	CreatedAt  time.Time           `json:"created_at"`
}

// Observer receives workspace metrics
type Observer interface {
	tabs.Observer
	RouteBound(outcome string)
}

// Config holds per-workspace settings
type Config struct {
	MaxTabs      int
	DefaultRoute string
	Catalog      *menu.Catalog
	Ignore       *paths.Matcher
	Observer     Observer
}

// Workspace is the session model of one user
type Workspace struct {
	id        string
	createdAt time.Time
	logger    *zap.Logger

	mu      sync.Mutex
	tabs    *tabs.Collection
	nav     *navigation.State
	router  *router.Router
	binding *binding.Binding
	cfg     Config

	subMu   sync.Mutex
	subs    map[uint64]func(Event)
	nextSub uint64

	cancels []func()
	closed  bool
}

// New wires a workspace. store may be nil for an unpersisted workspace.
func New(id string, store tabs.Store, cfg Config, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = menu.Default()
	}
	logger = logger.With(zap.String("workspace", id))

	w := &Workspace{
		id:        id,
		createdAt: time.Now(),
		logger:    logger,
		nav:       navigation.New(),
		router:    router.New("", logger),
		cfg:       cfg,
		subs:      make(map[uint64]func(Event)),
	}

	tabOpts := []tabs.Option{tabs.WithLogger(logger), tabs.WithPinnedRoute(w.DefaultRoute())}
	if cfg.MaxTabs > 0 {
		tabOpts = append(tabOpts, tabs.WithMaxTabs(cfg.MaxTabs))
	}
	if cfg.Observer != nil {
		tabOpts = append(tabOpts, tabs.WithObserver(cfg.Observer))
	}
	w.tabs = tabs.New(store, w.router, tabOpts...)

	bindOpts := []binding.Option{
		binding.WithLogger(logger),
		binding.WithIgnore(cfg.Ignore),
		binding.OnCapacity(w.capacityReached),
		binding.OnOutcome(func(_ string, outcome binding.Outcome) {
			if cfg.Observer != nil {
				cfg.Observer.RouteBound(string(outcome))
			}
		}),
	}
	if cfg.DefaultRoute != "" {
		bindOpts = append(bindOpts, binding.WithDefaultRoute(cfg.DefaultRoute))
	}
	w.binding = binding.New(w.tabs, w.nav, cfg.Catalog, bindOpts...)

	w.cancels = append(w.cancels,
		w.tabs.Subscribe(w.onTabsChanged),
		w.nav.Subscribe(w.onNavigationChanged),
	)
	return w
}

// Start restores persisted tabs and positions the router. The active tab's
// route wins; with no tabs the default route is opened.
func (w *Workspace) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := w.tabs.Load(ctx)
	w.binding.Attach(context.WithoutCancel(ctx), w.router)

	route := w.cfg.DefaultRoute
	if active, ok := snap.Active(); ok {
		route = active.Route
	}
	if route == "" {
		route = menu.DefaultRoute
	}
	w.router.Navigate(route)
}

// ID returns the workspace ID
func (w *Workspace) ID() string {
	return w.id
}

// CreatedAt returns when the workspace was created in this process
func (w *Workspace) CreatedAt() time.Time {
	return w.createdAt
}

// Catalog returns the menu served to this workspace
func (w *Workspace) Catalog() *menu.Catalog {
	return w.cfg.Catalog
}

// DefaultRoute returns the route of the workspace's pinned tab
func (w *Workspace) DefaultRoute() string {
	if w.cfg.DefaultRoute == "" {
		return menu.DefaultRoute
	}
	return paths.Normalize(w.cfg.DefaultRoute)
}

// View returns a snapshot of tabs and navigation
func (w *Workspace) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return View{
		ID:         w.id,
		Route:      w.router.Current(),
		Tabs:       w.tabs.Snapshot(),
		Navigation: w.nav.Snapshot(),
		CreatedAt:  w.createdAt,
	}
}

// Tabs returns the tab snapshot
func (w *Workspace) Tabs() tabs.Snapshot {
	return w.tabs.Snapshot()
}

// Navigation returns the navigation snapshot
func (w *Workspace) Navigation() navigation.Snapshot {
	return w.nav.Snapshot()
}

// AddTab adds a tab without activating it unless it is the first
func (w *Workspace) AddTab(ctx context.Context, spec tabs.Spec) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	tabID, err := w.tabs.Add(ctx, spec)
	if errors.Is(err, tabs.ErrCapacityExceeded) {
		w.capacityReached(spec.Route)
	}
	return tabID, err
}

// OpenTab adds a tab if needed and shows it
func (w *Workspace) OpenTab(ctx context.Context, spec tabs.Spec) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	tabID, err := w.tabs.Open(ctx, spec)
	if errors.Is(err, tabs.ErrCapacityExceeded) {
		w.capacityReached(spec.Route)
	}
	return tabID, err
}

// ActivateTab shows an existing tab. Unknown IDs return false.
func (w *Workspace) ActivateTab(ctx context.Context, tabID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.tabs.Activate(ctx, tabID) {
		return false
	}
	// Re-activating the tab of the current route does not navigate.
	if active, ok := w.tabs.Active(); ok {
		w.nav.Sync(active.Route, active.ID)
	}
	return true
}

// CloseTab closes a tab. Unknown IDs are a no-op. Closing the last tab
// leaves the router on no route, so navigating back reopens it.
func (w *Workspace) CloseTab(ctx context.Context, tabID string) (tabs.CloseResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	result, err := w.tabs.Close(ctx, tabID)
	if err == nil && result.Removed && w.tabs.ActiveID() == "" {
		w.clearRoute()
		w.nav.Sync("", "")
	}
	return result, err
}

// CloseOtherTabs closes every closable tab except keepID
func (w *Workspace) CloseOtherTabs(ctx context.Context, keepID string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tabs.CloseOthers(ctx, keepID)
}

// UpdateTab relabels or reroutes a tab. Rerouting the active tab navigates;
// the home tab keeps its route.
func (w *Workspace) UpdateTab(ctx context.Context, tabID, label, route string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tabs.Update(ctx, tabID, label, route)
}

// Navigate moves the router to route. It returns false if route is blank or current.
func (w *Workspace) Navigate(ctx context.Context, route string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.router.Navigate(route)
}

// ToggleGroup flips a menu group and returns the new membership
func (w *Workspace) ToggleGroup(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.nav.ToggleGroup(key)
}

// Reset closes every tab and clears navigation
func (w *Workspace) Reset(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.tabs.Reset(ctx)
	w.nav.Reset()
	w.clearRoute()
}

// clearRoute drops the current route so the next navigation binds a tab again.
// Caller holds mu.
func (w *Workspace) clearRoute() {
	w.router.Reset()
	w.binding.Forget()
}

// Subscribe registers fn for workspace events and returns its cancel function
func (w *Workspace) Subscribe(fn func(Event)) func() {
	w.subMu.Lock()
	key := w.nextSub
	w.nextSub++
	w.subs[key] = fn
	w.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			w.subMu.Lock()
			delete(w.subs, key)
			w.subMu.Unlock()
		})
	}
}

// Subscribers returns the number of registered subscribers
func (w *Workspace) Subscribers() int {
	w.subMu.Lock()
	defer w.subMu.Unlock()
	return len(w.subs)
}

// Close detaches the binding and drops all subscriptions
func (w *Workspace) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true

	w.binding.Detach()
	for _, cancel := range w.cancels {
		cancel()
	}
	w.subMu.Lock()
	w.subs = make(map[uint64]func(Event))
	w.subMu.Unlock()
}

func (w *Workspace) onTabsChanged(change tabs.Change) {
	// Keep the navigation's tab pointer on a live tab.
	w.nav.SetActiveTab(change.Snapshot.ActiveID)
	w.emit(Event{Type: EventTabs, Tabs: &change})
}

func (w *Workspace) onNavigationChanged(snap navigation.Snapshot) {
	w.emit(Event{Type: EventNavigation, Navigation: &snap})
}

func (w *Workspace) capacityReached(route string) {
	w.logger.Info("Tab strip full", zap.String("route", route))
	w.emit(Event{
		Type: EventNotification,
		Notification: &Notification{
			Level:   "warning",
			Message: tabs.ErrCapacityExceeded.Error(),
			Route:   paths.Normalize(route),
		},
	})
}

func (w *Workspace) emit(e Event) {
	e.Workspace = w.id

	w.subMu.Lock()
	keys := make([]uint64, 0, len(w.subs))
	for k := range w.subs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	fns := make([]func(Event), len(keys))
	for i, k := range keys {
		fns[i] = w.subs[k]
	}
	w.subMu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
