package binding

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/menu"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/router"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/tabs"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/paths"
)

// Outcome describes what a route change did to the tabs
type Outcome string

const (
	OutcomeSkipped   Outcome = "skipped"
	OutcomeActivated Outcome = "activated"
	OutcomeCreated   Outcome = "created"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeCapacity  Outcome = "capacity"
	OutcomeUntracked Outcome = "untracked"
)

// Tabs is the part of the tab collection the binding drives
type Tabs interface {
	FindByRoute(route string) (tabs.Tab, bool)
	ActiveID() string
	SetActive(ctx context.Context, tabID string) bool
	Add(ctx context.Context, spec tabs.Spec) (string, error)
	Full() bool
}

// Navigation is the part of the navigation state the binding drives
type Navigation interface {
	Sync(route, tabID string)
	ExpandGroup(key string) bool
}

// Source publishes route changes
type Source interface {
	Current() string
	Subscribe(l router.Listener) func()
}

// Binding keeps tabs and navigation in step with the router
type Binding struct {
	tabs         Tabs
	nav          Navigation
	catalog      *menu.Catalog
	ignore       *paths.Matcher
	defaultRoute string
	logger       *zap.Logger
	onCapacity   func(route string)
	onOutcome    func(route string, outcome Outcome)

	mu        sync.Mutex
	lastRoute string
	cancel    func()
}

// Option configures a Binding
type Option func(*Binding)

// WithIgnore skips tab creation for routes matching m
func WithIgnore(m *paths.Matcher) Option {
	return func(b *Binding) {
		b.ignore = m
	}
}

// WithDefaultRoute sets the route whose tab is not closable
func WithDefaultRoute(route string) Option {
	return func(b *Binding) {
		b.defaultRoute = paths.Normalize(route)
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(b *Binding) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// OnCapacity is called when a menu route could not get a tab because the
// collection is full
func OnCapacity(fn func(route string)) Option {
	return func(b *Binding) {
		b.onCapacity = fn
	}
}

// OnOutcome is called after every handled route
func OnOutcome(fn func(route string, outcome Outcome)) Option {
	return func(b *Binding) {
		b.onOutcome = fn
	}
}

// New creates a binding. catalog may be nil, in which case no tabs are created.
func New(t Tabs, nav Navigation, catalog *menu.Catalog, opts ...Option) *Binding {
	b := &Binding{
		tabs:         t,
		nav:          nav,
		catalog:      catalog,
		defaultRoute: menu.DefaultRoute,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach subscribes to src and processes its current route.
// A binding can be attached to one source at a time.
func (b *Binding) Attach(ctx context.Context, src Source) {
	b.Detach()

	cancel := src.Subscribe(func(_, to string) {
		b.Handle(ctx, to)
	})

	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()

	if current := src.Current(); current != "" {
		b.Handle(ctx, current)
	}
}

// Detach stops listening to the attached source
func (b *Binding) Detach() {
	b.mu.Lock()
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// LastRoute returns the last processed route
func (b *Binding) LastRoute() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastRoute
}

// Forget clears the last processed route so the next change is handled
// even if it repeats it
func (b *Binding) Forget() {
	b.mu.Lock()
	b.lastRoute = ""
	b.mu.Unlock()
}

// Handle applies one route change. Repeating the last processed route is a no-op.
func (b *Binding) Handle(ctx context.Context, route string) Outcome {
	route = paths.Normalize(route)
	if route == "" {
		return OutcomeSkipped
	}

	b.mu.Lock()
	if route == b.lastRoute {
		b.mu.Unlock()
		return OutcomeSkipped
	}
	b.lastRoute = route
	outcome := b.bindLocked(ctx, route)
	b.mu.Unlock()

	if outcome == OutcomeCapacity && b.onCapacity != nil {
		b.onCapacity(route)
	}
	if b.onOutcome != nil {
		b.onOutcome(route, outcome)
	}
	return outcome
}

// bindLocked runs with mu held. Tab calls below never navigate, so they
// cannot re-enter Handle.
func (b *Binding) bindLocked(ctx context.Context, route string) Outcome {
	outcome := b.resolve(ctx, route)

	b.nav.Sync(route, b.tabs.ActiveID())
	if b.catalog != nil {
		if group, ok := b.catalog.GroupOf(route); ok {
			b.nav.ExpandGroup(group)
		}
	}

	b.logger.Debug("Route bound",
		zap.String("route", route),
		zap.String("outcome", string(outcome)),
	)
	return outcome
}

func (b *Binding) resolve(ctx context.Context, route string) Outcome {
	if tab, ok := b.tabs.FindByRoute(route); ok {
		if b.tabs.ActiveID() != tab.ID {
			b.tabs.SetActive(ctx, tab.ID)
		}
		return OutcomeActivated
	}

	entry, ok := b.catalog.Lookup(route)
	if !ok {
		return OutcomeUntracked
	}
	if b.ignore.Match(route) {
		return OutcomeIgnored
	}
	if b.tabs.Full() {
		return OutcomeCapacity
	}

	tabID, err := b.tabs.Add(ctx, tabs.Spec{
		Label:    entry.Label,
		Route:    route,
		Icon:     entry.Icon,
		Closable: route != b.defaultRoute,
	})
	if errors.Is(err, tabs.ErrCapacityExceeded) {
		return OutcomeCapacity
	}
	if err != nil {
		b.logger.Warn("Failed to create tab for route",
			zap.String("route", route),
			zap.Error(err),
		)
		return OutcomeUntracked
	}

	b.tabs.SetActive(ctx, tabID)
	return OutcomeCreated
}
