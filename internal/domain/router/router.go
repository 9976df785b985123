// Package router is the in-process route state of a workspace.
//
// It stands in for the browser router: callers request navigation with
// Navigate, and subscribers receive a notification for every distinct route
// change. Navigating to the current route is a no-op and notifies nobody.
package router

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/paths"
)

// Listener is called after the current route changed from one path to another
type Listener func(from, to string)

// Router tracks the current route
type Router struct {
	mu        sync.Mutex
	current   string
	listeners map[uint64]Listener
	nextID    uint64
	changes   uint64
	logger    *zap.Logger
}

// New creates a router positioned at initial (may be empty)
func New(initial string, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		current:   paths.Normalize(initial),
		listeners: make(map[uint64]Listener),
		logger:    logger,
	}
}

// Current returns the current route
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Changes returns how many route changes were published
func (r *Router) Changes() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.changes
}

// Navigate moves to route and notifies listeners synchronously.
// It returns false when route is blank or already current.
func (r *Router) Navigate(route string) bool {
	route = paths.Normalize(route)

	r.mu.Lock()
	if route == "" || route == r.current {
		r.mu.Unlock()
		return false
	}
	from := r.current
	r.current = route
	r.changes++
	listeners := r.snapshot()
	r.mu.Unlock()

	r.logger.Debug("Route changed", zap.String("from", from), zap.String("to", route))

	// Listeners run without the lock so they may navigate again.
	for _, l := range listeners {
		l(from, route)
	}
	return true
}

// Reset clears the current route without notifying listeners, so the next
// Navigate to any route is published.
func (r *Router) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = ""
}

// Subscribe registers a listener and returns its cancel function
func (r *Router) Subscribe(l Listener) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = l
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.listeners, id)
			r.mu.Unlock()
		})
	}
}

// snapshot returns listeners in registration order. Caller holds mu.
func (r *Router) snapshot() []Listener {
	ids := make([]uint64, 0, len(r.listeners))
	for id := range r.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Listener, len(ids))
	for i, id := range ids {
		out[i] = r.listeners[id]
	}
	return out
}
