package tabs

import (
	"context"
	"errors"
)

// DefaultMaxTabs bounds the collection when no limit is configured
const DefaultMaxTabs = 10

// Storage keys inside the collection's namespace
const (
	KeyTabs   = "tabs"
	KeyActive = "active_tab"
)

var (
	ErrCapacityExceeded = errors.New("maximum number of tabs reached")
	ErrInvalidRoute     = errors.New("tab route is required")
	ErrNotClosable      = errors.New("tab cannot be closed")
	ErrTabNotFound      = errors.New("tab not found")
	ErrDuplicateRoute   = errors.New("another tab already has this route")
	ErrPinnedRoute      = errors.New("the pinned tab cannot change route")
)

// Tab is one open view
type Tab struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Route    string `json:"route"`
	Icon     string `json:"icon,omitempty"`
	Closable bool   `json:"closable"`
}

// Spec describes a tab to create
type Spec struct {
	Label    string `json:"label"`
	Route    string `json:"route"`
	Icon     string `json:"icon,omitempty"`
	Closable bool   `json:"closable"`
}

// Snapshot is a consistent copy of the collection
type Snapshot struct {
	Tabs     []Tab  `json:"tabs"`
	ActiveID string `json:"active_id,omitempty"`
	MaxTabs  int    `json:"max_tabs"`
}

// Active returns the active tab of the snapshot
func (s Snapshot) Active() (Tab, bool) {
	for _, t := range s.Tabs {
		if t.ID == s.ActiveID {
			return t, true
		}
	}
	return Tab{}, false
}

// ChangeKind names the mutation behind a Change
type ChangeKind string

const (
	ChangeAdded     ChangeKind = "added"
	ChangeClosed    ChangeKind = "closed"
	ChangeActivated ChangeKind = "activated"
	ChangeUpdated   ChangeKind = "updated"
	ChangeReset     ChangeKind = "reset"
	ChangeLoaded    ChangeKind = "loaded"
)

// Change is delivered to subscribers after every mutation
type Change struct {
	Kind     ChangeKind `json:"kind"`
	TabID    string     `json:"tab_id,omitempty"`
	Snapshot Snapshot   `json:"snapshot"`

	version uint64
}

// CloseResult reports what Close did
type CloseResult struct {
	Removed   bool   `json:"removed"`
	Successor string `json:"successor,omitempty"`
	Navigated bool   `json:"navigated"`
}

// Navigator requests a route change; it reports whether the route changed
type Navigator interface {
	Navigate(route string) bool
}

// Store persists JSON values by key
type Store interface {
	GetJSON(ctx context.Context, key string, v any) error
	SetJSON(ctx context.Context, key string, v any) error
}

// Observer receives operational events, typically for metrics
type Observer interface {
	TabOperation(op, result string)
	TabsOpen(n int)
	PersistFailed(key string)
}

type nopObserver struct{}

func (nopObserver) TabOperation(string, string) {}
func (nopObserver) TabsOpen(int)                {}
func (nopObserver) PersistFailed(string)        {}
