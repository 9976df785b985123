package navigation

import (
	"sort"
	"sync"

	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/paths"
)

// Snapshot is a consistent copy of the navigation state
type Snapshot struct {
	ActiveRoute    string   `json:"active_route"`
	ActiveTabID    string   `json:"active_tab_id,omitempty"`
	ExpandedGroups []string `json:"expanded_groups"`
}

// IsGroupExpanded reports membership in the snapshot
func (s Snapshot) IsGroupExpanded(key string) bool {
	i := sort.SearchStrings(s.ExpandedGroups, key)
	return i < len(s.ExpandedGroups) && s.ExpandedGroups[i] == key
}

// State is the navigation state of one workspace
type State struct {
	mu          sync.RWMutex
	activeRoute string
	activeTabID string
	expanded    map[string]struct{}

	subMu   sync.Mutex
	subs    map[uint64]func(Snapshot)
	nextSub uint64
}

// New creates an empty state
func New() *State {
	return &State{
		expanded: make(map[string]struct{}),
		subs:     make(map[uint64]func(Snapshot)),
	}
}

// Sync sets the active route and tab in one step
func (s *State) Sync(route, tabID string) {
	route = paths.Normalize(route)

	s.mu.Lock()
	if s.activeRoute == route && s.activeTabID == tabID {
		s.mu.Unlock()
		return
	}
	s.activeRoute = route
	s.activeTabID = tabID
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

// SetActiveTab replaces the active tab and keeps the route
func (s *State) SetActiveTab(tabID string) {
	s.mu.Lock()
	if s.activeTabID == tabID {
		s.mu.Unlock()
		return
	}
	s.activeTabID = tabID
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

// ToggleGroup flips the expansion of key and returns the new membership
func (s *State) ToggleGroup(key string) bool {
	s.mu.Lock()
	_, open := s.expanded[key]
	if open {
		delete(s.expanded, key)
	} else {
		s.expanded[key] = struct{}{}
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
	return !open
}

// ExpandGroup expands key. It returns false if key was already expanded.
func (s *State) ExpandGroup(key string) bool {
	if key == "" {
		return false
	}

	s.mu.Lock()
	if _, open := s.expanded[key]; open {
		s.mu.Unlock()
		return false
	}
	s.expanded[key] = struct{}{}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
	return true
}

// IsGroupExpanded reports whether key is expanded
func (s *State) IsGroupExpanded(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, open := s.expanded[key]
	return open
}

// IsRouteActive reports whether route is the active route
func (s *State) IsRouteActive(route string) bool {
	route = paths.Normalize(route)
	if route == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeRoute == route
}

// ActiveRoute returns the active route
func (s *State) ActiveRoute() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeRoute
}

// ActiveTabID returns the tab bound to the active route
func (s *State) ActiveTabID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeTabID
}

// Reset clears the route, the tab and every expanded group
func (s *State) Reset() {
	s.mu.Lock()
	s.activeRoute = ""
	s.activeTabID = ""
	s.expanded = make(map[string]struct{})
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

// Snapshot returns a copy of the state
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for every change and returns its cancel function
func (s *State) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	key := s.nextSub
	s.nextSub++
	s.subs[key] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, key)
			s.subMu.Unlock()
		})
	}
}

func (s *State) publish(snap Snapshot) {
	s.subMu.Lock()
	keys := make([]uint64, 0, len(s.subs))
	for k := range s.subs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	fns := make([]func(Snapshot), len(keys))
	for i, k := range keys {
		fns[i] = s.subs[k]
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *State) snapshotLocked() Snapshot {
	groups := make([]string, 0, len(s.expanded))
	for k := range s.expanded {
		groups = append(groups, k)
	}
	sort.Strings(groups)
	return Snapshot{
		ActiveRoute:    s.activeRoute,
		ActiveTabID:    s.activeTabID,
		ExpandedGroups: groups,
	}
}
