package workspace

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/kvstore"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/tabs"
)

// DefaultID is the workspace used when a client does not name one
const DefaultID = "default"

var ErrInvalidID = errors.New("invalid workspace id")

var validID = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidID reports whether id can name a workspace
func ValidID(id string) bool {
	return validID.MatchString(id)
}

// Stats summarizes the loaded workspaces
type Stats struct {
	Workspaces  int `json:"workspaces"`
	OpenTabs    int `json:"open_tabs"`
	Subscribers int `json:"subscribers"`
	MaxTabs     int `json:"max_tabs"`
}

// Manager keeps one workspace per ID
type Manager struct {
	workspaces sync.Map
	createMu   sync.Mutex
	store      *kvstore.Store
	cfg        Config
	logger     *zap.Logger
}

// NewManager creates a manager. Each workspace persists under
// "workspace/<id>/" inside store; a nil store keeps everything in memory.
func NewManager(store *kvstore.Store, cfg Config, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Open returns the workspace for id, creating and loading it on first use
func (m *Manager) Open(ctx context.Context, id string) (*Workspace, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if w, ok := m.Get(id); ok {
		return w, nil
	}

	m.createMu.Lock()
	defer m.createMu.Unlock()

	// Another caller may have created it while we waited.
	if w, ok := m.Get(id); ok {
		return w, nil
	}

	var store tabs.Store
	if m.store != nil {
		store = m.store.Namespace(namespace(id))
	}
	w := New(id, store, m.cfg, m.logger)
	w.Start(ctx)
	m.workspaces.Store(id, w)

	m.logger.Info("Workspace opened",
		zap.String("workspace", id),
		zap.Int("tabs", len(w.Tabs().Tabs)),
	)
	return w, nil
}

// Get returns a loaded workspace
func (m *Manager) Get(id string) (*Workspace, bool) {
	v, ok := m.workspaces.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Workspace), true
}

// List returns the loaded workspaces ordered by ID
func (m *Manager) List() []*Workspace {
	var out []*Workspace
	m.workspaces.Range(func(_, v any) bool {
		out = append(out, v.(*Workspace))
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Persisted returns the IDs of workspaces with stored state, loaded or not
func (m *Manager) Persisted(ctx context.Context) ([]string, error) {
	if m.store == nil {
		return nil, nil
	}
	keys, err := m.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list persisted workspaces: %w", err)
	}

	seen := make(map[string]bool)
	var ids []string
	for _, key := range keys {
		rest, ok := strings.CutPrefix(key, "workspace/")
		if !ok {
			continue
		}
		id, _, ok := strings.Cut(rest, "/")
		if !ok || seen[id] || !ValidID(id) {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Drop unloads a workspace. With purge its stored state is deleted too.
// It returns false if the workspace was neither loaded nor purged.
func (m *Manager) Drop(ctx context.Context, id string, purge bool) (bool, error) {
	v, loaded := m.workspaces.LoadAndDelete(id)
	if loaded {
		v.(*Workspace).Close()
	}
	if !purge || m.store == nil {
		return loaded, nil
	}

	ns := m.store.Namespace(namespace(id))
	for _, key := range []string{tabs.KeyTabs, tabs.KeyActive} {
		if err := ns.Remove(ctx, key); err != nil && !kvstore.IsNotFound(err) {
			return loaded, fmt.Errorf("purge workspace %s: %w", id, err)
		}
	}
	m.logger.Info("Workspace dropped", zap.String("workspace", id), zap.Bool("purged", purge))
	return true, nil
}

// Close unloads every workspace
func (m *Manager) Close() {
	m.workspaces.Range(func(k, v any) bool {
		v.(*Workspace).Close()
		m.workspaces.Delete(k)
		return true
	})
}

// Stats returns aggregate counts over loaded workspaces
func (m *Manager) Stats() Stats {
	stats := Stats{MaxTabs: m.cfg.MaxTabs}
	if stats.MaxTabs <= 0 {
		stats.MaxTabs = tabs.DefaultMaxTabs
	}
	for _, w := range m.List() {
		stats.Workspaces++
		stats.OpenTabs += len(w.Tabs().Tabs)
		stats.Subscribers += w.Subscribers()
	}
	return stats
}

func namespace(id string) string {
	return "workspace/" + id + "/"
}
