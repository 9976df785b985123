package tabs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/kvstore"
)

// brokenStore fails every operation
type brokenStore struct {
	writes int
}

func (b *brokenStore) GetJSON(ctx context.Context, key string, v any) error {
	return errors.New("storage unavailable")
}

func (b *brokenStore) SetJSON(ctx context.Context, key string, v any) error {
	b.writes++
	return errors.New("quota exceeded")
}

// countingObserver records observer callbacks
type countingObserver struct {
	persistFailures int
	open            int
	ops             map[string]int
}

func (o *countingObserver) TabOperation(op, result string) {
	if o.ops == nil {
		o.ops = map[string]int{}
	}
	o.ops[op+":"+result]++
}
func (o *countingObserver) TabsOpen(n int)           { o.open = n }
func (o *countingObserver) PersistFailed(key string) { o.persistFailures++ }

func TestPersistFormat(t *testing.T) {
	ctx := context.Background()
	backend := kvstore.NewMemoryBackend()
	store := kvstore.New(backend, "ws/")
	c := New(store, nil, WithIDGenerator(sequentialIDs()))

	_, err := c.Add(ctx, Spec{Label: "Dashboard", Route: "/app/dashboard", Icon: "dashboard"})
	require.NoError(t, err)

	rawTabs, err := backend.Get(ctx, "ws/tabs")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"tab_1","label":"Dashboard","route":"/app/dashboard","icon":"dashboard","closable":false}]`, string(rawTabs))

	rawActive, err := backend.Get(ctx, "ws/active_tab")
	require.NoError(t, err)
	assert.JSONEq(t, `"tab_1"`, string(rawActive))
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kvstore.New(kvstore.NewMemoryBackend(), "ws/")

	first := New(store, nil)
	_, err := first.Add(ctx, Spec{Label: "Dashboard", Route: "/app/dashboard"})
	require.NoError(t, err)
	_, err = first.Add(ctx, Spec{Label: "Clients", Route: "/app/clients", Icon: "groups", Closable: true})
	require.NoError(t, err)
	contracts, err := first.Add(ctx, Spec{Label: "Contracts", Route: "/app/contracts", Closable: true})
	require.NoError(t, err)
	require.True(t, first.SetActive(ctx, contracts))

	second := New(store, nil)
	loaded := second.Load(ctx)

	assert.Equal(t, first.Snapshot(), loaded)
	assert.Equal(t, first.Snapshot(), second.Snapshot())
}

func TestLoadMissingYieldsEmpty(t *testing.T) {
	c := New(kvstore.New(kvstore.NewMemoryBackend(), "ws/"), nil)

	snap := c.Load(context.Background())

	assert.Empty(t, snap.Tabs)
	assert.Empty(t, snap.ActiveID)
}

func TestLoadCorruptYieldsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		tabs   string
		active string
	}{
		{"not json", `{{{`, `"x"`},
		{"object instead of array", `{"id":"a"}`, `"a"`},
		{"wrong element type", `[1,2,3]`, `"a"`},
		{"active not a string", `[]`, `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			backend := kvstore.NewMemoryBackend()
			require.NoError(t, backend.Set(ctx, "ws/tabs", []byte(tt.tabs)))
			require.NoError(t, backend.Set(ctx, "ws/active_tab", []byte(tt.active)))

			c := New(kvstore.New(backend, "ws/"), nil)
			var snap Snapshot
			assert.NotPanics(t, func() { snap = c.Load(ctx) })

			assert.Empty(t, snap.Tabs)
			assert.Empty(t, snap.ActiveID)
		})
	}
}

func TestLoadRepairsStoredState(t *testing.T) {
	ctx := context.Background()
	backend := kvstore.NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, "ws/tabs", []byte(`[
		{"id":"t1","label":"A","route":"/a/","closable":true},
		{"id":"t2","label":"A again","route":"/a","closable":true},
		{"id":"","label":"no id","route":"/b","closable":true},
		{"id":"t3","label":"","route":"/c","closable":true},
		{"id":"t4","label":"D","route":"/d","closable":true}
	]`)))
	require.NoError(t, backend.Set(ctx, "ws/active_tab", []byte(`"t-gone"`)))

	c := New(kvstore.New(backend, "ws/"), nil, WithMaxTabs(2))
	snap := c.Load(ctx)

	require.Len(t, snap.Tabs, 2)
	assert.Equal(t, "/a", snap.Tabs[0].Route)
	assert.Equal(t, "/c", snap.Tabs[1].Label)
	assert.Equal(t, "t1", snap.ActiveID, "dangling active falls back to first tab")

	raw, err := backend.Get(ctx, "ws/active_tab")
	require.NoError(t, err)
	assert.JSONEq(t, `"t1"`, string(raw), "repaired state is written back")
}

func TestPersistFailureDoesNotAbortMutation(t *testing.T) {
	ctx := context.Background()
	store := &brokenStore{}
	obs := &countingObserver{}
	c := New(store, nil, WithObserver(obs))

	tabID, err := c.Add(ctx, Spec{Route: "/a", Closable: true})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, tabID, c.ActiveID())

	_, err = c.Close(ctx, tabID)
	require.NoError(t, err)
	assert.Zero(t, c.Len())

	assert.Equal(t, 2, obs.persistFailures)
	assert.Equal(t, 2, store.writes)
}

func TestLoadFromBrokenStore(t *testing.T) {
	c := New(&brokenStore{}, nil)

	snap := c.Load(context.Background())

	assert.Empty(t, snap.Tabs)
}

func TestObserverCounts(t *testing.T) {
	ctx := context.Background()
	obs := &countingObserver{}
	c := New(nil, nil, WithObserver(obs), WithMaxTabs(1))

	_, _ = c.Add(ctx, Spec{Route: "/a"})
	_, _ = c.Add(ctx, Spec{Route: "/a"})
	_, _ = c.Add(ctx, Spec{Route: "/b"})

	assert.Equal(t, 1, obs.ops["add:ok"])
	assert.Equal(t, 1, obs.ops["add:existing"])
	assert.Equal(t, 1, obs.ops["add:capacity"])
	assert.Equal(t, 1, obs.open)
}
