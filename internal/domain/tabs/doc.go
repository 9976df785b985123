// Package tabs implements the ordered collection of open workspace tabs.
//
// A tab is an open routed view. The collection keeps tabs in display order,
// tracks which one is active, and mirrors itself to a key-value store after
// every mutation. The in-memory state is authoritative: a failed write is
// logged and counted, never rolled back.
//
// Invariants:
//   - at most one tab per route (routes are compared in normalized form)
//   - never more than MaxTabs tabs; Add past the bound returns ErrCapacityExceeded
//   - the active ID, when set, names a tab in the collection
//
// Closing the active tab picks a successor: the tab now at the closed tab's
// index, else the one before it, else the first tab, else none.
//
// Operations that change the visible view (Open, Activate, Close of the
// active tab, CloseOthers) ask the Navigator to move to the new route.
// SetActive changes state only and is what route-driven callers use, so a
// route change never loops back into another navigation.
//
// Example Usage:
//
//	c := tabs.New(store.Namespace("workspace/default/"), router,
//	    tabs.WithMaxTabs(10), tabs.WithLogger(logger))
//	c.Load(ctx)
//	id, err := c.Add(ctx, tabs.Spec{Label: "Dashboard", Route: "/app/dashboard"})
//	if errors.Is(err, tabs.ErrCapacityExceeded) {
//	    // tell the user
//	}
package tabs
