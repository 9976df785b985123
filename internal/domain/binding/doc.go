// Package binding turns route changes into tab state.
//
// A Binding listens to a workspace router. For every distinct route it
// activates the tab already showing that route, or creates one from the
// menu catalog when the route is a known menu entry. Either way the
// navigation state is synced to the route and the menu group holding the
// route is expanded.
//
// Routes matching an ignore pattern are never turned into tabs. Tab
// creation stops at the collection's capacity; the binding reports that
// through the OnCapacity hook instead of failing the navigation.
//
// The binding only calls state-only tab operations, so it never triggers a
// navigation of its own.
package binding
