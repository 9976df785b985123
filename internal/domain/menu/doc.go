// Package menu holds the static side-menu catalog.
//
// The catalog is a two-level tree: top-level entries that are either a
// destination (Route set) or a group (Children set), and leaf children.
// The binding looks routes up here to decide the label and icon of a tab it
// creates; routes absent from the catalog are never turned into tabs.
//
// The catalog is read-only after construction. Default() returns the
// compiled-in console menu; LoadFile replaces it from YAML, TOML or JSON.
package menu
