// Package navigation holds the side-menu view state of a workspace.
//
// State tracks the active route, the tab bound to it, and which menu groups
// are expanded. It is ephemeral: nothing here is persisted, and a fresh
// workspace starts with every group collapsed.
//
// Features:
//   - Sync sets the active route and tab together
//   - ToggleGroup flips a group and reports the new membership
//   - Snapshot returns expanded groups in sorted order
//   - Subscribe delivers a snapshot after every change
package navigation
