// Package kvstore persists workspace state as namespaced JSON documents.
//
// A Backend stores raw bytes by key. Store layers a key prefix and JSON
// (de)serialization on top of a Backend, and routes writes through a circuit
// breaker so a dead backend fails fast instead of on every mutation.
//
// Backends:
//   - MemoryBackend: process-local map, used for tests and ephemeral mode
//   - FileBackend: one file per key under a directory, atomic replace on write
//
// Example Usage:
//
//	backend, err := kvstore.NewFileBackend("/var/lib/bizadmin/state")
//	store := kvstore.New(backend, "bizadmin/")
//	tabs := store.Namespace("workspace/default/")
//	err = tabs.SetJSON(ctx, "active_tab", "tab_01H...")
package kvstore
