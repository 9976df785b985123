// Package paths normalizes and matches application route paths.
//
// Routes are the natural key of a tab, so every component compares them in
// one canonical form:
//
//	"app/clients/"        -> "/app/clients"
//	"/app/contracts?x=1"  -> "/app/contracts"
//	"/app//a/../b#frag"   -> "/app/b"
//
// # Usage
//
//	route := paths.Normalize(raw)
//	if paths.IsUnder(route, "/app/contracts") {
//	    // contract detail views
//	}
//
//	ignore, err := paths.NewMatcher([]string{"/auth/**", "/app/*/print"})
//	if ignore.Match(route) {
//	    // never tracked as a tab
//	}
package paths
