package paths

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Root is the application root route
const Root = "/"

// Normalize returns the canonical form of a route: leading slash, no trailing
// slash, no query string or fragment, cleaned of "." and ".." segments.
// Blank input normalizes to "".
func Normalize(route string) string {
	route = strings.TrimSpace(route)
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	if route == "" {
		return ""
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return path.Clean(route)
}

// Equal compares two routes in canonical form
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Segments splits a route into its non-empty segments
func Segments(route string) []string {
	route = Normalize(route)
	if route == "" || route == Root {
		return nil
	}
	return strings.Split(strings.TrimPrefix(route, "/"), "/")
}

// IsUnder reports whether route equals parent or is nested below it
func IsUnder(route, parent string) bool {
	route, parent = Normalize(route), Normalize(parent)
	if route == "" || parent == "" {
		return false
	}
	if parent == Root || route == parent {
		return true
	}
	return strings.HasPrefix(route, parent+"/")
}

// Matcher matches routes against doublestar glob patterns
type Matcher struct {
	patterns []string
}

// NewMatcher validates and compiles the given patterns
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid route pattern %q", p)
		}
		m.patterns = append(m.patterns, p)
	}
	return m, nil
}

// Match reports whether the normalized route matches any pattern
func (m *Matcher) Match(route string) bool {
	if m == nil {
		return false
	}
	route = Normalize(route)
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, route); ok {
			return true
		}
	}
	return false
}

// Patterns returns the compiled patterns
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.patterns...)
}
