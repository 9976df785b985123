package tabs

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/id"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/paths"
)

// Option configures a Collection
type Option func(*Collection)

// WithMaxTabs sets the capacity; non-positive values are ignored
func WithMaxTabs(n int) Option {
	return func(c *Collection) {
		if n > 0 {
			c.max = n
		}
	}
}

// WithPinnedRoute names the route of the home tab. Its tab is never closable
// and keeps its route on Update.
func WithPinnedRoute(route string) Option {
	return func(c *Collection) {
		c.pinned = paths.Normalize(route)
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Collection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDGenerator overrides tab ID generation
func WithIDGenerator(gen func() string) Option {
	return func(c *Collection) {
		if gen != nil {
			c.newID = gen
		}
	}
}

// WithSanitizer overrides label sanitization
func WithSanitizer(fn func(string) string) Option {
	return func(c *Collection) {
		if fn != nil {
			c.sanitize = fn
		}
	}
}

// WithObserver registers an operational observer
func WithObserver(o Observer) Option {
	return func(c *Collection) {
		if o != nil {
			c.observer = o
		}
	}
}

func newTabID() string {
	return id.NewTabID().String()
}

var labelPolicy = bluemonday.StrictPolicy()

// SanitizeLabel strips markup from a display label.
// The strict policy escapes entities; labels are plain text, so they are
// unescaped again after tags are gone.
func SanitizeLabel(label string) string {
	return strings.TrimSpace(html.UnescapeString(labelPolicy.Sanitize(label)))
}
