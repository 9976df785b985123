package menu

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/paths"
)

var (
	ErrDuplicateRoute = errors.New("duplicate menu route")
	ErrTooDeep        = errors.New("menu nesting deeper than one level")
	ErrEmptyItem      = errors.New("menu item needs a label")
)

// Item is one side-menu entry
type Item struct {
	Key      string `json:"key,omitempty" yaml:"key,omitempty" toml:"key,omitempty"`
	Label    string `json:"label" yaml:"label" toml:"label"`
	Icon     string `json:"icon,omitempty" yaml:"icon,omitempty" toml:"icon,omitempty"`
	Route    string `json:"route,omitempty" yaml:"route,omitempty" toml:"route,omitempty"`
	Children []Item `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// IsGroup reports whether the item has children
func (i Item) IsGroup() bool {
	return len(i.Children) > 0
}

// Entry is the result of a route lookup
type Entry struct {
	Item
	// Group is the key of the parent group, empty for top-level items
	Group string `json:"group,omitempty"`
}

// Catalog indexes a menu tree by route
type Catalog struct {
	items   []Item
	byRoute map[string]Entry
}

// NewCatalog validates items and builds the route index.
// Routes are normalized; a group without a key gets its label as key.
func NewCatalog(items []Item) (*Catalog, error) {
	c := &Catalog{
		items:   make([]Item, 0, len(items)),
		byRoute: make(map[string]Entry),
	}

	for _, item := range items {
		if item.Label == "" {
			return nil, ErrEmptyItem
		}
		item.Route = paths.Normalize(item.Route)
		if item.Key == "" {
			item.Key = item.Label
		}

		children := make([]Item, 0, len(item.Children))
		for _, child := range item.Children {
			if child.Label == "" {
				return nil, fmt.Errorf("%w: child of %q", ErrEmptyItem, item.Key)
			}
			if child.IsGroup() {
				return nil, fmt.Errorf("%w: %q under %q", ErrTooDeep, child.Label, item.Key)
			}
			child.Route = paths.Normalize(child.Route)
			if child.Key == "" {
				child.Key = child.Label
			}
			if err := c.index(child, item.Key); err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		item.Children = children

		if err := c.index(item, ""); err != nil {
			return nil, err
		}
		c.items = append(c.items, item)
	}

	return c, nil
}

// MustCatalog is NewCatalog for compiled-in menus
func MustCatalog(items []Item) *Catalog {
	c, err := NewCatalog(items)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) index(item Item, group string) error {
	if item.Route == "" {
		return nil
	}
	if _, exists := c.byRoute[item.Route]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRoute, item.Route)
	}
	leaf := item
	leaf.Children = nil
	c.byRoute[item.Route] = Entry{Item: leaf, Group: group}
	return nil
}

// Lookup finds the entry for a route
func (c *Catalog) Lookup(route string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	e, ok := c.byRoute[paths.Normalize(route)]
	return e, ok
}

// GroupOf returns the key of the group containing route
func (c *Catalog) GroupOf(route string) (string, bool) {
	e, ok := c.Lookup(route)
	if !ok || e.Group == "" {
		return "", false
	}
	return e.Group, true
}

// Items returns a copy of the menu tree
func (c *Catalog) Items() []Item {
	if c == nil {
		return nil
	}
	out := make([]Item, len(c.items))
	for i, item := range c.items {
		item.Children = append([]Item(nil), item.Children...)
		out[i] = item
	}
	return out
}

// Routes returns the number of routable entries
func (c *Catalog) Routes() int {
	if c == nil {
		return 0
	}
	return len(c.byRoute)
}
