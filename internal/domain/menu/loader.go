package menu

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// document is the on-disk shape of a menu file
type document struct {
	Items []Item `json:"items" yaml:"items" toml:"items"`
}

// LoadFile reads a menu definition, choosing the decoder by extension
// (.yaml/.yml, .toml, .json).
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu %s: %w", path, err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes a menu definition in the format named by ext
func Parse(data []byte, ext string) (*Catalog, error) {
	var doc document

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("YAML parse error: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("TOML parse error: %w", err)
		}
	case "json":
		if err := sonic.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("JSON parse error: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported menu format %q", ext)
	}

	if len(doc.Items) == 0 {
		return nil, fmt.Errorf("menu has no items")
	}
	return NewCatalog(doc.Items)
}
