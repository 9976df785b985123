package menu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlMenu = `
items:
  - key: home
    label: Home
    icon: home
    route: /app/home
  - key: public-info
    label: Public information
    children:
      - label: Company
        route: /app/public-info/company
`

const tomlMenu = `
[[items]]
key = "home"
label = "Home"
route = "/app/home"

[[items]]
key = "public-info"
label = "Public information"

  [[items.children]]
  label = "Company"
  route = "/app/public-info/company"
`

const jsonMenu = `{"items":[
  {"key":"home","label":"Home","route":"/app/home"},
  {"key":"public-info","label":"Public information","children":[
    {"label":"Company","route":"/app/public-info/company"}
  ]}
]}`

func TestParseFormats(t *testing.T) {
	tests := []struct {
		ext  string
		data string
	}{
		{".yaml", yamlMenu},
		{"yml", yamlMenu},
		{".toml", tomlMenu},
		{".json", jsonMenu},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			c, err := Parse([]byte(tt.data), tt.ext)
			require.NoError(t, err)

			assert.Equal(t, 2, c.Routes())

			entry, ok := c.Lookup("/app/public-info/company")
			require.True(t, ok)
			assert.Equal(t, "Company", entry.Label)
			assert.Equal(t, "public-info", entry.Group)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(yamlMenu), ".ini")
	assert.Error(t, err)

	_, err = Parse([]byte(`{"items":[]}`), ".json")
	assert.Error(t, err)

	_, err = Parse([]byte(`items: [`), ".yaml")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlMenu), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)

	_, ok := c.Lookup("/app/home")
	assert.True(t, ok)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
