package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"/", "/"},
		{"app/clients", "/app/clients"},
		{"/app/clients/", "/app/clients"},
		{"/app/contracts?page=2", "/app/contracts"},
		{"/app/contracts#top", "/app/contracts"},
		{"/app//a/../b", "/app/b"},
		{"?only=query", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("/app/x/", "app/x"))
	assert.False(t, Equal("/app/x", "/app/y"))
}

func TestSegments(t *testing.T) {
	assert.Nil(t, Segments("/"))
	assert.Equal(t, []string{"app", "clients", "42"}, Segments("/app/clients/42/"))
}

func TestIsUnder(t *testing.T) {
	assert.True(t, IsUnder("/app/contracts/7", "/app/contracts"))
	assert.True(t, IsUnder("/app/contracts", "/app/contracts"))
	assert.True(t, IsUnder("/anything", "/"))
	assert.False(t, IsUnder("/app/contractsx", "/app/contracts"))
	assert.False(t, IsUnder("", "/app"))
}

func TestMatcher(t *testing.T) {
	m, err := NewMatcher([]string{"/auth/**", "/app/*/print", " "})
	require.NoError(t, err)

	assert.Equal(t, []string{"/auth/**", "/app/*/print"}, m.Patterns())
	assert.True(t, m.Match("/auth/login"))
	assert.True(t, m.Match("/auth/reset/step/2"))
	assert.True(t, m.Match("/app/contracts/print/"))
	assert.False(t, m.Match("/app/contracts"))
}

func TestMatcherInvalidPattern(t *testing.T) {
	_, err := NewMatcher([]string{"/app/[unclosed"})
	assert.Error(t, err)
}

func TestNilMatcher(t *testing.T) {
	var m *Matcher
	assert.False(t, m.Match("/auth/login"))
	assert.Nil(t, m.Patterns())
}
