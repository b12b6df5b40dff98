package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfileURL(t *testing.T) {
	tests := []struct {
		raw      string
		base     string
		username string
	}{
		{"https://meta.discourse.org/u/alice/summary", "https://meta.discourse.org", "alice"},
		{"https://example.com/forum/u/bob/summary?x=1", "https://example.com/forum", "bob"},
		{"http://localhost:3000/u/carol", "http://localhost:3000", "carol"},
		{"https://example.com/u/d%C3%A9j%C3%A0/summary", "https://example.com", "déjà"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			target, err := ParseProfileURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.base, target.BaseURL)
			assert.Equal(t, tt.username, target.Username)
		})
	}
}

func TestParseProfileURL_Invalid(t *testing.T) {
	for _, raw := range []string{"alice", "https://example.com/latest", "://nope"} {
		_, err := ParseProfileURL(raw)
		assert.Error(t, err, raw)
	}
}

func TestLooksLikeURL(t *testing.T) {
	assert.True(t, LooksLikeURL("https://x.org/u/a"))
	assert.True(t, LooksLikeURL("http://x.org"))
	assert.False(t, LooksLikeURL("alice"))
}
