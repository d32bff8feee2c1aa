package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", km.Quit, []string{"q", "ctrl+c"}},
		{"help", km.Help, []string{"?"}},
		{"back", km.Back, []string{"esc"}},
		{"up", km.Up, []string{"up", "k"}},
		{"down", km.Down, []string{"down", "j"}},
		{"select", km.Select, []string{"enter"}},
		{"delete", km.Delete, []string{"d"}},
		{"reload", km.Reload, []string{"r"}},
		{"submit", km.Submit, []string{"ctrl+u"}},
		{"clear", km.Clear, []string{"ctrl+x"}},
		{"focus", km.Focus, []string{"tab"}},
		{"confirm", km.Confirm, []string{"y"}},
		{"deny", km.Deny, []string{"n", "esc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range tt.keys {
				assert.Contains(t, tt.binding.Keys(), k)
			}
			assert.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestKeyMap_ShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ShortHelp()

	require.Len(t, help, 2)
	assert.Equal(t, "quit", help[0].Help().Desc)
	assert.Equal(t, "help", help[1].Help().Desc)
}

func TestKeyMap_ViewHelp(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.LibraryHelp(), 4)
	assert.Len(t, km.UploadHelp(), 4)
	assert.Len(t, km.ChatHelp(), 3)
}

func TestKeyMap_FullHelp(t *testing.T) {
	km := DefaultKeyMap()

	groups := km.FullHelp()

	require.Len(t, groups, 5)
	for _, g := range groups {
		assert.NotEmpty(t, g)
	}
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("k", km.Up))
	assert.True(t, Matches("delete", km.Delete))
	assert.False(t, Matches("x", km.Up))
	assert.False(t, Matches("", km.Select))
}

func TestEscIsBackAndDeny(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("esc", km.Back))
	assert.True(t, Matches("esc", km.Deny))
	assert.False(t, Matches("esc", km.Confirm))
}
