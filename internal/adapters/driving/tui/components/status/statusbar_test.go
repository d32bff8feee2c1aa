package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap(), "documents")

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
}

func TestNewBar_NilDependencies(t *testing.T) {
	bar := NewBar(nil, nil, "")

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
	assert.Len(t, bar.hints, 2)
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		message  string
		count    int
		contains string
	}{
		{"ready without items", StateReady, "", 0, "Ready"},
		{"ready with items", StateReady, "", 3, "3 documents"},
		{"ready with notice", StateReady, "Uploaded 2 files", 3, "Uploaded 2 files"},
		{"loading", StateLoading, "", 0, "Loading..."},
		{"busy default", StateBusy, "", 0, "Working..."},
		{"busy message", StateBusy, "Uploading 2 file(s)...", 0, "Uploading 2 file(s)..."},
		{"error with message", StateError, "connection refused", 0, "Error: connection refused"},
		{"error without message", StateError, "", 0, "Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil, "documents")
			bar.SetWidth(120)
			bar.SetState(tt.state, tt.message)
			bar.SetCount(tt.count)

			assert.Contains(t, bar.View(), tt.contains)
		})
	}
}

func TestBar_Hints(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km, "")
	bar.SetWidth(120)

	assert.Contains(t, bar.View(), "q quit")

	bar.SetHints(km.LibraryHelp())
	view := bar.View()
	assert.Contains(t, view, "d delete")
	assert.Contains(t, view, "r reload")
	assert.NotContains(t, view, "q quit")
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil, "")
	bar.SetState(StateError, "boom")

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
}

func TestBar_NarrowWidth(t *testing.T) {
	bar := NewBar(nil, nil, "")
	bar.SetWidth(5)

	assert.NotPanics(t, func() { _ = bar.View() })
}
