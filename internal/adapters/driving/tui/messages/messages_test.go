package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view     ViewType
		expected string
	}{
		{ViewMenu, "menu"},
		{ViewLibrary, "library"},
		{ViewUpload, "upload"},
		{ViewChat, "chat"},
		{ViewPreview, "preview"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestViewType_DistinctValues(t *testing.T) {
	seen := make(map[ViewType]bool)
	for _, v := range []ViewType{ViewMenu, ViewLibrary, ViewUpload, ViewChat, ViewPreview, ViewHelp} {
		assert.False(t, seen[v])
		seen[v] = true
	}
}
