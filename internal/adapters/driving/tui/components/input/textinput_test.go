package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

func TestNewQuestionInput(t *testing.T) {
	q := NewQuestionInput(nil)

	require.NotNil(t, q)
	assert.True(t, q.Focused())
	assert.Empty(t, q.Value())
	assert.Equal(t, domain.QuestionPlaceholder, q.textinput.Placeholder)
}

func TestQuestionInput_Typing(t *testing.T) {
	q := NewQuestionInput(nil)

	q.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("why")})

	assert.Equal(t, "why", q.Value())
}

func TestQuestionInput_BlurIgnoresTyping(t *testing.T) {
	q := NewQuestionInput(nil)
	q.Blur()

	q.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	assert.False(t, q.Focused())
	assert.Empty(t, q.Value())
}

func TestQuestionInput_SetValueAndReset(t *testing.T) {
	q := NewQuestionInput(nil)
	q.SetValue("what is in the report?")
	assert.Equal(t, "what is in the report?", q.Value())

	q.Reset()
	assert.Empty(t, q.Value())
}

func TestQuestionInput_SetWidthHasMinimum(t *testing.T) {
	q := NewQuestionInput(nil)

	q.SetWidth(10)
	assert.Equal(t, 20, q.textinput.Width)

	q.SetWidth(100)
	assert.Equal(t, 88, q.textinput.Width)
}

func TestQuestionInput_View(t *testing.T) {
	q := NewQuestionInput(nil)

	assert.Contains(t, q.View(), "Ask:")
}
