// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// CitationList displays the documents cited by the answers in a
// transcript, one group per answer. The group holding the selection is
// shown; moving past either end of a group crosses into the neighbouring
// answer. When focused, one citation is highlighted and can be opened.
type CitationList struct {
	groups   [][]domain.Citation
	selected int
	focused  bool
	styles   *styles.Styles
}

// NewCitationList creates an empty citation list.
func NewCitationList(s *styles.Styles) *CitationList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &CitationList{styles: s}
}

// View renders the group holding the selection in backend order.
func (c *CitationList) View() string {
	if len(c.groups) == 0 {
		return ""
	}
	group, offset := c.current()

	heading := "Sources:"
	if len(c.groups) > 1 {
		heading = fmt.Sprintf("Sources (answer %d of %d):", c.groupOf(c.selected)+1, len(c.groups))
	}
	lines := make([]string, 0, len(group)+1)
	lines = append(lines, c.styles.Muted.Render(heading))
	for i, cite := range group {
		name := cite.Filename
		if name == "" {
			name = cite.ID
		}
		label := fmt.Sprintf("[%d] %s", i+1, name)
		if c.focused && offset+i == c.selected {
			lines = append(lines, "> "+c.styles.Selected.Render(label))
			continue
		}
		lines = append(lines, "  "+c.styles.Citation.Render(label))
	}
	return strings.Join(lines, "\n")
}

// SetCitations replaces the list with the citations of a single answer.
func (c *CitationList) SetCitations(citations []domain.Citation) {
	c.SetGroups([][]domain.Citation{citations})
}

// SetGroups replaces the list with one group per answer, oldest first.
// Answers without citations are skipped. The selection moves to the first
// citation of the newest answer.
func (c *CitationList) SetGroups(groups [][]domain.Citation) {
	c.groups = c.groups[:0]
	for _, g := range groups {
		if len(g) > 0 {
			c.groups = append(c.groups, g)
		}
	}
	c.selected = 0
	if n := len(c.groups); n > 0 {
		c.selected = c.Count() - len(c.groups[n-1])
	} else {
		c.focused = false
	}
}

// Citations returns every citation in transcript order.
func (c *CitationList) Citations() []domain.Citation {
	var all []domain.Citation
	for _, g := range c.groups {
		all = append(all, g...)
	}
	return all
}

// Focus highlights the selected citation. An empty list cannot be focused.
func (c *CitationList) Focus() bool {
	c.focused = len(c.groups) > 0
	return c.focused
}

// Blur removes the highlight.
func (c *CitationList) Blur() {
	c.focused = false
}

// Focused reports whether the list is focused.
func (c *CitationList) Focused() bool {
	return c.focused
}

// Selected returns the highlighted citation.
func (c *CitationList) Selected() (domain.Citation, bool) {
	all := c.Citations()
	if c.selected < 0 || c.selected >= len(all) {
		return domain.Citation{}, false
	}
	return all[c.selected], true
}

// MoveUp moves selection up.
func (c *CitationList) MoveUp() {
	if c.selected > 0 {
		c.selected--
	}
}

// MoveDown moves selection down.
func (c *CitationList) MoveDown() {
	if c.selected < c.Count()-1 {
		c.selected++
	}
}

// Count returns the number of citations across all answers.
func (c *CitationList) Count() int {
	n := 0
	for _, g := range c.groups {
		n += len(g)
	}
	return n
}

// Rows returns the number of citations shown, which is the size of the
// group holding the selection.
func (c *CitationList) Rows() int {
	group, _ := c.current()
	return len(group)
}

// current returns the group holding the selection and the flat index of
// its first citation.
func (c *CitationList) current() ([]domain.Citation, int) {
	offset := 0
	for _, g := range c.groups {
		if c.selected < offset+len(g) {
			return g, offset
		}
		offset += len(g)
	}
	return nil, 0
}

func (c *CitationList) groupOf(index int) int {
	offset := 0
	for i, g := range c.groups {
		if index < offset+len(g) {
			return i
		}
		offset += len(g)
	}
	return len(c.groups) - 1
}
