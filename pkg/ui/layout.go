package ui

import (
	"charm.land/lipgloss/v2"
)

const (
	minListWidth = 24
	maxListWidth = 36
)

// LayoutManager splits the terminal between the conversation list and the thread.
type LayoutManager struct {
	width  int
	height int
}

// NewLayoutManager creates a new layout manager
func NewLayoutManager() *LayoutManager {
	return &LayoutManager{
		width:  80,
		height: 24,
	}
}

// SetSize updates the layout dimensions
func (lm *LayoutManager) SetSize(width, height int) {
	lm.width = width
	lm.height = height
}

// ListWidth returns the width of the conversation list pane.
func (lm *LayoutManager) ListWidth() int {
	w := lm.width / 3
	if w < minListWidth {
		w = minListWidth
	}
	if w > maxListWidth {
		w = maxListWidth
	}
	// Very narrow terminals still leave the thread the larger share.
	if w > lm.width/2 {
		w = lm.width / 2
	}
	return w
}

// ThreadWidth returns the width of the thread pane.
func (lm *LayoutManager) ThreadWidth() int {
	return lm.width - lm.ListWidth()
}

// PaneHeight returns the height shared by both panes.
func (lm *LayoutManager) PaneHeight() int {
	return lm.height
}

// RenderLayout places the two panes side by side.
func (lm *LayoutManager) RenderLayout(listContent, threadContent string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, listContent, threadContent)
}
