package tui

import (
	"linemod/internal/core"
)

// View selects what the model renders.
type View int

const (
	ViewReview View = iota
	ViewQuitting
)

// model is the Bubbletea model for patch review.
type model struct {
	items      []core.Item
	verdicts   []bool
	cursor     int // index of the patch under review
	ActiveView View
	height     int // Track terminal height for dynamic resizing
	width      int // Track terminal width for dynamic resizing
}

// initialModel creates the review model. Every patch starts rejected.
func initialModel(items []core.Item, width, height int) model {
	m := model{
		items:    items,
		verdicts: make([]bool, len(items)),
		width:    width,
		height:   height,
	}
	if len(items) == 0 {
		m.ActiveView = ViewQuitting
	}
	return m
}

// current returns the patch under review.
func (m model) current() (core.Item, bool) {
	if m.cursor >= len(m.items) {
		return core.Item{}, false
	}
	return m.items[m.cursor], true
}

// Verdicts returns one accept/reject decision per item.
func (m model) Verdicts() []bool {
	return append([]bool(nil), m.verdicts...)
}
