package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func Update(m model, msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsg(m, msg)
	case tea.WindowSizeMsg:
		return handleWindowResize(m, msg)
	}
	return m, nil
}

func HandleKeyMsg(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	if m.ActiveView == ViewQuitting {
		// If quitting, ignore further input
		return m, nil
	}

	switch msg.String() {
	case "y", "Y":
		m.verdicts[m.cursor] = true
		m.cursor++
	case "n", "N":
		m.verdicts[m.cursor] = false
		m.cursor++
	case "a", "A":
		m = decideRest(m, true)
	case "d", "D":
		m = decideRest(m, false)
	case "q", "ctrl+c", "esc":
		m = decideRest(m, false)
	default:
		return m, nil
	}

	if m.cursor >= len(m.items) {
		m.ActiveView = ViewQuitting
		return m, tea.Quit
	}
	return m, nil
}

// decideRest applies verdict to the current patch and all that follow it.
func decideRest(m model, verdict bool) model {
	for ; m.cursor < len(m.items); m.cursor++ {
		m.verdicts[m.cursor] = verdict
	}
	return m
}

func handleWindowResize(m model, msg tea.WindowSizeMsg) (model, tea.Cmd) {
	m.height = msg.Height
	m.width = msg.Width
	return m, nil
}
