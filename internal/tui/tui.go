// Package tui is the interactive patch reviewer.
package tui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"linemod/internal/core"
)

// wrapText wraps input text to lines no longer than maxWidth display cells.
// It wraps on word boundaries to avoid breaking words when possible.
func wrapText(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return s
	}

	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			// Empty paragraph, add empty line
			lines = append(lines, "")
			continue
		}

		var lineBuilder strings.Builder
		lineWidth := 0
		spaceWidth := runewidth.StringWidth(" ")
		for _, word := range words {
			wordWidth := runewidth.StringWidth(word)
			addedWidth := wordWidth
			if lineWidth > 0 {
				addedWidth += spaceWidth
			}
			if lineWidth > 0 && lineWidth+addedWidth > maxWidth {
				lines = append(lines, lineBuilder.String())
				lineBuilder.Reset()
				lineWidth = 0
			}
			if lineWidth > 0 {
				lineBuilder.WriteString(" ")
				lineWidth += spaceWidth
			}
			lineBuilder.WriteString(word)
			lineWidth += wordWidth
		}
		lines = append(lines, lineBuilder.String())
	}
	return strings.Join(lines, "\n")
}

// truncate shortens a code line to maxWidth display cells.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// Init initializes the TUI model and returns any initial commands to run.
func (m model) Init() tea.Cmd {
	return nil
}

// Reviewer asks the user about each patch in a full screen terminal UI.
// Nil Input and Output default to the process terminal.
type Reviewer struct {
	Input  io.Reader
	Output io.Writer
}

// Review shows items one at a time and returns the user's verdicts.
func (r Reviewer) Review(items []core.Item) ([]bool, error) {
	if len(items) == 0 {
		return nil, nil
	}
	var opts []tea.ProgramOption
	if r.Input != nil {
		opts = append(opts, tea.WithInput(r.Input))
	}
	if r.Output != nil {
		opts = append(opts, tea.WithOutput(r.Output))
	}

	p := tea.NewProgram(&teaModelAdapter{initialModel(items, 80, 24)}, opts...)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("review: %w", err)
	}
	adapter, ok := final.(*teaModelAdapter)
	if !ok {
		return nil, fmt.Errorf("review: unexpected model %T", final)
	}
	return adapter.m.Verdicts(), nil
}

// teaModelAdapter adapts our model to the tea.Model interface using Update and ModelView.
type teaModelAdapter struct {
	m model
}

func (a *teaModelAdapter) Init() tea.Cmd {
	return a.m.Init()
}

func (a *teaModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m2, cmd := Update(a.m, msg)
	a.m = m2
	return a, cmd
}

func (a *teaModelAdapter) View() string {
	return ModelView(a.m)
}
