package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF"))
	oldStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	newStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FFF5F"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// ModelView renders the TUI model's view as a string.
func ModelView(m model) string {
	switch m.ActiveView {
	case ViewQuitting:
		return quittingView(m)
	default:
		return reviewView(m)
	}
}

func quittingView(m model) string {
	accepted := 0
	for _, v := range m.verdicts {
		if v {
			accepted++
		}
	}
	return fmt.Sprintf("Accepted %d of %d patch(es).\n", accepted, len(m.items))
}

func reviewView(m model) string {
	item, ok := m.current()
	if !ok {
		return quittingView(m)
	}
	width := max(m.width-4, 20)

	header := fmt.Sprintf("%s %s:%d  %s",
		headerStyle.Render(fmt.Sprintf("Patch %d/%d", m.cursor+1, len(m.items))),
		item.Path, item.Patch.StartLine+1,
		helpStyle.Render("["+item.Rule+"]"),
	)

	var body strings.Builder
	for _, line := range item.Old {
		body.WriteString(oldStyle.Render(truncate("- "+line, width)))
		body.WriteByte('\n')
	}
	for _, line := range item.Patch.NewLines {
		body.WriteString(newStyle.Render(truncate("+ "+line, width)))
		body.WriteByte('\n')
	}

	pb := progress.New(progress.WithDefaultGradient(), progress.WithWidth(min(40, width)))
	progressBar := pb.ViewAs(float64(m.cursor) / float64(len(m.items)))

	help := helpStyle.Render(wrapText("y accept · n reject · a accept all remaining · d reject all remaining · q quit", width))

	block := lipgloss.NewStyle().Padding(1).BorderStyle(lipgloss.RoundedBorder()).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			helpStyle.Render(item.Patch.String()),
			"",
			strings.TrimSuffix(body.String(), "\n"),
			"",
			progressBar,
			help,
		),
	)

	contentLines := strings.Count(block, "\n") + 1
	if m.height > contentLines {
		block += strings.Repeat("\n", m.height-contentLines)
	}
	return block
}
