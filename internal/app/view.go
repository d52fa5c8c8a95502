package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leafo/folioview/internal/folio"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD"))

	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"})
)

const samplePaneLines = 3

// chromeHeight is the number of rows around the preview viewport.
func (m *Model) chromeHeight() int {
	// title, status, prompt, sample pane with border, viewport border, help
	return 1 + 1 + 1 + (samplePaneLines + 2) + 2 + 1
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("folioview"))
	b.WriteString("\n")

	status := m.ws.Status()
	if m.ws.Pending() {
		status = m.spinner.View() + " " + status
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")

	if m.prompting {
		b.WriteString(m.prompt.View())
	}
	b.WriteString("\n")

	b.WriteString(m.renderSample())
	b.WriteString("\n")
	b.WriteString(paneStyle.Width(m.viewport.Width).Render(m.viewport.View()))
	b.WriteString("\n")

	if m.prompting {
		b.WriteString(m.help.View(promptKeys{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m *Model) renderSample() string {
	body := mutedStyle.Render(fmt.Sprintf("Press %s to load the sample file", m.keys.Sample.Help().Key))
	if m.sampleLoaded {
		lines := strings.Split(strings.TrimRight(m.sampleText, "\n"), "\n")
		if len(lines) > samplePaneLines-1 {
			lines = lines[:samplePaneLines-1]
		}
		body = pathStyle.Render(m.sampleName) + "\n" + strings.Join(lines, "\n")
	}
	return paneStyle.
		Width(max(m.width-2, 10)).
		Height(samplePaneLines).
		Render(body)
}

// renderPreviews formats one "path: snippet" line per preview.
func renderPreviews(previews []folio.Preview, width int) string {
	if len(previews) == 0 {
		return mutedStyle.Render("No files loaded")
	}
	lines := make([]string, 0, len(previews))
	for _, p := range previews {
		line := pathStyle.Render(p.Path) + ": " + p.Snippet
		if width > 0 {
			line = lipgloss.NewStyle().MaxWidth(width).Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
