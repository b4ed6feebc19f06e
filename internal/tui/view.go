package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/tabview/internal/pager"
)

func (m *model) View() string {
	body := m.bodyLines()
	parts := []string{
		strings.Join(m.visibleHeader(), "\n"),
		strings.Join(body, "\n"),
		m.statusView(),
		m.help.View(m.keys),
	}
	return joinNonEmpty(parts)
}

// bodyLines places the tab bar around or over the paged content.
func (m *model) bodyLines() []string {
	content := m.contentLines()
	bar := strings.Split(m.bar.View(), "\n")
	var body []string
	switch m.pager.Options().TabBarPosition {
	case pager.TabBarBottom:
		body = append(content, bar...)
	case pager.TabBarOverlayTop:
		body = overlayLines(content, bar, 0)
	case pager.TabBarOverlayBottom:
		body = overlayLines(content, bar, len(content)-len(bar))
	default:
		body = append(bar, content...)
	}
	if m.stage == stageGoto {
		prompt := strings.Split(promptStyle.Render(m.gotoInput.View()), "\n")
		row := (len(body) - len(prompt)) / 2
		body = overlayLines(body, centerLines(prompt, m.layout.windowWidth), row)
	}
	return body
}

func centerLines(lines []string, width int) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, line)
	}
	return out
}

func (m *model) statusView() string {
	state := m.pager.State()
	stats := []string{
		fmt.Sprintf("Tab %d/%d", state.CurrentPage+1, m.pager.PageCount()),
		fmt.Sprintf("Offset %.2f", m.offset),
		m.pager.Phase().String(),
		fmt.Sprintf("Mounted %d", m.pager.Window().Len()),
	}
	if m.pager.Locked() {
		stats = append(stats, "locked")
	}
	line := statusBarStyle.Render(strings.Join(stats, "  •  "))
	switch {
	case m.errorMessage != "":
		line += " " + errorStyle.Render(m.errorMessage)
	case m.infoMessage != "":
		line += " " + helperStyle.Render(m.infoMessage)
	}
	return line
}
