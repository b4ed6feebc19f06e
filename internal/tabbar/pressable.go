package tabbar

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Pressable draws a single tab. Measure must agree with the width of the
// string Render returns, since the bar lays tabs out from Measure alone.
type Pressable interface {
	Measure(label string) (width, height int)
	Render(label string, active bool) string
}

// PressableFor returns the pressable implementation for a configured style.
func PressableFor(style string) (Pressable, error) {
	switch style {
	case "", "boxed":
		return newBoxed(), nil
	case "flat":
		return newFlat(), nil
	default:
		return nil, fmt.Errorf("unknown tab style %q (want boxed or flat)", style)
	}
}

type boxedPressable struct {
	active   lipgloss.Style
	inactive lipgloss.Style
}

func newBoxed() boxedPressable {
	base := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	return boxedPressable{
		active:   base.Copy().Bold(true).Foreground(activeTabColor).BorderForeground(activeTabColor),
		inactive: base.Copy().Foreground(inactiveTabColor).BorderForeground(inactiveBorderColor),
	}
}

func (p boxedPressable) Measure(label string) (int, int) {
	return runewidth.StringWidth(label) + 4, 3
}

func (p boxedPressable) Render(label string, active bool) string {
	if active {
		return p.active.Render(label)
	}
	return p.inactive.Render(label)
}

type flatPressable struct {
	active   lipgloss.Style
	inactive lipgloss.Style
}

func newFlat() flatPressable {
	base := lipgloss.NewStyle().Padding(0, 2)
	return flatPressable{
		active:   base.Copy().Bold(true).Foreground(activeTabColor),
		inactive: base.Copy().Foreground(inactiveTabColor),
	}
}

func (p flatPressable) Measure(label string) (int, int) {
	return runewidth.StringWidth(label) + 4, 1
}

func (p flatPressable) Render(label string, active bool) string {
	if active {
		return p.active.Render(label)
	}
	return p.inactive.Render(label)
}

var (
	activeTabColor      = lipgloss.Color("#ff8c00")
	inactiveTabColor    = lipgloss.Color("244")
	inactiveBorderColor = lipgloss.Color("#56526e")
	underlineColor      = lipgloss.Color("#ff8c00")
	underlineStyle      = lipgloss.NewStyle().Foreground(underlineColor)
)
