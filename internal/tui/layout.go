package tui

import "strings"

const (
	minContentWidth  = 20
	minContentHeight = 3
	statusHeight     = 1
)

type pageLayout struct {
	windowWidth   int
	windowHeight  int
	contentWidth  int
	contentHeight int
	barHeight     int
	headerHeight  int
	helpHeight    int
	overlay       bool
}

func newPageLayout() pageLayout {
	return pageLayout{
		windowWidth:   80,
		windowHeight:  24,
		contentWidth:  80,
		contentHeight: 16,
		helpHeight:    1,
	}
}

// Update sizes the page area. Overlaid bars take no rows of their own; the
// visible part of the header does.
func (l *pageLayout) Update(width, height, barHeight, headerHeight int) {
	l.windowWidth = width
	l.windowHeight = height
	l.barHeight = barHeight
	l.headerHeight = headerHeight
	l.contentWidth = width
	if l.contentWidth < minContentWidth {
		l.contentWidth = minContentWidth
	}
	chrome := statusHeight + l.helpHeight + headerHeight
	if !l.overlay {
		chrome += barHeight
	}
	l.contentHeight = height - chrome
	if l.contentHeight < minContentHeight {
		l.contentHeight = minContentHeight
	}
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n")
}

func blankBlock(width, height int) []string {
	lines := make([]string, height)
	row := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = row
	}
	return lines
}

// padLines forces text into exactly height lines.
func padLines(text string, height int) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > height {
		return lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

// overlayLines draws top over base starting at row.
func overlayLines(base, top []string, row int) []string {
	out := append([]string(nil), base...)
	for i, line := range top {
		if idx := row + i; idx >= 0 && idx < len(out) {
			out[idx] = line
		}
	}
	return out
}
