package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/tabview/internal/deck"
	"github.com/csheth/tabview/internal/scenes"
)

const pageIndent = "  "

// pageView is the mounted state of one page: its own vertical scroll and the
// last frame it rendered.
type pageView struct {
	viewport viewport.Model
	rendered []string
}

func renderPageBody(page deck.Page, width int) string {
	wrap := width - 2*len(pageIndent)
	if wrap < 10 {
		wrap = 10
	}
	var b strings.Builder
	b.WriteString(pageIndent)
	b.WriteString(pageTitleStyle.Render(page.Label))
	b.WriteString("\n\n")
	for _, line := range strings.Split(wordwrap.String(page.Body, wrap), "\n") {
		b.WriteString(pageIndent)
		b.WriteString(line)
		b.WriteRune('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *model) newPageView(index int) *pageView {
	vp := viewport.New(m.layout.contentWidth, m.layout.contentHeight)
	vp.SetContent(renderPageBody(m.pages[index], m.layout.contentWidth))
	return &pageView{viewport: vp}
}

// pageLines renders page index as exactly contentHeight lines of contentWidth
// columns. Unmounted pages are blank. Mounted pages outside the include range
// repeat their last frame.
func (m *model) pageLines(index int) []string {
	width, height := m.layout.contentWidth, m.layout.contentHeight
	if index < 0 || index >= len(m.pages) || !m.pager.Mounted(index) {
		return blankBlock(width, height)
	}
	pv := m.pageViewFor(index)
	if pv.rendered == nil || m.pager.ShouldUpdate(index) {
		pv.rendered = fitBlock(pv.viewport.View(), width, height)
	}
	return pv.rendered
}

func (m *model) pageViewFor(index int) *pageView {
	key := scenes.MakeKey(m.pages[index].Label, index)
	pv, ok := m.pageViews[key]
	if !ok {
		pv = m.newPageView(index)
		m.pageViews[key] = pv
	}
	return pv
}

// currentPageView returns the mounted view of the current page.
func (m *model) currentPageView() *pageView {
	current := m.pager.State().CurrentPage
	if current < 0 || current >= len(m.pages) || !m.pager.Mounted(current) {
		return nil
	}
	return m.pageViewFor(current)
}

// prunePageViews drops the state of pages that left the window.
func (m *model) prunePageViews() {
	window := m.pager.Window()
	for key := range m.pageViews {
		if !window.Contains(key) {
			delete(m.pageViews, key)
		}
	}
}

func (m *model) resizePageViews() {
	for key, pv := range m.pageViews {
		index := indexForKey(m.pages, key)
		if index < 0 {
			delete(m.pageViews, key)
			continue
		}
		pv.viewport.Width = m.layout.contentWidth
		pv.viewport.Height = m.layout.contentHeight
		pv.viewport.SetContent(renderPageBody(m.pages[index], m.layout.contentWidth))
		pv.rendered = nil
	}
}

func indexForKey(pages []deck.Page, key scenes.Key) int {
	for i, page := range pages {
		if scenes.MakeKey(page.Label, i) == key {
			return i
		}
	}
	return -1
}

// contentLines composes the two pages under the horizontal scroll offset and
// crops them to the viewport.
func (m *model) contentLines() []string {
	width, height := m.layout.contentWidth, m.layout.contentHeight
	if len(m.pages) == 0 {
		return blankBlock(width, height)
	}
	x := int(math.Round(m.surface.X()))
	first := x / width
	if first >= len(m.pages) {
		first = len(m.pages) - 1
	}
	if first < 0 {
		first = 0
	}
	local := x - first*width
	if local < 0 {
		local = 0
	}
	left := m.pageLines(first)
	right := blankBlock(width, height)
	if local > 0 && first+1 < len(m.pages) {
		right = m.pageLines(first + 1)
	}
	lines := make([]string, height)
	for i := range lines {
		lines[i] = fitLine(ansi.Cut(left[i]+right[i], local, local+width), width)
	}
	return lines
}

func fitBlock(text string, width, height int) []string {
	lines := padLines(text, height)
	for i, line := range lines {
		lines[i] = fitLine(ansi.Cut(line, 0, width), width)
	}
	return lines
}

func fitLine(line string, width int) string {
	if pad := width - ansi.StringWidth(line); pad > 0 {
		return line + strings.Repeat(" ", pad)
	}
	return line
}
