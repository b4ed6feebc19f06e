// Package tabbar is the scrollable tab bar: it lays tabs out through a
// Pressable, reports their geometry into a private geometry.Store, and draws
// the underline and bar scroll computed by underline.Interpolator.
package tabbar

import (
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/csheth/tabview/internal/geometry"
	"github.com/csheth/tabview/internal/signal"
	"github.com/csheth/tabview/internal/underline"
)

const (
	tabGap         = 1
	underlineGlyph = "━"
)

// Bar renders a horizontally scrolling row of tabs.
type Bar struct {
	labels    []string
	pressable Pressable
	store     *geometry.Store
	interp    *underline.Interpolator
	onPress   func(page int)
	active    int
	width     int
	log       zerolog.Logger

	// drawn is the last interpolation published by interp.
	drawn underline.State
	ready bool

	offset *signal.Value[float64]
	unsubs []func()
}

// New returns a Bar. onPress receives the page index of a pressed tab.
func New(pressable Pressable, onPress func(page int), logger zerolog.Logger) *Bar {
	store := geometry.NewStore()
	b := &Bar{
		pressable: pressable,
		store:     store,
		interp:    underline.New(store, logger),
		onPress:   onPress,
		log:       logger.With().Str("component", "tabbar").Logger(),
	}
	b.interp.Subscribe(b.redraw)
	return b
}

func (b *Bar) redraw(state underline.State) {
	b.drawn = state
	b.ready = true
}

// Attach subscribes the bar to the continuous offset. New measurements are
// interpolated against the offset's latest value.
func (b *Bar) Attach(offset *signal.Value[float64]) {
	b.Detach()
	b.offset = offset
	b.unsubs = append(b.unsubs,
		offset.Subscribe(func(v float64) { b.interp.Update(v) }),
		b.store.Subscribe(b.refresh),
	)
	b.refresh()
}

// Detach drops the subscriptions made by Attach.
func (b *Bar) Detach() {
	for _, unsubscribe := range b.unsubs {
		unsubscribe()
	}
	b.unsubs = nil
}

func (b *Bar) refresh() {
	if b.offset == nil {
		return
	}
	b.interp.Update(b.offset.Get())
}

// SetTabs replaces the labels. A different label list invalidates every
// stored tab measurement.
func (b *Bar) SetTabs(labels []string) {
	if slices.Equal(b.labels, labels) {
		return
	}
	b.labels = append([]string(nil), labels...)
	b.interp.SetTabCount(len(labels))
	b.store.Reset()
}

// Labels returns the tab labels.
func (b *Bar) Labels() []string {
	return b.labels
}

// SetActive marks the committed page.
func (b *Bar) SetActive(page int) {
	b.active = page
}

// Active returns the committed page.
func (b *Bar) Active() int {
	return b.active
}

// Height returns the rows the bar occupies, underline included.
func (b *Bar) Height() int {
	return b.tabHeight() + 1
}

func (b *Bar) tabHeight() int {
	_, h := b.pressable.Measure("")
	return h
}

// Layout measures every tab and both containers for a viewport of width
// columns, delivering each report to the store as it is produced.
func (b *Bar) Layout(width int) {
	b.width = width
	height := b.Height()
	b.store.RecordContainer(geometry.ContainerBar, geometry.ContainerMeasurement{
		Width:  float64(width),
		Height: float64(height),
	})
	x := 0
	for i, label := range b.labels {
		w, h := b.pressable.Measure(label)
		b.Measure(i, x, w, h)
		x += w + tabGap
	}
	strip := x - tabGap
	if strip < 0 {
		strip = 0
	}
	b.store.RecordContainer(geometry.ContainerStrip, geometry.ContainerMeasurement{
		Width:  float64(strip),
		Height: float64(height),
	})
}

// Measure is the layout report of tab index. Layout calls it for every tab;
// a tab re-rendered on its own reports through it too.
func (b *Bar) Measure(index, x, width, height int) {
	b.store.RecordTab(index, geometry.MeasurementFromLayout(float64(x), float64(width), float64(height)))
}

// Press invokes the press handler for page.
func (b *Bar) Press(page int) {
	if page < 0 || page >= len(b.labels) || b.onPress == nil {
		return
	}
	b.onPress(page)
}

// HitTest maps a viewport column to the tab under it.
func (b *Bar) HitTest(column int) (int, bool) {
	x := float64(column + b.scrollColumn())
	for i := range b.labels {
		tab, ok := b.store.Tab(i)
		if !ok {
			continue
		}
		if x >= tab.Left && x < tab.Right {
			return i, true
		}
	}
	return 0, false
}

// Underline returns the interpolated underline bounds.
func (b *Bar) Underline() underline.Bounds {
	return b.drawn.Underline
}

// ScrollOffset returns the interpolated bar scroll.
func (b *Bar) ScrollOffset() float64 {
	return b.drawn.ScrollOffset
}

func (b *Bar) scrollColumn() int {
	return int(math.Round(b.drawn.ScrollOffset))
}

// View draws the visible part of the strip.
func (b *Bar) View() string {
	if b.width <= 0 {
		return ""
	}
	if len(b.labels) == 0 {
		return strings.Repeat("\n", b.Height()-1)
	}
	parts := make([]string, 0, len(b.labels)*2)
	for i, label := range b.labels {
		if i > 0 {
			parts = append(parts, strings.Repeat(" ", tabGap))
		}
		parts = append(parts, b.pressable.Render(label, i == b.active))
	}
	rows := strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, parts...), "\n")
	rows = append(rows, b.underlineRow())

	left := b.scrollColumn()
	for i, row := range rows {
		rows[i] = fit(ansi.Cut(row, left, left+b.width), b.width)
	}
	return strings.Join(rows, "\n")
}

func (b *Bar) underlineRow() string {
	if !b.ready {
		return ""
	}
	u := b.drawn.Underline
	start := int(math.Round(u.Left))
	end := int(math.Round(u.Right()))
	if start < 0 {
		start = 0
	}
	if end <= start {
		return ""
	}
	return strings.Repeat(" ", start) + underlineStyle.Render(strings.Repeat(underlineGlyph, end-start))
}

func fit(line string, width int) string {
	if pad := width - ansi.StringWidth(line); pad > 0 {
		return line + strings.Repeat(" ", pad)
	}
	return line
}
