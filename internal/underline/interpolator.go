// Package underline maps the continuous page offset onto the tab bar: the
// bounds of the selection underline and the bar scroll position that keeps
// the transitioning tab centered.
package underline

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/csheth/tabview/internal/geometry"
	"github.com/csheth/tabview/internal/signal"
)

// Bounds is the horizontal extent of the underline.
type Bounds struct {
	Left  float64
	Width float64
}

// Right returns the right edge.
func (b Bounds) Right() float64 {
	return b.Left + b.Width
}

// State is the output published after each successful update.
type State struct {
	Underline    Bounds
	ScrollOffset float64
	Offset       float64
}

// Interpolator reads a geometry.Store it does not own and keeps the last good
// underline and bar scroll values. Skipped updates leave them untouched.
type Interpolator struct {
	store    *geometry.Store
	tabCount int
	log      zerolog.Logger

	underline Bounds
	scroll    float64
	ready     bool
	state     *signal.Value[State]
}

// New returns an Interpolator reading from store.
func New(store *geometry.Store, logger zerolog.Logger) *Interpolator {
	return &Interpolator{
		store: store,
		log:   logger.With().Str("component", "underline").Logger(),
		state: signal.New(State{}),
	}
}

// SetTabCount updates the number of tabs the bar currently shows.
func (ip *Interpolator) SetTabCount(n int) {
	if n < 0 {
		n = 0
	}
	ip.tabCount = n
}

// TabCount returns the configured tab count.
func (ip *Interpolator) TabCount() int {
	return ip.tabCount
}

// Split breaks a continuous offset into the tab position it has passed and
// the fraction travelled towards the next tab.
func Split(offset float64) (position int, pageOffset float64) {
	return int(math.Floor(offset)), math.Mod(offset, 1)
}

// Update recomputes both outputs for offset. It returns false when the offset
// is out of range or the measurements it needs are not complete yet.
func (ip *Interpolator) Update(offset float64) bool {
	last := ip.tabCount - 1
	if ip.tabCount == 0 || math.IsNaN(offset) || offset < 0 || offset > float64(last) {
		ip.log.Debug().Float64("offset", offset).Int("tabs", ip.tabCount).Msg("offset out of range")
		return false
	}
	position, pageOffset := Split(offset)
	if !ip.store.IsComplete(position, position == last) {
		ip.log.Debug().Int("position", position).Msg("measurements incomplete")
		return false
	}
	if scroll, ok := ip.ComputeBarScrollOffset(position, pageOffset); ok {
		ip.scroll = scroll
	}
	if bounds, ok := ip.ComputeUnderline(position, pageOffset, ip.tabCount); ok {
		ip.underline = bounds
		ip.ready = true
	}
	ip.state.Set(State{Underline: ip.underline, ScrollOffset: ip.scroll, Offset: offset})
	return true
}

// ComputeUnderline blends the edges of tab position and its right neighbour
// by pageOffset. The last tab has no neighbour and keeps its own edges. When
// the store is incomplete the previous bounds are returned with ok=false.
func (ip *Interpolator) ComputeUnderline(position int, pageOffset float64, tabCount int) (Bounds, bool) {
	if position < 0 || position >= tabCount {
		return ip.underline, false
	}
	isLast := position == tabCount-1
	if !ip.store.IsComplete(position, isLast) {
		return ip.underline, false
	}
	current, _ := ip.store.Tab(position)
	if isLast {
		return Bounds{Left: current.Left, Width: current.Right - current.Left}, true
	}
	next, _ := ip.store.Tab(position + 1)
	left := pageOffset*next.Left + (1-pageOffset)*current.Left
	right := pageOffset*next.Right + (1-pageOffset)*current.Right
	return Bounds{Left: left, Width: right - left}, true
}

// ComputeBarScrollOffset returns the bar scroll position that centers the
// blend of tab position and its neighbour in the bar viewport. The result is
// never negative; over-scroll on the right is left to the scroll surface.
func (ip *Interpolator) ComputeBarScrollOffset(position int, pageOffset float64) (float64, bool) {
	bar, ok := ip.store.Container(geometry.ContainerBar)
	if !ok {
		return ip.scroll, false
	}
	tab, ok := ip.store.Tab(position)
	if !ok {
		return ip.scroll, false
	}
	nextTabWidth := 0.0
	if next, ok := ip.store.Tab(position + 1); ok {
		nextTabWidth = next.Width
	}
	raw := tab.Left + pageOffset*tab.Width
	centered := raw - (bar.Width-(1-pageOffset)*tab.Width-pageOffset*nextTabWidth)/2
	if centered < 0 {
		centered = 0
	}
	return centered, true
}

// Underline returns the last computed underline bounds.
func (ip *Interpolator) Underline() Bounds {
	return ip.underline
}

// ScrollOffset returns the last computed bar scroll position.
func (ip *Interpolator) ScrollOffset() float64 {
	return ip.scroll
}

// Ready reports whether an underline has been computed at least once.
func (ip *Interpolator) Ready() bool {
	return ip.ready
}

// Subscribe registers fn for every successful update.
func (ip *Interpolator) Subscribe(fn func(State)) (unsubscribe func()) {
	return ip.state.Subscribe(fn)
}
