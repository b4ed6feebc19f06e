// Package pager owns the continuous page offset of a horizontally paged view
// and turns scroll-surface events and programmatic jumps into discrete page
// commits.
package pager

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/csheth/tabview/internal/scenes"
	"github.com/csheth/tabview/internal/signal"
)

const offsetEpsilon = 1e-9

// Phase is the transition state of the controller.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseSettling
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseSettling:
		return "settling"
	default:
		return "unknown"
	}
}

// ScrollSurface executes scroll commands. A new command supersedes any
// animation still in flight.
type ScrollSurface interface {
	ScrollTo(x float64, animated bool)
}

// FrameScheduler runs fn on the next animation frame. Calling cancel before
// the frame fires drops fn.
type FrameScheduler interface {
	RequestFrame(fn func()) (cancel func())
}

// VerticalScroller is the outer container shared by all pages in collapsing
// mode.
type VerticalScroller interface {
	ScrollToY(y float64, animated bool)
}

// ChangeEvent describes a committed page transition.
type ChangeEvent struct {
	I    int
	Ref  scenes.Scene
	From int
}

// Callbacks are invoked synchronously on the controller's goroutine.
type Callbacks struct {
	OnChangeTab func(ChangeEvent)
	OnScroll    func(offset float64)
}

// PageState is the controller's view of the paged content.
type PageState struct {
	CurrentPage      int
	ContinuousOffset float64
	ContainerWidth   float64
}

// Deps are the collaborators a Controller talks to. Every field is optional.
type Deps struct {
	Surface   ScrollSurface
	Frames    FrameScheduler
	Outer     VerticalScroller
	Callbacks Callbacks
	Logger    zerolog.Logger
}

// Controller is single-threaded: every method must be called from the same
// goroutine as the scroll surface events.
type Controller struct {
	opts      Options
	pages     []scenes.Scene
	labels    []string
	state     PageState
	phase     Phase
	target    int
	offset    *signal.Value[float64]
	window    *scenes.Manager
	surface   ScrollSurface
	frames    FrameScheduler
	outer     VerticalScroller
	callbacks Callbacks
	header    collapsibleHeader
	log       zerolog.Logger

	cancelFrame func()
}

// New returns a Controller showing opts.InitialPage, clamped into range.
func New(opts Options, pages []scenes.Scene, deps Deps) *Controller {
	mode := scenes.ModeWindowed
	if opts.Collapsable {
		mode = scenes.ModeCollapsing
	}
	if opts.TabBarPosition == "" {
		opts.TabBarPosition = TabBarTop
	}
	c := &Controller{
		opts:      opts,
		pages:     append([]scenes.Scene(nil), pages...),
		labels:    scenes.Labels(pages),
		window:    scenes.NewManager(mode, opts.PrerenderingSiblings),
		surface:   deps.Surface,
		frames:    deps.Frames,
		outer:     deps.Outer,
		callbacks: deps.Callbacks,
		log:       deps.Logger.With().Str("component", "pager").Logger(),
	}
	initial := clampPage(opts.InitialPage, len(pages))
	c.state = PageState{
		CurrentPage:      initial,
		ContinuousOffset: float64(initial),
		ContainerWidth:   opts.ViewportWidth,
	}
	c.target = initial
	c.offset = signal.New(float64(initial))
	c.window.Update(initial, c.labels)
	return c
}

// Offset is the continuous page position signal.
func (c *Controller) Offset() *signal.Value[float64] {
	return c.offset
}

// State returns a copy of the page state.
func (c *Controller) State() PageState {
	return c.state
}

// Phase returns the transition state.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Target returns the page the last settle or jump aimed for.
func (c *Controller) Target() int {
	return c.target
}

// Options returns the options the controller was built with.
func (c *Controller) Options() Options {
	return c.opts
}

// Locked reports whether drag-initiated transitions are disabled.
func (c *Controller) Locked() bool {
	return c.opts.Locked
}

// Pages returns the children.
func (c *Controller) Pages() []scenes.Scene {
	return c.pages
}

// Labels returns the tab labels of the children.
func (c *Controller) Labels() []string {
	return c.labels
}

// PageCount returns the number of children.
func (c *Controller) PageCount() int {
	return len(c.pages)
}

// Window returns the mounted scene window.
func (c *Controller) Window() scenes.Window {
	return c.window.Window()
}

// Mounted reports whether page index should render its content.
func (c *Controller) Mounted(index int) bool {
	if index < 0 || index >= len(c.labels) {
		return false
	}
	return c.window.Mounted(index, c.labels[index], c.state.CurrentPage)
}

// ShouldUpdate reports whether a mounted page may re-render.
func (c *Controller) ShouldUpdate(index int) bool {
	return c.window.ShouldUpdate(index, c.state.CurrentPage)
}

// ContainerWidth returns the width used to convert pixels to pages.
func (c *Controller) ContainerWidth() float64 {
	if c.state.ContainerWidth > 0 {
		return c.state.ContainerWidth
	}
	if c.opts.ViewportWidth > 0 {
		return c.opts.ViewportWidth
	}
	return 1
}

// ScrollX returns the content offset in pixels matching the current page.
func (c *Controller) ScrollX() float64 {
	return float64(c.state.CurrentPage) * c.ContainerWidth()
}

// OnScroll handles a raw horizontal content offset from the scroll surface.
// Offsets that normalize outside [0, pageCount-1] are ignored.
func (c *Controller) OnScroll(x float64) {
	if len(c.pages) == 0 {
		return
	}
	value, ok := c.normalize(x / c.ContainerWidth())
	if !ok {
		c.log.Debug().Float64("x", x).Msg("ignoring out of range offset")
		return
	}
	if c.phase == PhaseIdle {
		c.phase = PhaseDragging
	}
	c.publishOffset(value)
}

func (c *Controller) publishOffset(value float64) {
	c.state.ContinuousOffset = value
	c.offset.Set(value)
	if c.callbacks.OnScroll != nil {
		c.callbacks.OnScroll(value)
	}
}

// OnMomentumEnd settles on the page nearest to the final offset x.
func (c *Controller) OnMomentumEnd(x float64) {
	if len(c.pages) == 0 {
		return
	}
	width := c.ContainerWidth()
	page := clampPage(int(math.Round(x/width)), len(c.pages))
	c.phase = PhaseSettling
	c.target = page
	if page != c.state.CurrentPage {
		if c.opts.Locked {
			c.log.Debug().Int("page", page).Msg("locked, returning to current page")
			c.target = c.state.CurrentPage
			if c.surface != nil {
				c.surface.ScrollTo(c.ScrollX(), !c.opts.ScrollWithoutAnimation)
			}
		} else {
			c.commit(page)
		}
	}
	c.phase = PhaseIdle
}

// GoToPage scrolls to page n using the configured animation setting.
func (c *Controller) GoToPage(n int) {
	c.GoToPageAnimated(n, !c.opts.ScrollWithoutAnimation)
}

// GoToPageAnimated issues exactly one scroll command and one commit for n,
// even when n is already the current page. Out of range pages are ignored.
// The controller stays in PhaseSettling until the surface reports the end of
// the scroll through OnMomentumEnd.
func (c *Controller) GoToPageAnimated(n int, animated bool) {
	if n < 0 || n >= len(c.pages) {
		c.log.Debug().Int("page", n).Int("pages", len(c.pages)).Msg("ignoring out of range page")
		return
	}
	c.phase = PhaseSettling
	c.target = n
	if c.surface == nil {
		c.commit(n)
		c.phase = PhaseIdle
		return
	}
	c.surface.ScrollTo(float64(n)*c.ContainerWidth(), animated)
	c.commit(n)
}

// SetPage follows a controlled page value: negative values and the current
// page are ignored.
func (c *Controller) SetPage(n int) {
	if n >= 0 && n != c.state.CurrentPage {
		c.GoToPage(n)
	}
}

// SetPages replaces the children. Mounted scenes whose keys still exist stay
// mounted; no change callback fires. An offset left past the new last page is
// moved onto the current page.
func (c *Controller) SetPages(pages []scenes.Scene) {
	c.pages = append([]scenes.Scene(nil), pages...)
	c.labels = scenes.Labels(pages)
	if len(pages) > 0 && c.state.CurrentPage >= len(pages) {
		c.state.CurrentPage = len(pages) - 1
	}
	if last := float64(max(len(pages)-1, 0)); c.state.ContinuousOffset > last {
		c.publishOffset(float64(c.state.CurrentPage))
	}
	c.window.Update(c.state.CurrentPage, c.labels)
}

// HandleLayout records a new container width. When the rounded width changes
// the current page is realigned on the next frame, once width and offset agree.
func (c *Controller) HandleLayout(width float64) {
	if width <= 0 {
		width = c.opts.ViewportWidth
	}
	if width <= 0 || math.Round(width) == math.Round(c.state.ContainerWidth) {
		return
	}
	c.state.ContainerWidth = width
	if c.cancelFrame != nil {
		c.cancelFrame()
		c.cancelFrame = nil
	}
	if c.frames == nil {
		c.GoToPage(c.state.CurrentPage)
		return
	}
	c.cancelFrame = c.frames.RequestFrame(func() {
		c.cancelFrame = nil
		c.GoToPage(c.state.CurrentPage)
	})
}

func (c *Controller) commit(page int) {
	from := c.state.CurrentPage
	c.state.CurrentPage = page
	c.window.Update(page, c.labels)
	c.log.Debug().Int("from", from).Int("to", page).Int("mounted", c.window.Window().Len()).Msg("page committed")
	if c.callbacks.OnChangeTab != nil {
		c.callbacks.OnChangeTab(ChangeEvent{I: page, Ref: c.pages[page], From: from})
	}
	c.repinHeader()
}

func (c *Controller) normalize(value float64) (float64, bool) {
	last := float64(len(c.pages) - 1)
	switch {
	case math.IsNaN(value):
		return 0, false
	case value < 0:
		if value > -offsetEpsilon {
			return 0, true
		}
		return 0, false
	case value > last:
		if value-last < offsetEpsilon {
			return last, true
		}
		return 0, false
	}
	return value, true
}

func clampPage(page, count int) int {
	if page < 0 || count == 0 {
		return 0
	}
	if page >= count {
		return count - 1
	}
	return page
}
