package tui

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	frameInterval    = 16 * time.Millisecond
	scrollFrames     = 12
	dragReleaseDelay = 250 * time.Millisecond
)

// cmdQueue collects commands issued by collaborators that run inside Update
// but cannot return a tea.Cmd themselves.
type cmdQueue struct {
	cmds []tea.Cmd
}

func (q *cmdQueue) push(cmd tea.Cmd) {
	if cmd != nil {
		q.cmds = append(q.cmds, cmd)
	}
}

func (q *cmdQueue) drain() []tea.Cmd {
	cmds := q.cmds
	q.cmds = nil
	return cmds
}

type scrollTickMsg struct {
	ID string
}

type dragReleaseMsg struct {
	Seq int
}

type scrollAnimation struct {
	id       string
	from     float64
	to       float64
	step     int
	steps    int
	momentum bool
}

// scrollSurface is the horizontal scroll container of the pages. Offsets are
// in columns. Every command is delivered through the event loop, so the
// controller never sees a scroll event while it is still issuing a command.
type scrollSurface struct {
	x        float64
	anim     *scrollAnimation
	queue    *cmdQueue
	dragSeq  int
	dragging bool
	log      zerolog.Logger

	onScroll      func(x float64)
	onMomentumEnd func(x float64)
}

func newScrollSurface(queue *cmdQueue, logger zerolog.Logger) *scrollSurface {
	return &scrollSurface{
		queue: queue,
		log:   logger.With().Str("component", "surface").Logger(),
	}
}

// ScrollTo starts a new scroll, superseding any animation in flight.
func (s *scrollSurface) ScrollTo(x float64, animated bool) {
	s.start(x, animated, false)
}

func (s *scrollSurface) start(x float64, animated, momentum bool) {
	steps := 1
	if animated {
		steps = scrollFrames
	}
	s.anim = &scrollAnimation{
		id:       uuid.NewString(),
		from:     s.x,
		to:       x,
		steps:    steps,
		momentum: momentum,
	}
	s.dragging = false
	s.log.Debug().
		Str("id", s.anim.id).
		Float64("from", s.x).
		Float64("to", x).
		Bool("animated", animated).
		Bool("momentum", momentum).
		Msg("scroll started")
	if animated {
		s.queue.push(tickAfter(frameInterval, s.anim.id))
		return
	}
	id := s.anim.id
	s.queue.push(func() tea.Msg { return scrollTickMsg{ID: id} })
}

func tickAfter(d time.Duration, id string) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return scrollTickMsg{ID: id}
	})
}

// Tick advances the animation identified by id. Ticks of superseded
// animations are dropped.
func (s *scrollSurface) Tick(id string) {
	anim := s.anim
	if anim == nil || anim.id != id {
		s.log.Debug().Str("id", id).Msg("dropping stale scroll tick")
		return
	}
	anim.step++
	progress := float64(anim.step) / float64(anim.steps)
	if progress >= 1 {
		s.anim = nil
		s.x = anim.to
		s.emitScroll()
		s.log.Debug().Str("id", id).Float64("x", s.x).Msg("scroll finished")
		if s.onMomentumEnd != nil {
			s.onMomentumEnd(s.x)
		}
		return
	}
	s.x = anim.from + (anim.to-anim.from)*easeOutCubic(progress)
	s.emitScroll()
	s.queue.push(tickAfter(frameInterval, id))
}

// Drag moves the content by delta columns as a finger would, clamped to
// [0, limit]. The drag is released once no further movement arrives.
func (s *scrollSurface) Drag(delta, limit float64) {
	s.anim = nil
	s.dragging = true
	s.x = math.Min(math.Max(s.x+delta, 0), limit)
	s.emitScroll()
	s.dragSeq++
	seq := s.dragSeq
	s.queue.push(tea.Tick(dragReleaseDelay, func(time.Time) tea.Msg {
		return dragReleaseMsg{Seq: seq}
	}))
}

// Release ends the drag identified by seq and lets momentum carry the content
// to the nearest page boundary.
func (s *scrollSurface) Release(seq int, pageWidth float64) {
	if seq != s.dragSeq || !s.dragging {
		return
	}
	s.dragging = false
	if pageWidth <= 0 {
		pageWidth = 1
	}
	s.start(math.Round(s.x/pageWidth)*pageWidth, true, true)
}

// Jump moves the content without animating or notifying.
func (s *scrollSurface) Jump(x float64) {
	s.anim = nil
	s.x = x
}

func (s *scrollSurface) X() float64 {
	return s.x
}

func (s *scrollSurface) Animating() bool {
	return s.anim != nil
}

func (s *scrollSurface) Dragging() bool {
	return s.dragging
}

func (s *scrollSurface) emitScroll() {
	if s.onScroll != nil {
		s.onScroll(s.x)
	}
}

func easeOutCubic(t float64) float64 {
	inv := 1 - t
	return 1 - inv*inv*inv
}

type frameMsg struct {
	Generation int
}

// frameScheduler runs callbacks on the next frame tick. Each request gets a
// new generation; cancelled generations are forgotten and their ticks ignored.
type frameScheduler struct {
	generation int
	pending    map[int]func()
	queue      *cmdQueue
}

func newFrameScheduler(queue *cmdQueue) *frameScheduler {
	return &frameScheduler{pending: map[int]func(){}, queue: queue}
}

func (f *frameScheduler) RequestFrame(fn func()) func() {
	f.generation++
	gen := f.generation
	f.pending[gen] = fn
	f.queue.push(tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{Generation: gen}
	}))
	return func() {
		delete(f.pending, gen)
	}
}

// Fire runs the callback registered for gen, if it is still pending.
func (f *frameScheduler) Fire(gen int) {
	fn, ok := f.pending[gen]
	if !ok {
		return
	}
	delete(f.pending, gen)
	fn()
}

// outerScroller is the vertical container holding the collapsible header and
// the pages in collapsing mode.
type outerScroller struct {
	y   float64
	max float64
}

func (o *outerScroller) ScrollToY(y float64, _ bool) {
	o.y = math.Min(math.Max(y, 0), o.max)
}

func (o *outerScroller) setMax(limit float64) {
	o.max = math.Max(limit, 0)
	if o.y > o.max {
		o.y = o.max
	}
}

func (o *outerScroller) by(delta float64) bool {
	next := math.Min(math.Max(o.y+delta, 0), o.max)
	if next == o.y {
		return false
	}
	o.y = next
	return true
}
