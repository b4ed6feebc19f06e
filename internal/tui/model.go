package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/csheth/tabview/internal/deck"
	"github.com/csheth/tabview/internal/pager"
	"github.com/csheth/tabview/internal/scenes"
	"github.com/csheth/tabview/internal/tabbar"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Options pager.Options
	Pages   []deck.Page
	// Pressable draws the tabs. Defaults to the boxed style.
	Pressable tabbar.Pressable
	// Header is the collapsible header text, shown when Options.Collapsable.
	Header string
	// Reload loads the deck again. The reload key is disabled when nil.
	Reload func(ctx context.Context) ([]deck.Page, error)
	Logger zerolog.Logger
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	return newModel(config)
}

type model struct {
	config Config
	stage  stage
	keys   keyMap
	help   help.Model
	layout pageLayout

	gotoInput textinput.Model

	pages     []deck.Page
	pager     *pager.Controller
	bar       *tabbar.Bar
	surface   *scrollSurface
	frames    *frameScheduler
	outer     *outerScroller
	queue     *cmdQueue
	pageViews map[scenes.Key]*pageView

	offset       float64
	helpVisible  bool
	infoMessage  string
	errorMessage string
	log          zerolog.Logger
}

func newModel(config Config) *model {
	if config.Pressable == nil {
		config.Pressable, _ = tabbar.PressableFor("")
	}
	gotoInput := textinput.New()
	gotoInput.Prompt = ": "
	gotoInput.Placeholder = "tab label or number"
	gotoInput.CharLimit = 60
	gotoInput.Width = 40

	queue := &cmdQueue{}
	m := &model{
		config:      config,
		stage:       stageBrowse,
		keys:        newKeyMap(),
		help:        help.New(),
		layout:      newPageLayout(),
		gotoInput:   gotoInput,
		pages:       append([]deck.Page(nil), config.Pages...),
		surface:     newScrollSurface(queue, config.Logger),
		frames:      newFrameScheduler(queue),
		outer:       &outerScroller{},
		queue:       queue,
		pageViews:   map[scenes.Key]*pageView{},
		infoMessage: "Swipe with h/l, press tab for the next tab or : to jump.",
		log:         config.Logger.With().Str("component", "tui").Logger(),
	}

	opts := config.Options
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = float64(m.layout.contentWidth)
	}
	var outer pager.VerticalScroller
	if opts.Collapsable {
		outer = m.outer
	}
	m.pager = pager.New(opts, scenePages(m.pages), pager.Deps{
		Surface: m.surface,
		Frames:  m.frames,
		Outer:   outer,
		Callbacks: pager.Callbacks{
			OnChangeTab: m.onChangeTab,
			OnScroll:    m.onScroll,
		},
		Logger: config.Logger,
	})
	m.surface.onScroll = m.pager.OnScroll
	m.surface.onMomentumEnd = m.pager.OnMomentumEnd
	m.surface.Jump(m.pager.ScrollX())
	m.offset = m.pager.Offset().Get()

	m.keys.Reload.SetEnabled(config.Reload != nil)

	m.bar = tabbar.New(config.Pressable, m.pager.GoToPage, config.Logger)
	m.bar.SetTabs(m.pager.Labels())
	m.bar.SetActive(m.pager.State().CurrentPage)
	m.bar.Attach(m.pager.Offset())
	m.relayout()
	return m
}

func scenePages(pages []deck.Page) []scenes.Scene {
	out := make([]scenes.Scene, len(pages))
	for i, page := range pages {
		out[i] = page
	}
	return out
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, m.flush(cmd)
}

// flush returns cmd together with everything the surface and frame scheduler
// queued while the message was handled.
func (m *model) flush(cmd tea.Cmd) tea.Cmd {
	cmds := append(m.queue.drain(), cmd)
	return tea.Batch(cmds...)
}

func (m *model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.windowWidth = msg.Width
		m.layout.windowHeight = msg.Height
		m.relayout()
		return nil
	case scrollTickMsg:
		m.surface.Tick(msg.ID)
		return nil
	case dragReleaseMsg:
		m.surface.Release(msg.Seq, m.pager.ContainerWidth())
		return nil
	case frameMsg:
		m.frames.Fire(msg.Generation)
		return nil
	case deckLoadedMsg:
		m.onDeckLoaded(msg)
		return nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return tea.Quit
		}
		if m.stage == stageGoto {
			return m.handleGotoKey(msg)
		}
		return m.handleKey(msg)
	}
	return nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEsc {
		if m.helpVisible {
			m.toggleHelp()
			return nil
		}
		return tea.Quit
	}
	current := m.pager.State().CurrentPage
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.toggleHelp()
	case key.Matches(msg, m.keys.Reload):
		return m.reloadDeck()
	case key.Matches(msg, m.keys.DragLeft):
		m.drag(-1)
	case key.Matches(msg, m.keys.DragRight):
		m.drag(1)
	case key.Matches(msg, m.keys.Next):
		m.pager.GoToPage(current + 1)
	case key.Matches(msg, m.keys.Prev):
		m.pager.GoToPage(current - 1)
	case key.Matches(msg, m.keys.Jump):
		m.pager.SetPage(int(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.Down):
		m.scrollVertical(1)
	case key.Matches(msg, m.keys.Up):
		m.scrollVertical(-1)
	case key.Matches(msg, m.keys.Goto):
		m.stage = stageGoto
		m.errorMessage = ""
		m.gotoInput.SetValue("")
		m.gotoInput.Focus()
		return textinput.Blink
	}
	return nil
}

func (m *model) handleGotoKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeGoto()
		return nil
	case tea.KeyEnter:
		query := m.gotoInput.Value()
		m.closeGoto()
		if idx, ok := matchTab(m.pager.Labels(), query); ok {
			m.pager.GoToPage(idx)
		} else {
			m.errorMessage = fmt.Sprintf("No tab matches %q.", query)
		}
		return nil
	}
	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return cmd
}

func (m *model) closeGoto() {
	m.stage = stageBrowse
	m.gotoInput.Blur()
	m.gotoInput.SetValue("")
}

func (m *model) toggleHelp() {
	m.helpVisible = !m.helpVisible
	m.help.ShowAll = m.helpVisible
	m.relayout()
}

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Type {
	case tea.MouseWheelDown:
		m.scrollVertical(1)
	case tea.MouseWheelUp:
		m.scrollVertical(-1)
	case tea.MouseLeft:
		top := m.barTop()
		if msg.Y < top || msg.Y >= top+m.bar.Height() {
			return nil
		}
		if idx, ok := m.bar.HitTest(msg.X); ok {
			m.bar.Press(idx)
		}
	}
	return nil
}

// drag moves the content a quarter page in direction. Locked pagers refuse
// drags.
func (m *model) drag(direction float64) {
	if m.pager.Locked() {
		m.infoMessage = "Swiping is locked; use tab or : to change tabs."
		return
	}
	if m.pager.PageCount() == 0 {
		return
	}
	width := m.pager.ContainerWidth()
	limit := float64(m.pager.PageCount()-1) * width
	m.surface.Drag(direction*width*dragFraction, limit)
}

// scrollVertical scrolls the current page. In collapsing mode the header
// collapses before the page scrolls and expands once the page is at the top.
func (m *model) scrollVertical(delta int) {
	pv := m.currentPageView()
	if m.pager.Options().Collapsable && m.outer.max > 0 {
		atTop := pv == nil || pv.viewport.AtTop()
		if (delta > 0 && m.outer.y < m.outer.max) || (delta < 0 && atTop && m.outer.y > 0) {
			m.outer.by(float64(delta))
			m.pager.OnOuterScrollEnd(m.outer.y)
			m.relayout()
			return
		}
	}
	if pv == nil {
		return
	}
	if delta > 0 {
		pv.viewport.LineDown(delta)
	} else {
		pv.viewport.LineUp(-delta)
	}
}

func (m *model) onChangeTab(ev pager.ChangeEvent) {
	m.bar.SetActive(ev.I)
	m.prunePageViews()
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("%s (%d/%d)", ev.Ref.TabLabel(), ev.I+1, m.pager.PageCount())
	m.log.Info().Int("from", ev.From).Int("to", ev.I).Str("label", ev.Ref.TabLabel()).Msg("tab changed")
}

func (m *model) onScroll(offset float64) {
	m.offset = offset
}

func (m *model) reloadDeck() tea.Cmd {
	reload := m.config.Reload
	m.infoMessage = "Reloading deck..."
	m.errorMessage = ""
	return func() tea.Msg {
		pages, err := reload(context.Background())
		return deckLoadedMsg{Pages: pages, Err: err}
	}
}

func (m *model) onDeckLoaded(msg deckLoadedMsg) {
	if msg.Err != nil {
		m.errorMessage = fmt.Sprintf("Reload failed: %v", msg.Err)
		m.log.Error().Err(msg.Err).Msg("deck reload failed")
		return
	}
	m.SetPages(msg.Pages)
	m.infoMessage = fmt.Sprintf("Reloaded %d pages.", len(msg.Pages))
	m.log.Info().Int("pages", len(msg.Pages)).Msg("deck reloaded")
}

// SetPages replaces the deck while keeping mounted pages that still exist.
func (m *model) SetPages(pages []deck.Page) {
	m.pages = append([]deck.Page(nil), pages...)
	m.pager.SetPages(scenePages(m.pages))
	m.bar.SetTabs(m.pager.Labels())
	m.bar.SetActive(m.pager.State().CurrentPage)
	m.prunePageViews()
	m.relayout()
	// Jump drops any scroll in flight and reports nothing, so the controller
	// is told where the content now rests.
	m.surface.Jump(m.pager.ScrollX())
	m.pager.OnScroll(m.surface.X())
	m.pager.OnMomentumEnd(m.surface.X())
}

func (m *model) headerBlock() string {
	if !m.pager.Options().Collapsable || m.config.Header == "" {
		return ""
	}
	return headerStyle.Width(m.layout.windowWidth).Render(m.config.Header)
}

// visibleHeader is the part of the header the outer scroll has not covered.
func (m *model) visibleHeader() []string {
	block := m.headerBlock()
	if block == "" {
		return nil
	}
	lines := padLines(block, lipgloss.Height(block))
	y := int(m.outer.y)
	if y >= len(lines) {
		return nil
	}
	return lines[y:]
}

func (m *model) relayout() {
	if block := m.headerBlock(); block != "" {
		height := lipgloss.Height(block)
		m.pager.SetHeaderHeight(float64(height))
		m.outer.setMax(float64(height))
	}
	m.layout.overlay = m.pager.Options().TabBarPosition.Overlay()
	m.layout.helpHeight = lipgloss.Height(m.help.View(m.keys))
	m.layout.Update(m.layout.windowWidth, m.layout.windowHeight, m.bar.Height(), len(m.visibleHeader()))
	m.bar.Layout(m.layout.windowWidth)
	m.pager.HandleLayout(float64(m.layout.contentWidth))
	m.resizePageViews()
}

// barTop is the first frame row occupied by the tab bar.
func (m *model) barTop() int {
	top := m.layout.headerHeight
	switch m.pager.Options().TabBarPosition {
	case pager.TabBarBottom:
		return top + m.layout.contentHeight
	case pager.TabBarOverlayBottom:
		return top + m.layout.contentHeight - m.bar.Height()
	default:
		return top
	}
}
