package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/csheth/tabview/internal/deck"
	"github.com/csheth/tabview/internal/pager"
)

var testPages = []deck.Page{
	{Label: "Home", Body: "welcome"},
	{Label: "News", Body: "headlines"},
	{Label: "Sport", Body: "scores"},
	{Label: "Music", Body: "playlists"},
	{Label: "Games", Body: "levels"},
}

func newTestModel(t *testing.T) *model {
	t.Helper()
	return newTestModelWith(t, Config{})
}

func newTestModelWith(t *testing.T, config Config) *model {
	t.Helper()
	if config.Pages == nil {
		config.Pages = testPages
	}
	config.Logger = zerolog.Nop()
	m := newModel(config)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// settle plays the running scroll animation to its end.
func settle(t *testing.T, m *model) {
	t.Helper()
	for i := 0; m.surface.Animating(); i++ {
		if i > 100 {
			t.Fatal("scroll animation did not finish")
		}
		m.Update(scrollTickMsg{ID: m.surface.anim.id})
	}
}

func fireFrames(m *model) {
	for gen := range m.frames.pending {
		m.Update(frameMsg{Generation: gen})
	}
}

func TestTabKeyScrollsToNextPage(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if cmd == nil {
		t.Fatal("tab should schedule the scroll animation")
	}
	if got := m.pager.State().CurrentPage; got != 1 {
		t.Fatalf("page not committed, got %d", got)
	}
	if m.bar.Active() != 1 {
		t.Fatalf("tab bar not updated, got %d", m.bar.Active())
	}

	settle(t, m)
	if got := m.surface.X(); got != 40 {
		t.Fatalf("surface should rest on page 1, got x=%v", got)
	}
	if m.offset != 1 {
		t.Fatalf("offset should reach 1, got %v", m.offset)
	}
	if m.pager.Phase() != pager.PhaseIdle {
		t.Fatalf("controller should be idle, got %s", m.pager.Phase())
	}
}

func TestDragReleaseSettlesOnNearestPage(t *testing.T) {
	m := newTestModel(t)

	m.Update(runes("l"))
	m.Update(runes("l"))
	if got := m.surface.X(); got != 20 {
		t.Fatalf("two drags should move half a page, got %v", got)
	}
	if m.pager.Phase() != pager.PhaseDragging {
		t.Fatalf("expected dragging phase, got %s", m.pager.Phase())
	}

	m.Update(dragReleaseMsg{Seq: m.surface.dragSeq - 1})
	if m.surface.Animating() {
		t.Fatal("release of a superseded drag should be ignored")
	}

	m.Update(dragReleaseMsg{Seq: m.surface.dragSeq})
	settle(t, m)
	if got := m.pager.State().CurrentPage; got != 1 {
		t.Fatalf("drag should commit page 1, got %d", got)
	}
}

func TestShortDragSnapsBack(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("l"))
	m.Update(dragReleaseMsg{Seq: m.surface.dragSeq})
	settle(t, m)
	if got := m.pager.State().CurrentPage; got != 0 {
		t.Fatalf("short drag should stay on page 0, got %d", got)
	}
	if got := m.surface.X(); got != 0 {
		t.Fatalf("surface should return to 0, got %v", got)
	}
}

func TestLockedPagerIgnoresDrag(t *testing.T) {
	m := newTestModelWith(t, Config{Options: pager.Options{Locked: true}})
	m.Update(runes("l"))
	if got := m.surface.X(); got != 0 {
		t.Fatalf("locked pager should not move, got %v", got)
	}
	if !strings.Contains(m.infoMessage, "locked") {
		t.Fatalf("expected locked notice, got %q", m.infoMessage)
	}

	m.Update(runes("3"))
	if got := m.pager.State().CurrentPage; got != 2 {
		t.Fatalf("jumps should still work while locked, got %d", got)
	}
}

func TestStaleScrollTickIsDropped(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	first := m.surface.anim.id
	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	m.Update(scrollTickMsg{ID: first})
	if got := m.surface.X(); got != 0 {
		t.Fatalf("stale tick moved the surface to %v", got)
	}
	settle(t, m)
	if got := m.surface.X(); got != 80 {
		t.Fatalf("latest scroll should win, got %v", got)
	}
}

func TestResizeRealignsOnNextFrame(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("3"))
	settle(t, m)

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if m.surface.Animating() {
		t.Fatal("realignment should wait for the next frame")
	}
	fireFrames(m)
	settle(t, m)
	if got := m.surface.X(); got != 120 {
		t.Fatalf("page 2 should be realigned to 120, got %v", got)
	}
}

func TestMouseClickOnTabChangesPage(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.MouseMsg{X: 10, Y: 1, Type: tea.MouseLeft})
	if got := m.pager.State().CurrentPage; got != 1 {
		t.Fatalf("click on the second tab should select it, got %d", got)
	}

	m.Update(tea.MouseMsg{X: 20, Y: 10, Type: tea.MouseLeft})
	if got := m.pager.State().CurrentPage; got != 1 {
		t.Fatalf("click outside the bar should be ignored, got %d", got)
	}
}

func TestGotoPromptJumpsToClosestLabel(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes(":"))
	if m.stage != stageGoto {
		t.Fatalf("expected goto stage, got %v", m.stage)
	}
	m.Update(runes("sprot"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.stage != stageBrowse {
		t.Fatal("enter should close the prompt")
	}
	if got := m.pager.State().CurrentPage; got != 2 {
		t.Fatalf("expected Sport, got page %d", got)
	}
}

func TestGotoPromptReportsMisses(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes(":"))
	m.Update(runes("weather forecast"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.errorMessage == "" {
		t.Fatal("expected an error for an unknown tab")
	}
	if got := m.pager.State().CurrentPage; got != 0 {
		t.Fatalf("page should not change, got %d", got)
	}
}

func TestMatchTab(t *testing.T) {
	labels := []string{"Home", "News", "Sport", "Music & Podcasts"}
	cases := []struct {
		query string
		want  int
		ok    bool
	}{
		{query: "news", want: 1, ok: true},
		{query: "2", want: 1, ok: true},
		{query: "9", ok: false},
		{query: "mus", want: 3, ok: true},
		{query: "podcast", want: 3, ok: true},
		{query: "hme", want: 0, ok: true},
		{query: "", ok: false},
		{query: "xylophone", ok: false},
	}
	for _, tc := range cases {
		got, ok := matchTab(labels, tc.query)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("matchTab(%q) = %d, %v; want %d, %v", tc.query, got, ok, tc.want, tc.ok)
		}
	}
}

func TestUnmountedPagesRenderBlank(t *testing.T) {
	m := newTestModel(t)
	if m.pager.Mounted(4) {
		t.Fatal("page 4 should not be mounted from page 0")
	}
	if got := strings.TrimSpace(strings.Join(m.pageLines(4), "")); got != "" {
		t.Fatalf("unmounted page should be blank, got %q", got)
	}
	if got := strings.Join(m.pageLines(1), ""); !strings.Contains(got, "headlines") {
		t.Fatalf("mounted neighbour should render its body, got %q", got)
	}
}

func TestViewShowsTabsAndStatus(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	for _, want := range []string{"Home", "News", "welcome", "Tab 1/5"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestCollapsedHeaderStaysCollapsedAcrossTabs(t *testing.T) {
	m := newTestModelWith(t, Config{
		Options: pager.Options{Collapsable: true},
		Header:  "Daily digest",
	})
	if len(m.visibleHeader()) == 0 {
		t.Fatal("header should start expanded")
	}
	for i := 0; i < 5; i++ {
		m.Update(runes("j"))
	}
	if !m.pager.HeaderCollapsed() {
		t.Fatal("scrolling down should collapse the header")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if len(m.visibleHeader()) != 0 {
		t.Fatal("header should stay collapsed after a tab change")
	}
	if got := m.pager.Window().Len(); got != 1 {
		t.Fatalf("collapsing mode should mount one page, got %d", got)
	}
}

func TestSetPagesKeepsCurrentPage(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("2"))
	m.SetPages(testPages[:3])
	if got := m.pager.State().CurrentPage; got != 1 {
		t.Fatalf("current page should survive, got %d", got)
	}
	if got := len(m.bar.Labels()); got != 3 {
		t.Fatalf("tab bar should show 3 tabs, got %d", got)
	}
}

func TestSetPagesShrinkMovesOffsetOntoLastPage(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("5"))
	settle(t, m)

	m.SetPages(testPages[:2])
	if got := m.pager.State().ContinuousOffset; got != 1 {
		t.Fatalf("offset should follow the clamped page, got %v", got)
	}
	if m.offset != 1 {
		t.Fatalf("status offset should be 1, got %v", m.offset)
	}
	if got := m.surface.X(); got != 40 {
		t.Fatalf("surface should rest on page 1, got %v", got)
	}
	if m.pager.Phase() != pager.PhaseIdle {
		t.Fatalf("controller should be idle after the jump, got %s", m.pager.Phase())
	}

	ref := newTestModelWith(t, Config{Pages: testPages[:2]})
	ref.Update(runes("2"))
	settle(t, ref)
	if m.bar.Underline() != ref.bar.Underline() {
		t.Fatalf("underline should sit under the last tab: got %+v want %+v", m.bar.Underline(), ref.bar.Underline())
	}
	if m.bar.ScrollOffset() != ref.bar.ScrollOffset() {
		t.Fatalf("bar scroll mismatch: got %v want %v", m.bar.ScrollOffset(), ref.bar.ScrollOffset())
	}
}

func TestReloadKeyReplacesDeck(t *testing.T) {
	calls := 0
	m := newTestModelWith(t, Config{
		Reload: func(context.Context) ([]deck.Page, error) {
			calls++
			return testPages[:3], nil
		},
	})
	m.Update(runes("4"))

	_, cmd := m.Update(runes("r"))
	if cmd == nil {
		t.Fatal("reload should return a command")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if loaded, ok := c().(deckLoadedMsg); ok {
				msg = loaded
			}
		}
	}
	loaded, ok := msg.(deckLoadedMsg)
	if !ok {
		t.Fatalf("expected deckLoadedMsg, got %T", msg)
	}
	m.Update(loaded)

	if calls != 1 {
		t.Fatalf("reload should run once, ran %d times", calls)
	}
	if got := len(m.bar.Labels()); got != 3 {
		t.Fatalf("tab bar should show 3 tabs, got %d", got)
	}
	if got := m.pager.State().CurrentPage; got != 2 {
		t.Fatalf("current page should be clamped to 2, got %d", got)
	}
	if m.surface.Animating() || m.pager.Phase() != pager.PhaseIdle {
		t.Fatalf("reload mid-scroll should leave the controller idle, got %s", m.pager.Phase())
	}
	if m.offset != 2 {
		t.Fatalf("offset should rest on page 2, got %v", m.offset)
	}
	if !strings.Contains(m.infoMessage, "Reloaded 3 pages") {
		t.Fatalf("unexpected info message %q", m.infoMessage)
	}
}

func TestReloadFailureKeepsDeck(t *testing.T) {
	m := newTestModel(t)
	m.Update(deckLoadedMsg{Err: errors.New("file vanished")})
	if !strings.Contains(m.errorMessage, "file vanished") {
		t.Fatalf("expected reload error, got %q", m.errorMessage)
	}
	if got := m.pager.PageCount(); got != len(testPages) {
		t.Fatalf("deck should be kept, got %d pages", got)
	}
}

func TestReloadKeyDisabledWithoutLoader(t *testing.T) {
	m := newTestModel(t)
	if _, cmd := m.Update(runes("r")); cmd != nil {
		t.Fatal("reload without a loader should do nothing")
	}
}

func TestDigitKeyOnCurrentTabDoesNothing(t *testing.T) {
	m := newTestModel(t)
	if _, cmd := m.Update(runes("1")); cmd != nil {
		t.Fatal("selecting the current tab should not scroll")
	}
	m.Update(runes("2"))
	if got := m.pager.State().CurrentPage; got != 1 {
		t.Fatalf("expected page 1, got %d", got)
	}
}

func TestJumpSettlesAfterScrollEnds(t *testing.T) {
	m := newTestModel(t)
	m.Update(runes("3"))
	if m.pager.Phase() != pager.PhaseSettling {
		t.Fatalf("jump should settle while the scroll runs, got %s", m.pager.Phase())
	}
	settle(t, m)
	if m.pager.Phase() != pager.PhaseIdle {
		t.Fatalf("expected idle after the scroll, got %s", m.pager.Phase())
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t)
	before := m.layout.contentHeight
	m.Update(runes("?"))
	if !m.helpVisible || m.layout.contentHeight >= before {
		t.Fatalf("full help should take rows from the content (before=%d after=%d)", before, m.layout.contentHeight)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.helpVisible {
		t.Fatal("esc should close help first")
	}
}
