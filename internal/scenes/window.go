// Package scenes decides which pages stay mounted around the current page.
package scenes

import "strconv"

// Scene is a child page. Only its label is read.
type Scene interface {
	TabLabel() string
}

// Key identifies a scene independent of its position in the children list.
type Key string

// MakeKey builds the key for the child labelled label at index.
func MakeKey(label string, index int) Key {
	return Key(label + "_" + strconv.Itoa(index))
}

// Labels collects the tab labels of children.
func Labels[S Scene](children []S) []string {
	labels := make([]string, len(children))
	for i, child := range children {
		labels[i] = child.TabLabel()
	}
	return labels
}

// Window is the ordered set of keys eligible for mounting.
type Window struct {
	keys []Key
}

// NewWindow returns a window holding keys in the given order.
func NewWindow(keys ...Key) Window {
	return Window{keys: append([]Key(nil), keys...)}
}

// Keys returns a copy of the keys.
func (w Window) Keys() []Key {
	return append([]Key(nil), w.keys...)
}

// Len returns the number of keys.
func (w Window) Len() int {
	return len(w.keys)
}

// Contains reports whether key is in the window.
func (w Window) Contains(key Key) bool {
	for _, k := range w.keys {
		if k == key {
			return true
		}
	}
	return false
}

// ShouldInclude reports whether index is close enough to currentPage to be
// prerendered. The bounds admit margin+1 pages on each side, so margin 0
// still mounts both neighbours of the current page.
func ShouldInclude(index, currentPage, margin int) bool {
	return index <= currentPage+margin+1 && index >= currentPage-margin-1
}

// ComputeWindow keeps every previously mounted key that still names a child
// and adds the keys ShouldInclude admits around currentPage.
func ComputeWindow(previous Window, currentPage int, labels []string, margin int) Window {
	keys := make([]Key, 0, len(labels))
	for idx, label := range labels {
		key := MakeKey(label, idx)
		if previous.Contains(key) || ShouldInclude(idx, currentPage, margin) {
			keys = append(keys, key)
		}
	}
	return Window{keys: keys}
}

// Mode selects how the manager mounts scenes.
type Mode int

const (
	// ModeWindowed keeps a sticky window around the current page.
	ModeWindowed Mode = iota
	// ModeCollapsing mounts only the current page. Used when the pages share
	// one outer vertical scroll container with a collapsible header.
	ModeCollapsing
)

// Manager tracks the mounted window across page changes.
type Manager struct {
	mode   Mode
	margin int
	window Window
}

// NewManager returns a Manager. Negative margins are treated as zero.
func NewManager(mode Mode, margin int) *Manager {
	if margin < 0 {
		margin = 0
	}
	return &Manager{mode: mode, margin: margin}
}

// Mode returns the mounting mode.
func (m *Manager) Mode() Mode {
	return m.mode
}

// Margin returns the prerendering margin.
func (m *Manager) Margin() int {
	return m.margin
}

// Update recomputes the window for currentPage and returns it.
func (m *Manager) Update(currentPage int, labels []string) Window {
	if m.mode == ModeCollapsing {
		if currentPage >= 0 && currentPage < len(labels) {
			m.window = NewWindow(MakeKey(labels[currentPage], currentPage))
		} else {
			m.window = Window{}
		}
		return m.window
	}
	m.window = ComputeWindow(m.window, currentPage, labels, m.margin)
	return m.window
}

// Window returns the current window.
func (m *Manager) Window() Window {
	return m.window
}

// Mounted reports whether the child at index should render its content.
func (m *Manager) Mounted(index int, label string, currentPage int) bool {
	if m.mode == ModeCollapsing {
		return index == currentPage
	}
	return m.window.Contains(MakeKey(label, index))
}

// ShouldUpdate reports whether a mounted scene may re-render. Scenes kept only
// by sticky retention stay frozen until they come back into range.
func (m *Manager) ShouldUpdate(index, currentPage int) bool {
	return m.mode == ModeCollapsing || ShouldInclude(index, currentPage, m.margin)
}
