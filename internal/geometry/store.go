// Package geometry stores the tab and container layout measurements reported
// by the tab bar. Measurements arrive in any order; consumers ask IsComplete
// before reading rather than assuming an earlier read is still valid.
package geometry

// TabMeasurement is a tab's extent relative to the tab strip's content origin.
type TabMeasurement struct {
	Left   float64
	Right  float64
	Width  float64
	Height float64
}

// MeasurementFromLayout converts an onLayout report into a TabMeasurement.
func MeasurementFromLayout(x, width, height float64) TabMeasurement {
	return TabMeasurement{Left: x, Right: x + width, Width: width, Height: height}
}

// ContainerMeasurement is the size of one of the two bar containers.
type ContainerMeasurement struct {
	Width  float64
	Height float64
}

// ContainerKind selects which container a measurement belongs to.
type ContainerKind int

const (
	// ContainerBar is the visible tab bar viewport.
	ContainerBar ContainerKind = iota
	// ContainerStrip is the tab strip's full content.
	ContainerStrip
)

func (k ContainerKind) String() string {
	switch k {
	case ContainerBar:
		return "bar"
	case ContainerStrip:
		return "strip"
	default:
		return "unknown"
	}
}

// Store holds the latest measurement per tab index plus the two container
// measurements. The zero value is ready to use.
type Store struct {
	tabs     []TabMeasurement
	measured []bool
	bar      *ContainerMeasurement
	strip    *ContainerMeasurement

	nextID int
	subs   []storeSub
}

type storeSub struct {
	id int
	fn func()
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// RecordTab overwrites the measurement for index. Negative indices are ignored.
func (s *Store) RecordTab(index int, m TabMeasurement) {
	if index < 0 {
		return
	}
	if index >= len(s.tabs) {
		grow := index + 1 - len(s.tabs)
		s.tabs = append(s.tabs, make([]TabMeasurement, grow)...)
		s.measured = append(s.measured, make([]bool, grow)...)
	}
	s.tabs[index] = m
	s.measured[index] = true
	s.changed()
}

// RecordContainer overwrites the measurement for kind.
func (s *Store) RecordContainer(kind ContainerKind, m ContainerMeasurement) {
	value := m
	switch kind {
	case ContainerBar:
		s.bar = &value
	case ContainerStrip:
		s.strip = &value
	default:
		return
	}
	s.changed()
}

// IsComplete reports whether everything an interpolation at index needs has
// been measured: the tab itself, its right neighbour unless it is the last
// tab, and both containers.
func (s *Store) IsComplete(index int, isLastTab bool) bool {
	if !s.has(index) {
		return false
	}
	if !isLastTab && !s.has(index+1) {
		return false
	}
	return s.bar != nil && s.strip != nil
}

// Tab returns the measurement for index.
func (s *Store) Tab(index int) (TabMeasurement, bool) {
	if !s.has(index) {
		return TabMeasurement{}, false
	}
	return s.tabs[index], true
}

// Container returns the measurement for kind.
func (s *Store) Container(kind ContainerKind) (ContainerMeasurement, bool) {
	var m *ContainerMeasurement
	switch kind {
	case ContainerBar:
		m = s.bar
	case ContainerStrip:
		m = s.strip
	}
	if m == nil {
		return ContainerMeasurement{}, false
	}
	return *m, true
}

// Len returns one past the highest tab index ever recorded.
func (s *Store) Len() int {
	return len(s.tabs)
}

// Reset drops every tab measurement and the strip measurement. The bar
// viewport keeps its size since it does not depend on the tab list.
func (s *Store) Reset() {
	s.tabs = nil
	s.measured = nil
	s.strip = nil
	s.changed()
}

// Subscribe registers fn to run after every recorded measurement.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, storeSub{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) has(index int) bool {
	return index >= 0 && index < len(s.measured) && s.measured[index]
}

func (s *Store) changed() {
	for _, sub := range append([]storeSub(nil), s.subs...) {
		sub.fn()
	}
}
