package scenes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type page string

func (p page) TabLabel() string { return string(p) }

var fivePages = []string{"a", "b", "c", "d", "e"}

func TestMakeKey(t *testing.T) {
	require.Equal(t, Key("News_3"), MakeKey("News", 3))
}

func TestLabels(t *testing.T) {
	require.Equal(t, []string{"x", "y"}, Labels([]page{"x", "y"}))
}

func TestShouldInclude(t *testing.T) {
	cases := []struct {
		index, current, margin int
		want                   bool
	}{
		{index: 2, current: 2, margin: 0, want: true},
		{index: 1, current: 2, margin: 0, want: true},
		{index: 3, current: 2, margin: 0, want: true},
		{index: 0, current: 2, margin: 0, want: false},
		{index: 4, current: 2, margin: 0, want: false},
		{index: 0, current: 2, margin: 1, want: true},
		{index: 5, current: 2, margin: 2, want: true},
		{index: 6, current: 2, margin: 2, want: false},
		{index: -1, current: 0, margin: 0, want: true},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ShouldInclude(tc.index, tc.current, tc.margin), "%+v", tc)
	}
}

func TestComputeWindowStickyRetention(t *testing.T) {
	first := ComputeWindow(Window{}, 2, fivePages, 0)
	require.Equal(t, []Key{"b_1", "c_2", "d_3"}, first.Keys())

	second := ComputeWindow(first, 3, fivePages, 0)
	require.Equal(t, []Key{"b_1", "c_2", "d_3", "e_4"}, second.Keys())
}

func TestComputeWindowDropsKeysOfRemovedChildren(t *testing.T) {
	previous := NewWindow("a_0", "b_1", "gone_2")
	got := ComputeWindow(previous, 0, []string{"a", "b", "c"}, 0)
	require.Equal(t, []Key{"a_0", "b_1"}, got.Keys())
}

func TestWindowAlwaysContainsCurrentPage(t *testing.T) {
	for margin := 0; margin < 3; margin++ {
		m := NewManager(ModeWindowed, margin)
		for _, current := range []int{0, 4, 2, 1, 3} {
			w := m.Update(current, fivePages)
			require.True(t, w.Contains(MakeKey(fivePages[current], current)))
		}
	}
}

func TestCollapsingModeMountsOnlyCurrentPage(t *testing.T) {
	m := NewManager(ModeCollapsing, 3)
	m.Update(1, fivePages)
	w := m.Update(2, fivePages)
	require.Equal(t, []Key{"c_2"}, w.Keys())
	require.True(t, m.Mounted(2, "c", 2))
	require.False(t, m.Mounted(1, "b", 2))
	require.True(t, m.ShouldUpdate(4, 2))

	require.Equal(t, 0, m.Update(9, fivePages).Len())
}

func TestShouldUpdateFreezesRetainedScenes(t *testing.T) {
	m := NewManager(ModeWindowed, 0)
	m.Update(2, fivePages)
	m.Update(3, fivePages)

	require.True(t, m.Mounted(1, "b", 3))
	require.False(t, m.ShouldUpdate(1, 3))
	require.True(t, m.ShouldUpdate(4, 3))
}

func TestNegativeMarginIsZero(t *testing.T) {
	require.Equal(t, 0, NewManager(ModeWindowed, -2).Margin())
}
