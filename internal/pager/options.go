package pager

import "fmt"

// TabBarPosition places the tab bar relative to the paged content.
type TabBarPosition string

const (
	TabBarTop           TabBarPosition = "top"
	TabBarBottom        TabBarPosition = "bottom"
	TabBarOverlayTop    TabBarPosition = "overlayTop"
	TabBarOverlayBottom TabBarPosition = "overlayBottom"
)

// ParseTabBarPosition validates a configured position. The empty string maps
// to TabBarTop.
func ParseTabBarPosition(value string) (TabBarPosition, error) {
	switch TabBarPosition(value) {
	case "":
		return TabBarTop, nil
	case TabBarTop, TabBarBottom, TabBarOverlayTop, TabBarOverlayBottom:
		return TabBarPosition(value), nil
	default:
		return "", fmt.Errorf("unknown tab bar position %q (want top, bottom, overlayTop or overlayBottom)", value)
	}
}

// Overlay reports whether the bar is drawn over the content.
func (p TabBarPosition) Overlay() bool {
	return p == TabBarOverlayTop || p == TabBarOverlayBottom
}

// AtBottom reports whether the bar sits below the content.
func (p TabBarPosition) AtBottom() bool {
	return p == TabBarBottom || p == TabBarOverlayBottom
}

// Options configures a Controller.
type Options struct {
	InitialPage            int
	PrerenderingSiblings   int
	ScrollWithoutAnimation bool
	Locked                 bool
	TabBarPosition         TabBarPosition
	// Collapsable switches scene mounting to the single-page collapsing mode.
	Collapsable bool
	// ViewportWidth replaces a zero or negative container width.
	ViewportWidth float64
}
