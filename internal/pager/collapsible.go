package pager

type collapsibleHeader struct {
	height   float64
	distance float64
}

// SetHeaderHeight records the collapsible header's measured height.
func (c *Controller) SetHeaderHeight(height float64) {
	if height < 0 {
		height = 0
	}
	c.header.height = height
}

// OnOuterScrollEnd records where the outer vertical container came to rest.
func (c *Controller) OnOuterScrollEnd(y float64) {
	c.header.distance = y
}

// HeaderCollapsed reports whether the outer container has scrolled past the
// header.
func (c *Controller) HeaderCollapsed() bool {
	return c.header.height > 0 && c.header.distance >= c.header.height
}

// repinHeader keeps the header collapsed after a tab change so the new page
// starts right under the sticky tab bar.
func (c *Controller) repinHeader() {
	if !c.opts.Collapsable || c.outer == nil || !c.HeaderCollapsed() {
		return
	}
	c.outer.ScrollToY(c.header.height, false)
	c.header.distance = c.header.height
}
