package client

import "sync"

const DefaultAutoScrollThreshold = 100

// Viewport is the scroll state of a message list. Values are in pixels.
type Viewport struct {
	ScrollTop    float64
	ScrollHeight float64
	ClientHeight float64
}

// DistanceFromBottom is how far the newest content is below the visible area.
func (v Viewport) DistanceFromBottom() float64 {
	return v.ScrollHeight - v.ScrollTop - v.ClientHeight
}

// ScrollController decides when to load older messages and when to follow new ones.
type ScrollController struct {
	threshold float64

	mu       sync.Mutex
	fetching bool
	rendered bool
}

// NewScrollController returns a controller auto-scrolling within threshold pixels of the bottom.
// A non-positive threshold uses DefaultAutoScrollThreshold.
func NewScrollController(threshold float64) *ScrollController {
	if threshold <= 0 {
		threshold = DefaultAutoScrollThreshold
	}

	return &ScrollController{threshold: threshold}
}

// ShouldLoadMore is true when the top is reached, older history exists and nothing is being
// fetched.
func (c *ScrollController) ShouldLoadMore(v Viewport, hasNext bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return v.ScrollTop <= 0 && hasNext && !c.fetching
}

// BeginFetch marks a fetch in flight. It returns false if one already is.
func (c *ScrollController) BeginFetch() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fetching {
		return false
	}

	c.fetching = true
	return true
}

func (c *ScrollController) EndFetch() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fetching = false
}

// ShouldAutoScroll is called when new content arrives. The first call with content always
// scrolls; later calls only when the user is near the bottom.
func (c *ScrollController) ShouldAutoScroll(v Viewport, hasContent bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.rendered {
		if hasContent {
			c.rendered = true
			return true
		}
		return false
	}

	return v.DistanceFromBottom() <= c.threshold
}
