package client

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ScrollController_ShouldLoadMore(t *testing.T) {
	tests := []struct {
		name     string
		viewport Viewport
		hasNext  bool
		fetching bool
		want     bool
	}{
		{name: "at top with history", viewport: Viewport{ScrollTop: 0}, hasNext: true, want: true},
		{name: "overscrolled", viewport: Viewport{ScrollTop: -5}, hasNext: true, want: true},
		{name: "not at top", viewport: Viewport{ScrollTop: 1}, hasNext: true, want: false},
		{name: "end of history", viewport: Viewport{ScrollTop: 0}, hasNext: false, want: false},
		{name: "fetch in flight", viewport: Viewport{ScrollTop: 0}, hasNext: true, fetching: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewScrollController(0)
			if tt.fetching {
				require.True(t, c.BeginFetch())
			}

			require.Equal(t, tt.want, c.ShouldLoadMore(tt.viewport, tt.hasNext))
		})
	}
}

func Test_ScrollController_Fetch(t *testing.T) {
	c := NewScrollController(0)
	top := Viewport{ScrollTop: 0}

	require.True(t, c.BeginFetch())
	require.False(t, c.BeginFetch())
	require.False(t, c.ShouldLoadMore(top, true))

	c.EndFetch()
	require.True(t, c.ShouldLoadMore(top, true))
	require.True(t, c.BeginFetch())
}

func Test_ScrollController_ShouldAutoScroll(t *testing.T) {
	c := NewScrollController(0)

	// Nothing rendered yet.
	require.False(t, c.ShouldAutoScroll(Viewport{ScrollHeight: 0, ClientHeight: 500}, false))

	// First render scrolls even far from the bottom.
	far := Viewport{ScrollTop: 0, ScrollHeight: 5000, ClientHeight: 500}
	require.True(t, c.ShouldAutoScroll(far, true))

	// The user scrolled up to read history.
	require.False(t, c.ShouldAutoScroll(far, true))

	// Within the threshold.
	near := Viewport{ScrollTop: 4400, ScrollHeight: 5000, ClientHeight: 500}
	require.Equal(t, float64(100), near.DistanceFromBottom())
	require.True(t, c.ShouldAutoScroll(near, true))

	justAbove := Viewport{ScrollTop: 4399, ScrollHeight: 5000, ClientHeight: 500}
	require.False(t, c.ShouldAutoScroll(justAbove, true))
}

func Test_ScrollController_CustomThreshold(t *testing.T) {
	c := NewScrollController(10)
	require.True(t, c.ShouldAutoScroll(Viewport{}, true))

	require.True(t, c.ShouldAutoScroll(Viewport{ScrollTop: 490, ScrollHeight: 1000, ClientHeight: 500}, true))
	require.False(t, c.ShouldAutoScroll(Viewport{ScrollTop: 489, ScrollHeight: 1000, ClientHeight: 500}, true))
}
