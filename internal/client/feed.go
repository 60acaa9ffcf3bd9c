package client

import (
	"context"
	"errors"
	"sync"

	"github.com/questx-lab/harmony/internal/model"
)

// ErrFetchInFlight is returned by LoadInitial when another page of the feed is being fetched.
var ErrFetchInFlight = errors.New("a fetch is already in flight")

// Feed is the client state of one container: the fetched pages and the scroll controller.
type Feed struct {
	ref     model.ContainerRef
	fetcher MessageFetcher
	scroll  *ScrollController

	mu    sync.Mutex
	cache MessageCache
}

func NewFeed(ref model.ContainerRef, fetcher MessageFetcher, scroll *ScrollController) *Feed {
	if scroll == nil {
		scroll = NewScrollController(DefaultAutoScrollThreshold)
	}

	return &Feed{ref: ref, fetcher: fetcher, scroll: scroll}
}

// Cache returns the current pages. The result must not be modified.
func (f *Feed) Cache() MessageCache {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.cache
}

// LoadInitial replaces the cache with the newest page. It fails with ErrFetchInFlight, leaving
// the cache unchanged, while another fetch of the feed is running.
func (f *Feed) LoadInitial(ctx context.Context) error {
	if !f.scroll.BeginFetch() {
		return ErrFetchInFlight
	}
	defer f.scroll.EndFetch()

	resp, err := f.fetcher.GetMessages(ctx, f.ref, "")
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.cache = MessageCache{Pages: []MessagePage{{Items: resp.Items, NextCursor: resp.NextCursor}}}
	f.mu.Unlock()

	return nil
}

// OnScroll fetches the next older page when the viewport reached the top. It reports whether a
// page was appended.
func (f *Feed) OnScroll(ctx context.Context, v Viewport) (bool, error) {
	cache := f.Cache()
	if !f.scroll.ShouldLoadMore(v, cache.HasNext()) || !f.scroll.BeginFetch() {
		return false, nil
	}
	defer f.scroll.EndFetch()

	resp, err := f.fetcher.GetMessages(ctx, f.ref, cache.NextCursor())
	if err != nil {
		return false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// The cache may have been reloaded while fetching.
	if f.cache.NextCursor() != cache.NextCursor() {
		return false, nil
	}

	f.cache = f.cache.AppendPage(MessagePage{Items: resp.Items, NextCursor: resp.NextCursor})
	return true, nil
}

// ShouldAutoScroll is called after the feed was rendered in v.
func (f *Feed) ShouldAutoScroll(v Viewport) bool {
	return f.scroll.ShouldAutoScroll(v, len(f.Cache().Pages) > 0)
}

// Apply reconciles a realtime event. Events of other containers are ignored. It reports whether
// the view should scroll to the newest message.
func (f *Feed) Apply(ev model.MessageEvent, v Viewport) bool {
	if ev.Message.ContainerID != f.ref.ID {
		return false
	}

	f.mu.Lock()
	f.cache = Reduce(f.cache, ev)
	hasContent := len(f.cache.Pages) > 0
	f.mu.Unlock()

	return f.scroll.ShouldAutoScroll(v, hasContent)
}
