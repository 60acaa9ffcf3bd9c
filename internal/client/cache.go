package client

import "github.com/questx-lab/harmony/internal/model"

// MessagePage is one fetched page, newest message first.
type MessagePage struct {
	Items      []model.Message
	NextCursor *string
}

// MessageCache holds the fetched pages of a container. Pages[0] is the newest page.
type MessageCache struct {
	Pages []MessagePage
}

// HasNext reports whether older history remains to be fetched.
func (c MessageCache) HasNext() bool {
	if len(c.Pages) == 0 {
		return false
	}

	return c.Pages[len(c.Pages)-1].NextCursor != nil
}

// NextCursor returns the cursor of the next older page, or an empty string.
func (c MessageCache) NextCursor() string {
	if !c.HasNext() {
		return ""
	}

	return *c.Pages[len(c.Pages)-1].NextCursor
}

// Messages flattens the pages, newest first.
func (c MessageCache) Messages() []model.Message {
	var messages []model.Message
	for _, page := range c.Pages {
		messages = append(messages, page.Items...)
	}

	return messages
}

// AppendPage returns a cache with page added as the oldest page.
func (c MessageCache) AppendPage(page MessagePage) MessageCache {
	pages := make([]MessagePage, 0, len(c.Pages)+1)
	pages = append(pages, c.Pages...)
	pages = append(pages, page)
	return MessageCache{Pages: pages}
}

// Reduce applies a realtime event to old and returns the new cache. old is never modified;
// untouched pages are shared between both caches.
//
// A created message is prepended to the first page, unless it is already cached, in which case
// the cache is returned unchanged. An updated message replaces the first cached message with the
// same id, and is ignored if it has not been fetched yet.
func Reduce(old MessageCache, ev model.MessageEvent) MessageCache {
	switch ev.Op {
	case model.MessageCreatedOp:
		if contains(old, ev.Message.ID) {
			return old
		}

		if len(old.Pages) == 0 {
			return MessageCache{Pages: []MessagePage{{Items: []model.Message{ev.Message}}}}
		}

		pages := append([]MessagePage(nil), old.Pages...)
		items := make([]model.Message, 0, len(pages[0].Items)+1)
		items = append(items, ev.Message)
		items = append(items, pages[0].Items...)
		pages[0] = MessagePage{Items: items, NextCursor: pages[0].NextCursor}
		return MessageCache{Pages: pages}

	case model.MessageUpdatedOp:
		if next, ok := replace(old, ev.Message); ok {
			return next
		}
		return old

	default:
		return old
	}
}

func contains(c MessageCache, id string) bool {
	for _, page := range c.Pages {
		for _, item := range page.Items {
			if item.ID == id {
				return true
			}
		}
	}

	return false
}

func replace(old MessageCache, message model.Message) (MessageCache, bool) {
	for i, page := range old.Pages {
		for j, item := range page.Items {
			if item.ID != message.ID {
				continue
			}

			items := append([]model.Message(nil), page.Items...)
			items[j] = message

			pages := append([]MessagePage(nil), old.Pages...)
			pages[i] = MessagePage{Items: items, NextCursor: page.NextCursor}
			return MessageCache{Pages: pages}, true
		}
	}

	return old, false
}
