package client

import (
	"fmt"
	"testing"

	"github.com/questx-lab/harmony/internal/model"
	"github.com/stretchr/testify/require"
)

func msg(id, content string) model.Message {
	return model.Message{ID: id, ContainerID: "channel1", Kind: "channel", Content: content}
}

func ptr(s string) *string {
	return &s
}

// twoPages is a cache of messages 6..1, newest first, split into pages of 3.
func twoPages() MessageCache {
	return MessageCache{Pages: []MessagePage{
		{Items: []model.Message{msg("6", "m6"), msg("5", "m5"), msg("4", "m4")}, NextCursor: ptr("4")},
		{Items: []model.Message{msg("3", "m3"), msg("2", "m2"), msg("1", "m1")}},
	}}
}

func created(m model.Message) model.MessageEvent {
	return model.MessageEvent{Op: model.MessageCreatedOp, Message: m}
}

func updated(m model.Message) model.MessageEvent {
	return model.MessageEvent{Op: model.MessageUpdatedOp, Message: m}
}

func Test_Reduce(t *testing.T) {
	tests := []struct {
		name string
		old  MessageCache
		ev   model.MessageEvent
		want MessageCache
	}{
		{
			name: "create on empty cache",
			old:  MessageCache{},
			ev:   created(msg("1", "m1")),
			want: MessageCache{Pages: []MessagePage{{Items: []model.Message{msg("1", "m1")}}}},
		},
		{
			name: "create prepends to the first page only",
			old:  twoPages(),
			ev:   created(msg("7", "m7")),
			want: MessageCache{Pages: []MessagePage{
				{Items: []model.Message{msg("7", "m7"), msg("6", "m6"), msg("5", "m5"), msg("4", "m4")}, NextCursor: ptr("4")},
				{Items: []model.Message{msg("3", "m3"), msg("2", "m2"), msg("1", "m1")}},
			}},
		},
		{
			name: "duplicate create is ignored",
			old:  twoPages(),
			ev:   created(msg("5", "m5 again")),
			want: twoPages(),
		},
		{
			name: "update in a later page",
			old:  twoPages(),
			ev:   updated(msg("2", "edited")),
			want: MessageCache{Pages: []MessagePage{
				{Items: []model.Message{msg("6", "m6"), msg("5", "m5"), msg("4", "m4")}, NextCursor: ptr("4")},
				{Items: []model.Message{msg("3", "m3"), msg("2", "edited"), msg("1", "m1")}},
			}},
		},
		{
			name: "update of an unknown message",
			old:  twoPages(),
			ev:   updated(msg("42", "edited")),
			want: twoPages(),
		},
		{
			name: "update on empty cache",
			old:  MessageCache{},
			ev:   updated(msg("1", "edited")),
			want: MessageCache{},
		},
		{
			name: "unknown op",
			old:  twoPages(),
			ev:   model.MessageEvent{Op: "typing", Message: msg("6", "x")},
			want: twoPages(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := twoPages()
			if len(tt.old.Pages) == 0 {
				before = MessageCache{}
			}

			got := Reduce(tt.old, tt.ev)
			require.Equal(t, tt.want, got)
			require.Equal(t, before, tt.old, "old cache was modified")
		})
	}
}

func Test_Reduce_UpdateIsIdempotent(t *testing.T) {
	ev := updated(model.Message{ID: "3", ContainerID: "channel1", Content: "[deleted]", Deleted: true})

	once := Reduce(twoPages(), ev)
	twice := Reduce(once, ev)
	require.Equal(t, once, twice)
}

func Test_Reduce_CreateIsIdempotent(t *testing.T) {
	ev := created(msg("7", "m7"))

	once := Reduce(twoPages(), ev)
	twice := Reduce(once, ev)
	require.Equal(t, once, twice)
	require.Len(t, twice.Pages[0].Items, 4)
}

func Test_Reduce_LateCreateKeepsNewerContent(t *testing.T) {
	cache := Reduce(MessageCache{}, created(msg("1", "v1")))
	cache = Reduce(cache, updated(msg("1", "v2")))

	// The create is delivered again after the edit.
	cache = Reduce(cache, created(msg("1", "v1")))
	require.Len(t, cache.Messages(), 1)
	require.Equal(t, "v2", cache.Pages[0].Items[0].Content)

	tombstone := model.Message{ID: "1", ContainerID: "channel1", Content: "deleted", Deleted: true}
	cache = Reduce(cache, updated(tombstone))
	cache = Reduce(cache, created(msg("1", "v1")))
	require.True(t, cache.Pages[0].Items[0].Deleted)
}

func Test_Reduce_LastUpdateWins(t *testing.T) {
	e1 := updated(msg("5", "first edit"))
	e2 := updated(msg("5", "second edit"))

	got := Reduce(Reduce(twoPages(), e1), e2)
	require.Equal(t, "second edit", got.Pages[0].Items[1].Content)

	got = Reduce(Reduce(twoPages(), e2), e1)
	require.Equal(t, "first edit", got.Pages[0].Items[1].Content)
}

func Test_Reduce_UpdatesOfDifferentMessagesCommute(t *testing.T) {
	e1 := updated(msg("5", "edit 5"))
	e2 := updated(msg("2", "edit 2"))

	require.Equal(t,
		Reduce(Reduce(twoPages(), e1), e2),
		Reduce(Reduce(twoPages(), e2), e1),
	)
}

func Test_MessageCache_Pages(t *testing.T) {
	cache := MessageCache{}
	require.False(t, cache.HasNext())
	require.Empty(t, cache.NextCursor())

	cache = cache.AppendPage(MessagePage{Items: []model.Message{msg("6", "m6")}, NextCursor: ptr("6")})
	require.True(t, cache.HasNext())
	require.Equal(t, "6", cache.NextCursor())

	cache = cache.AppendPage(MessagePage{Items: []model.Message{msg("5", "m5")}})
	require.False(t, cache.HasNext())

	var ids []string
	for _, m := range cache.Messages() {
		ids = append(ids, m.ID)
	}
	require.Equal(t, []string{"6", "5"}, ids)
}

func Test_Reduce_ManyCreates(t *testing.T) {
	cache := MessageCache{}
	for i := 1; i <= 5; i++ {
		cache = Reduce(cache, created(msg(fmt.Sprint(i), fmt.Sprintf("m%d", i))))
	}

	require.Len(t, cache.Pages, 1)
	require.Equal(t, "5", cache.Pages[0].Items[0].ID)
	require.Equal(t, "1", cache.Pages[0].Items[4].ID)
}
