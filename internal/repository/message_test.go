package repository_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/internal/repository"
	"github.com/questx-lab/harmony/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_messageRepository_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	messages, err := testutil.SampleMessages(
		ctx, testutil.GeneralChannel.ID, entity.ChannelContainer, testutil.AdminMember.ID, 5)
	require.NoError(t, err)

	// Noise in another channel.
	_, err = testutil.SampleMessages(
		ctx, testutil.Channel2.ID, entity.ChannelContainer, testutil.AdminMember.ID, 3)
	require.NoError(t, err)

	messageRepo := repository.NewMessageRepository()

	got, err := messageRepo.GetList(ctx, testutil.GeneralChannel.ID, nil, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, messages[4].ID, got[0].ID)
	require.Equal(t, messages[3].ID, got[1].ID)
	require.Equal(t, messages[2].ID, got[2].ID)

	// Author and profile come with the message.
	require.Equal(t, testutil.AdminMember.ID, got[0].Member.ID)
	require.Equal(t, testutil.Profile1.Name, got[0].Member.Profile.Name)

	got, err = messageRepo.GetList(ctx, testutil.GeneralChannel.ID, &got[2], 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, messages[1].ID, got[0].ID)
	require.Equal(t, messages[0].ID, got[1].ID)
}

func Test_messageRepository_GetList_SameCreatedAt(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	at := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	ids := []int64{10, 30, 20}
	for _, id := range ids {
		_, err := testutil.SampleMessage(ctx, &entity.Message{ID: id, CreatedAt: at, UpdatedAt: at})
		require.NoError(t, err)
	}

	messageRepo := repository.NewMessageRepository()
	got, err := messageRepo.GetList(ctx, testutil.GeneralChannel.ID, nil, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int64(30), got[0].ID)
	require.Equal(t, int64(20), got[1].ID)

	got, err = messageRepo.GetList(ctx, testutil.GeneralChannel.ID, &got[1], 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int64(10), got[0].ID)
}

func Test_messageRepository_ConditionalUpdates(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	msg, err := testutil.SampleMessage(ctx, &entity.Message{
		FileURL: sql.NullString{String: "https://example.com/a.png", Valid: true},
	})
	require.NoError(t, err)

	messageRepo := repository.NewMessageRepository()
	now := time.Now()

	err = messageRepo.UpdateContent(ctx, "other-container", msg.ID, "edited", now)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	require.NoError(t, messageRepo.UpdateContent(ctx, msg.ContainerID, msg.ID, "edited", now))

	require.NoError(t, messageRepo.Tombstone(ctx, msg.ContainerID, msg.ID, "deleted", now))

	got, err := messageRepo.GetByID(ctx, msg.ContainerID, msg.ID)
	require.NoError(t, err)
	require.True(t, got.Deleted)
	require.Equal(t, "deleted", got.Content)
	require.False(t, got.FileURL.Valid)

	// A tombstone accepts neither edit nor delete.
	err = messageRepo.UpdateContent(ctx, msg.ContainerID, msg.ID, "again", now)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	err = messageRepo.Tombstone(ctx, msg.ContainerID, msg.ID, "deleted", now.Add(time.Hour))
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
