package domain

import (
	"testing"

	"github.com/questx-lab/harmony/internal/common"
	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/internal/model"
	"github.com/questx-lab/harmony/internal/repository"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newChannelDomain() *channelDomain {
	return NewChannelDomain(
		repository.NewChannelRepository(),
		newContainerResolver(),
		common.NewMemberRoleVerifier(repository.NewMemberRepository()),
	)
}

func Test_channelDomain_Create(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		req      *model.CreateChannelRequest
		wantType string
		wantErr  errorx.Code
	}{
		{
			name:     "default type",
			userID:   testutil.Profile1.UserID,
			req:      &model.CreateChannelRequest{ServerID: testutil.Server1.ID, Name: " announcements "},
			wantType: "TEXT",
		},
		{
			name:     "moderator creates audio channel",
			userID:   testutil.Profile2.UserID,
			req:      &model.CreateChannelRequest{ServerID: testutil.Server1.ID, Name: "voice", Type: "AUDIO"},
			wantType: "AUDIO",
		},
		{
			name:    "guest",
			userID:  testutil.Profile3.UserID,
			req:     &model.CreateChannelRequest{ServerID: testutil.Server1.ID, Name: "voice"},
			wantErr: errorx.PermissionDenied,
		},
		{
			name:    "not a member",
			userID:  testutil.Profile4.UserID,
			req:     &model.CreateChannelRequest{ServerID: testutil.Server1.ID, Name: "voice"},
			wantErr: errorx.PermissionDenied,
		},
		{
			name:    "reserved name",
			userID:  testutil.Profile1.UserID,
			req:     &model.CreateChannelRequest{ServerID: testutil.Server1.ID, Name: "General"},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "empty name",
			userID:  testutil.Profile1.UserID,
			req:     &model.CreateChannelRequest{ServerID: testutil.Server1.ID, Name: " "},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "invalid type",
			userID:  testutil.Profile1.UserID,
			req:     &model.CreateChannelRequest{ServerID: testutil.Server1.ID, Name: "voice", Type: "STAGE"},
			wantErr: errorx.BadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContextWithUserID(tt.userID)
			testutil.CreateFixtureDb(ctx)

			resp, err := newChannelDomain().Create(ctx, tt.req)
			if tt.wantErr != 0 {
				require.Equal(t, tt.wantErr, errorx.CodeOf(err))
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantType, resp.Type)
			require.Equal(t, testutil.Server1.ID, resp.ServerID)

			channel, err := repository.NewChannelRepository().GetByID(ctx, resp.ID)
			require.NoError(t, err)
			require.Equal(t, resp.Name, channel.Name)
		})
	}
}

func Test_channelDomain_UpdateAndDelete(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	// A channel of another server.
	foreign := entity.Channel{
		Base:     entity.Base{ID: "foreign-channel"},
		Name:     "foreign",
		Type:     entity.TextChannel,
		ServerID: "server2",
	}
	require.NoError(t, repository.NewChannelRepository().Create(ctx, &foreign))

	d := newChannelDomain()
	moderatorCtx := testutil.WithProfile(ctx, testutil.Profile2)

	_, err := d.Update(moderatorCtx, &model.UpdateChannelRequest{
		ServerID: testutil.Server1.ID, ChannelID: testutil.Channel2.ID,
	})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	_, err = d.Update(moderatorCtx, &model.UpdateChannelRequest{
		ServerID: testutil.Server1.ID, ChannelID: testutil.GeneralChannel.ID, Name: "lobby",
	})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	_, err = d.Update(moderatorCtx, &model.UpdateChannelRequest{
		ServerID: testutil.Server1.ID, ChannelID: foreign.ID, Name: "mine",
	})
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))

	_, err = d.Update(testutil.WithProfile(ctx, testutil.Profile3), &model.UpdateChannelRequest{
		ServerID: testutil.Server1.ID, ChannelID: testutil.Channel2.ID, Name: "mine",
	})
	require.ErrorIs(t, err, errorx.New(errorx.PermissionDenied, ""))

	updated, err := d.Update(moderatorCtx, &model.UpdateChannelRequest{
		ServerID: testutil.Server1.ID, ChannelID: testutil.Channel2.ID, Type: "VIDEO",
	})
	require.NoError(t, err)
	require.Equal(t, "random", updated.Name)
	require.Equal(t, "VIDEO", updated.Type)

	_, err = d.Delete(moderatorCtx, &model.DeleteChannelRequest{
		ServerID: testutil.Server1.ID, ChannelID: testutil.GeneralChannel.ID,
	})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	_, err = d.Delete(moderatorCtx, &model.DeleteChannelRequest{
		ServerID: testutil.Server1.ID, ChannelID: testutil.Channel2.ID,
	})
	require.NoError(t, err)

	_, err = d.Delete(moderatorCtx, &model.DeleteChannelRequest{
		ServerID: testutil.Server1.ID, ChannelID: testutil.Channel2.ID,
	})
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))
}
