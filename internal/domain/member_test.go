package domain

import (
	"testing"

	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/internal/model"
	"github.com/questx-lab/harmony/internal/repository"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newMemberDomain() *memberDomain {
	return NewMemberDomain(
		repository.NewServerRepository(),
		repository.NewMemberRepository(),
		newContainerResolver(),
	)
}

func Test_memberDomain_UpdateRole(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		req     *model.UpdateMemberRoleRequest
		wantErr errorx.Code
	}{
		{
			name:   "promote guest",
			userID: testutil.Profile1.UserID,
			req: &model.UpdateMemberRoleRequest{
				ServerID: testutil.Server1.ID, MemberID: testutil.GuestMember.ID, Role: "MODERATOR",
			},
		},
		{
			name:   "demote moderator",
			userID: testutil.Profile1.UserID,
			req: &model.UpdateMemberRoleRequest{
				ServerID: testutil.Server1.ID, MemberID: testutil.ModeratorMember.ID, Role: "GUEST",
			},
		},
		{
			name:   "moderator is not the owner",
			userID: testutil.Profile2.UserID,
			req: &model.UpdateMemberRoleRequest{
				ServerID: testutil.Server1.ID, MemberID: testutil.GuestMember.ID, Role: "MODERATOR",
			},
			wantErr: errorx.PermissionDenied,
		},
		{
			name:   "owner changes itself",
			userID: testutil.Profile1.UserID,
			req: &model.UpdateMemberRoleRequest{
				ServerID: testutil.Server1.ID, MemberID: testutil.AdminMember.ID, Role: "GUEST",
			},
			wantErr: errorx.BadRequest,
		},
		{
			name:   "invalid role",
			userID: testutil.Profile1.UserID,
			req: &model.UpdateMemberRoleRequest{
				ServerID: testutil.Server1.ID, MemberID: testutil.GuestMember.ID, Role: "OWNER",
			},
			wantErr: errorx.BadRequest,
		},
		{
			name:   "unknown member",
			userID: testutil.Profile1.UserID,
			req: &model.UpdateMemberRoleRequest{
				ServerID: testutil.Server1.ID, MemberID: "unknown", Role: "GUEST",
			},
			wantErr: errorx.NotFound,
		},
		{
			name:   "unknown server",
			userID: testutil.Profile1.UserID,
			req: &model.UpdateMemberRoleRequest{
				ServerID: "unknown", MemberID: testutil.GuestMember.ID, Role: "GUEST",
			},
			wantErr: errorx.NotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContextWithUserID(tt.userID)
			testutil.CreateFixtureDb(ctx)

			resp, err := newMemberDomain().UpdateRole(ctx, tt.req)
			if tt.wantErr != 0 {
				require.Equal(t, tt.wantErr, errorx.CodeOf(err))
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.req.Role, resp.Role)

			member, err := repository.NewMemberRepository().GetByID(ctx, tt.req.ServerID, tt.req.MemberID)
			require.NoError(t, err)
			require.Equal(t, tt.req.Role, model.ConvertMember(member).Role)
		})
	}
}

func Test_memberDomain_Kick(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newMemberDomain()

	_, err := d.Kick(testutil.WithProfile(ctx, testutil.Profile2), &model.KickMemberRequest{
		ServerID: testutil.Server1.ID, MemberID: testutil.GuestMember.ID,
	})
	require.ErrorIs(t, err, errorx.New(errorx.PermissionDenied, ""))

	ownerCtx := testutil.WithProfile(ctx, testutil.Profile1)
	_, err = d.Kick(ownerCtx, &model.KickMemberRequest{
		ServerID: testutil.Server1.ID, MemberID: testutil.AdminMember.ID,
	})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	_, err = d.Kick(ownerCtx, &model.KickMemberRequest{
		ServerID: testutil.Server1.ID, MemberID: testutil.GuestMember.ID,
	})
	require.NoError(t, err)

	// The kicked member loses access to the server channels.
	_, err = newContainerResolver().Resolve(
		testutil.WithProfile(ctx, testutil.Profile3), entity.ChannelContainer, testutil.GeneralChannel.ID)
	require.ErrorIs(t, err, errorx.New(errorx.PermissionDenied, ""))

	_, err = d.Kick(ownerCtx, &model.KickMemberRequest{
		ServerID: testutil.Server1.ID, MemberID: testutil.GuestMember.ID,
	})
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))
}
