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

func newConversationDomain() *conversationDomain {
	memberRepo := repository.NewMemberRepository()
	return NewConversationDomain(
		repository.NewConversationRepository(),
		memberRepo,
		newContainerResolver(),
		common.NewMemberRoleVerifier(memberRepo),
	)
}

func Test_conversationDomain_GetOrCreate(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		req     *model.GetOrCreateConversationRequest
		wantID  string
		wantErr errorx.Code
	}{
		{
			name:   "existing conversation by its starter",
			userID: testutil.Profile1.UserID,
			req:    &model.GetOrCreateConversationRequest{ServerID: testutil.Server1.ID, MemberID: testutil.GuestMember.ID},
			wantID: testutil.Conversation1.ID,
		},
		{
			name:   "existing conversation by the other participant",
			userID: testutil.Profile3.UserID,
			req:    &model.GetOrCreateConversationRequest{ServerID: testutil.Server1.ID, MemberID: testutil.AdminMember.ID},
			wantID: testutil.Conversation1.ID,
		},
		{
			name:   "new conversation",
			userID: testutil.Profile2.UserID,
			req:    &model.GetOrCreateConversationRequest{ServerID: testutil.Server1.ID, MemberID: testutil.GuestMember.ID},
		},
		{
			name:    "with yourself",
			userID:  testutil.Profile2.UserID,
			req:     &model.GetOrCreateConversationRequest{ServerID: testutil.Server1.ID, MemberID: testutil.ModeratorMember.ID},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "empty member",
			userID:  testutil.Profile2.UserID,
			req:     &model.GetOrCreateConversationRequest{ServerID: testutil.Server1.ID},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "not a member",
			userID:  testutil.Profile4.UserID,
			req:     &model.GetOrCreateConversationRequest{ServerID: testutil.Server1.ID, MemberID: testutil.GuestMember.ID},
			wantErr: errorx.PermissionDenied,
		},
		{
			name:    "unknown member",
			userID:  testutil.Profile2.UserID,
			req:     &model.GetOrCreateConversationRequest{ServerID: testutil.Server1.ID, MemberID: "unknown"},
			wantErr: errorx.NotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContextWithUserID(tt.userID)
			testutil.CreateFixtureDb(ctx)

			resp, err := newConversationDomain().GetOrCreate(ctx, tt.req)
			if tt.wantErr != 0 {
				require.Equal(t, tt.wantErr, errorx.CodeOf(err))
				return
			}

			require.NoError(t, err)
			if tt.wantID != "" {
				require.Equal(t, tt.wantID, resp.ID)
			}

			participants := []string{resp.MemberOne.ID, resp.MemberTwo.ID}
			require.Contains(t, participants, tt.req.MemberID)
			require.NotEmpty(t, resp.MemberOne.Profile.Name)
			require.NotEmpty(t, resp.MemberTwo.Profile.Name)
		})
	}
}

func Test_conversationDomain_GetOrCreate_Twice(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newConversationDomain()

	first, err := d.GetOrCreate(testutil.WithProfile(ctx, testutil.Profile2), &model.GetOrCreateConversationRequest{
		ServerID: testutil.Server1.ID, MemberID: testutil.GuestMember.ID,
	})
	require.NoError(t, err)
	require.Equal(t, testutil.ModeratorMember.ID, first.MemberOne.ID)
	require.Equal(t, testutil.GuestMember.ID, first.MemberTwo.ID)

	// The other participant reaches the same conversation.
	second, err := d.GetOrCreate(testutil.WithProfile(ctx, testutil.Profile3), &model.GetOrCreateConversationRequest{
		ServerID: testutil.Server1.ID, MemberID: testutil.ModeratorMember.ID,
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	container, err := newContainerResolver().Resolve(
		testutil.WithProfile(ctx, testutil.Profile3), entity.ConversationContainer, first.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.GuestMember.ID, container.Member.ID)
}
