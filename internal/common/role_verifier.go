package common

import (
	"context"
	"errors"

	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/internal/repository"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"gorm.io/gorm"
)

type MemberRoleVerifier struct {
	memberRepo repository.MemberRepository
}

func NewMemberRoleVerifier(memberRepo repository.MemberRepository) *MemberRoleVerifier {
	return &MemberRoleVerifier{memberRepo: memberRepo}
}

// Verify returns the member of profileID in serverID if its role is at least required.
func (verifier *MemberRoleVerifier) Verify(
	ctx context.Context, serverID, profileID string, required entity.MemberRole,
) (*entity.Member, error) {
	member, err := verifier.memberRepo.Get(ctx, serverID, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.PermissionDenied, "You are not a member of this server")
		}

		xcontext.Logger(ctx).Errorf("Cannot get member: %v", err)
		return nil, errorx.Unknown
	}

	if !member.Role.AtLeast(required) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return member, nil
}

// CanEditMessage reports whether member may change the content of message. Only the author
// can, whatever its role.
func CanEditMessage(member *entity.Member, message *entity.Message) bool {
	return member.ID == message.MemberID
}

// CanDeleteMessage reports whether member may delete message: its author or any member whose
// role is at least moderator.
func CanDeleteMessage(member *entity.Member, message *entity.Message) bool {
	return member.ID == message.MemberID || member.Role.AtLeast(entity.ModeratorRole)
}
