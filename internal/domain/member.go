package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/harmony/internal/common"
	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/internal/model"
	"github.com/questx-lab/harmony/internal/repository"
	"github.com/questx-lab/harmony/pkg/enum"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"gorm.io/gorm"
)

type MemberDomain interface {
	UpdateRole(context.Context, *model.UpdateMemberRoleRequest) (*model.UpdateMemberRoleResponse, error)
	Kick(context.Context, *model.KickMemberRequest) (*model.KickMemberResponse, error)
}

type memberDomain struct {
	serverRepo        repository.ServerRepository
	memberRepo        repository.MemberRepository
	containerResolver *common.ContainerResolver
}

func NewMemberDomain(
	serverRepo repository.ServerRepository,
	memberRepo repository.MemberRepository,
	containerResolver *common.ContainerResolver,
) *memberDomain {
	return &memberDomain{
		serverRepo:        serverRepo,
		memberRepo:        memberRepo,
		containerResolver: containerResolver,
	}
}

func (d *memberDomain) UpdateRole(
	ctx context.Context, req *model.UpdateMemberRoleRequest,
) (*model.UpdateMemberRoleResponse, error) {
	role, err := enum.ToEnum[entity.MemberRole](req.Role)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid role")
	}

	member, err := d.otherMember(ctx, req.ServerID, req.MemberID)
	if err != nil {
		return nil, err
	}

	if err := d.memberRepo.UpdateRole(ctx, member.ServerID, member.ID, role); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update member role: %v", err)
		return nil, errorx.Unknown
	}

	member.Role = role
	return &model.UpdateMemberRoleResponse{Member: model.ConvertMember(member)}, nil
}

func (d *memberDomain) Kick(
	ctx context.Context, req *model.KickMemberRequest,
) (*model.KickMemberResponse, error) {
	member, err := d.otherMember(ctx, req.ServerID, req.MemberID)
	if err != nil {
		return nil, err
	}

	if err := d.memberRepo.Delete(ctx, member.ServerID, member.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete member: %v", err)
		return nil, errorx.Unknown
	}

	return &model.KickMemberResponse{}, nil
}

// otherMember returns a member of the server other than the caller, who must own the server.
func (d *memberDomain) otherMember(ctx context.Context, serverID, memberID string) (*entity.Member, error) {
	profile, err := d.containerResolver.CallerProfile(ctx)
	if err != nil {
		return nil, err
	}

	server, err := d.serverRepo.GetByID(ctx, serverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found server")
		}

		xcontext.Logger(ctx).Errorf("Cannot get server: %v", err)
		return nil, errorx.Unknown
	}

	if server.ProfileID != profile.ID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the owner can manage members")
	}

	member, err := d.memberRepo.GetByID(ctx, server.ID, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found member")
		}

		xcontext.Logger(ctx).Errorf("Cannot get member: %v", err)
		return nil, errorx.Unknown
	}

	if member.ProfileID == profile.ID {
		return nil, errorx.New(errorx.BadRequest, "Cannot manage yourself")
	}

	return member, nil
}
