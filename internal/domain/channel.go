package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/questx-lab/harmony/internal/common"
	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/internal/model"
	"github.com/questx-lab/harmony/internal/repository"
	"github.com/questx-lab/harmony/pkg/enum"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"gorm.io/gorm"
)

type ChannelDomain interface {
	Create(context.Context, *model.CreateChannelRequest) (*model.CreateChannelResponse, error)
	Update(context.Context, *model.UpdateChannelRequest) (*model.UpdateChannelResponse, error)
	Delete(context.Context, *model.DeleteChannelRequest) (*model.DeleteChannelResponse, error)
}

type channelDomain struct {
	channelRepo       repository.ChannelRepository
	containerResolver *common.ContainerResolver
	roleVerifier      *common.MemberRoleVerifier
}

func NewChannelDomain(
	channelRepo repository.ChannelRepository,
	containerResolver *common.ContainerResolver,
	roleVerifier *common.MemberRoleVerifier,
) *channelDomain {
	return &channelDomain{
		channelRepo:       channelRepo,
		containerResolver: containerResolver,
		roleVerifier:      roleVerifier,
	}
}

func (d *channelDomain) Create(
	ctx context.Context, req *model.CreateChannelRequest,
) (*model.CreateChannelResponse, error) {
	name, err := checkChannelName(req.Name)
	if err != nil {
		return nil, err
	}

	channelType := entity.TextChannel
	if req.Type != "" {
		channelType, err = enum.ToEnum[entity.ChannelType](req.Type)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid channel type")
		}
	}

	profile, err := d.containerResolver.CallerProfile(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := d.roleVerifier.Verify(ctx, req.ServerID, profile.ID, entity.ModeratorRole); err != nil {
		return nil, err
	}

	channel := &entity.Channel{
		Base:      entity.Base{ID: uuid.NewString()},
		Name:      name,
		Type:      channelType,
		ProfileID: profile.ID,
		ServerID:  req.ServerID,
	}

	if err := d.channelRepo.Create(ctx, channel); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create channel: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateChannelResponse{Channel: model.ConvertChannel(channel)}, nil
}

func (d *channelDomain) Update(
	ctx context.Context, req *model.UpdateChannelRequest,
) (*model.UpdateChannelResponse, error) {
	var data entity.Channel
	if req.Name != "" {
		name, err := checkChannelName(req.Name)
		if err != nil {
			return nil, err
		}
		data.Name = name
	}

	if req.Type != "" {
		channelType, err := enum.ToEnum[entity.ChannelType](req.Type)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid channel type")
		}
		data.Type = channelType
	}

	if data.Name == "" && data.Type == "" {
		return nil, errorx.New(errorx.BadRequest, "Nothing to update")
	}

	channel, err := d.editableChannel(ctx, req.ServerID, req.ChannelID)
	if err != nil {
		return nil, err
	}

	if err := d.channelRepo.UpdateByID(ctx, channel.ID, data); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update channel: %v", err)
		return nil, errorx.Unknown
	}

	if data.Name != "" {
		channel.Name = data.Name
	}

	if data.Type != "" {
		channel.Type = data.Type
	}

	return &model.UpdateChannelResponse{Channel: model.ConvertChannel(channel)}, nil
}

func (d *channelDomain) Delete(
	ctx context.Context, req *model.DeleteChannelRequest,
) (*model.DeleteChannelResponse, error) {
	channel, err := d.editableChannel(ctx, req.ServerID, req.ChannelID)
	if err != nil {
		return nil, err
	}

	if err := d.channelRepo.DeleteByID(ctx, channel.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete channel: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteChannelResponse{}, nil
}

// editableChannel returns the channel of the server if the caller is at least a moderator and
// the channel is not the general one.
func (d *channelDomain) editableChannel(
	ctx context.Context, serverID, channelID string,
) (*entity.Channel, error) {
	profile, err := d.containerResolver.CallerProfile(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := d.roleVerifier.Verify(ctx, serverID, profile.ID, entity.ModeratorRole); err != nil {
		return nil, err
	}

	channel, err := d.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found channel")
		}

		xcontext.Logger(ctx).Errorf("Cannot get channel: %v", err)
		return nil, errorx.Unknown
	}

	if channel.ServerID != serverID {
		return nil, errorx.New(errorx.NotFound, "Not found channel")
	}

	if channel.Name == entity.GeneralChannelName {
		return nil, errorx.New(errorx.BadRequest, "Cannot change the general channel")
	}

	return channel, nil
}

func checkChannelName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errorx.New(errorx.BadRequest, "Not allow empty channel name")
	}

	if strings.EqualFold(name, entity.GeneralChannelName) {
		return "", errorx.New(errorx.BadRequest, "Channel name cannot be %q", entity.GeneralChannelName)
	}

	return name, nil
}
