package common

import (
	"context"
	"errors"

	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/internal/repository"
	"github.com/questx-lab/harmony/pkg/enum"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"gorm.io/gorm"
)

// Container is a message container resolved for the caller of a request.
type Container struct {
	Kind entity.ContainerKind
	ID   string

	// ServerID is the server owning the channel, or the server of both participants of the
	// conversation.
	ServerID string

	// Member is the caller's membership, with its profile.
	Member *entity.Member
}

type ContainerResolver struct {
	profileRepo      repository.ProfileRepository
	channelRepo      repository.ChannelRepository
	conversationRepo repository.ConversationRepository
	memberRepo       repository.MemberRepository
}

func NewContainerResolver(
	profileRepo repository.ProfileRepository,
	channelRepo repository.ChannelRepository,
	conversationRepo repository.ConversationRepository,
	memberRepo repository.MemberRepository,
) *ContainerResolver {
	return &ContainerResolver{
		profileRepo:      profileRepo,
		channelRepo:      channelRepo,
		conversationRepo: conversationRepo,
		memberRepo:       memberRepo,
	}
}

// ContainerOf picks the container named by a request. Exactly one of channelID and
// conversationID must be set.
func ContainerOf(channelID, conversationID string) (entity.ContainerKind, string, error) {
	switch {
	case channelID != "" && conversationID != "":
		return "", "", errorx.New(errorx.BadRequest, "Only one of channel_id and conversation_id is allowed")
	case channelID != "":
		return entity.ChannelContainer, channelID, nil
	case conversationID != "":
		return entity.ConversationContainer, conversationID, nil
	default:
		return "", "", errorx.New(errorx.BadRequest, "Not allow empty container id")
	}
}

// ParseContainerKind accepts the kind names sent by realtime clients.
func ParseContainerKind(s string) (entity.ContainerKind, error) {
	kind, err := enum.ToEnum[entity.ContainerKind](s)
	if err != nil {
		return "", errorx.New(errorx.BadRequest, "Invalid container kind %q", s)
	}

	return kind, nil
}

// CallerProfile returns the profile of the authenticated user.
func (r *ContainerResolver) CallerProfile(ctx context.Context) (*entity.Profile, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Need authenticated")
	}

	profile, err := r.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Profile is not initialized")
		}

		xcontext.Logger(ctx).Errorf("Cannot get profile: %v", err)
		return nil, errorx.Unknown
	}

	return profile, nil
}

// Resolve finds the container and the caller's membership in it. It fails with NotFound if the
// container does not exist and with PermissionDenied if the caller does not belong to it.
func (r *ContainerResolver) Resolve(
	ctx context.Context, kind entity.ContainerKind, id string,
) (*Container, error) {
	profile, err := r.CallerProfile(ctx)
	if err != nil {
		return nil, err
	}

	switch kind {
	case entity.ChannelContainer:
		return r.resolveChannel(ctx, profile, id)
	case entity.ConversationContainer:
		return r.resolveConversation(ctx, profile, id)
	default:
		return nil, errorx.New(errorx.BadRequest, "Invalid container kind %q", kind)
	}
}

func (r *ContainerResolver) resolveChannel(
	ctx context.Context, profile *entity.Profile, channelID string,
) (*Container, error) {
	channel, err := r.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found channel")
		}

		xcontext.Logger(ctx).Errorf("Cannot get channel: %v", err)
		return nil, errorx.Unknown
	}

	member, err := r.memberRepo.Get(ctx, channel.ServerID, profile.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.PermissionDenied, "You are not a member of this server")
		}

		xcontext.Logger(ctx).Errorf("Cannot get member: %v", err)
		return nil, errorx.Unknown
	}

	return &Container{
		Kind:     entity.ChannelContainer,
		ID:       channel.ID,
		ServerID: channel.ServerID,
		Member:   member,
	}, nil
}

func (r *ContainerResolver) resolveConversation(
	ctx context.Context, profile *entity.Profile, conversationID string,
) (*Container, error) {
	conversation, err := r.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found conversation")
		}

		xcontext.Logger(ctx).Errorf("Cannot get conversation: %v", err)
		return nil, errorx.Unknown
	}

	member, ok := conversation.Participant(profile.ID)
	if !ok {
		return nil, errorx.New(errorx.PermissionDenied, "You are not a participant of this conversation")
	}

	return &Container{
		Kind:     entity.ConversationContainer,
		ID:       conversation.ID,
		ServerID: member.ServerID,
		Member:   member,
	}, nil
}
