package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/questx-lab/harmony/internal/common"
	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/internal/model"
	"github.com/questx-lab/harmony/internal/repository"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"gorm.io/gorm"
)

type ConversationDomain interface {
	GetOrCreate(context.Context, *model.GetOrCreateConversationRequest) (*model.GetOrCreateConversationResponse, error)
}

type conversationDomain struct {
	conversationRepo  repository.ConversationRepository
	memberRepo        repository.MemberRepository
	containerResolver *common.ContainerResolver
	roleVerifier      *common.MemberRoleVerifier
}

func NewConversationDomain(
	conversationRepo repository.ConversationRepository,
	memberRepo repository.MemberRepository,
	containerResolver *common.ContainerResolver,
	roleVerifier *common.MemberRoleVerifier,
) *conversationDomain {
	return &conversationDomain{
		conversationRepo:  conversationRepo,
		memberRepo:        memberRepo,
		containerResolver: containerResolver,
		roleVerifier:      roleVerifier,
	}
}

// GetOrCreate returns the conversation between the caller and another member of the same
// server, whoever started it.
func (d *conversationDomain) GetOrCreate(
	ctx context.Context, req *model.GetOrCreateConversationRequest,
) (*model.GetOrCreateConversationResponse, error) {
	if req.ServerID == "" || req.MemberID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty server id or member id")
	}

	profile, err := d.containerResolver.CallerProfile(ctx)
	if err != nil {
		return nil, err
	}

	me, err := d.roleVerifier.Verify(ctx, req.ServerID, profile.ID, entity.GuestRole)
	if err != nil {
		return nil, err
	}

	other, err := d.memberRepo.GetByID(ctx, req.ServerID, req.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found member")
		}

		xcontext.Logger(ctx).Errorf("Cannot get member: %v", err)
		return nil, errorx.Unknown
	}

	if other.ID == me.ID {
		return nil, errorx.New(errorx.BadRequest, "Cannot start a conversation with yourself")
	}

	conversation, err := d.conversationRepo.GetByMembers(ctx, me.ID, other.ID)
	if err == nil {
		return &model.GetOrCreateConversationResponse{
			Conversation: model.ConvertConversation(conversation),
		}, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get conversation: %v", err)
		return nil, errorx.Unknown
	}

	conversation = &entity.Conversation{
		ID:          uuid.NewString(),
		MemberOneID: me.ID,
		MemberTwoID: other.ID,
	}

	if err := d.conversationRepo.Create(ctx, conversation); err != nil {
		// Lost a race against the other participant, their conversation is ours.
		existed, getErr := d.conversationRepo.GetByMembers(ctx, me.ID, other.ID)
		if getErr != nil {
			xcontext.Logger(ctx).Errorf("Cannot create conversation: %v", err)
			return nil, errorx.Unknown
		}

		return &model.GetOrCreateConversationResponse{
			Conversation: model.ConvertConversation(existed),
		}, nil
	}

	conversation.MemberOne = *me
	conversation.MemberTwo = *other

	return &model.GetOrCreateConversationResponse{
		Conversation: model.ConvertConversation(conversation),
	}, nil
}
