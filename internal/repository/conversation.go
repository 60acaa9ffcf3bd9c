package repository

import (
	"context"

	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/pkg/xcontext"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	GetByMembers(ctx context.Context, memberOneID, memberTwoID string) (*entity.Conversation, error)
}

type conversationRepository struct{}

func NewConversationRepository() *conversationRepository {
	return &conversationRepository{}
}

func (r *conversationRepository) Create(ctx context.Context, conversation *entity.Conversation) error {
	return xcontext.DB(ctx).Omit("MemberOne", "MemberTwo").Create(conversation).Error
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	var result entity.Conversation
	err := xcontext.DB(ctx).
		Preload("MemberOne.Profile").
		Preload("MemberTwo.Profile").
		Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetByMembers finds the conversation between two members whichever started it.
func (r *conversationRepository) GetByMembers(
	ctx context.Context, memberOneID, memberTwoID string,
) (*entity.Conversation, error) {
	var result entity.Conversation
	err := xcontext.DB(ctx).
		Preload("MemberOne.Profile").
		Preload("MemberTwo.Profile").
		Where("(member_one_id=? AND member_two_id=?) OR (member_one_id=? AND member_two_id=?)",
			memberOneID, memberTwoID, memberTwoID, memberOneID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}
