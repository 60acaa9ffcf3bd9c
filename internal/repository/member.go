package repository

import (
	"context"

	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"gorm.io/gorm"
)

type MemberRepository interface {
	Create(ctx context.Context, member *entity.Member) error
	Get(ctx context.Context, serverID, profileID string) (*entity.Member, error)
	GetByID(ctx context.Context, serverID, memberID string) (*entity.Member, error)
	UpdateRole(ctx context.Context, serverID, memberID string, role entity.MemberRole) error
	Delete(ctx context.Context, serverID, memberID string) error
}

type memberRepository struct{}

func NewMemberRepository() *memberRepository {
	return &memberRepository{}
}

func (r *memberRepository) Create(ctx context.Context, member *entity.Member) error {
	return xcontext.DB(ctx).Create(member).Error
}

func (r *memberRepository) Get(ctx context.Context, serverID, profileID string) (*entity.Member, error) {
	var result entity.Member
	err := xcontext.DB(ctx).Model(&entity.Member{}).
		Joins("Profile").
		Where("members.server_id=? AND members.profile_id=?", serverID, profileID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *memberRepository) GetByID(ctx context.Context, serverID, memberID string) (*entity.Member, error) {
	var result entity.Member
	err := xcontext.DB(ctx).Model(&entity.Member{}).
		Joins("Profile").
		Where("members.server_id=? AND members.id=?", serverID, memberID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *memberRepository) UpdateRole(
	ctx context.Context, serverID, memberID string, role entity.MemberRole,
) error {
	tx := xcontext.DB(ctx).Model(&entity.Member{}).
		Where("server_id=? AND id=?", serverID, memberID).
		Update("role", role)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *memberRepository) Delete(ctx context.Context, serverID, memberID string) error {
	tx := xcontext.DB(ctx).Delete(&entity.Member{}, "server_id=? AND id=?", serverID, memberID)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
