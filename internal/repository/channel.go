package repository

import (
	"context"

	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"gorm.io/gorm"
)

type ChannelRepository interface {
	Create(ctx context.Context, channel *entity.Channel) error
	GetByID(ctx context.Context, id string) (*entity.Channel, error)
	UpdateByID(ctx context.Context, id string, data entity.Channel) error
	DeleteByID(ctx context.Context, id string) error
}

type channelRepository struct{}

func NewChannelRepository() *channelRepository {
	return &channelRepository{}
}

func (r *channelRepository) Create(ctx context.Context, channel *entity.Channel) error {
	return xcontext.DB(ctx).Create(channel).Error
}

func (r *channelRepository) GetByID(ctx context.Context, id string) (*entity.Channel, error) {
	var result entity.Channel
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdateByID updates the non-zero fields of data.
func (r *channelRepository) UpdateByID(ctx context.Context, id string, data entity.Channel) error {
	tx := xcontext.DB(ctx).Model(&entity.Channel{}).Where("id=?", id).Updates(data)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *channelRepository) DeleteByID(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Delete(&entity.Channel{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
