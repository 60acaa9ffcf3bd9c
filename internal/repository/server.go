package repository

import (
	"context"

	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"gorm.io/gorm"
)

type ServerRepository interface {
	Create(ctx context.Context, server *entity.Server) error
	GetByID(ctx context.Context, id string) (*entity.Server, error)
	GetByInviteCode(ctx context.Context, inviteCode string) (*entity.Server, error)
	GetDetailByID(ctx context.Context, id string) (*entity.Server, error)
	GetListByProfileID(ctx context.Context, profileID string) ([]entity.Server, error)
	UpdateByID(ctx context.Context, id string, data entity.Server) error
	UpdateInviteCode(ctx context.Context, id, inviteCode string) error
	DeleteByID(ctx context.Context, id string) error
}

type serverRepository struct{}

func NewServerRepository() *serverRepository {
	return &serverRepository{}
}

func (r *serverRepository) Create(ctx context.Context, server *entity.Server) error {
	return xcontext.DB(ctx).Create(server).Error
}

func (r *serverRepository) GetByID(ctx context.Context, id string) (*entity.Server, error) {
	var result entity.Server
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *serverRepository) GetByInviteCode(ctx context.Context, inviteCode string) (*entity.Server, error) {
	var result entity.Server
	if err := xcontext.DB(ctx).Take(&result, "invite_code=?", inviteCode).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetDetailByID loads the server with its channels, oldest first, and its members with their
// profiles, highest role first.
func (r *serverRepository) GetDetailByID(ctx context.Context, id string) (*entity.Server, error) {
	var result entity.Server
	err := xcontext.DB(ctx).
		Preload("Channels", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("role DESC").Order("created_at ASC")
		}).
		Preload("Members.Profile").
		Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *serverRepository) GetListByProfileID(ctx context.Context, profileID string) ([]entity.Server, error) {
	var result []entity.Server
	err := xcontext.DB(ctx).Model(&entity.Server{}).
		Joins("join members on members.server_id=servers.id").
		Where("members.profile_id=?", profileID).
		Order("servers.created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateByID updates the non-zero fields of data.
func (r *serverRepository) UpdateByID(ctx context.Context, id string, data entity.Server) error {
	tx := xcontext.DB(ctx).Model(&entity.Server{}).Where("id=?", id).Updates(data)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *serverRepository) UpdateInviteCode(ctx context.Context, id, inviteCode string) error {
	tx := xcontext.DB(ctx).Model(&entity.Server{}).Where("id=?", id).Update("invite_code", inviteCode)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *serverRepository) DeleteByID(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Delete(&entity.Server{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
