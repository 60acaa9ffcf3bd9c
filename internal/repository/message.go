package repository

import (
	"context"
	"time"

	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	GetByID(ctx context.Context, containerID string, id int64) (*entity.Message, error)
	GetList(ctx context.Context, containerID string, before *entity.Message, limit int) ([]entity.Message, error)
	UpdateContent(ctx context.Context, containerID string, id int64, content string, updatedAt time.Time) error
	Tombstone(ctx context.Context, containerID string, id int64, placeholder string, updatedAt time.Time) error
}

type messageRepository struct{}

func NewMessageRepository() *messageRepository {
	return &messageRepository{}
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	return xcontext.DB(ctx).Omit("Member").Create(message).Error
}

// withAuthor joins the author member and its profile into the same query.
func (r *messageRepository) withAuthor(ctx context.Context) *gorm.DB {
	return xcontext.DB(ctx).Model(&entity.Message{}).
		Joins("Member").
		Joins("Member.Profile")
}

func (r *messageRepository) GetByID(ctx context.Context, containerID string, id int64) (*entity.Message, error) {
	var result entity.Message
	err := r.withAuthor(ctx).
		Where("messages.container_id=? AND messages.id=?", containerID, id).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetList returns at most limit messages of the container, newest first. If before is not nil,
// only messages strictly older than it in (created_at, id) order are returned.
func (r *messageRepository) GetList(
	ctx context.Context, containerID string, before *entity.Message, limit int,
) ([]entity.Message, error) {
	tx := r.withAuthor(ctx).Where("messages.container_id=?", containerID)
	if before != nil {
		tx = tx.Where(
			"(messages.created_at < ? OR (messages.created_at = ? AND messages.id < ?))",
			before.CreatedAt, before.CreatedAt, before.ID,
		)
	}

	var result []entity.Message
	err := tx.
		Order("messages.created_at DESC").
		Order("messages.id DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateContent changes the content of a message which is not deleted. It returns
// gorm.ErrRecordNotFound if no such message exists, including when a concurrent delete won.
func (r *messageRepository) UpdateContent(
	ctx context.Context, containerID string, id int64, content string, updatedAt time.Time,
) error {
	tx := xcontext.DB(ctx).Model(&entity.Message{}).
		Where("id=? AND container_id=? AND deleted=?", id, containerID, false).
		Updates(map[string]any{
			"content":    content,
			"updated_at": updatedAt,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Tombstone marks a message as deleted, replacing its content by placeholder and clearing its
// attachment. It returns gorm.ErrRecordNotFound if the message is missing or already deleted.
func (r *messageRepository) Tombstone(
	ctx context.Context, containerID string, id int64, placeholder string, updatedAt time.Time,
) error {
	tx := xcontext.DB(ctx).Model(&entity.Message{}).
		Where("id=? AND container_id=? AND deleted=?", id, containerID, false).
		Updates(map[string]any{
			"content":    placeholder,
			"file_url":   nil,
			"deleted":    true,
			"updated_at": updatedAt,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
