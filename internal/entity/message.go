package entity

import (
	"database/sql"
	"time"

	"github.com/questx-lab/harmony/pkg/enum"
)

type ContainerKind string

var (
	ChannelContainer      = enum.New(ContainerKind("channel"), "channel")
	ConversationContainer = enum.New(ContainerKind("conversation"), "conversation")
)

// Message rows are never removed. Deleting a message turns it into a tombstone: Deleted is set,
// Content is replaced by a placeholder and FileURL is cleared.
type Message struct {
	ID            int64  `gorm:"primaryKey;autoIncrement:false"`
	ContainerID   string `gorm:"index:idx_messages_container_created_at,priority:1"`
	ContainerKind ContainerKind

	MemberID string `gorm:"index"`
	Member   Member `gorm:"foreignKey:MemberID"`

	Content string `gorm:"type:text"`
	FileURL sql.NullString
	Deleted bool

	CreatedAt time.Time `gorm:"index:idx_messages_container_created_at,priority:2"`
	UpdatedAt time.Time
}
