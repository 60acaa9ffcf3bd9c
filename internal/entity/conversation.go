package entity

import "time"

// Conversation is a direct message container between two members of the same server.
type Conversation struct {
	ID string `gorm:"primarykey"`

	MemberOneID string `gorm:"uniqueIndex:idx_conversations_members"`
	MemberOne   Member `gorm:"foreignKey:MemberOneID"`

	MemberTwoID string `gorm:"uniqueIndex:idx_conversations_members;index"`
	MemberTwo   Member `gorm:"foreignKey:MemberTwoID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Participant returns the member of the conversation owned by profileID.
func (c *Conversation) Participant(profileID string) (*Member, bool) {
	switch profileID {
	case c.MemberOne.ProfileID:
		return &c.MemberOne, true
	case c.MemberTwo.ProfileID:
		return &c.MemberTwo, true
	default:
		return nil, false
	}
}
