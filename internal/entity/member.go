package entity

import (
	"time"

	"github.com/questx-lab/harmony/pkg/enum"
)

// MemberRole is ordered, a higher role has every capability of the lower ones.
type MemberRole int

var (
	GuestRole     = enum.New(MemberRole(0), "GUEST")
	ModeratorRole = enum.New(MemberRole(1), "MODERATOR")
	AdminRole     = enum.New(MemberRole(2), "ADMIN")
)

func (r MemberRole) AtLeast(other MemberRole) bool {
	return r >= other
}

func (r MemberRole) String() string {
	return enum.ToString(r)
}

// Member is the membership of a profile in a server. Leaving or being kicked removes the row.
type Member struct {
	ID   string `gorm:"primarykey"`
	Role MemberRole

	ProfileID string  `gorm:"uniqueIndex:idx_members_profile_server"`
	Profile   Profile `gorm:"foreignKey:ProfileID"`

	ServerID string `gorm:"uniqueIndex:idx_members_profile_server;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
