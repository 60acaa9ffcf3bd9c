package entity

type Server struct {
	Base
	Name       string
	ImageURL   string
	InviteCode string `gorm:"uniqueIndex"`

	ProfileID string
	Profile   Profile `gorm:"foreignKey:ProfileID"`

	Channels []Channel `gorm:"foreignKey:ServerID"`
	Members  []Member  `gorm:"foreignKey:ServerID"`
}
