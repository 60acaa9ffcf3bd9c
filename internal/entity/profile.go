package entity

// Profile is the local record of a user of the identity provider.
type Profile struct {
	Base
	UserID   string `gorm:"uniqueIndex"`
	Name     string
	ImageURL string
	Email    string
}
