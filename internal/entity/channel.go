package entity

import "github.com/questx-lab/harmony/pkg/enum"

type ChannelType string

var (
	TextChannel  = enum.New(ChannelType("TEXT"), "TEXT")
	AudioChannel = enum.New(ChannelType("AUDIO"), "AUDIO")
	VideoChannel = enum.New(ChannelType("VIDEO"), "VIDEO")
)

// GeneralChannelName is reserved for the channel created with every server.
const GeneralChannelName = "general"

type Channel struct {
	Base
	Name string
	Type ChannelType

	ProfileID string
	ServerID  string `gorm:"index"`
}
