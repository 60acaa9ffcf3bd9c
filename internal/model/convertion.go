package model

import (
	"strconv"
	"time"

	"github.com/questx-lab/harmony/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertProfile(profile *entity.Profile) Profile {
	if profile == nil {
		return Profile{}
	}

	return Profile{
		ID:        profile.ID,
		UserID:    profile.UserID,
		Name:      profile.Name,
		ImageURL:  profile.ImageURL,
		Email:     profile.Email,
		CreatedAt: formatTime(profile.CreatedAt),
	}
}

func ConvertMember(member *entity.Member) Member {
	if member == nil {
		return Member{}
	}

	return Member{
		ID:        member.ID,
		Role:      member.Role.String(),
		ServerID:  member.ServerID,
		Profile:   ConvertProfile(&member.Profile),
		CreatedAt: formatTime(member.CreatedAt),
	}
}

func ConvertChannel(channel *entity.Channel) Channel {
	if channel == nil {
		return Channel{}
	}

	return Channel{
		ID:        channel.ID,
		Name:      channel.Name,
		Type:      string(channel.Type),
		ServerID:  channel.ServerID,
		CreatedAt: formatTime(channel.CreatedAt),
	}
}

// ConvertServer hides the invite code unless includeInviteCode is set.
func ConvertServer(server *entity.Server, includeInviteCode bool) Server {
	if server == nil {
		return Server{}
	}

	s := Server{
		ID:        server.ID,
		Name:      server.Name,
		ImageURL:  server.ImageURL,
		ProfileID: server.ProfileID,
		CreatedAt: formatTime(server.CreatedAt),
	}

	if includeInviteCode {
		s.InviteCode = server.InviteCode
	}

	for i := range server.Channels {
		s.Channels = append(s.Channels, ConvertChannel(&server.Channels[i]))
	}

	for i := range server.Members {
		s.Members = append(s.Members, ConvertMember(&server.Members[i]))
	}

	return s
}

func ConvertConversation(conversation *entity.Conversation) Conversation {
	if conversation == nil {
		return Conversation{}
	}

	return Conversation{
		ID:        conversation.ID,
		MemberOne: ConvertMember(&conversation.MemberOne),
		MemberTwo: ConvertMember(&conversation.MemberTwo),
	}
}

func ConvertMessage(message *entity.Message) Message {
	if message == nil {
		return Message{}
	}

	return Message{
		ID:          strconv.FormatInt(message.ID, 10),
		ContainerID: message.ContainerID,
		Kind:        string(message.ContainerKind),
		Content:     message.Content,
		FileURL:     message.FileURL.String,
		Deleted:     message.Deleted,
		Member:      ConvertMember(&message.Member),
		CreatedAt:   formatTime(message.CreatedAt),
		UpdatedAt:   formatTime(message.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(DefaultTimeLayout)
}
