package testutil

import (
	"context"
	"time"

	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/internal/repository"
	"github.com/questx-lab/harmony/pkg/xcontext"
)

var fixtureTime = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

var (
	// Profile1 owns Server1 and is its admin.
	Profile1 = entity.Profile{
		Base:     entity.Base{ID: "profile1", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
		UserID:   "user1",
		Name:     "Alice",
		ImageURL: "https://example.com/alice.png",
		Email:    "alice@example.com",
	}

	Profile2 = entity.Profile{
		Base:   entity.Base{ID: "profile2", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
		UserID: "user2",
		Name:   "Bob",
		Email:  "bob@example.com",
	}

	Profile3 = entity.Profile{
		Base:   entity.Base{ID: "profile3", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
		UserID: "user3",
		Name:   "Carol",
		Email:  "carol@example.com",
	}

	// Profile4 is not a member of any server.
	Profile4 = entity.Profile{
		Base:   entity.Base{ID: "profile4", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
		UserID: "user4",
		Name:   "Dave",
		Email:  "dave@example.com",
	}

	Profiles = []entity.Profile{Profile1, Profile2, Profile3, Profile4}
)

var (
	Server1 = entity.Server{
		Base:       entity.Base{ID: "server1", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
		Name:       "Server 1",
		ImageURL:   "https://example.com/server1.png",
		InviteCode: "invite-code-1",
		ProfileID:  Profile1.ID,
	}

	Servers = []entity.Server{Server1}
)

var (
	GeneralChannel = entity.Channel{
		Base:      entity.Base{ID: "channel1", CreatedAt: fixtureTime, UpdatedAt: fixtureTime},
		Name:      entity.GeneralChannelName,
		Type:      entity.TextChannel,
		ProfileID: Profile1.ID,
		ServerID:  Server1.ID,
	}

	Channel2 = entity.Channel{
		Base:      entity.Base{ID: "channel2", CreatedAt: fixtureTime.Add(time.Second), UpdatedAt: fixtureTime},
		Name:      "random",
		Type:      entity.TextChannel,
		ProfileID: Profile1.ID,
		ServerID:  Server1.ID,
	}

	Channels = []entity.Channel{GeneralChannel, Channel2}
)

var (
	AdminMember = entity.Member{
		ID:        "member1",
		Role:      entity.AdminRole,
		ProfileID: Profile1.ID,
		ServerID:  Server1.ID,
		CreatedAt: fixtureTime,
		UpdatedAt: fixtureTime,
	}

	ModeratorMember = entity.Member{
		ID:        "member2",
		Role:      entity.ModeratorRole,
		ProfileID: Profile2.ID,
		ServerID:  Server1.ID,
		CreatedAt: fixtureTime,
		UpdatedAt: fixtureTime,
	}

	GuestMember = entity.Member{
		ID:        "member3",
		Role:      entity.GuestRole,
		ProfileID: Profile3.ID,
		ServerID:  Server1.ID,
		CreatedAt: fixtureTime,
		UpdatedAt: fixtureTime,
	}

	Members = []entity.Member{AdminMember, ModeratorMember, GuestMember}
)

var (
	// Conversation1 is between the admin and the guest of Server1.
	Conversation1 = entity.Conversation{
		ID:          "conversation1",
		MemberOneID: AdminMember.ID,
		MemberTwoID: GuestMember.ID,
		CreatedAt:   fixtureTime,
		UpdatedAt:   fixtureTime,
	}

	Conversations = []entity.Conversation{Conversation1}
)

// CreateFixtureDb inserts every fixture into the database of ctx.
func CreateFixtureDb(ctx context.Context) {
	InsertProfiles(ctx)
	InsertServers(ctx)
	InsertChannels(ctx)
	InsertMembers(ctx)
	InsertConversations(ctx)
}

func InsertProfiles(ctx context.Context) {
	profileRepo := repository.NewProfileRepository(nil)
	for _, profile := range Profiles {
		profile := profile
		if err := profileRepo.Create(ctx, &profile); err != nil {
			panic(err)
		}
	}
}

func InsertServers(ctx context.Context) {
	serverRepo := repository.NewServerRepository()
	for _, server := range Servers {
		server := server
		if err := serverRepo.Create(ctx, &server); err != nil {
			panic(err)
		}
	}
}

func InsertChannels(ctx context.Context) {
	channelRepo := repository.NewChannelRepository()
	for _, channel := range Channels {
		channel := channel
		if err := channelRepo.Create(ctx, &channel); err != nil {
			panic(err)
		}
	}
}

func InsertMembers(ctx context.Context) {
	memberRepo := repository.NewMemberRepository()
	for _, member := range Members {
		member := member
		if err := memberRepo.Create(ctx, &member); err != nil {
			panic(err)
		}
	}
}

func InsertConversations(ctx context.Context) {
	conversationRepo := repository.NewConversationRepository()
	for _, conversation := range Conversations {
		conversation := conversation
		if err := conversationRepo.Create(ctx, &conversation); err != nil {
			panic(err)
		}
	}
}

// WithProfile authenticates ctx as the user owning profile.
func WithProfile(ctx context.Context, profile entity.Profile) context.Context {
	return xcontext.WithRequestUserID(ctx, profile.UserID)
}
