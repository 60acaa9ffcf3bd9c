package entity

import (
	"testing"

	"github.com/questx-lab/harmony/pkg/enum"
	"github.com/stretchr/testify/require"
)

func TestMemberRole_AtLeast(t *testing.T) {
	tests := []struct {
		role     MemberRole
		required MemberRole
		want     bool
	}{
		{role: GuestRole, required: GuestRole, want: true},
		{role: GuestRole, required: ModeratorRole, want: false},
		{role: GuestRole, required: AdminRole, want: false},
		{role: ModeratorRole, required: GuestRole, want: true},
		{role: ModeratorRole, required: ModeratorRole, want: true},
		{role: ModeratorRole, required: AdminRole, want: false},
		{role: AdminRole, required: GuestRole, want: true},
		{role: AdminRole, required: ModeratorRole, want: true},
		{role: AdminRole, required: AdminRole, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.role.String()+">="+tt.required.String(), func(t *testing.T) {
			require.Equal(t, tt.want, tt.role.AtLeast(tt.required))
		})
	}
}

func TestMemberRole_Enum(t *testing.T) {
	role, err := enum.ToEnum[MemberRole]("MODERATOR")
	require.NoError(t, err)
	require.Equal(t, ModeratorRole, role)

	_, err = enum.ToEnum[MemberRole]("OWNER")
	require.Error(t, err)

	require.Equal(t, []MemberRole{GuestRole, ModeratorRole, AdminRole}, enum.Values[MemberRole]())
}

func TestConversation_Participant(t *testing.T) {
	c := Conversation{
		MemberOne: Member{ID: "m1", ProfileID: "p1"},
		MemberTwo: Member{ID: "m2", ProfileID: "p2"},
	}

	m, ok := c.Participant("p2")
	require.True(t, ok)
	require.Equal(t, "m2", m.ID)

	_, ok = c.Participant("p3")
	require.False(t, ok)
}
